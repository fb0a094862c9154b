package impl

import (
	"context"
	"log/slog"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"
)

// checkoutService implements the CheckoutUsecase interface.
type checkoutService struct {
	*resource

	session usecase.SessionUsecase
	cart    usecase.CartUsecase
	orders  usecase.OrderUsecase
}

// NewCheckoutService is the constructor for checkoutService.
func NewCheckoutService(
	session usecase.SessionUsecase,
	cart usecase.CartUsecase,
	orders usecase.OrderUsecase,
	logger *slog.Logger,
) usecase.CheckoutUsecase {
	return &checkoutService{
		resource: newResource("checkout", session, logger),
		session:  session,
		cart:     cart,
		orders:   orders,
	}
}

// DefaultAddress returns the first address of the signed-in user.
func (srv *checkoutService) DefaultAddress() *entity.Address {
	user := srv.session.User()
	if user == nil || len(user.Addresses) == 0 {
		return nil
	}

	addr := user.Addresses[0]

	return &addr
}

// PlaceOrder submits the cart. A missing address fails before any network call; an empty
// payment method means cash on delivery.
func (srv *checkoutService) PlaceOrder(ctx context.Context, addressID int64, method entity.PaymentMethod) (*entity.Order, error) {
	defer srv.begin()()

	if addressID <= 0 {
		return nil, srv.fail(ctx, domainerrors.ErrShippingAddressRequired, "Failed to place order")
	}
	if method == "" {
		method = entity.PaymentCashOnDelivery
	}

	order, err := srv.orders.PlaceOrder(ctx, entity.PlaceOrderRequest{ShippingAddressID: addressID, PaymentMethod: method})
	if err != nil {
		return nil, srv.fail(ctx, err, "Failed to place order")
	}

	if err := srv.cart.Load(ctx); err != nil {
		srv.log(ctx).Warn("Cart reload after checkout failed", slog.Any("error", err))
	}

	return order, nil
}
