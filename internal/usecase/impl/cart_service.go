package impl

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
	"storefront/internal/infra/transport"
	"storefront/internal/state"
	"storefront/internal/usecase"
)

// cartService implements the CartUsecase interface. The cached cart is always the last
// cart the server returned; concurrent mutations resolve as last-landed-wins.
type cartService struct {
	*resource

	client Transport
	cart   *state.Value[*entity.Cart]
}

// NewCartService is the constructor for cartService. The cart resets itself whenever the
// session becomes unauthenticated.
func NewCartService(client Transport, session usecase.SessionUsecase, logger *slog.Logger) usecase.CartUsecase {
	srv := &cartService{
		resource: newResource("cart", session, logger),
		client:   client,
		cart:     state.NewValue[*entity.Cart](nil),
	}

	session.Subscribe(func(s entity.Session) {
		if s.Status == entity.SessionUnauthenticated && srv.cart.Get() != nil {
			srv.Reset()
		}
	})

	return srv
}

// Load fetches the session's cart.
func (srv *cartService) Load(ctx context.Context) error {
	defer srv.begin()()

	var cart entity.Cart
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodGet, Path: pathCart}, &cart); err != nil {
		return srv.fail(ctx, errors.Wrap(err, "failed to load cart"), "Failed to load cart")
	}

	srv.cart.Set(&cart)

	return nil
}

// AddToCart adds quantity units of a product and adopts the returned cart.
func (srv *cartService) AddToCart(ctx context.Context, productID int64, quantity int) (*entity.Cart, error) {
	defer srv.begin()()

	if quantity < 1 {
		return nil, srv.fail(ctx, domainerrors.ErrInvalidQuantity, "Failed to add item to cart")
	}

	query := url.Values{}
	query.Set("idProduct", strconv.FormatInt(productID, 10))
	query.Set("quantity", strconv.Itoa(quantity))

	var cart entity.Cart
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPost, Path: pathCartAdd, Query: query}, &cart); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to add item to cart"), "Failed to add item to cart")
	}

	srv.cart.Set(&cart)
	srv.log(ctx).Debug("Cart updated", slog.Int("totalItems", cart.TotalItems))

	return &cart, nil
}

// RemoveFromCart deletes a cart line and adopts the returned cart.
func (srv *cartService) RemoveFromCart(ctx context.Context, cartItemID int64) (*entity.Cart, error) {
	defer srv.begin()()

	var cart entity.Cart
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodDelete, Path: idPath(pathCartRemove, cartItemID)}, &cart); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to remove item from cart"), "Failed to remove item from cart")
	}

	srv.cart.Set(&cart)

	return &cart, nil
}

func (srv *cartService) Cart() *entity.Cart {
	return srv.cart.Get()
}

// Total is the server-computed price of the cart, zero without a cart.
func (srv *cartService) Total() float64 {
	if c := srv.cart.Get(); c != nil {
		return c.TotalPrice
	}

	return 0
}

// ItemCount is the server-computed number of units in the cart.
func (srv *cartService) ItemCount() int {
	if c := srv.cart.Get(); c != nil {
		return c.TotalItems
	}

	return 0
}

func (srv *cartService) Items() []entity.CartItem {
	if c := srv.cart.Get(); c != nil && c.Items != nil {
		return c.Items
	}

	return []entity.CartItem{}
}

func (srv *cartService) IsEmpty() bool {
	return len(srv.Items()) == 0
}

func (srv *cartService) Subscribe(fn func(*entity.Cart)) (cancel func()) {
	return srv.cart.Subscribe(fn)
}

// Reset drops the cached cart and any recorded error.
func (srv *cartService) Reset() {
	srv.cart.Set(nil)
	srv.ClearError()
}
