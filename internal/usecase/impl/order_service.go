package impl

import (
	"context"
	"log/slog"
	"net/http"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
	"storefront/internal/infra/transport"
	"storefront/internal/infra/validation"
	"storefront/internal/state"
	"storefront/internal/usecase"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	*resource

	client     Transport
	validator  *validation.Validator
	cache      *pageCache[entity.Order]
	lastParams *state.Value[entity.PageParams]
}

// NewOrderService is the constructor for orderService. Cached orders are dropped when the
// session ends.
func NewOrderService(
	client Transport,
	session usecase.SessionUsecase,
	validator *validation.Validator,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.OrderUsecase {
	srv := &orderService{
		resource:   newResource("orders", session, logger),
		client:     client,
		validator:  validator,
		cache:      newPageCache[entity.Order](cfg.State.DiscardStalePages),
		lastParams: state.NewValue(entity.PageParams{}),
	}
	srv.resetOnSignOut(session, srv.reset)

	return srv
}

// reset drops the cached orders of the previous session.
func (srv *orderService) reset() {
	srv.cache.reset()
	srv.lastParams.Set(entity.PageParams{})
	srv.ClearError()
}

// PlaceOrder turns the server-side cart into an order.
func (srv *orderService) PlaceOrder(ctx context.Context, req entity.PlaceOrderRequest) (*entity.Order, error) {
	defer srv.begin()()

	if err := srv.validator.Struct(req); err != nil {
		return nil, srv.fail(ctx, err, "Failed to place order")
	}

	var order entity.Order
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPost, Path: pathPlaceOrder, Body: req}, &order); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to place order"), "Failed to place order")
	}

	srv.log(ctx).Info("Order placed", slog.String("orderNumber", order.OrderNumber))

	return &order, nil
}

// ListMine fetches one page of the user's orders and caches it.
func (srv *orderService) ListMine(ctx context.Context, params entity.PageParams) (*entity.Page[entity.Order], error) {
	defer srv.begin()()

	srv.lastParams.Set(params)
	ticket := srv.cache.ticket()

	var page entity.Page[entity.Order]
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodGet, Path: pathOrders, Query: params.Query()}, &page); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to fetch orders"), "Failed to fetch orders")
	}

	if !srv.cache.adopt(ticket, &page) {
		srv.log(ctx).Debug("Discarded superseded orders page", slog.Int("page", page.PageNumber()))
	}

	return &page, nil
}

// Get fetches one order without touching the cached list.
func (srv *orderService) Get(ctx context.Context, orderID int64) (*entity.Order, error) {
	defer srv.begin()()

	var order entity.Order
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodGet, Path: idPath(pathOrders+"/", orderID)}, &order); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to fetch order"), "Failed to fetch order")
	}

	return &order, nil
}

// UpdateStatus requests a status transition. The backend decides whether it is allowed;
// the returned order carries the status it settled on.
func (srv *orderService) UpdateStatus(ctx context.Context, orderID int64, status entity.OrderStatus) (*entity.Order, error) {
	order, err := srv.updateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	if _, err := srv.ListMine(ctx, srv.lastParams.Get()); err != nil {
		return order, err
	}

	return order, nil
}

func (srv *orderService) updateStatus(ctx context.Context, orderID int64, status entity.OrderStatus) (*entity.Order, error) {
	defer srv.begin()()

	if !status.IsValid() {
		return nil, srv.fail(ctx, domainerrors.ErrInvalidOrderStatus.WithDetails(string(status)), "Failed to update order status")
	}

	body := entity.UpdateOrderStatusRequest{Status: status}

	var order entity.Order
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPut, Path: idPath(pathAdminOrders, orderID, "/status"), Body: body}, &order); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to update order status"), "Failed to update order status")
	}

	srv.log(ctx).Info("Order status updated", slog.Int64("orderID", orderID), slog.String("status", string(order.Status)))

	return &order, nil
}

func (srv *orderService) Orders() []entity.Order {
	return srv.cache.current()
}

func (srv *orderService) Page() *entity.Page[entity.Order] {
	return srv.cache.page.Get()
}

func (srv *orderService) Subscribe(fn func([]entity.Order)) (cancel func()) {
	return srv.cache.items.Subscribe(fn)
}
