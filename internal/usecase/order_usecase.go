package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// OrderUsecase caches the current page of the user's orders.
type OrderUsecase interface {
	StoreStatus

	PlaceOrder(ctx context.Context, req entity.PlaceOrderRequest) (*entity.Order, error)
	ListMine(ctx context.Context, params entity.PageParams) (*entity.Page[entity.Order], error)
	Get(ctx context.Context, orderID int64) (*entity.Order, error)
	// UpdateStatus requests a transition and re-fetches the list with the last parameters.
	UpdateStatus(ctx context.Context, orderID int64, status entity.OrderStatus) (*entity.Order, error)

	Orders() []entity.Order
	Page() *entity.Page[entity.Order]
	Subscribe(fn func([]entity.Order)) (cancel func())
}
