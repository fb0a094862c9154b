package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CheckoutUsecase turns the cart into an order.
type CheckoutUsecase interface {
	StoreStatus

	// DefaultAddress is the first address of the signed-in user, if any.
	DefaultAddress() *entity.Address
	// PlaceOrder validates the selection locally, places the order, then reloads the cart.
	PlaceOrder(ctx context.Context, addressID int64, method entity.PaymentMethod) (*entity.Order, error)
}
