package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// Domain-specific errors for carts and orders.
var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderClosed       = errors.New("order is already delivered or cancelled")
)

// CartRepository defines the operations on the single cart of each user. Totals are
// always recomputed by the store.
type CartRepository interface {
	// GetCart returns the user's cart, creating an empty one on first access.
	GetCart(ctx context.Context, userID int64) (*entity.Cart, error)

	// AddToCart adds quantity units of a product, merging with an existing line.
	AddToCart(ctx context.Context, userID, productID int64, quantity int) (*entity.Cart, error)

	// RemoveFromCart deletes one line of the user's cart.
	RemoveFromCart(ctx context.Context, userID, itemID int64) (*entity.Cart, error)
}

// OrderRepository defines the operations on orders.
type OrderRepository interface {
	// PlaceOrder turns the user's cart into an order, decrements stock and empties the cart
	// in one step.
	PlaceOrder(ctx context.Context, userID int64, req entity.PlaceOrderRequest) (*entity.Order, error)

	ListOrdersByUser(ctx context.Context, userID int64, page PageRequest) (*entity.Page[entity.Order], error)

	// FindOrder retrieves an order; ownerID 0 skips the ownership check.
	FindOrder(ctx context.Context, ownerID, orderID int64) (*entity.Order, error)

	UpdateOrderStatus(ctx context.Context, orderID int64, status entity.OrderStatus) (*entity.Order, error)
}
