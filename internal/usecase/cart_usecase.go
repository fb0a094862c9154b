package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CartUsecase caches the session's cart. Every mutation adopts the server's cart wholesale.
type CartUsecase interface {
	StoreStatus

	Load(ctx context.Context) error
	AddToCart(ctx context.Context, productID int64, quantity int) (*entity.Cart, error)
	RemoveFromCart(ctx context.Context, cartItemID int64) (*entity.Cart, error)

	Cart() *entity.Cart
	Total() float64
	ItemCount() int
	Items() []entity.CartItem
	IsEmpty() bool
	Subscribe(fn func(*entity.Cart)) (cancel func())
	Reset()
}
