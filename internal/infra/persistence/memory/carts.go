package memory

import (
	"context"
	"slices"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

func (s *Store) GetCart(_ context.Context, userID int64) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneCart(s.cartOf(userID)), nil
}

func (s *Store) AddToCart(_ context.Context, userID, productID int64, quantity int) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, errors.WithStack(repository.ErrProductNotFound)
	}

	cart := s.cartOf(userID)
	idx := slices.IndexFunc(cart.Items, func(it entity.CartItem) bool { return it.ProductID == productID })

	wanted := quantity
	if idx >= 0 {
		wanted += cart.Items[idx].Quantity
	}
	if wanted > p.Stock {
		return nil, errors.WithStack(repository.ErrInsufficientStock)
	}

	if idx >= 0 {
		cart.Items[idx].Quantity = wanted
	} else {
		s.ids.cartItem++
		cart.Items = append(cart.Items, entity.CartItem{
			ID:           s.ids.cartItem,
			Quantity:     quantity,
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductImage: p.ImageURL,
		})
	}

	s.recomputeCart(cart)

	return cloneCart(cart), nil
}

func (s *Store) RemoveFromCart(_ context.Context, userID, itemID int64) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartOf(userID)
	before := len(cart.Items)
	cart.Items = slices.DeleteFunc(cart.Items, func(it entity.CartItem) bool { return it.ID == itemID })
	if len(cart.Items) == before {
		return nil, errors.WithStack(repository.ErrCartItemNotFound)
	}

	s.recomputeCart(cart)

	return cloneCart(cart), nil
}

// cartOf returns the live cart of a user, creating it on first access. Callers hold the
// write lock.
func (s *Store) cartOf(userID int64) *entity.Cart {
	cart, ok := s.carts[userID]
	if !ok {
		s.ids.cart++
		cart = &entity.Cart{ID: s.ids.cart, Items: []entity.CartItem{}}
		s.carts[userID] = cart
	}

	return cart
}

// recomputeCart refreshes unit prices from the catalog and derives every total.
func (s *Store) recomputeCart(cart *entity.Cart) {
	cart.TotalItems = 0
	cart.TotalPrice = 0
	for i := range cart.Items {
		it := &cart.Items[i]
		if p, ok := s.products[it.ProductID]; ok {
			it.UnitPrice = p.Price
			it.ProductName = p.Name
			it.ProductImage = p.ImageURL
		}
		it.Subtotal = it.UnitPrice * float64(it.Quantity)
		cart.TotalItems += it.Quantity
		cart.TotalPrice += it.Subtotal
	}
}
