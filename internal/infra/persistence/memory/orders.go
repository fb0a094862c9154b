package memory

import (
	"context"
	"fmt"
	"slices"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

func (s *Store) PlaceOrder(_ context.Context, userID int64, req entity.PlaceOrderRequest) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[userID]
	if !ok {
		return nil, errors.WithStack(repository.ErrUserNotFound)
	}
	idx := slices.IndexFunc(rec.user.Addresses, func(a entity.Address) bool { return a.ID == req.ShippingAddressID })
	if idx < 0 {
		return nil, errors.WithStack(repository.ErrAddressNotFound)
	}

	cart := s.cartOf(userID)
	if len(cart.Items) == 0 {
		return nil, errors.WithStack(repository.ErrEmptyCart)
	}
	s.recomputeCart(cart)

	for _, it := range cart.Items {
		p, ok := s.products[it.ProductID]
		if !ok {
			return nil, errors.WithStack(repository.ErrProductNotFound)
		}
		if p.Stock < it.Quantity {
			return nil, errors.WithMessagef(repository.ErrInsufficientStock, "product %d", p.ID)
		}
	}

	now := s.now()
	s.ids.order++
	order := entity.Order{
		ID:              s.ids.order,
		OrderNumber:     fmt.Sprintf("ORD-%s-%05d", now.Format("20060102"), s.ids.order),
		TotalAmount:     cart.TotalPrice,
		Status:          entity.OrderNew,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: rec.user.Addresses[idx],
		Items:           make([]entity.OrderItem, 0, len(cart.Items)),
		CreatedAt:       entity.NewTimestamp(now),
		UpdatedAt:       entity.NewTimestamp(now),
	}
	for i, it := range cart.Items {
		p := *s.products[it.ProductID]
		p.Stock -= it.Quantity
		s.products[p.ID] = &p

		order.Items = append(order.Items, entity.OrderItem{
			ID:          int64(i + 1),
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}

	s.orders[order.ID] = &orderRecord{userID: userID, order: order}
	cart.Items = []entity.CartItem{}
	s.recomputeCart(cart)

	return cloneOrder(&order), nil
}

func (s *Store) ListOrdersByUser(_ context.Context, userID int64, page repository.PageRequest) (*entity.Page[entity.Order], error) {
	s.mu.RLock()
	orders := make([]entity.Order, 0)
	for _, rec := range s.orders {
		if rec.userID == userID {
			orders = append(orders, *cloneOrder(&rec.order))
		}
	}
	s.mu.RUnlock()

	return paginate(orders, page, orderSorts), nil
}

func (s *Store) FindOrder(_ context.Context, ownerID, orderID int64) (*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.orders[orderID]
	if !ok || (ownerID != 0 && rec.userID != ownerID) {
		return nil, errors.WithStack(repository.ErrOrderNotFound)
	}

	return cloneOrder(&rec.order), nil
}

// UpdateOrderStatus moves an open order to status. Delivered and cancelled orders are final.
func (s *Store) UpdateOrderStatus(_ context.Context, orderID int64, status entity.OrderStatus) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[orderID]
	if !ok {
		return nil, errors.WithStack(repository.ErrOrderNotFound)
	}
	if rec.order.Status.IsTerminal() && rec.order.Status != status {
		return nil, errors.WithStack(repository.ErrOrderClosed)
	}

	rec.order.Status = status
	rec.order.UpdatedAt = entity.NewTimestamp(s.now())

	return cloneOrder(&rec.order), nil
}
