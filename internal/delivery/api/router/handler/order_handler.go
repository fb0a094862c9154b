package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// OrderHandler serves order placement, history and the administrator status edit.
type OrderHandler struct {
	orders repository.OrderRepository
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(orders repository.OrderRepository) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// PlaceOrder turns the caller's cart into an order.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	var req entity.PlaceOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orders.PlaceOrder(c.Request().Context(), middleware.CallerID(c), req)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	page, err := h.orders.ListOrdersByUser(c.Request().Context(), middleware.CallerID(c), pageRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page)
}

// GetOrder returns one of the caller's orders. Administrators may read any order.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	owner := middleware.CallerID(c)
	if middleware.CallerRoles(c).Has(entity.RoleAdmin) {
		owner = 0
	}

	order, err := h.orders.FindOrder(c.Request().Context(), owner, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req entity.UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orders.UpdateOrderStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order)
}
