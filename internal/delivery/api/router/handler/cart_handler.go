package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// CartHandler serves the caller's cart. Every answer is the whole cart with server totals.
type CartHandler struct {
	carts repository.CartRepository
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(carts repository.CartRepository) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	cart, err := h.carts.GetCart(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cart)
}

// AddToCart handles POST /cart/add?idProduct=&quantity=. Quantity defaults to 1.
func (h *CartHandler) AddToCart(c echo.Context) error {
	productID, err := strconv.ParseInt(c.QueryParam("idProduct"), 10, 64)
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid idProduct")
	}

	quantity := 1
	if raw := c.QueryParam("quantity"); raw != "" {
		if quantity, err = strconv.Atoi(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid quantity")
		}
	}
	if quantity < 1 {
		return errors.WithStack(domainerrors.ErrInvalidQuantity)
	}

	cart, err := h.carts.AddToCart(c.Request().Context(), middleware.CallerID(c), productID, quantity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cart)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	cart, err := h.carts.RemoveFromCart(c.Request().Context(), middleware.CallerID(c), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cart)
}
