package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// CategoryHandler serves product categories.
type CategoryHandler struct {
	categories repository.CategoryRepository
}

// NewCategoryHandler is the constructor for CategoryHandler, injected by Fx.
func NewCategoryHandler(categories repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	page, err := h.categories.ListCategories(c.Request().Context(), pageRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page)
}

// Create handles POST /category?name=.
func (h *CategoryHandler) Create(c echo.Context) error {
	req, err := categoryName(c)
	if err != nil {
		return err
	}

	category, err := h.categories.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, category)
}

// Rename handles PATCH /category/{id}?name=.
func (h *CategoryHandler) Rename(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	req, err := categoryName(c)
	if err != nil {
		return err
	}

	category, err := h.categories.RenameCategory(c.Request().Context(), id, req.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.categories.DeleteCategory(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Category deleted")
}

func categoryName(c echo.Context) (entity.CategoryRequest, error) {
	req := entity.CategoryRequest{Name: strings.TrimSpace(c.QueryParam("name"))}

	return req, c.Validate(req)
}
