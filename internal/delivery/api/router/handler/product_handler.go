package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

const productPart = "produit"

// ProductHandler serves the product catalog.
type ProductHandler struct {
	products repository.ProductRepository
	images   repository.ImageRepository
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(products repository.ProductRepository, images repository.ImageRepository) *ProductHandler {
	return &ProductHandler{products: products, images: images}
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	page, err := h.products.ListProducts(c.Request().Context(), pageRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.products.FindProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product)
}

// Search matches q against names and descriptions.
func (h *ProductHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return errors.WithStack(domainerrors.ErrEmptyQuery)
	}

	page, err := h.products.SearchProducts(c.Request().Context(), q, pageRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page)
}

func (h *ProductHandler) ListByCategory(c echo.Context) error {
	page, err := h.products.ListProductsByCategory(c.Request().Context(), c.Param("name"), pageRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page)
}

// Create handles the multipart product creation: a JSON "produit" part and an optional "file".
func (h *ProductHandler) Create(c echo.Context) error {
	req, err := h.productPart(c)
	if err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	product, err := h.products.CreateProduct(ctx, *req)
	if err != nil {
		return errors.WithStack(err)
	}

	if _, err := c.FormFile("file"); err == nil {
		img, err := readImage(c, "file")
		if err != nil {
			return err
		}
		name, err := h.images.SaveImage(ctx, img)
		if err != nil {
			return errors.WithStack(err)
		}
		if product, err = h.products.SetProductImage(ctx, product.ID, imageURL(name)); err != nil {
			return errors.WithStack(err)
		}
	}

	return response.Success(c, http.StatusCreated, product)
}

// productPart reads the product JSON from a file part or, failing that, a plain field.
func (h *ProductHandler) productPart(c echo.Context) (*entity.ProductRequest, error) {
	var data []byte
	if header, err := c.FormFile(productPart); err == nil {
		if data, err = readPart(header); err != nil {
			return nil, err
		}
	} else {
		data = []byte(c.FormValue(productPart))
	}

	var req entity.ProductRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Malformed "+productPart+" part")
	}

	return &req, nil
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req entity.ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.products.UpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product)
}

// UpdateStock handles PATCH /products/{id}/stock?stock=.
func (h *ProductHandler) UpdateStock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	stock, err := strconv.Atoi(c.QueryParam("stock"))
	if err != nil || stock < 0 {
		return domainerrors.NewValidationError(domainerrors.Field{Name: "stock", Message: "stock must be a non-negative integer"})
	}

	product, err := h.products.UpdateStock(c.Request().Context(), id, stock)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product)
}

func (h *ProductHandler) UploadImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	img, err := readImage(c, "file")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.products.FindProduct(ctx, id); err != nil {
		return errors.WithStack(err)
	}
	name, err := h.images.SaveImage(ctx, img)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := h.products.SetProductImage(ctx, id, imageURL(name)); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, imageURL(name))
}
