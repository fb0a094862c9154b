package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// ImageHandler serves uploaded pictures.
type ImageHandler struct {
	images repository.ImageRepository
}

// NewImageHandler is the constructor for ImageHandler, injected by Fx.
func NewImageHandler(images repository.ImageRepository) *ImageHandler {
	return &ImageHandler{images: images}
}

func (h *ImageHandler) GetImage(c echo.Context) error {
	img, err := h.images.FindImage(c.Request().Context(), c.Param("name"))
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")

	return c.Blob(http.StatusOK, img.ContentType, img.Content)
}
