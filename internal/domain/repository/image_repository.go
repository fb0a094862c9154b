package repository

import (
	"context"

	"storefront/internal/errors"
)

// ErrImageNotFound is returned when no image is stored under a name.
var ErrImageNotFound = errors.New("image not found")

// Image is an uploaded picture.
type Image struct {
	Name        string
	ContentType string
	Content     []byte
}

// ImageRepository stores uploaded pictures and serves them back by name.
type ImageRepository interface {
	// SaveImage stores img under a fresh name and returns that name.
	SaveImage(ctx context.Context, img Image) (string, error)

	FindImage(ctx context.Context, name string) (*Image, error)
}
