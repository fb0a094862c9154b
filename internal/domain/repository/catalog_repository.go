package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// Domain-specific errors for catalog persistence.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryInUse    = errors.New("category still has products")
)

// ProductRepository defines the operations for the product catalog.
type ProductRepository interface {
	ListProducts(ctx context.Context, page PageRequest) (*entity.Page[entity.Product], error)

	// SearchProducts matches query against name and description, case-insensitively.
	SearchProducts(ctx context.Context, query string, page PageRequest) (*entity.Page[entity.Product], error)

	// ListProductsByCategory matches the category name, case-insensitively.
	ListProductsByCategory(ctx context.Context, category string, page PageRequest) (*entity.Page[entity.Product], error)

	FindProduct(ctx context.Context, id int64) (*entity.Product, error)

	// CreateProduct persists a product. The category is resolved by ID, then by name.
	CreateProduct(ctx context.Context, req entity.ProductRequest) (*entity.Product, error)

	UpdateProduct(ctx context.Context, id int64, req entity.ProductRequest) (*entity.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int) (*entity.Product, error)
	SetProductImage(ctx context.Context, id int64, url string) (*entity.Product, error)
}

// CategoryRepository defines the operations for product categories.
type CategoryRepository interface {
	ListCategories(ctx context.Context, page PageRequest) (*entity.Page[entity.Category], error)
	CreateCategory(ctx context.Context, name string) (*entity.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}
