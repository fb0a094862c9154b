package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CatalogUsecase caches product and category pages. Search, category filter and the
// plain listing share the product cache.
type CatalogUsecase interface {
	StoreStatus

	List(ctx context.Context, params entity.PageParams) (*entity.Page[entity.Product], error)
	Get(ctx context.Context, productID int64) (*entity.Product, error)
	Search(ctx context.Context, query string, params entity.PageParams) (*entity.Page[entity.Product], error)
	ByCategory(ctx context.Context, category string, params entity.PageParams) (*entity.Page[entity.Product], error)

	Create(ctx context.Context, req entity.ProductRequest, image *entity.Upload) (*entity.Product, error)
	Update(ctx context.Context, productID int64, req entity.ProductRequest) (*entity.Product, error)
	UpdateStock(ctx context.Context, productID int64, stock int) (*entity.Product, error)
	UploadImage(ctx context.Context, productID int64, image entity.Upload) (string, error)

	ListCategories(ctx context.Context, params entity.PageParams) (*entity.Page[entity.Category], error)
	CreateCategory(ctx context.Context, req entity.CategoryRequest) (*entity.Category, error)
	UpdateCategory(ctx context.Context, categoryID int64, req entity.CategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, categoryID int64) error

	Products() []entity.Product
	ProductPage() *entity.Page[entity.Product]
	Categories() []entity.Category
	SubscribeProducts(fn func([]entity.Product)) (cancel func())
	SubscribeCategories(fn func([]entity.Category)) (cancel func())
}

// BrowseMode is the active product fetch mode of the catalog browser.
type BrowseMode string

const (
	BrowseAll      BrowseMode = "all"
	BrowseSearch   BrowseMode = "search"
	BrowseCategory BrowseMode = "category"
)

// BrowseState is the browser's cursor and mode.
type BrowseState struct {
	Mode       BrowseMode
	Query      string
	Category   string
	Page       int
	Size       int
	SortBy     string
	Direction  entity.Direction
	TotalPages int
}

// CatalogBrowser owns the product page cursor and switches between the mutually
// exclusive fetch modes. Switching mode resets the cursor to the first page.
type CatalogBrowser interface {
	Load(ctx context.Context) error
	Search(ctx context.Context, query string) error
	SelectCategory(ctx context.Context, category string) error
	ShowAll(ctx context.Context) error
	Sort(ctx context.Context, field string) error
	GoToPage(ctx context.Context, page int) error

	State() BrowseState
	Subscribe(fn func(BrowseState)) (cancel func())
}
