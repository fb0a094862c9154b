package impl

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
	"storefront/internal/infra/transport"
	"storefront/internal/infra/validation"
	"storefront/internal/state"
	"storefront/internal/usecase"
)

// productFetch remembers how the product cache was last filled, so a mutation can refresh it.
type productFetch struct {
	path   string
	query  url.Values
	params entity.PageParams
}

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	*resource

	client     Transport
	validator  *validation.Validator
	products   *pageCache[entity.Product]
	categories *pageCache[entity.Category]

	lastProducts   *state.Value[productFetch]
	lastCategories *state.Value[entity.PageParams]
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	client Transport,
	session usecase.SessionUsecase,
	validator *validation.Validator,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		resource:       newResource("catalog", session, logger),
		client:         client,
		validator:      validator,
		products:       newPageCache[entity.Product](cfg.State.DiscardStalePages),
		categories:     newPageCache[entity.Category](cfg.State.DiscardStalePages),
		lastProducts:   state.NewValue(productFetch{path: pathProducts}),
		lastCategories: state.NewValue(entity.PageParams{}),
	}
}

// List fetches one page of all products.
func (srv *catalogService) List(ctx context.Context, params entity.PageParams) (*entity.Page[entity.Product], error) {
	return srv.fetchProducts(ctx, productFetch{path: pathProducts, params: params}, "Failed to fetch products")
}

// Search fetches one page of products matching query.
func (srv *catalogService) Search(ctx context.Context, query string, params entity.PageParams) (*entity.Page[entity.Product], error) {
	if strings.TrimSpace(query) == "" {
		defer srv.begin()()

		return nil, srv.fail(ctx, domainerrors.ErrEmptyQuery, "Search failed")
	}

	return srv.fetchProducts(ctx, productFetch{path: pathSearch, query: url.Values{"q": []string{query}}, params: params}, "Search failed")
}

// ByCategory fetches one page of the products of a category.
func (srv *catalogService) ByCategory(ctx context.Context, category string, params entity.PageParams) (*entity.Page[entity.Product], error) {
	path := pathByCategory + url.PathEscape(category)

	return srv.fetchProducts(ctx, productFetch{path: path, params: params}, "Failed to fetch products by category")
}

func (srv *catalogService) fetchProducts(ctx context.Context, fetch productFetch, fallback string) (*entity.Page[entity.Product], error) {
	defer srv.begin()()

	srv.lastProducts.Set(fetch)
	ticket := srv.products.ticket()

	query := url.Values{}
	for k, vs := range fetch.query {
		query[k] = vs
	}
	fetch.params.Apply(query)

	var page entity.Page[entity.Product]
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodGet, Path: fetch.path, Query: query}, &page); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to fetch products"), fallback)
	}

	if !srv.products.adopt(ticket, &page) {
		srv.log(ctx).Debug("Discarded superseded products page", slog.String("path", fetch.path))
	}

	return &page, nil
}

// Get fetches one product without touching the cached page.
func (srv *catalogService) Get(ctx context.Context, productID int64) (*entity.Product, error) {
	defer srv.begin()()

	var product entity.Product
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodGet, Path: idPath(pathProducts+"/", productID)}, &product); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to fetch product"), "Failed to fetch product")
	}

	return &product, nil
}

// Create adds a product. The product travels as a JSON part named "produit" next to the
// optional image part "file".
func (srv *catalogService) Create(ctx context.Context, req entity.ProductRequest, image *entity.Upload) (*entity.Product, error) {
	product, err := srv.create(ctx, req, image)
	if err != nil {
		return nil, err
	}

	return product, srv.refreshProducts(ctx)
}

func (srv *catalogService) create(ctx context.Context, req entity.ProductRequest, image *entity.Upload) (*entity.Product, error) {
	defer srv.begin()()

	if err := srv.validator.Struct(req); err != nil {
		return nil, srv.fail(ctx, err, "Failed to create product")
	}

	form := transport.NewForm()
	if err := form.AddJSON("produit", req); err != nil {
		return nil, srv.fail(ctx, err, "Failed to create product")
	}
	if image != nil {
		form.AddFile("file", *image)
	}

	var product entity.Product
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPost, Path: pathProductAdd, Form: form}, &product); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to create product"), "Failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Int64("productID", product.ID))

	return &product, nil
}

// Update replaces a product's fields.
func (srv *catalogService) Update(ctx context.Context, productID int64, req entity.ProductRequest) (*entity.Product, error) {
	product, err := srv.mutateProduct(ctx, "Failed to update product", func() (*transport.Request, error) {
		if err := srv.validator.Struct(req); err != nil {
			return nil, err
		}

		return &transport.Request{Method: http.MethodPut, Path: idPath(pathProducts+"/", productID), Body: req}, nil
	})
	if err != nil {
		return nil, err
	}

	return product, srv.refreshProducts(ctx)
}

// UpdateStock sets a product's stock level.
func (srv *catalogService) UpdateStock(ctx context.Context, productID int64, stock int) (*entity.Product, error) {
	product, err := srv.mutateProduct(ctx, "Failed to update stock", func() (*transport.Request, error) {
		if stock < 0 {
			return nil, domainerrors.NewValidationError(domainerrors.Field{Name: "stock", Message: "stock must not be negative"})
		}

		query := url.Values{"stock": []string{strconv.Itoa(stock)}}

		return &transport.Request{Method: http.MethodPatch, Path: idPath(pathProducts+"/", productID, "/stock"), Query: query}, nil
	})
	if err != nil {
		return nil, err
	}

	return product, srv.refreshProducts(ctx)
}

func (srv *catalogService) mutateProduct(ctx context.Context, fallback string, build func() (*transport.Request, error)) (*entity.Product, error) {
	defer srv.begin()()

	req, err := build()
	if err != nil {
		return nil, srv.fail(ctx, err, fallback)
	}

	var product entity.Product
	if err := srv.client.Do(ctx, req, &product); err != nil {
		return nil, srv.fail(ctx, errors.Wrapf(err, "failed to %s %s", req.Method, req.Path), fallback)
	}

	return &product, nil
}

// UploadImage replaces a product's image.
func (srv *catalogService) UploadImage(ctx context.Context, productID int64, image entity.Upload) (string, error) {
	msg, err := srv.uploadImage(ctx, productID, image)
	if err != nil {
		return "", err
	}

	return msg, srv.refreshProducts(ctx)
}

func (srv *catalogService) uploadImage(ctx context.Context, productID int64, image entity.Upload) (string, error) {
	defer srv.begin()()

	form := transport.NewForm().AddFile("file", image)

	var resp entity.MessageResponse
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPost, Path: idPath(pathProducts+"/", productID, "/update-image"), Form: form}, &resp); err != nil {
		return "", srv.fail(ctx, errors.Wrap(err, "failed to upload product image"), "Image upload failed")
	}

	return resp.Message, nil
}

// refreshProducts repeats the last product fetch.
func (srv *catalogService) refreshProducts(ctx context.Context) error {
	last := srv.lastProducts.Get()
	_, err := srv.fetchProducts(ctx, last, "Failed to fetch products")

	return err
}

// ListCategories fetches one page of categories.
func (srv *catalogService) ListCategories(ctx context.Context, params entity.PageParams) (*entity.Page[entity.Category], error) {
	defer srv.begin()()

	srv.lastCategories.Set(params)
	ticket := srv.categories.ticket()

	var page entity.Page[entity.Category]
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodGet, Path: pathCategories, Query: params.Query()}, &page); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to fetch categories"), "Failed to fetch categories")
	}

	srv.categories.adopt(ticket, &page)

	return &page, nil
}

// CreateCategory adds a category and refreshes the category list.
func (srv *catalogService) CreateCategory(ctx context.Context, req entity.CategoryRequest) (*entity.Category, error) {
	category, err := srv.mutateCategory(ctx, "Failed to create category", req, http.MethodPost, pathCategory)
	if err != nil {
		return nil, err
	}

	return category, srv.refreshCategories(ctx)
}

// UpdateCategory renames a category and refreshes the category list.
func (srv *catalogService) UpdateCategory(ctx context.Context, categoryID int64, req entity.CategoryRequest) (*entity.Category, error) {
	category, err := srv.mutateCategory(ctx, "Failed to update category", req, http.MethodPatch, idPath(pathCategory+"/", categoryID))
	if err != nil {
		return nil, err
	}

	return category, srv.refreshCategories(ctx)
}

func (srv *catalogService) mutateCategory(ctx context.Context, fallback string, req entity.CategoryRequest, method, path string) (*entity.Category, error) {
	defer srv.begin()()

	if err := srv.validator.Struct(req); err != nil {
		return nil, srv.fail(ctx, err, fallback)
	}

	query := url.Values{"name": []string{req.Name}}

	var category entity.Category
	if err := srv.client.Do(ctx, &transport.Request{Method: method, Path: path, Query: query}, &category); err != nil {
		return nil, srv.fail(ctx, errors.Wrapf(err, "failed to %s %s", method, path), fallback)
	}

	return &category, nil
}

// DeleteCategory removes a category and refreshes the category list.
func (srv *catalogService) DeleteCategory(ctx context.Context, categoryID int64) error {
	if err := srv.deleteCategory(ctx, categoryID); err != nil {
		return err
	}

	return srv.refreshCategories(ctx)
}

func (srv *catalogService) deleteCategory(ctx context.Context, categoryID int64) error {
	defer srv.begin()()

	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodDelete, Path: idPath(pathCategory+"/", categoryID)}, nil); err != nil {
		return srv.fail(ctx, errors.Wrap(err, "failed to delete category"), "Failed to delete category")
	}

	return nil
}

func (srv *catalogService) refreshCategories(ctx context.Context) error {
	_, err := srv.ListCategories(ctx, srv.lastCategories.Get())

	return err
}

func (srv *catalogService) Products() []entity.Product {
	return srv.products.current()
}

func (srv *catalogService) ProductPage() *entity.Page[entity.Product] {
	return srv.products.page.Get()
}

func (srv *catalogService) Categories() []entity.Category {
	return srv.categories.current()
}

func (srv *catalogService) SubscribeProducts(fn func([]entity.Product)) (cancel func()) {
	return srv.products.items.Subscribe(fn)
}

func (srv *catalogService) SubscribeCategories(fn func([]entity.Category)) (cancel func()) {
	return srv.categories.items.Subscribe(fn)
}
