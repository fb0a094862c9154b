package impl

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/validation"
	"storefront/internal/usecase"
)

func newBrowser(t *testing.T, totalPages int) (usecase.CatalogBrowser, *productsBackend) {
	t.Helper()

	backend := &productsBackend{total: totalPages}
	mux := http.NewServeMux()
	backend.register(mux)

	client, _ := newTestClient(t, mux)
	catalog := NewCatalogService(client, nil, validation.New(), testConfig(), testLogger)

	return NewCatalogBrowser(catalog), backend
}

func TestCatalogBrowser_LoadUsesDefaults(t *testing.T) {
	browser, backend := newBrowser(t, 4)

	require.NoError(t, browser.Load(context.Background()))

	path, query := backend.last()
	assert.Equal(t, "/products", path)
	assert.Equal(t, "0", query.Get("page"))
	assert.Equal(t, "10", query.Get("size"))
	assert.Equal(t, "id", query.Get("sortBy"))
	assert.Equal(t, "asc", query.Get("direction"))
	assert.Equal(t, 4, browser.State().TotalPages)
}

func TestCatalogBrowser_CategoryThenSearchResetsPage(t *testing.T) {
	browser, backend := newBrowser(t, 5)
	ctx := context.Background()

	require.NoError(t, browser.SelectCategory(ctx, "Home"))
	require.NoError(t, browser.GoToPage(ctx, 3))

	path, query := backend.last()
	assert.Equal(t, "/products/category/Home", path)
	assert.Equal(t, "3", query.Get("page"))

	require.NoError(t, browser.Search(ctx, "lamp"))

	state := browser.State()
	assert.Equal(t, usecase.BrowseSearch, state.Mode)
	assert.Empty(t, state.Category)
	assert.Zero(t, state.Page)

	path, query = backend.last()
	assert.Equal(t, "/products/search", path)
	assert.Equal(t, "lamp", query.Get("q"))
	assert.Equal(t, "0", query.Get("page"))
}

func TestCatalogBrowser_SelectCategoryClearsQuery(t *testing.T) {
	browser, _ := newBrowser(t, 2)
	ctx := context.Background()

	require.NoError(t, browser.Search(ctx, "lamp"))
	require.NoError(t, browser.SelectCategory(ctx, "Office"))

	state := browser.State()
	assert.Equal(t, usecase.BrowseCategory, state.Mode)
	assert.Empty(t, state.Query)
	assert.Equal(t, "Office", state.Category)

	require.NoError(t, browser.SelectCategory(ctx, ""))
	assert.Equal(t, usecase.BrowseAll, browser.State().Mode)
}

func TestCatalogBrowser_EmptySearchFallsBack(t *testing.T) {
	browser, backend := newBrowser(t, 2)
	ctx := context.Background()

	require.NoError(t, browser.Search(ctx, "  "))

	path, _ := backend.last()
	assert.Equal(t, "/products", path)
	assert.Equal(t, usecase.BrowseAll, browser.State().Mode)
}

func TestCatalogBrowser_Sort(t *testing.T) {
	browser, backend := newBrowser(t, 3)
	ctx := context.Background()

	require.NoError(t, browser.Load(ctx))
	require.NoError(t, browser.GoToPage(ctx, 2))

	require.NoError(t, browser.Sort(ctx, "id"))
	state := browser.State()
	assert.Equal(t, entity.Descending, state.Direction)
	assert.Zero(t, state.Page)

	require.NoError(t, browser.Sort(ctx, "price"))
	state = browser.State()
	assert.Equal(t, "price", state.SortBy)
	assert.Equal(t, entity.Ascending, state.Direction)

	_, query := backend.last()
	assert.Equal(t, "price", query.Get("sortBy"))
	assert.Equal(t, "asc", query.Get("direction"))
}

func TestCatalogBrowser_GoToPageOutOfRange(t *testing.T) {
	browser, backend := newBrowser(t, 2)
	ctx := context.Background()

	require.NoError(t, browser.Load(ctx))
	calls := len(backend.paths)

	require.NoError(t, browser.GoToPage(ctx, 2))
	require.NoError(t, browser.GoToPage(ctx, -1))

	assert.Len(t, backend.paths, calls)
	assert.Zero(t, browser.State().Page)
}
