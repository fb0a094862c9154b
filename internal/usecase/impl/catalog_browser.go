package impl

import (
	"context"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/state"
	"storefront/internal/usecase"
)

const (
	defaultBrowsePageSize = 10
	defaultBrowseSortBy   = "id"
)

// catalogBrowser implements the CatalogBrowser interface on top of the catalog store.
type catalogBrowser struct {
	catalog usecase.CatalogUsecase
	state   *state.Value[usecase.BrowseState]
}

// NewCatalogBrowser is the constructor for catalogBrowser.
func NewCatalogBrowser(catalog usecase.CatalogUsecase) usecase.CatalogBrowser {
	return &catalogBrowser{
		catalog: catalog,
		state: state.NewValue(usecase.BrowseState{
			Mode:      usecase.BrowseAll,
			Size:      defaultBrowsePageSize,
			SortBy:    defaultBrowseSortBy,
			Direction: entity.Ascending,
		}),
	}
}

// Load fetches the current page in the current mode.
func (b *catalogBrowser) Load(ctx context.Context) error {
	return b.fetch(ctx, b.state.Get())
}

// Search switches to search mode on the first page. An empty query leaves search mode.
func (b *catalogBrowser) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)

	next := b.state.Update(func(s usecase.BrowseState) usecase.BrowseState {
		s.Page = 0
		s.Query = query
		switch {
		case query != "":
			s.Mode = usecase.BrowseSearch
			s.Category = ""
		case s.Category != "":
			s.Mode = usecase.BrowseCategory
		default:
			s.Mode = usecase.BrowseAll
		}

		return s
	})

	return b.fetch(ctx, next)
}

// SelectCategory switches to category mode on the first page and drops the search query.
// An empty category shows all products.
func (b *catalogBrowser) SelectCategory(ctx context.Context, category string) error {
	next := b.state.Update(func(s usecase.BrowseState) usecase.BrowseState {
		s.Page = 0
		s.Query = ""
		s.Category = category
		s.Mode = usecase.BrowseCategory
		if category == "" {
			s.Mode = usecase.BrowseAll
		}

		return s
	})

	return b.fetch(ctx, next)
}

// ShowAll leaves search and category mode.
func (b *catalogBrowser) ShowAll(ctx context.Context) error {
	next := b.state.Update(func(s usecase.BrowseState) usecase.BrowseState {
		s.Page = 0
		s.Query = ""
		s.Category = ""
		s.Mode = usecase.BrowseAll

		return s
	})

	return b.fetch(ctx, next)
}

// Sort flips the direction when field is already the sort key, otherwise sorts
// ascending on field. Either way the cursor returns to the first page.
func (b *catalogBrowser) Sort(ctx context.Context, field string) error {
	next := b.state.Update(func(s usecase.BrowseState) usecase.BrowseState {
		if s.SortBy == field {
			s.Direction = s.Direction.Toggle()
		} else {
			s.SortBy = field
			s.Direction = entity.Ascending
		}
		s.Page = 0

		return s
	})

	return b.fetch(ctx, next)
}

// GoToPage moves the cursor. Pages outside the last known page count are ignored.
func (b *catalogBrowser) GoToPage(ctx context.Context, page int) error {
	cur := b.state.Get()
	if page < 0 || page >= cur.TotalPages {
		return nil
	}

	next := b.state.Update(func(s usecase.BrowseState) usecase.BrowseState {
		s.Page = page

		return s
	})

	return b.fetch(ctx, next)
}

func (b *catalogBrowser) State() usecase.BrowseState {
	return b.state.Get()
}

func (b *catalogBrowser) Subscribe(fn func(usecase.BrowseState)) (cancel func()) {
	return b.state.Subscribe(fn)
}

func (b *catalogBrowser) fetch(ctx context.Context, s usecase.BrowseState) error {
	params := entity.PageParams{}.
		WithPage(s.Page).
		WithSize(s.Size).
		SortedBy(s.SortBy, s.Direction)

	var (
		page *entity.Page[entity.Product]
		err  error
	)
	switch s.Mode {
	case usecase.BrowseSearch:
		page, err = b.catalog.Search(ctx, s.Query, params)
	case usecase.BrowseCategory:
		page, err = b.catalog.ByCategory(ctx, s.Category, params)
	default:
		page, err = b.catalog.List(ctx, params)
	}
	if err != nil {
		return err
	}

	b.state.Update(func(cur usecase.BrowseState) usecase.BrowseState {
		// A newer mode switch owns the page count.
		if cur.Mode == s.Mode && cur.Query == s.Query && cur.Category == s.Category {
			cur.TotalPages = page.TotalPages
		}

		return cur
	})

	return nil
}
