package entity

import (
	"net/url"
	"strconv"
)

// Direction is a sort direction understood by the backend.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Ascending {
		return Descending
	}

	return Ascending
}

// Page is the paginated envelope every list endpoint returns. The server owns the counts.
type Page[T any] struct {
	Content  []T `json:"content"`
	Pageable struct {
		PageNumber int `json:"pageNumber"`
		PageSize   int `json:"pageSize"`
	} `json:"pageable"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// PageNumber returns the zero-based index of this page.
func (p *Page[T]) PageNumber() int {
	if p.Number != 0 {
		return p.Number
	}

	return p.Pageable.PageNumber
}

// PageSize returns the requested page size.
func (p *Page[T]) PageSize() int {
	if p.Size != 0 {
		return p.Size
	}

	return p.Pageable.PageSize
}

// IsFirst reports whether this is the first page.
func (p *Page[T]) IsFirst() bool { return p.First }

// IsLast reports whether this is the last page.
func (p *Page[T]) IsLast() bool { return p.Last }

// PageParams are the optional pagination parameters of a list request.
// Unset parameters are omitted from the query so the backend applies its defaults.
type PageParams struct {
	Page      *int
	Size      *int
	SortBy    string
	Direction Direction
}

// WithPage returns a copy with the page index set.
func (p PageParams) WithPage(page int) PageParams {
	p.Page = &page

	return p
}

// WithSize returns a copy with the page size set.
func (p PageParams) WithSize(size int) PageParams {
	p.Size = &size

	return p
}

// SortedBy returns a copy sorted on field in the given direction.
func (p PageParams) SortedBy(field string, dir Direction) PageParams {
	p.SortBy = field
	p.Direction = dir

	return p
}

// Apply adds the set parameters to q.
func (p PageParams) Apply(q url.Values) {
	if p.Page != nil {
		q.Set("page", strconv.Itoa(*p.Page))
	}
	if p.Size != nil {
		q.Set("size", strconv.Itoa(*p.Size))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.Direction != "" {
		q.Set("direction", string(p.Direction))
	}
}

// Query returns the parameters as a fresh url.Values.
func (p PageParams) Query() url.Values {
	q := url.Values{}
	p.Apply(q)

	return q
}
