package repository

import (
	"net/url"
	"strconv"

	"storefront/internal/domain/entity"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	defaultSortBy   = "id"
)

// PageRequest is a parsed pagination query. Unknown sort fields fall back to id.
type PageRequest struct {
	Page      int
	Size      int
	SortBy    string
	Direction entity.Direction
}

// ParsePageRequest reads page, size, sortBy and direction from q, applying defaults for
// absent or malformed values.
func ParsePageRequest(q url.Values) PageRequest {
	req := PageRequest{Page: 0, Size: defaultPageSize, SortBy: defaultSortBy, Direction: entity.Ascending}

	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 0 {
		req.Page = n
	}
	if n, err := strconv.Atoi(q.Get("size")); err == nil && n > 0 {
		req.Size = min(n, maxPageSize)
	}
	if s := q.Get("sortBy"); s != "" {
		req.SortBy = s
	}
	if entity.Direction(q.Get("direction")) == entity.Descending {
		req.Direction = entity.Descending
	}

	return req
}

// Descending reports whether the page is sorted high to low.
func (r PageRequest) Descending() bool {
	return r.Direction == entity.Descending
}
