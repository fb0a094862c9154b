package memory

import (
	"cmp"
	"slices"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

// sortKeys maps a sortBy value to a comparison. The "id" key must always be present.
type sortKeys[T any] map[string]func(a, b T) int

var productSorts = sortKeys[entity.Product]{
	"id":    func(a, b entity.Product) int { return cmp.Compare(a.ID, b.ID) },
	"name":  func(a, b entity.Product) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
	"price": func(a, b entity.Product) int { return cmp.Compare(a.Price, b.Price) },
	"stock": func(a, b entity.Product) int { return cmp.Compare(a.Stock, b.Stock) },
}

var categorySorts = sortKeys[entity.Category]{
	"id":   func(a, b entity.Category) int { return cmp.Compare(a.ID, b.ID) },
	"name": func(a, b entity.Category) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
}

var userSorts = sortKeys[entity.User]{
	"id":       func(a, b entity.User) int { return cmp.Compare(a.ID, b.ID) },
	"username": func(a, b entity.User) int { return strings.Compare(a.Username, b.Username) },
	"email":    func(a, b entity.User) int { return strings.Compare(a.Email, b.Email) },
}

var orderSorts = sortKeys[entity.Order]{
	"id":          func(a, b entity.Order) int { return cmp.Compare(a.ID, b.ID) },
	"createdAt":   func(a, b entity.Order) int { return a.CreatedAt.Compare(b.CreatedAt.Time) },
	"totalAmount": func(a, b entity.Order) int { return cmp.Compare(a.TotalAmount, b.TotalAmount) },
	"status":      func(a, b entity.Order) int { return strings.Compare(string(a.Status), string(b.Status)) },
}

// paginate sorts items in place and cuts the requested page out of them.
func paginate[T any](items []T, req repository.PageRequest, keys sortKeys[T]) *entity.Page[T] {
	less, ok := keys[req.SortBy]
	if !ok {
		less = keys["id"]
	}
	slices.SortStableFunc(items, func(a, b T) int {
		if req.Descending() {
			return less(b, a)
		}

		return less(a, b)
	})

	total := len(items)
	totalPages := (total + req.Size - 1) / req.Size
	start := min(req.Page*req.Size, total)
	end := min(start+req.Size, total)

	page := &entity.Page[T]{
		Content:       append([]T{}, items[start:end]...),
		TotalElements: int64(total),
		TotalPages:    totalPages,
		Size:          req.Size,
		Number:        req.Page,
		First:         req.Page == 0,
		Last:          req.Page >= totalPages-1,
	}
	page.Pageable.PageNumber = req.Page
	page.Pageable.PageSize = req.Size

	return page
}
