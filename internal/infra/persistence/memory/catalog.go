package memory

import (
	"context"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

func (s *Store) ListProducts(_ context.Context, page repository.PageRequest) (*entity.Page[entity.Product], error) {
	return s.pageProducts(page, func(*entity.Product) bool { return true }), nil
}

func (s *Store) SearchProducts(_ context.Context, query string, page repository.PageRequest) (*entity.Page[entity.Product], error) {
	q := strings.ToLower(strings.TrimSpace(query))

	return s.pageProducts(page, func(p *entity.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q)
	}), nil
}

func (s *Store) ListProductsByCategory(_ context.Context, category string, page repository.PageRequest) (*entity.Page[entity.Product], error) {
	return s.pageProducts(page, func(p *entity.Product) bool {
		return strings.EqualFold(p.Category.Name, category)
	}), nil
}

func (s *Store) pageProducts(page repository.PageRequest, match func(*entity.Product) bool) *entity.Page[entity.Product] {
	s.mu.RLock()
	products := make([]entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if match(p) {
			products = append(products, *p)
		}
	}
	s.mu.RUnlock()

	return paginate(products, page, productSorts)
}

func (s *Store) FindProduct(_ context.Context, id int64) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, errors.WithStack(repository.ErrProductNotFound)
	}

	out := *p

	return &out, nil
}

func (s *Store) CreateProduct(_ context.Context, req entity.ProductRequest) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, err := s.resolveCategory(req.Category)
	if err != nil {
		return nil, err
	}

	now := entity.NewTimestamp(s.now())
	s.ids.product++
	p := &entity.Product{
		ID:          s.ids.product,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    *category,
		Stock:       req.Stock,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
	s.products[p.ID] = p

	out := *p

	return &out, nil
}

func (s *Store) UpdateProduct(_ context.Context, id int64, req entity.ProductRequest) (*entity.Product, error) {
	return s.mutateProduct(id, func(p *entity.Product) error {
		category, err := s.resolveCategory(req.Category)
		if err != nil {
			return err
		}

		p.Name = req.Name
		p.Price = req.Price
		p.Description = req.Description
		p.Stock = req.Stock
		p.Category = *category

		return nil
	})
}

func (s *Store) UpdateStock(_ context.Context, id int64, stock int) (*entity.Product, error) {
	return s.mutateProduct(id, func(p *entity.Product) error {
		p.Stock = stock

		return nil
	})
}

func (s *Store) SetProductImage(_ context.Context, id int64, url string) (*entity.Product, error) {
	return s.mutateProduct(id, func(p *entity.Product) error {
		p.ImageURL = &url

		return nil
	})
}

func (s *Store) mutateProduct(id int64, fn func(*entity.Product) error) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, errors.WithStack(repository.ErrProductNotFound)
	}

	next := *p
	if err := fn(&next); err != nil {
		return nil, err
	}
	now := entity.NewTimestamp(s.now())
	next.UpdatedAt = &now
	s.products[id] = &next

	out := next

	return &out, nil
}

// resolveCategory finds ref by ID, then by name, creating a named category on first use.
// Callers hold the write lock.
func (s *Store) resolveCategory(ref entity.Category) (*entity.Category, error) {
	if ref.ID != 0 {
		c, ok := s.categories[ref.ID]
		if !ok {
			return nil, errors.WithStack(repository.ErrCategoryNotFound)
		}

		return c, nil
	}

	name := strings.TrimSpace(ref.Name)
	if name == "" {
		return nil, errors.WithStack(repository.ErrCategoryNotFound)
	}
	if c := s.categoryByName(name); c != nil {
		return c, nil
	}

	s.ids.category++
	c := &entity.Category{ID: s.ids.category, Name: name}
	s.categories[c.ID] = c

	return c, nil
}

func (s *Store) categoryByName(name string) *entity.Category {
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}

	return nil
}

func (s *Store) ListCategories(_ context.Context, page repository.PageRequest) (*entity.Page[entity.Category], error) {
	s.mu.RLock()
	categories := make([]entity.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, *c)
	}
	s.mu.RUnlock()

	return paginate(categories, page, categorySorts), nil
}

func (s *Store) CreateCategory(_ context.Context, name string) (*entity.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryByName(name) != nil {
		return nil, errors.WithStack(repository.ErrCategoryExists)
	}

	s.ids.category++
	c := &entity.Category{ID: s.ids.category, Name: name}
	s.categories[c.ID] = c

	out := *c

	return &out, nil
}

// RenameCategory renames a category and the copies embedded in its products.
func (s *Store) RenameCategory(_ context.Context, id int64, name string) (*entity.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, errors.WithStack(repository.ErrCategoryNotFound)
	}
	if other := s.categoryByName(name); other != nil && other.ID != id {
		return nil, errors.WithStack(repository.ErrCategoryExists)
	}

	renamed := &entity.Category{ID: id, Name: name}
	s.categories[id] = renamed
	for pid, p := range s.products {
		if p.Category.ID == c.ID {
			next := *p
			next.Category = *renamed
			s.products[pid] = &next
		}
	}

	out := *renamed

	return &out, nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return errors.WithStack(repository.ErrCategoryNotFound)
	}
	for _, p := range s.products {
		if p.Category.ID == id {
			return errors.WithStack(repository.ErrCategoryInUse)
		}
	}

	delete(s.categories, id)

	return nil
}
