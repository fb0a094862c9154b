package memory

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
)

type seedProduct struct {
	name, description, category string
	price                       float64
	stock                       int
}

var seedCatalog = []seedProduct{
	{name: "Desk lamp", description: "Adjustable LED desk lamp", category: "Home", price: 2500, stock: 12},
	{name: "Ceramic mug", description: "Hand-glazed mug, 350 ml", category: "Home", price: 900, stock: 40},
	{name: "Wireless mouse", description: "Silent-click wireless mouse", category: "Electronics", price: 3200, stock: 25},
	{name: "USB-C hub", description: "Seven-port USB-C hub", category: "Electronics", price: 5400, stock: 8},
	{name: "Notebook", description: "A5 dotted notebook", category: "Stationery", price: 450, stock: 100},
}

// Seed creates verified accounts for users and a starter catalog.
func (s *Store) Seed(ctx context.Context, hasher service.PasswordHasher, users []config.SeedUser) error {
	for _, su := range users {
		hash, err := hasher.Hash(su.Password)
		if err != nil {
			return errors.Wrapf(err, "failed to hash seed password of %s", su.Username)
		}

		roles := entity.RolesFromStrings(su.Roles)
		if len(roles) == 0 {
			roles = entity.Roles{entity.RoleUser}
		}

		user := &entity.User{Username: su.Username, Email: su.Email, Roles: roles}
		cred := &entity.Credential{PasswordHash: hash, Verified: true}
		if err := s.CreateUser(ctx, user, cred); err != nil {
			return errors.Wrapf(err, "failed to seed user %s", su.Username)
		}
	}

	for _, p := range seedCatalog {
		if _, err := s.CreateProduct(ctx, entity.ProductRequest{
			Name:        p.name,
			Description: p.description,
			Price:       p.price,
			Stock:       p.stock,
			Category:    entity.Category{Name: p.category},
		}); err != nil {
			return errors.Wrapf(err, "failed to seed product %s", p.name)
		}
	}

	s.logger.Info("Sandbox store seeded",
		slog.Int("users", len(users)),
		slog.Int("products", len(seedCatalog)),
	)

	return nil
}
