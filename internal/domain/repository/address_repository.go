package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// ErrAddressNotFound is returned when an address does not exist or belongs to another user.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepository defines the operations for the addresses owned by a user.
type AddressRepository interface {
	// CreateAddress persists a new address for userID and assigns its ID.
	CreateAddress(ctx context.Context, userID int64, req entity.AddressRequest) (*entity.Address, error)

	// FindAddress retrieves one of userID's addresses.
	FindAddress(ctx context.Context, userID, addressID int64) (*entity.Address, error)

	// DeleteAddress removes one of userID's addresses.
	DeleteAddress(ctx context.Context, userID, addressID int64) error
}
