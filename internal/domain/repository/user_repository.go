// Package repository defines the interfaces for the persistence layer of the sandbox backend.
// These interfaces act as a contract between the HTTP handlers and the storage implementation.
package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when the username or email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrVerifyTokenNotFound is returned when no account waits for the verification token.
	ErrVerifyTokenNotFound = errors.New("verification token not found")
)

// UserRepository defines the operations for user and credential persistence.
type UserRepository interface {
	// CreateUser persists a new user with its credential and assigns the user ID.
	CreateUser(ctx context.Context, user *entity.User, cred *entity.Credential) error

	// FindUserByID retrieves a user, including addresses.
	FindUserByID(ctx context.Context, id int64) (*entity.User, error)

	// FindUserByEmail retrieves a user by email, case-insensitively.
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindUserByQuery retrieves a user whose username or email equals query.
	FindUserByQuery(ctx context.Context, query string) (*entity.User, error)

	// FindCredential retrieves the credential of a user.
	FindCredential(ctx context.Context, userID int64) (*entity.Credential, error)

	// VerifyEmail marks the credential holding token as verified and consumes the token.
	VerifyEmail(ctx context.Context, token string) (*entity.User, error)

	// UpdateUser applies the non-nil fields of req.
	UpdateUser(ctx context.Context, id int64, req entity.UpdateUserRequest) (*entity.User, error)

	// SetImageURL replaces the profile image URL.
	SetImageURL(ctx context.Context, id int64, url string) error

	// AddRole grants role; granting a held role is a no-op.
	AddRole(ctx context.Context, id int64, role entity.Role) (*entity.User, error)

	// RemoveRole revokes role; revoking an absent role is a no-op.
	RemoveRole(ctx context.Context, id int64, role entity.Role) (*entity.User, error)

	// DeleteUser removes a user with its credential, addresses, cart and sessions.
	DeleteUser(ctx context.Context, id int64) error

	// ListUsers returns one page of users. Addresses are included only when withAddresses is set.
	ListUsers(ctx context.Context, page PageRequest, withAddresses bool) (*entity.Page[entity.User], error)
}
