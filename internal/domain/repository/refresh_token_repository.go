package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// ErrRefreshTokenNotFound is returned when a refresh token is not found or was revoked.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository defines the session store behind the refreshToken cookie.
// This supports multi-device login and logout from every device.
type RefreshTokenRepository interface {
	// CreateRefreshToken persists a new session.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByID retrieves a session by jti.
	FindRefreshTokenByID(ctx context.Context, id string) (*entity.RefreshToken, error)

	// DeleteRefreshToken ends one session. Deleting an unknown session is a no-op.
	DeleteRefreshToken(ctx context.Context, id string) error

	// DeleteRefreshTokensByUserID ends every session of a user.
	DeleteRefreshTokensByUserID(ctx context.Context, userID int64) error

	// CountActiveSessionsByUserID returns the number of unexpired sessions of a user.
	CountActiveSessionsByUserID(ctx context.Context, userID int64) (int, error)
}
