package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// AuthTokens is the result of a successful sign-in or refresh. RefreshToken is empty
// after a refresh; the original refresh token stays valid.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// AccountUsecase defines the sandbox backend's account operations.
// This is the contract the sandbox auth handlers depend on.
type AccountUsecase interface {
	// Signup creates an unverified account.
	Signup(ctx context.Context, req entity.SignupRequest) (*entity.User, error)
	Login(ctx context.Context, req entity.LoginRequest) (*AuthTokens, error)
	// Refresh issues a new access token for a stored, unexpired refresh token.
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID int64) error
	VerifyEmail(ctx context.Context, token string) (*entity.User, error)
}
