package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTypeAccess marks short-lived tokens carried by the accessToken cookie.
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks long-lived tokens carried by the refreshToken cookie.
	TokenTypeRefresh = "refresh"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	UserID int64    `json:"uid"`
	Roles  []string `json:"roles,omitempty"`
	Type   string   `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful authentication.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// RefreshID is the jti of the refresh token, used to revoke it.
	RefreshID string
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the handlers.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a given user.
	GenerateTokens(userID int64, roles []string) (*TokenPair, error)

	// ValidateAccessToken checks an access token and returns its claims.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks a refresh token and returns its claims.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// AccessTokenDuration returns the configured lifetime of access tokens.
	AccessTokenDuration() time.Duration

	// RefreshTokenDuration returns the configured lifetime of refresh tokens.
	RefreshTokenDuration() time.Duration
}
