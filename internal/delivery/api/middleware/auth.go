package middleware

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
)

const (
	// AccessTokenCookie carries the short-lived access token.
	AccessTokenCookie = "accessToken"
	// RefreshTokenCookie carries the long-lived refresh token.
	RefreshTokenCookie = "refreshToken"

	keyUserID = "userID"
	keyRoles  = "roles"
)

// AuthMiddleware provides middleware for cookie authentication and role authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the access token cookie and stores the caller on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(AccessTokenCookie)
		if err != nil || cookie.Value == "" {
			return errors.Wrap(domainerrors.ErrUnauthorized, "access token cookie is missing")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(cookie.Value)
		if err != nil {
			return errors.Wrap(domainerrors.ErrUnauthorized, err.Error())
		}

		c.Set(keyUserID, claims.UserID)
		c.Set(keyRoles, entity.RolesFromStrings(claims.Roles))

		return next(c)
	}
}

// RequireRole is a middleware factory that admits callers holding any of roles.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CallerRoles(c).HasAny(roles...) {
				return errors.Wrap(domainerrors.ErrForbidden, "missing required role")
			}

			return next(c)
		}
	}
}

// CallerID returns the authenticated user's id, or zero outside Authenticate.
func CallerID(c echo.Context) int64 {
	id, _ := c.Get(keyUserID).(int64)

	return id
}

// CallerRoles returns the authenticated user's roles.
func CallerRoles(c echo.Context) entity.Roles {
	roles, _ := c.Get(keyRoles).(entity.Roles)

	return roles
}
