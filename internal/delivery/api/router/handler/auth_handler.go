package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"storefront/config"
	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"
)

const refreshCookiePath = "/auth"

// AuthHandler serves the /auth endpoints and owns the session cookies.
type AuthHandler struct {
	account usecase.AccountUsecase
	tokens  service.TokenService
	secure  bool
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(account usecase.AccountUsecase, tokens service.TokenService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		account: account,
		tokens:  tokens,
		secure:  cfg.Sandbox != nil && cfg.Sandbox.SecureCookies,
	}
}

// Signup handles the user registration request.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req entity.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.account.Signup(c.Request().Context(), req); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusCreated, "User registered successfully. Check your email to verify your account.")
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req entity.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tokens, err := h.account.Login(c.Request().Context(), req)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setCookie(c, middleware.AccessTokenCookie, tokens.AccessToken, "/", h.tokens.AccessTokenDuration())
	h.setCookie(c, middleware.RefreshTokenCookie, tokens.RefreshToken, refreshCookiePath, h.tokens.RefreshTokenDuration())

	return response.Success(c, http.StatusOK, tokens.User)
}

// Refresh issues a new access token cookie from the refresh token cookie.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token cookie is missing")
	}

	tokens, err := h.account.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setCookie(c, middleware.AccessTokenCookie, tokens.AccessToken, "/", h.tokens.AccessTokenDuration())

	return response.Message(c, http.StatusOK, "Token refreshed successfully")
}

// Logout ends the session of the refresh token cookie, if any.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && cookie.Value != "" {
		if err := h.account.Logout(c.Request().Context(), cookie.Value); err != nil {
			return errors.WithStack(err)
		}
	}

	h.clearCookies(c)

	return response.Message(c, http.StatusOK, "Successfully logged out")
}

// LogoutAll ends every session of the caller.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	if err := h.account.LogoutAll(c.Request().Context(), middleware.CallerID(c)); err != nil {
		return errors.WithStack(err)
	}

	h.clearCookies(c)

	return response.Message(c, http.StatusOK, "Logged out from all devices")
}

// Verify confirms an email address.
func (h *AuthHandler) Verify(c echo.Context) error {
	if _, err := h.account.VerifyEmail(c.Request().Context(), c.QueryParam("token")); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Email verified successfully")
}

func (h *AuthHandler) setCookie(c echo.Context, name, value, path string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookies(c echo.Context) {
	h.setCookie(c, middleware.AccessTokenCookie, "", "/", -time.Second)
	h.setCookie(c, middleware.RefreshTokenCookie, "", refreshCookiePath, -time.Second)
}
