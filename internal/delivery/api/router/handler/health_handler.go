package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// HealthHandler reports liveness and, for signed-in callers, what the sandbox knows of them.
type HealthHandler struct {
	tokens repository.RefreshTokenRepository
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(tokens repository.RefreshTokenRepository) *HealthHandler {
	return &HealthHandler{tokens: tokens}
}

// HealthCheck is a simple handler to check if the service is up.
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// Session describes the caller's token and open sessions.
func (h *HealthHandler) Session(c echo.Context) error {
	userID := middleware.CallerID(c)

	active, err := h.tokens.CountActiveSessionsByUserID(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"userID":         userID,
		"roles":          middleware.CallerRoles(c).Normalized(),
		"activeSessions": active,
	})
}
