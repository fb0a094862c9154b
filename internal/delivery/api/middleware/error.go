package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"storefront/internal/delivery/api/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// storageErrors translates storage failures into the errors the backend answers with.
var storageErrors = []struct {
	target error
	appErr *domainerrors.BaseError
}{
	{repository.ErrUserNotFound, domainerrors.ErrUserNotFound},
	{repository.ErrUserExists, domainerrors.ErrUserAlreadyExists},
	{repository.ErrVerifyTokenNotFound, domainerrors.ErrVerificationTokenInvalid},
	{repository.ErrRefreshTokenNotFound, domainerrors.ErrRefreshTokenInvalid},
	{repository.ErrAddressNotFound, domainerrors.ErrAddressNotFound},
	{repository.ErrProductNotFound, domainerrors.ErrProductNotFound},
	{repository.ErrCategoryNotFound, domainerrors.ErrCategoryNotFound},
	{repository.ErrCategoryExists, domainerrors.ErrCategoryExists},
	{repository.ErrCategoryInUse, domainerrors.ErrCategoryInUse},
	{repository.ErrCartItemNotFound, domainerrors.ErrCartItemNotFound},
	{repository.ErrInsufficientStock, domainerrors.ErrInsufficientStock},
	{repository.ErrEmptyCart, domainerrors.ErrEmptyCart},
	{repository.ErrOrderNotFound, domainerrors.ErrOrderNotFound},
	{repository.ErrOrderClosed, domainerrors.ErrOrderClosed},
	{repository.ErrImageNotFound, domainerrors.ErrImageNotFound},
}

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Field failures keep the backend's flat field-map shape
	var valErr *domainerrors.ValidationError
	if errors.As(err, &valErr) {
		_ = response.ValidationFailed(c, valErr.Payload.Fields)

		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		m.respond(c, err, appErr.HTTPCode(), appErr.Message())

		return
	}

	for _, mapping := range storageErrors {
		if errors.Is(err, mapping.target) {
			m.respond(c, err, mapping.appErr.HTTPCode(), mapping.appErr.Message())

			return
		}
	}

	// Check if it is an Echo HTTPError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := "An error occurred"
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, message)

		return
	}

	m.respond(c, err, domainerrors.ErrInternalError.HTTPCode(), "Internal server error, please try again later")
}

func (m *ErrorMiddleware) respond(c echo.Context, err error, status int, message string) {
	// 5xx details stay in the log
	if status >= 500 {
		m.logger.Error("Unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
			slog.String("method", c.Request().Method),
		)
	}

	_ = response.Error(c, status, message)
}
