// Package response writes sandbox responses in the backend's body shapes.
package response

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// FieldErrors is a field-to-message object that keeps the validator's field order.
type FieldErrors []domainerrors.Field

// MarshalJSON writes the fields as one flat object.
func (f FieldErrors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(field.Name)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		msg, err := json.Marshal(field.Message)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(msg)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Success returns data as the whole body
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, data)
}

// Message returns a {message} body
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, entity.MessageResponse{Message: message})
}

// Error returns a {status, message} body
func Error(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, ErrorResponse{Status: statusCode, Message: message})
}

// ValidationFailed returns a 400 with a flat field map
func ValidationFailed(c echo.Context, fields []domainerrors.Field) error {
	return c.JSON(http.StatusBadRequest, FieldErrors(fields))
}

// BadRequest returns a 400 error
func BadRequest(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, message)
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context, message string) error {
	return Error(c, http.StatusInternalServerError, message)
}
