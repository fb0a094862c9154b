package errors

import (
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the backend. Payload is the parsed body.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Payload Payload
	Body    []byte
}

// NewAPIError builds an APIError, parsing body into its payload.
func NewAPIError(status int, method, path string, body []byte) *APIError {
	return &APIError{
		Status:  status,
		Method:  method,
		Path:    path,
		Payload: ParsePayload(body),
		Body:    body,
	}
}

func (e *APIError) Error() string {
	msg := e.Payload.Normalize(http.StatusText(e.Status))

	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, msg)
}

// HTTPCode returns the response status.
func (e *APIError) HTTPCode() int {
	return e.Status
}

// NetworkError means no response was received at all.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is a local validation failure expressed in the backend's field-map shape.
type ValidationError struct {
	Payload Payload
}

// NewValidationError builds a ValidationError from ordered field messages.
func NewValidationError(fields ...Field) *ValidationError {
	return &ValidationError{Payload: Payload{Kind: PayloadFields, Fields: fields}}
}

func (e *ValidationError) Error() string {
	return e.Payload.Normalize(ErrValidationFailed.Message())
}

// HTTPCode reports the validation failure as a bad request.
func (e *ValidationError) HTTPCode() int {
	return http.StatusBadRequest
}
