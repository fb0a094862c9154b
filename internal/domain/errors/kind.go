package errors

import (
	"net/http"

	"storefront/internal/errors"
)

// ErrorKind is the client-side classification of a failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindValidation is a local check that failed before any network call.
	KindValidation
	// KindSessionExpired is a 401 that survived the refresh protocol.
	KindSessionExpired
	KindForbidden
	KindNotFound
	// KindBackendValidation covers every other 4xx answer.
	KindBackendValidation
	KindServer
	// KindNetwork means no response was received.
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindSessionExpired:
		return "session_expired"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindBackendValidation:
		return "backend_validation"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Kind classifies err.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return kindFromStatus(apiErr.Status)
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return KindNetwork
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return KindValidation
	}

	var appErr AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() == http.StatusBadRequest {
			return KindValidation
		}

		return kindFromStatus(appErr.HTTPCode())
	}

	return KindUnknown
}

func kindFromStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindSessionExpired
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindBackendValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// IsSessionExpired reports whether err invalidates the local session.
func IsSessionExpired(err error) bool {
	return Kind(err) == KindSessionExpired
}

// IsStatus reports whether err is a backend answer with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.Status == status
}

// MessageOf extracts the human-readable message every store records.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Payload.Normalize(fallback)
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Payload.Normalize(fallback)
	}

	var appErr AppError
	if errors.As(err, &appErr) && appErr.Message() != "" {
		return appErr.Message()
	}

	return fallback
}
