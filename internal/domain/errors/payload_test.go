package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/errors"
)

func TestParsePayload_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind PayloadKind
		want     string
	}{
		{name: "message field wins", body: `{"status":400,"message":"Email already used","errors":{"email":"taken"}}`, wantKind: PayloadMessage, want: "Email already used"},
		{name: "plain text body", body: `Bad credentials`, wantKind: PayloadText, want: "Bad credentials"},
		{name: "json string body", body: `"Session expired"`, wantKind: PayloadText, want: "Session expired"},
		{name: "field map joined in order", body: `{"username":"is required","password":"too short"}`, wantKind: PayloadFields, want: "is required. too short"},
		{name: "nested object flattened", body: `{"errors":{"email":"invalid","age":"must be positive"}}`, wantKind: PayloadFields, want: "invalid. must be positive"},
		{name: "empty message falls through to fields", body: `{"message":"","email":"invalid"}`, wantKind: PayloadFields, want: "invalid"},
		{name: "empty body", body: ``, wantKind: PayloadNone, want: "fallback"},
		{name: "empty object", body: `{}`, wantKind: PayloadNone, want: "fallback"},
		{name: "null values skipped", body: `{"a":null}`, wantKind: PayloadNone, want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePayload([]byte(tt.body))

			assert.Equal(t, tt.wantKind, p.Kind)
			assert.Equal(t, tt.want, p.Normalize("fallback"))
		})
	}
}

func TestPayload_FieldMap(t *testing.T) {
	p := ParsePayload([]byte(`{"errors":{"email":"invalid"},"status":400}`))

	assert.Equal(t, map[string]string{"errors.email": "invalid", "status": "400"}, p.FieldMap())
	assert.Nil(t, Payload{}.FieldMap())
}

func TestMessageOf(t *testing.T) {
	apiErr := NewAPIError(http.StatusBadRequest, http.MethodPost, "/auth/signup", []byte(`{"message":"Username taken"}`))

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "api error payload", err: apiErr, want: "Username taken"},
		{name: "wrapped api error", err: errors.Wrap(apiErr, "failed to signup"), want: "Username taken"},
		{name: "api error without body", err: NewAPIError(http.StatusInternalServerError, http.MethodGet, "/cart", nil), want: "fallback"},
		{name: "local validation", err: NewValidationError(Field{Name: "quantity", Message: "must be at least 1"}), want: "must be at least 1"},
		{name: "predefined app error", err: ErrShippingAddressRequired, want: "Please select a shipping address"},
		{name: "network error", err: &NetworkError{Method: http.MethodGet, Path: "/cart", Err: errors.New("connection refused")}, want: "fallback"},
		{name: "plain error", err: errors.New("boom"), want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageOf(tt.err, "fallback"))
		})
	}

	assert.Empty(t, MessageOf(nil, "fallback"))
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "401", err: NewAPIError(http.StatusUnauthorized, http.MethodGet, "/users/me", nil), want: KindSessionExpired},
		{name: "403", err: NewAPIError(http.StatusForbidden, http.MethodGet, "/users/alluser", nil), want: KindForbidden},
		{name: "404", err: NewAPIError(http.StatusNotFound, http.MethodGet, "/orders/9", nil), want: KindNotFound},
		{name: "409", err: NewAPIError(http.StatusConflict, http.MethodPost, "/auth/signup", nil), want: KindBackendValidation},
		{name: "502", err: NewAPIError(http.StatusBadGateway, http.MethodGet, "/cart", nil), want: KindServer},
		{name: "network", err: &NetworkError{Err: errors.New("dial tcp")}, want: KindNetwork},
		{name: "local validation", err: NewValidationError(), want: KindValidation},
		{name: "local app error", err: ErrNoCurrentUser, want: KindValidation},
		{name: "wrapped", err: errors.Wrap(NewAPIError(http.StatusUnauthorized, http.MethodGet, "/cart", nil), "load"), want: KindSessionExpired},
		{name: "unknown", err: errors.New("boom"), want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestBaseError_IsMatchesByCode(t *testing.T) {
	err := ErrUserNotFound.WithDetails("id=7")

	require.ErrorIs(t, err, ErrUserNotFound)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "id=7", err.Details())
}
