package impl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/infra/transport"
	"storefront/internal/infra/validation"
	mockService "storefront/internal/mocks/service"
	"storefront/internal/usecase"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newTestClient serves mux over httptest and returns a transport pointed at it. The navigator
// mock fails the test on any hard navigation it was not told to expect.
func newTestClient(t *testing.T, mux *http.ServeMux) (*transport.Client, *mockService.MockNavigator) {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	nav := mockService.NewMockNavigator(t)
	client, err := transport.NewClient(transport.Options{
		BaseURL:   srv.URL,
		Navigator: nav,
		Logger:    testLogger,
	})
	require.NoError(t, err)

	return client, nav
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.State.DiscardStalePages = true

	return cfg
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"status": status, "message": msg})
}

func pageOf[T any](content []T, number, totalPages int) entity.Page[T] {
	p := entity.Page[T]{
		Content:       content,
		TotalElements: int64(len(content)),
		TotalPages:    totalPages,
		Size:          len(content),
		Number:        number,
		First:         number == 0,
		Last:          number >= totalPages-1,
	}
	p.Pageable.PageNumber = number
	p.Pageable.PageSize = len(content)

	return p
}

// signedIn returns a session store already holding user.
func signedIn(t *testing.T, client *transport.Client, mux *http.ServeMux, user entity.User) usecase.SessionUsecase {
	t.Helper()

	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, user)
	})

	session := NewSessionService(client, validation.New(), testLogger)
	session.Probe(context.Background())
	require.True(t, session.Authenticated())

	return session
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
