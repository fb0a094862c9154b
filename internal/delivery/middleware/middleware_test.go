package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
)

func newTestEcho(buf *bytes.Buffer) *echo.Echo {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e := echo.New()
	e.Use(NewRequestIDMiddleware(logger).Process)
	e.Use(NewLoggerMiddleware(logger, &config.Config{}, "/health").Handle)

	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/ok", func(c echo.Context) error {
		return c.String(http.StatusOK, deliverycontext.GetRequestIDFromContext(c.Request().Context()))
	})
	e.GET("/teapot", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	return e
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}

	return lines
}

func TestRequestIDMiddleware(t *testing.T) {
	incoming := uuid.NewString()

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "valid id is kept", header: incoming, keep: true},
		{name: "missing id is generated", header: ""},
		{name: "malformed id is replaced", header: "not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := newTestEcho(&buf)

			req := httptest.NewRequest(http.MethodGet, "/ok", nil)
			if tt.header != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			got := rec.Header().Get(deliverycontext.HeaderXRequestID)
			assert.Equal(t, got, rec.Body.String())
			if tt.keep {
				assert.Equal(t, tt.header, got)
			} else {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
				assert.NotEqual(t, tt.header, got)
			}
		})
	}
}

func TestLoggerMiddleware_LogsFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(&buf)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "HTTP Request", lines[0]["msg"])
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.EqualValues(t, http.StatusTeapot, lines[0]["status"])
	assert.Equal(t, "/teapot", lines[0]["route"])
	assert.Equal(t, rec.Header().Get(deliverycontext.HeaderXRequestID), lines[0]["request_id"])
}

func TestLoggerMiddleware_SkipsPaths(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(&buf)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, logLines(t, &buf))
}
