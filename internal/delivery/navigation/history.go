// Package navigation holds the client's location, the route table and the guards that gate it.
package navigation

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/service"
	"storefront/internal/state"
)

var _ service.Navigator = (*History)(nil)

// History is the current location. Writes through HardNavigate bypass every guard.
type History struct {
	location *state.Value[string]
	logger   *slog.Logger
}

// NewHistory creates a History positioned at start.
func NewHistory(start string, logger *slog.Logger) *History {
	return &History{
		location: state.NewValue(start),
		logger:   logger.With(slog.String("component", "history")),
	}
}

// HardNavigate forces the location to path.
func (h *History) HardNavigate(ctx context.Context, path string) {
	prev := h.location.Get()
	h.location.Set(path)

	deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("Hard navigation",
		slog.String("from", prev),
		slog.String("to", path),
	)
}

// Location returns the current path.
func (h *History) Location() string {
	return h.location.Get()
}

// Subscribe observes location changes.
func (h *History) Subscribe(fn func(string)) (cancel func()) {
	return h.location.Subscribe(fn)
}

func (h *History) set(path string) {
	h.location.Set(path)
}
