// Package impl contains the store implementations behind the usecase contracts.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/transport"
	"storefront/internal/state"
	"storefront/internal/usecase"
)

// Transport is the backend channel the stores call.
type Transport interface {
	Do(ctx context.Context, req *transport.Request, out any) error
}

// sessionInvalidator is the part of the session store resource stores need.
type sessionInvalidator interface {
	Invalidate()
}

// resource is the loading and error surface shared by every resource store.
type resource struct {
	name     string
	errMsg   *state.Value[string]
	activity *state.Activity
	session  sessionInvalidator
	logger   *slog.Logger
}

func newResource(name string, session sessionInvalidator, logger *slog.Logger) *resource {
	return &resource{
		name:     name,
		errMsg:   state.NewValue(""),
		activity: state.NewActivity(),
		session:  session,
		logger:   logger.With(slog.String("store", name)),
	}
}

// begin clears the store error and raises the loading flag until the returned func runs.
func (r *resource) begin() func() {
	r.errMsg.Set("")

	return r.activity.Begin()
}

// fail records the normalized message, drops the session on an unrecoverable 401, and
// returns err for the caller.
func (r *resource) fail(ctx context.Context, err error, fallback string) error {
	msg := domainerrors.MessageOf(err, fallback)
	r.errMsg.Set(msg)

	kind := domainerrors.Kind(err)
	if kind == domainerrors.KindSessionExpired && r.session != nil {
		r.session.Invalidate()
	}

	r.log(ctx).Warn(fallback,
		slog.String("message", msg),
		slog.String("kind", kind.String()),
		slog.Any("error", err),
	)

	return err
}

func (r *resource) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, r.logger)
}

// resetOnSignOut runs reset each time session turns unauthenticated. A nil session never does.
func (r *resource) resetOnSignOut(session usecase.SessionUsecase, reset func()) {
	if session == nil {
		return
	}

	session.Subscribe(func(s entity.Session) {
		if s.Status == entity.SessionUnauthenticated {
			r.logger.Debug("Session ended, dropping cached state")
			reset()
		}
	})
}

// Loading reports whether any operation of the store is in flight.
func (r *resource) Loading() bool {
	return r.activity.Loading()
}

// Error returns the last recorded error message, or "".
func (r *resource) Error() string {
	return r.errMsg.Get()
}

// ClearError resets the recorded error message.
func (r *resource) ClearError() {
	r.errMsg.Set("")
}

// SubscribeLoading observes the loading flag.
func (r *resource) SubscribeLoading(fn func(bool)) (cancel func()) {
	return r.activity.Subscribe(fn)
}

// SubscribeError observes the recorded error message.
func (r *resource) SubscribeError(fn func(string)) (cancel func()) {
	return r.errMsg.Subscribe(fn)
}

// pageCache holds the last adopted page of a list store. With discardStale set, a response
// whose fetch was superseded by a newer one is returned to its caller but not adopted.
type pageCache[T any] struct {
	page         *state.Value[*entity.Page[T]]
	items        *state.Value[[]T]
	seq          state.Sequence
	discardStale bool
}

func newPageCache[T any](discardStale bool) *pageCache[T] {
	return &pageCache[T]{
		page:         state.NewValue[*entity.Page[T]](nil),
		items:        state.NewValue[[]T](nil),
		discardStale: discardStale,
	}
}

// ticket starts a fetch.
func (c *pageCache[T]) ticket() uint64 {
	return c.seq.Next()
}

// adopt stores page unless it is stale. It reports whether the page was adopted.
func (c *pageCache[T]) adopt(ticket uint64, page *entity.Page[T]) bool {
	if c.discardStale && !c.seq.IsLatest(ticket) {
		return false
	}
	if !c.seq.IsCurrent(ticket) {
		return false
	}

	c.page.Set(page)
	c.items.Set(page.Content)

	return true
}

// reset forgets the cached page. Fetches started before the reset are never adopted.
func (c *pageCache[T]) reset() {
	c.seq.Invalidate()
	c.page.Set(nil)
	c.items.Set(nil)
}

func (c *pageCache[T]) current() []T {
	return c.items.Get()
}
