package state

import "sync"

// Activity tracks in-flight operations of a store. Loading is true while at least one
// operation is running, so overlapping calls do not clear each other's flag.
//
// Subscribers run while the Activity is locked and must not begin or end operations on it.
type Activity struct {
	mu      sync.Mutex
	pending int
	loading *Value[bool]
}

// NewActivity returns an idle Activity.
func NewActivity() *Activity {
	return &Activity{loading: NewValue(false)}
}

// Begin marks one operation as started. The returned function ends it and is safe to call
// more than once.
func (a *Activity) Begin() (done func()) {
	a.mu.Lock()
	a.pending++
	a.publish()
	a.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(a.end)
	}
}

func (a *Activity) end() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending--
	a.publish()
}

// publish brings the loading flag in line with pending. Callers hold mu.
func (a *Activity) publish() {
	busy := a.pending > 0
	if a.loading.Get() != busy {
		a.loading.Set(busy)
	}
}

// Loading reports whether any operation is in flight.
func (a *Activity) Loading() bool {
	return a.loading.Get()
}

// Subscribe observes loading flag changes.
func (a *Activity) Subscribe(fn func(bool)) (cancel func()) {
	return a.loading.Subscribe(fn)
}
