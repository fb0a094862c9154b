// Package state holds the reactive containers the stores cache server resources in.
package state

import (
	"slices"
	"sync"
)

// Value is a concurrency-safe cell: snapshot reads, wholesale writes, change subscriptions.
// Subscribers run on the writer's goroutine after the write, outside the lock; a subscriber
// may read any Value but must not write the Value it is subscribed to.
type Value[T any] struct {
	mu     sync.RWMutex
	value  T
	subs   map[uint64]func(T)
	nextID uint64
}

// NewValue returns a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial, subs: map[uint64]func(T){}}
}

// Get returns the current snapshot.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.value
}

// Set replaces the value and notifies subscribers.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	v.value = value
	subs := v.snapshotSubs()
	v.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

// Update applies fn to the current value atomically and notifies subscribers with the result.
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	next := fn(v.value)
	v.value = next
	subs := v.snapshotSubs()
	v.mu.Unlock()

	for _, sub := range subs {
		sub(next)
	}

	return next
}

// Subscribe registers fn for future writes and returns a function that cancels it.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

// snapshotSubs returns subscribers in registration order. Caller holds mu.
func (v *Value[T]) snapshotSubs() []func(T) {
	if len(v.subs) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(v.subs))
	for id := range v.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]func(T), len(ids))
	for i, id := range ids {
		out[i] = v.subs[id]
	}

	return out
}
