package state

import "sync/atomic"

// Sequence hands out monotonically increasing tickets for fetches of one store.
// A response whose ticket is no longer the latest was superseded by a newer fetch.
type Sequence struct {
	last  atomic.Uint64
	floor atomic.Uint64
}

// Next returns a fresh ticket.
func (s *Sequence) Next() uint64 {
	return s.last.Add(1)
}

// IsLatest reports whether no ticket was issued after t.
func (s *Sequence) IsLatest(t uint64) bool {
	return s.last.Load() == t
}

// Invalidate retires every ticket issued so far.
func (s *Sequence) Invalidate() {
	s.floor.Store(s.last.Load())
}

// IsCurrent reports whether t was issued after the last Invalidate.
func (s *Sequence) IsCurrent(t uint64) bool {
	return t > s.floor.Load()
}
