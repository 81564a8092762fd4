package market

import "sync/atomic"

// Store holds the current snapshot. Readers should call Current once per
// request and use that snapshot throughout.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore creates a store with an initial snapshot
func NewStore(s *Snapshot) *Store {
	st := &Store{}
	st.cur.Store(s)
	return st
}

// Current returns the active snapshot
func (st *Store) Current() *Snapshot {
	return st.cur.Load()
}

// Swap replaces the active snapshot
func (st *Store) Swap(s *Snapshot) {
	st.cur.Store(s)
}
