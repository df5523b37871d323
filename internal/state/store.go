package state

import (
	"sync"

	"financeiro/internal/core"
)

// Origin tells listeners where a new snapshot came from.
type Origin string

const (
	OriginLocal  Origin = "local"  // produced by a mutation in this process
	OriginRemote Origin = "remote" // delivered by the persistence feed
)

// Listener observes every snapshot change.
type Listener func(doc core.AppState, origin Origin)

// Store is the single in-memory cell holding the current document. Local
// mutations go through Apply; the persistence feed goes through Adopt,
// which replaces the snapshot unconditionally. The two paths are never
// merged: the last write wins.
type Store struct {
	mu        sync.RWMutex
	doc       core.AppState
	loaded    bool
	revision  uint64
	listeners []Listener
}

// NewStore returns an empty, not yet loaded store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() core.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Loaded reports whether an initial document has been adopted. Nothing
// should be persisted before this is true.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Revision increases on every snapshot change.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Apply runs fn against the current snapshot and installs its result. If fn
// fails the snapshot is left unchanged.
func (s *Store) Apply(fn func(core.AppState) (core.AppState, error)) (core.AppState, error) {
	s.mu.Lock()
	next, err := fn(s.doc.Clone())
	if err != nil {
		s.mu.Unlock()
		return core.AppState{}, err
	}
	s.install(next)
	listeners := s.listeners
	s.mu.Unlock()

	s.notify(listeners, next, OriginLocal)
	return next.Clone(), nil
}

// Adopt replaces the snapshot with doc and marks the store loaded.
func (s *Store) Adopt(doc core.AppState) {
	s.mu.Lock()
	s.install(doc.Clone())
	s.loaded = true
	listeners := s.listeners
	s.mu.Unlock()

	s.notify(listeners, doc, OriginRemote)
}

// Subscribe registers l for future snapshot changes.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) install(doc core.AppState) {
	s.doc = doc
	s.revision++
}

func (s *Store) notify(listeners []Listener, doc core.AppState, origin Origin) {
	for _, l := range listeners {
		l(doc.Clone(), origin)
	}
}
