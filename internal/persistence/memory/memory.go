// Package memory is an in-process document store, used by tests and when
// DATA_BACKEND=memory.
package memory

import (
	"context"
	"sync"

	"financeiro/internal/persistence"
)

type Store struct {
	mu     sync.RWMutex
	docs   map[string][]byte
	hub    *persistence.Hub
	closed bool
}

func New() *Store {
	return &Store{docs: make(map[string][]byte), hub: persistence.NewHub()}
}

// Seed stores doc without notifying watchers.
func (s *Store) Seed(path string, doc []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = append([]byte(nil), doc...)
}

func (s *Store) Get(_ context.Context, path string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, persistence.ErrClosed
	}
	doc, ok := s.docs[path]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), doc...), true, nil
}

func (s *Store) Put(ctx context.Context, path string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return persistence.ErrClosed
	}
	s.docs[path] = append([]byte(nil), doc...)
	s.mu.Unlock()

	s.hub.Notify(path)
	return nil
}

func (s *Store) Watch(ctx context.Context, path string, fn func(persistence.Delivery)) error {
	wake, cancel := s.hub.Subscribe(path)
	defer cancel()
	return persistence.Follow(ctx, s, path, wake, 0, nil, fn)
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ persistence.Store = (*Store)(nil)
