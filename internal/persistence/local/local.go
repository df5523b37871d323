// Package local keeps the document in a single JSON file under a fixed
// key, for the offline variant that has no remote feed.
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"financeiro/internal/persistence"
)

// Store maps every logical path to <dir>/<key>.json. The path is ignored:
// the offline variant holds exactly one document.
type Store struct {
	mu       sync.Mutex
	filePath string
}

// New creates dir if needed. Nothing is written until the first Put.
func New(dir, key string) (*Store, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{filePath: filepath.Join(dir, key+".json")}, nil
}

// FilePath returns where the document is kept.
func (s *Store) FilePath() string { return s.filePath }

func (s *Store) Get(_ context.Context, _ string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read data file: %w", err)
	}
	return data, true, nil
}

// Put replaces the file atomically through a temp file and rename.
func (s *Store) Put(ctx context.Context, _ string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, doc, 0o644); err != nil {
		return fmt.Errorf("write temp data file: %w", err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// Watch delivers the stored document once; there is no external writer to
// follow afterwards.
func (s *Store) Watch(ctx context.Context, path string, fn func(persistence.Delivery)) error {
	doc, ok, err := s.Get(ctx, path)
	if err != nil {
		return err
	}
	fn(persistence.Delivery{Doc: doc, Present: ok})
	<-ctx.Done()
	return ctx.Err()
}

func (s *Store) Close() error { return nil }

var _ persistence.Store = (*Store)(nil)
