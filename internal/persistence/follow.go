package persistence

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Hub fans change signals out to watchers of a path. Signals coalesce: a
// slow watcher sees at most one pending wake-up and re-reads the latest
// document when it gets to it.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe registers interest in path. The returned cancel func must be
// called to release the subscription.
func (h *Hub) Subscribe(path string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	if h.subs[path] == nil {
		h.subs[path] = make(map[chan struct{}]struct{})
	}
	h.subs[path][ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs[path], ch)
		if len(h.subs[path]) == 0 {
			delete(h.subs, path)
		}
		h.mu.Unlock()
	}
}

// Notify wakes every watcher of path.
func (h *Hub) Notify(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[path] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Follow implements Watcher on top of a Reader: it delivers the current
// document, then re-reads on every wake signal (and every poll tick when
// poll > 0) and delivers again whenever the stored bytes changed. Failed
// re-reads are logged to logger (slog.Default when nil).
func Follow(ctx context.Context, r Reader, path string, wake <-chan struct{}, poll time.Duration, logger *slog.Logger, fn func(Delivery)) error {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		last    []byte
		present bool
		started bool
	)
	read := func() error {
		doc, ok, err := r.Get(ctx, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if started && ok == present && bytes.Equal(doc, last) {
			return nil
		}
		started, present, last = true, ok, doc
		fn(Delivery{Doc: doc, Present: ok})
		return nil
	}
	if err := read(); err != nil {
		return err
	}

	var tick <-chan time.Time
	if poll > 0 {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wake:
		case <-tick:
		}
		// A failed re-read keeps the last delivery; the next signal retries.
		if err := read(); err != nil && ctx.Err() == nil {
			logger.WarnContext(ctx, "Document re-read failed", "path", path, "error", err)
		}
	}
}
