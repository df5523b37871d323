package persistence

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// brokenReader serves doc once and fails every later read.
type brokenReader struct {
	mu    sync.Mutex
	calls int
}

func (b *brokenReader) Get(context.Context, string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.calls == 1 {
		return []byte(`{"years":[]}`), true, nil
	}
	return nil, false, errors.New("disk gone")
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

func TestFollowLogsFailedReread(t *testing.T) {
	var out lockedBuffer
	logger := slog.New(slog.NewTextHandler(&out, nil))

	hub := NewHub()
	wake, cancelSub := hub.Subscribe(DefaultPath)
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var deliveries int
	var mu sync.Mutex
	go func() {
		done <- Follow(ctx, &brokenReader{}, DefaultPath, wake, 0, logger, func(Delivery) {
			mu.Lock()
			deliveries++
			mu.Unlock()
		})
	}()

	hub.Notify(DefaultPath)
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "Document re-read failed") {
		if time.Now().After(deadline) {
			t.Fatalf("failed re-read not logged, log: %q", out.String())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !strings.Contains(out.String(), "level=WARN") || !strings.Contains(out.String(), "disk gone") {
		t.Fatalf("unexpected log line %q", out.String())
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Follow returned %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if deliveries != 1 {
		t.Fatalf("deliveries = %d, want 1", deliveries)
	}
}

func TestFollowFailsOnInitialRead(t *testing.T) {
	r := &brokenReader{calls: 1}
	err := Follow(context.Background(), r, DefaultPath, nil, 0, nil, func(Delivery) {
		t.Fatal("nothing should be delivered")
	})
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("expected read error, got %v", err)
	}
}
