package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"financeiro/internal/amqp"
	"financeiro/internal/log"
	"financeiro/internal/services"
)

type fakeExporter struct {
	mu    sync.Mutex
	calls int
	err   error
	ran   chan struct{}
}

func (f *fakeExporter) Path() string { return "appState" }

func (f *fakeExporter) Export(context.Context) (services.ExportResult, error) {
	f.mu.Lock()
	f.calls++
	err := f.err
	f.mu.Unlock()
	if f.ran != nil {
		select {
		case f.ran <- struct{}{}:
		default:
		}
	}
	return services.ExportResult{Written: 1}, err
}

func (f *fakeExporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func quietLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func TestHandleDocumentChanged(t *testing.T) {
	f := &fakeExporter{}
	w := NewExportWorker(f, time.Minute, quietLogger())
	ctx := context.Background()

	if err := w.HandleDocumentChanged(ctx, amqp.NewDocumentChangedMessage("other", 3, "api")); err != nil {
		t.Fatalf("other path: %v", err)
	}
	if f.count() != 0 {
		t.Fatalf("exported for unrelated document")
	}
	if err := w.HandleDocumentChanged(ctx, amqp.NewDocumentChangedMessage("appState", 4, "api")); err != nil {
		t.Fatalf("HandleDocumentChanged: %v", err)
	}
	if f.count() != 1 {
		t.Fatalf("calls = %d, want 1", f.count())
	}

	f.err = errors.New("sheets down")
	if err := w.HandleDocumentChanged(ctx, amqp.NewDocumentChangedMessage("appState", 5, "api")); err != nil {
		t.Fatalf("export failure must not requeue: %v", err)
	}
	if f.count() != 2 {
		t.Fatalf("calls = %d, want 2", f.count())
	}
}

func TestRunExportsAtStartupAndOnTick(t *testing.T) {
	f := &fakeExporter{ran: make(chan struct{}, 1)}
	w := NewExportWorker(f, 10*time.Millisecond, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-f.ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("export %d never ran", i+1)
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.count() < 2 {
		t.Fatalf("calls = %d, want at least 2", f.count())
	}
}
