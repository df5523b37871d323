package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"financeiro/internal/log"
)

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
	m := NewMiddleware(logger, func(*http.Request) string { return "10.0.0.1" })

	var seen string
	var ctxLogger *log.Logger
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		ctxLogger = log.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("unexpected request id %q", seen)
	}
	if rr.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("response header %q, context %q", rr.Header().Get(RequestIDHeader), seen)
	}
	if ctxLogger == nil || ctxLogger.Component() != log.ComponentHTTP {
		t.Fatalf("request logger not stored in context")
	}
	out := buf.String()
	if !strings.Contains(out, "HTTP request completed") || !strings.Contains(out, "status_code=418") {
		t.Fatalf("completion not logged: %s", out)
	}
	if m.TotalRequests() != 1 {
		t.Fatalf("total = %d", m.TotalRequests())
	}
}

func TestMiddlewareKeepsIncomingRequestID(t *testing.T) {
	logger := log.New(log.Config{Handler: slog.NewTextHandler(&bytes.Buffer{}, nil)})
	m := NewMiddleware(logger, nil)
	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "upstream-1" {
		t.Fatalf("request id = %q", seen)
	}
}
