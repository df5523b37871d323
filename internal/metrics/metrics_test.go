package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.Mutations.WithLabelValues("add_bill").Inc()
	m.Writes.WithLabelValues(ResultError).Inc()
	m.Reserve.Set(800)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`financeiro_mutations_total{operation="add_bill"} 1`,
		`financeiro_document_writes_total{result="error"} 1`,
		`financeiro_reserve_balance 800`,
		`go_goroutines`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNewUsesPrivateRegistry(t *testing.T) {
	// Two instances must not collide on registration.
	_ = New()
	_ = New()
}
