package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct", "203.0.113.7:5000", "", "", "203.0.113.7"},
		{"untrusted proxy ignored", "203.0.113.7:5000", "1.1.1.1", "", "203.0.113.7"},
		{"trusted proxy xff", "10.0.0.2:80", "198.51.100.4, 10.0.0.9", "", "198.51.100.4"},
		{"trusted proxy real ip", "127.0.0.1:80", "", "198.51.100.5", "198.51.100.5"},
		{"garbage xff", "10.0.0.2:80", "not-an-ip", "", "10.0.0.2"},
		{"no port", "198.51.100.9", "", "", "198.51.100.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectorMiddleware(t *testing.T) {
	d := NewDetector()
	h := d.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		method, target, agent string
		want                  int
	}{
		{http.MethodGet, "/api/years/2026", "Mozilla/5.0", http.StatusOK},
		{http.MethodGet, "/api/../.env", "Mozilla/5.0", http.StatusBadRequest},
		{http.MethodGet, "/api/state?q=union+select", "Mozilla/5.0", http.StatusBadRequest},
		{http.MethodGet, "/api/state?q=union%20select", "Mozilla/5.0", http.StatusBadRequest},
		{http.MethodGet, "/api/state", "sqlmap/1.7", http.StatusBadRequest},
		{"TRACE", "/api/state", "Mozilla/5.0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(tt.method, tt.target, nil)
		r.Header.Set("User-Agent", tt.agent)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)
		if rr.Code != tt.want {
			t.Errorf("%s %s (%s): status %d, want %d", tt.method, tt.target, tt.agent, rr.Code, tt.want)
		}
	}
	if got := d.GetMetrics().BlockedRequests; got != 5 {
		t.Fatalf("blocked = %d, want 5", got)
	}
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	for name, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
	} {
		if got := rr.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Errorf("HSTS set on plain HTTP")
	}

	rr = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	r.TLS = &tls.ConnectionState{}
	h.ServeHTTP(rr, r)
	if rr.Header().Get("Strict-Transport-Security") != "max-age=31536000; includeSubDomains" {
		t.Errorf("unexpected HSTS %q", rr.Header().Get("Strict-Transport-Security"))
	}
}
