package http

import (
	"net/http"
	"time"

	"financeiro/internal/core"
	"financeiro/internal/services"
	"financeiro/internal/syncstatus"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports ready once the initial document has been adopted.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	document := "loaded"
	if !s.session.Loaded() {
		status, code, document = "not_ready", http.StatusServiceUnavailable, "loading"
	}
	st := s.session.Status()
	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks": map[string]any{
			"document": document,
			"sync":     st.State,
			"rate_limiter": map[string]any{
				"active_clients": s.limiter.ActiveClients(),
				"rejected":       s.limiter.Hits(),
			},
			"security": map[string]any{
				"blocked": s.detector.GetMetrics().BlockedRequests,
			},
		},
	})
}

// stateResponse is the whole document plus the write status.
type stateResponse struct {
	core.AppState
	Sync syncstatus.Status `json:"sync"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !s.session.Loaded() {
		fail(w, r, "state", services.ErrNotLoaded)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{AppState: s.session.State(), Sync: s.session.Status()})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Status())
}
