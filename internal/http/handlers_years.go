package http

import (
	"net/http"

	"financeiro/internal/log"
	"financeiro/internal/services"
)

func (s *Server) handleListYears(w http.ResponseWriter, r *http.Request) {
	if !s.session.Loaded() {
		fail(w, r, "list_years", services.ErrNotLoaded)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": s.session.State().YearNumbers()})
}

func (s *Server) handleCreateYear(w http.ResponseWriter, r *http.Request) {
	y, err := s.session.CreateNextYear(r.Context())
	if err != nil {
		fail(w, r, log.OpCreateYear, err)
		return
	}
	writeJSON(w, http.StatusCreated, y)
}

// handleYear serves the dashboard. A year that does not exist shows the
// first year instead.
func (s *Server) handleYear(w http.ResponseWriter, r *http.Request) {
	if !s.session.Loaded() {
		fail(w, r, "year", services.ErrNotLoaded)
		return
	}
	year, err := pathInt(r, "year")
	if err != nil {
		fail(w, r, "year", err)
		return
	}
	view, err := s.session.Year(year)
	if err != nil {
		fail(w, r, "year", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if !s.session.Loaded() {
		fail(w, r, "reports", services.ErrNotLoaded)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Reports())
}
