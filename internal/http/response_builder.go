// Package http provides HTTP server and handler implementations.
//
// This file maps domain errors to status codes and writes JSON responses
// in one consistent shape.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"financeiro/internal/core"
	"financeiro/internal/log"
	"financeiro/internal/services"
	"financeiro/internal/state"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an ErrorResponse.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// StatusForError maps a domain error to its HTTP status.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, state.ErrYearNotFound),
		errors.Is(err, state.ErrMonthNotFound),
		errors.Is(err, state.ErrBillNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNothingToSweep),
		errors.Is(err, state.ErrMonthMismatch):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrNameTooLong),
		errors.Is(err, core.ErrInvalidDueDate),
		errors.Is(err, core.ErrInvalidIncome),
		errors.Is(err, core.ErrDuplicateBillID),
		errors.Is(err, core.ErrInvalidMonthLayout),
		errors.Is(err, core.ErrDuplicateYear):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Unexpected errors are logged and
// their text is not exposed.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusForError(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, op, log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", ""))
		writeError(w, status, "internal error")
		return
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeError(w, status, err.Error())
}
