package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"financeiro/internal/core"
	"financeiro/internal/services"
	"financeiro/internal/state"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad", errBadRequest), http.StatusBadRequest},
		{state.ErrYearNotFound, http.StatusNotFound},
		{state.ErrMonthNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", state.ErrBillNotFound), http.StatusNotFound},
		{services.ErrNothingToSweep, http.StatusConflict},
		{state.ErrMonthMismatch, http.StatusConflict},
		{core.ErrEmptyName, http.StatusUnprocessableEntity},
		{core.ErrInvalidDueDate, http.StatusUnprocessableEntity},
		{core.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{core.ErrDuplicateBillID, http.StatusUnprocessableEntity},
		{services.ErrNotLoaded, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusForError(tt.err); got != tt.want {
			t.Errorf("StatusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFailHidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	fail(rr, httptest.NewRequest(http.MethodGet, "/", nil), "test", errors.New("secret path /var/db"))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := decode[ErrorResponse](t, rr).Error; got != "internal error" {
		t.Fatalf("internal error leaked: %q", got)
	}

	rr = httptest.NewRecorder()
	fail(rr, httptest.NewRequest(http.MethodGet, "/", nil), "test", core.ErrEmptyName)
	if rr.Code != http.StatusUnprocessableEntity || decode[ErrorResponse](t, rr).Error != core.ErrEmptyName.Error() {
		t.Fatalf("validation error not passed through: %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", rr.Header().Get("Content-Type"))
	}
}
