package http

import (
	"net/http"

	"financeiro/internal/log"
)

// reserveRequest is the body of both reserve endpoints.
type reserveRequest struct {
	Value  *Amount `json:"value"`
	Amount *Amount `json:"amount"`
}

type reserveResponse struct {
	Reserve float64 `json:"reserve"`
}

// handleSetReserve replaces the balance. Unparsable values become 0.
func (s *Server) handleSetReserve(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, log.OpSetReserve, err)
		return
	}
	var value float64
	if req.Value != nil {
		value = req.Value.Float()
	}
	reserve, err := s.session.SetReserve(r.Context(), value)
	if err != nil {
		fail(w, r, log.OpSetReserve, err)
		return
	}
	writeJSON(w, http.StatusOK, reserveResponse{Reserve: reserve})
}

// handleDeposit adds amount to the balance.
func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, log.OpAddReserve, err)
		return
	}
	var amount float64
	if req.Amount != nil {
		amount = req.Amount.Float()
	}
	reserve, err := s.session.DepositToReserve(r.Context(), amount)
	if err != nil {
		fail(w, r, log.OpAddReserve, err)
		return
	}
	writeJSON(w, http.StatusOK, reserveResponse{Reserve: reserve})
}
