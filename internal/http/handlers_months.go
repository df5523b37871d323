package http

import (
	"net/http"

	"financeiro/internal/core"
	"financeiro/internal/log"
	"financeiro/internal/services"
)

// billRequest is the body of POST .../bills.
type billRequest struct {
	Name      string `json:"name"`
	DueDate   string `json:"dueDate"`
	Value     Amount `json:"value"`
	Paid      bool   `json:"paid"`
	Note      string `json:"note"`
	Replicate bool   `json:"replicate"`
}

// billPatchRequest is the body of PATCH .../bills/{billID}. Absent fields
// are left unchanged.
type billPatchRequest struct {
	Name    *string `json:"name"`
	DueDate *string `json:"dueDate"`
	Value   *Amount `json:"value"`
	Paid    *bool   `json:"paid"`
	Note    *string `json:"note"`
}

// incomeRequest is the body of PUT .../income.
type incomeRequest struct {
	Samuel *Amount `json:"samuel"`
	Sammia *Amount `json:"sammia"`
	Others *Amount `json:"others"`
}

type sweepResponse struct {
	Moved   float64 `json:"moved"`
	Reserve float64 `json:"reserve"`
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		fail(w, r, "month", err)
		return
	}
	if !s.session.Loaded() {
		fail(w, r, "month", services.ErrNotLoaded)
		return
	}
	view, err := s.session.Month(year, month, s.now())
	if err != nil {
		fail(w, r, "month", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleReplaceMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		fail(w, r, log.OpUpdateMonth, err)
		return
	}
	var m core.MonthData
	if err := decodeJSON(w, r, &m); err != nil {
		fail(w, r, log.OpUpdateMonth, err)
		return
	}
	updated, err := s.session.ReplaceMonth(r.Context(), year, month, m)
	if err != nil {
		fail(w, r, log.OpUpdateMonth, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		fail(w, r, log.OpUpdateMonth, err)
		return
	}
	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, log.OpUpdateMonth, err)
		return
	}
	updated, err := s.session.UpdateIncome(r.Context(), year, month, services.IncomePatch{
		Samuel: req.Samuel.floatPtr(),
		Sammia: req.Sammia.floatPtr(),
		Others: req.Others.floatPtr(),
	})
	if err != nil {
		fail(w, r, log.OpUpdateMonth, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAddBill(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		fail(w, r, log.OpAddBill, err)
		return
	}
	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, log.OpAddBill, err)
		return
	}
	updated, err := s.session.AddBill(r.Context(), year, month, services.BillInput{
		Name:    req.Name,
		DueDate: req.DueDate,
		Value:   req.Value.Float(),
		Paid:    req.Paid,
		Note:    req.Note,
	}, req.Replicate)
	if err != nil {
		fail(w, r, log.OpAddBill, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated)
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		fail(w, r, log.OpUpdateMonth, err)
		return
	}
	var req billPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, log.OpUpdateMonth, err)
		return
	}
	updated, err := s.session.UpdateBill(r.Context(), year, month, r.PathValue("billID"), services.BillPatch{
		Name:    req.Name,
		DueDate: req.DueDate,
		Value:   req.Value.floatPtr(),
		Paid:    req.Paid,
		Note:    req.Note,
	})
	if err != nil {
		fail(w, r, log.OpUpdateMonth, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleToggleBill(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		fail(w, r, log.OpUpdateMonth, err)
		return
	}
	updated, err := s.session.ToggleBillPaid(r.Context(), year, month, r.PathValue("billID"))
	if err != nil {
		fail(w, r, log.OpUpdateMonth, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		fail(w, r, log.OpDeleteBill, err)
		return
	}
	updated, err := s.session.DeleteBill(r.Context(), year, month, r.PathValue("billID"))
	if err != nil {
		fail(w, r, log.OpDeleteBill, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		fail(w, r, log.OpSweep, err)
		return
	}
	moved, reserve, err := s.session.SweepSurplus(r.Context(), year, month)
	if err != nil {
		fail(w, r, log.OpSweep, err)
		return
	}
	writeJSON(w, http.StatusOK, sweepResponse{Moved: moved, Reserve: reserve})
}
