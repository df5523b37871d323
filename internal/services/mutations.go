package services

import (
	"context"

	"financeiro/internal/core"
	"financeiro/internal/log"
	"financeiro/internal/state"
)

// BillInput is a user-entered bill.
type BillInput struct {
	Name    string
	DueDate string
	Value   float64
	Paid    bool
	Note    string
}

// BillPatch changes the non-nil fields of a bill.
type BillPatch struct {
	Name    *string
	DueDate *string
	Value   *float64
	Paid    *bool
	Note    *string
}

// IncomePatch changes the non-nil income sources of a month.
type IncomePatch struct {
	Samuel *float64
	Sammia *float64
	Others *float64
}

// CreateNextYear appends the year after the last one and returns it.
func (s *Session) CreateNextYear(ctx context.Context) (core.YearData, error) {
	doc, err := s.mutate(ctx, log.OpCreateYear, 0, 0, func(doc core.AppState) (core.AppState, error) {
		return s.reducer.CreateNextYear(doc), nil
	})
	if err != nil {
		return core.YearData{}, err
	}
	last, _ := doc.LastYear()
	return last, nil
}

// ReplaceMonth stores m verbatim at (year, month).
func (s *Session) ReplaceMonth(ctx context.Context, year, month int, m core.MonthData) (core.MonthData, error) {
	if err := m.Validate(); err != nil {
		return core.MonthData{}, err
	}
	return s.updateMonth(ctx, log.OpUpdateMonth, year, month, func(core.MonthData) (core.MonthData, error) {
		return m, nil
	})
}

// UpdateIncome applies patch to the month's income.
func (s *Session) UpdateIncome(ctx context.Context, year, month int, patch IncomePatch) (core.MonthData, error) {
	return s.updateMonth(ctx, log.OpUpdateMonth, year, month, func(m core.MonthData) (core.MonthData, error) {
		var err error
		for _, f := range []struct {
			source core.IncomeSource
			value  *float64
		}{
			{core.IncomeSamuel, patch.Samuel},
			{core.IncomeSammia, patch.Sammia},
			{core.IncomeOthers, patch.Others},
		} {
			if f.value == nil {
				continue
			}
			if m, err = state.SetIncome(m, f.source, *f.value); err != nil {
				return m, err
			}
		}
		return m, nil
	})
}

// UpdateBill applies patch to one bill.
func (s *Session) UpdateBill(ctx context.Context, year, month int, billID string, patch BillPatch) (core.MonthData, error) {
	return s.updateMonth(ctx, log.OpUpdateMonth, year, month, func(m core.MonthData) (core.MonthData, error) {
		if _, ok := m.FindBill(billID); !ok {
			return m, state.ErrBillNotFound
		}
		var err error
		if patch.Name != nil {
			if m, err = state.SetBillName(m, billID, *patch.Name); err != nil {
				return m, err
			}
		}
		if patch.DueDate != nil {
			if m, err = state.SetBillDueDate(m, billID, *patch.DueDate); err != nil {
				return m, err
			}
		}
		if patch.Value != nil {
			if m, err = state.SetBillValue(m, billID, *patch.Value); err != nil {
				return m, err
			}
		}
		if patch.Paid != nil {
			if m, err = state.SetBillPaid(m, billID, *patch.Paid); err != nil {
				return m, err
			}
		}
		if patch.Note != nil {
			if m, err = state.SetBillNote(m, billID, *patch.Note); err != nil {
				return m, err
			}
		}
		return m, nil
	})
}

// ToggleBillPaid flips a bill's payment flag.
func (s *Session) ToggleBillPaid(ctx context.Context, year, month int, billID string) (core.MonthData, error) {
	return s.updateMonth(ctx, log.OpUpdateMonth, year, month, func(m core.MonthData) (core.MonthData, error) {
		return state.ToggleBillPaid(m, billID)
	})
}

// AddBill adds a bill to the month, and with replicate to every later
// month of the same year.
func (s *Session) AddBill(ctx context.Context, year, month int, in BillInput, replicate bool) (core.MonthData, error) {
	tmpl, err := state.NewBill(in.Name, in.DueDate, in.Value, in.Paid, in.Note)
	if err != nil {
		return core.MonthData{}, err
	}
	doc, err := s.mutate(ctx, log.OpAddBill, year, month, func(doc core.AppState) (core.AppState, error) {
		return s.reducer.AddBill(doc, year, month, tmpl, replicate)
	})
	if err != nil {
		return core.MonthData{}, err
	}
	return state.Month(doc, year, month)
}

// DeleteBill removes a bill. Deleting a missing bill is not an error.
func (s *Session) DeleteBill(ctx context.Context, year, month int, billID string) (core.MonthData, error) {
	doc, err := s.mutate(ctx, log.OpDeleteBill, year, month, func(doc core.AppState) (core.AppState, error) {
		return s.reducer.DeleteBill(doc, year, month, billID)
	})
	if err != nil {
		return core.MonthData{}, err
	}
	return state.Month(doc, year, month)
}

// SetReserve replaces the reserve balance.
func (s *Session) SetReserve(ctx context.Context, value float64) (float64, error) {
	doc, err := s.mutate(ctx, log.OpSetReserve, 0, 0, func(doc core.AppState) (core.AppState, error) {
		return s.reducer.SetReserve(doc, value), nil
	})
	return doc.Reserve, err
}

// DepositToReserve adds amount to the reserve balance.
func (s *Session) DepositToReserve(ctx context.Context, amount float64) (float64, error) {
	doc, err := s.mutate(ctx, log.OpAddReserve, 0, 0, func(doc core.AppState) (core.AppState, error) {
		return s.reducer.AddToReserve(doc, amount), nil
	})
	return doc.Reserve, err
}

// SweepSurplus moves the month's positive net into the reserve and returns
// the amount moved.
func (s *Session) SweepSurplus(ctx context.Context, year, month int) (float64, float64, error) {
	var moved float64
	doc, err := s.mutate(ctx, log.OpSweep, year, month, func(doc core.AppState) (core.AppState, error) {
		m, err := state.Month(doc, year, month)
		if err != nil {
			return doc, err
		}
		moved = core.MonthNet(m)
		if moved <= 0 {
			return doc, ErrNothingToSweep
		}
		return s.reducer.AddToReserve(doc, moved), nil
	})
	if err != nil {
		return 0, 0, err
	}
	return moved, doc.Reserve, nil
}

func (s *Session) updateMonth(ctx context.Context, op string, year, month int, fn func(core.MonthData) (core.MonthData, error)) (core.MonthData, error) {
	var updated core.MonthData
	_, err := s.mutate(ctx, op, year, month, func(doc core.AppState) (core.AppState, error) {
		m, err := state.Month(doc, year, month)
		if err != nil {
			return doc, err
		}
		if updated, err = fn(m); err != nil {
			return doc, err
		}
		return s.reducer.UpdateMonth(doc, year, month, updated)
	})
	if err != nil {
		return core.MonthData{}, err
	}
	return updated, nil
}
