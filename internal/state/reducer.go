// Package state owns the household document: pure operations that turn one
// AppState into the next, the decoders that recognize stored payloads, and
// the Store container shared by the local session and the remote feed.
package state

import (
	"errors"

	"financeiro/internal/core"
	"financeiro/internal/ids"
)

var (
	ErrYearNotFound  = errors.New("year not found")
	ErrMonthNotFound = errors.New("month not found")
	ErrBillNotFound  = errors.New("bill not found")
	ErrMonthMismatch = errors.New("month id does not match target month")
)

// Reducer implements every document mutation. Operations never modify
// their input: each returns a fresh document so the persistence sink always
// receives a complete snapshot.
type Reducer struct {
	ids ids.Generator
}

// NewReducer returns a Reducer that assigns bill ids from gen.
func NewReducer(gen ids.Generator) *Reducer {
	if gen == nil {
		gen = ids.New()
	}
	return &Reducer{ids: gen}
}

// InitializeDefault builds the first-run document: one year with every
// month seeded from the template and a zero reserve.
func (r *Reducer) InitializeDefault() core.AppState {
	return core.AppState{
		Years:   []core.YearData{r.defaultYear(core.DefaultStartYear)},
		Reserve: 0,
	}
}

func (r *Reducer) defaultYear(year int) core.YearData {
	y := core.YearData{Year: year, Months: make([]core.MonthData, core.MonthsPerYear)}
	for i, name := range core.MonthNames {
		bills := make([]core.Bill, len(core.TemplateBills))
		for j, b := range core.TemplateBills {
			b.ID = r.ids.NewID()
			bills[j] = b
		}
		y.Months[i] = core.MonthData{
			ID:     i,
			Name:   name,
			Bills:  bills,
			Income: core.DefaultIncome,
		}
	}
	return y
}

// CreateNextYear appends the year after the last one. Months are cloned
// from the last year with every bill unpaid and re-identified; income
// carries over. Without a prior year the template is used for
// DefaultStartYear. The reserve is untouched.
func (r *Reducer) CreateNextYear(s core.AppState) core.AppState {
	next := s.Clone()
	last, ok := s.LastYear()
	if !ok {
		next.Years = append(next.Years, r.defaultYear(core.DefaultStartYear))
		return next
	}

	year := core.YearData{Year: last.Year + 1, Months: make([]core.MonthData, len(last.Months))}
	for i, m := range last.Months {
		clone := m.Clone()
		for j := range clone.Bills {
			clone.Bills[j].Paid = false
			clone.Bills[j].ID = r.ids.NewID()
		}
		year.Months[i] = clone
	}
	next.Years = append(next.Years, year)
	return next
}

// locate returns the indexes of (year, monthID).
func locate(s core.AppState, year, monthID int) (int, int, error) {
	yi, ok := s.FindYear(year)
	if !ok {
		return -1, -1, ErrYearNotFound
	}
	mi, ok := s.Years[yi].FindMonth(monthID)
	if !ok {
		return -1, -1, ErrMonthNotFound
	}
	return yi, mi, nil
}

// Month returns a copy of the month at (year, monthID).
func Month(s core.AppState, year, monthID int) (core.MonthData, error) {
	yi, mi, err := locate(s, year, monthID)
	if err != nil {
		return core.MonthData{}, err
	}
	return s.Years[yi].Months[mi].Clone(), nil
}

// UpdateMonth replaces the month at (year, monthID) with m verbatim. The
// caller produces m; nothing is diffed. m must carry monthID so a month is
// never filed under another calendar slot.
func (r *Reducer) UpdateMonth(s core.AppState, year, monthID int, m core.MonthData) (core.AppState, error) {
	yi, mi, err := locate(s, year, monthID)
	if err != nil {
		return s, err
	}
	if m.ID != monthID {
		return s, ErrMonthMismatch
	}
	next := s.Clone()
	next.Years[yi].Months[mi] = m.Clone()
	return next, nil
}

// DeleteBill removes billID from the month. A missing bill is a no-op.
func (r *Reducer) DeleteBill(s core.AppState, year, monthID int, billID string) (core.AppState, error) {
	yi, mi, err := locate(s, year, monthID)
	if err != nil {
		return s, err
	}
	next := s.Clone()
	month := &next.Years[yi].Months[mi]
	kept := month.Bills[:0]
	for _, b := range month.Bills {
		if b.ID != billID {
			kept = append(kept, b)
		}
	}
	month.Bills = kept
	return next, nil
}

// AddBill appends tmpl with a fresh id to the month. With replicate, every
// later month of the same year receives its own copy too. Other years are
// never touched.
func (r *Reducer) AddBill(s core.AppState, year, monthID int, tmpl core.Bill, replicate bool) (core.AppState, error) {
	yi, _, err := locate(s, year, monthID)
	if err != nil {
		return s, err
	}
	next := s.Clone()
	months := next.Years[yi].Months
	for i := range months {
		if months[i].ID == monthID || (replicate && months[i].ID > monthID) {
			b := tmpl
			b.ID = r.ids.NewID()
			months[i].Bills = append(months[i].Bills, b)
		}
	}
	return next, nil
}

// SetReserve replaces the reserve. NaN and infinities become 0.
func (r *Reducer) SetReserve(s core.AppState, value float64) core.AppState {
	next := s.Clone()
	next.Reserve = core.SanitizeAmount(value)
	return next
}

// AddToReserve adds amount to the reserve.
func (r *Reducer) AddToReserve(s core.AppState, amount float64) core.AppState {
	next := s.Clone()
	next.Reserve = core.SanitizeAmount(s.Reserve + core.SanitizeAmount(amount))
	return next
}
