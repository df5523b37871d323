package services

import (
	"time"

	"financeiro/internal/core"
	"financeiro/internal/state"
)

// MonthCard is one month on the dashboard.
type MonthCard struct {
	core.MonthSummary
	Label string `json:"label"`
}

// YearView is the dashboard for one year.
type YearView struct {
	Year    int         `json:"year"`
	Years   []int       `json:"years"`
	Reserve float64     `json:"reserve"`
	Months  []MonthCard `json:"months"`
}

// BillView is a bill with its near-due flag for today.
type BillView struct {
	core.Bill
	NearDue bool `json:"nearDue"`
}

// MonthView is the month detail screen.
type MonthView struct {
	Year     int               `json:"year"`
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Income   core.Income       `json:"income"`
	Bills    []BillView        `json:"bills"`
	Summary  core.MonthSummary `json:"summary"`
	Banner   string            `json:"banner"`
	CanSweep bool              `json:"canSweep"`
	Reserve  float64           `json:"reserve"`
}

// State returns a snapshot of the whole document.
func (s *Session) State() core.AppState {
	return s.store.Snapshot()
}

// Year returns the dashboard for year. An unknown year falls back to the
// first one.
func (s *Session) Year(year int) (YearView, error) {
	doc := s.store.Snapshot()
	if len(doc.Years) == 0 {
		return YearView{}, state.ErrYearNotFound
	}
	y := doc.Years[0]
	if i, ok := doc.FindYear(year); ok {
		y = doc.Years[i]
	}

	view := YearView{
		Year:    y.Year,
		Years:   doc.YearNumbers(),
		Reserve: doc.Reserve,
		Months:  make([]MonthCard, len(y.Months)),
	}
	for i, m := range y.Months {
		sum := core.SummarizeMonth(m)
		view.Months[i] = MonthCard{MonthSummary: sum, Label: sum.Outcome.CardLabel()}
	}
	return view, nil
}

// Month returns the detail view of (year, month) with near-due flags
// computed for today.
func (s *Session) Month(year, month int, today time.Time) (MonthView, error) {
	doc := s.store.Snapshot()
	m, err := state.Month(doc, year, month)
	if err != nil {
		return MonthView{}, err
	}
	sum := core.SummarizeMonth(m)
	view := MonthView{
		Year:     year,
		ID:       m.ID,
		Name:     m.Name,
		Income:   m.Income,
		Bills:    make([]BillView, len(m.Bills)),
		Summary:  sum,
		Banner:   sum.Outcome.BannerLabel(),
		CanSweep: sum.Net > 0,
		Reserve:  doc.Reserve,
	}
	for i, b := range m.Bills {
		view.Bills[i] = BillView{Bill: b, NearDue: core.IsNearDue(b, today.Day())}
	}
	return view, nil
}

// Reports returns the yearly reports.
func (s *Session) Reports() core.Reports {
	return core.BuildReports(s.store.Snapshot())
}
