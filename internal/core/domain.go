package core

import (
	"errors"
	"strconv"
	"strings"
)

// NoDueDate marks a bill without a fixed day of the month.
const NoDueDate = "—"

// MonthsPerYear is the number of MonthData entries every year carries.
const MonthsPerYear = 12

type (
	Bill struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		DueDate string  `json:"dueDate"` // day of month ("10") or NoDueDate
		Value   float64 `json:"value"`
		Paid    bool    `json:"paid"`
		Note    string  `json:"note"`
	}

	Income struct {
		Samuel float64 `json:"samuel"`
		Sammia float64 `json:"sammia"`
		Others float64 `json:"others"`
	}

	MonthData struct {
		ID     int    `json:"id"` // 0-11
		Name   string `json:"name"`
		Bills  []Bill `json:"bills"`
		Income Income `json:"income"`
	}

	YearData struct {
		Year   int         `json:"year"`
		Months []MonthData `json:"months"`
	}

	// AppState is the whole persisted document.
	AppState struct {
		Years   []YearData `json:"years"`
		Reserve float64    `json:"reserve"`
	}

	// IncomeSource names one of the three Income fields.
	IncomeSource string
)

const (
	IncomeSamuel IncomeSource = "samuel"
	IncomeSammia IncomeSource = "sammia"
	IncomeOthers IncomeSource = "others"
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyName          = errors.New("empty name")
	ErrNameTooLong        = errors.New("name too long (max 200 characters)")
	ErrInvalidDueDate     = errors.New("invalid due date")
	ErrInvalidIncome      = errors.New("invalid income source")
	ErrDuplicateBillID    = errors.New("duplicate bill id")
	ErrInvalidMonthLayout = errors.New("invalid month layout")
	ErrDuplicateYear      = errors.New("duplicate year")
)

// IsValid reports whether s names a known income field.
func (s IncomeSource) IsValid() bool {
	switch s {
	case IncomeSamuel, IncomeSammia, IncomeOthers:
		return true
	default:
		return false
	}
}

// Get returns the amount recorded for source.
func (i Income) Get(source IncomeSource) float64 {
	switch source {
	case IncomeSamuel:
		return i.Samuel
	case IncomeSammia:
		return i.Sammia
	case IncomeOthers:
		return i.Others
	default:
		return 0
	}
}

// With returns a copy of i with source set to value.
func (i Income) With(source IncomeSource, value float64) Income {
	switch source {
	case IncomeSamuel:
		i.Samuel = value
	case IncomeSammia:
		i.Sammia = value
	case IncomeOthers:
		i.Others = value
	}
	return i
}

// DueDay returns the numeric day of a bill's due date. The sentinel and any
// other non-numeric value report false.
func (b Bill) DueDay() (int, bool) {
	day, err := strconv.Atoi(strings.TrimSpace(b.DueDate))
	if err != nil {
		return 0, false
	}
	return day, true
}

// Validate checks a bill as entered by a user.
func (b Bill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if len(b.Name) > 200 {
		return ErrNameTooLong
	}
	if err := ValidateDueDate(b.DueDate); err != nil {
		return err
	}
	if b.Value < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateDueDate accepts the sentinel or a day between 1 and 31.
func ValidateDueDate(s string) error {
	if s == NoDueDate {
		return nil
	}
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return ErrInvalidDueDate
	}
	return nil
}

// Validate checks the structural invariants of a month: ids unique within
// the bill list.
func (m MonthData) Validate() error {
	if m.ID < 0 || m.ID >= MonthsPerYear {
		return ErrInvalidMonthLayout
	}
	seen := make(map[string]struct{}, len(m.Bills))
	for _, b := range m.Bills {
		if _, ok := seen[b.ID]; ok {
			return ErrDuplicateBillID
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}

// Validate checks that a year holds months 0..11 in order.
func (y YearData) Validate() error {
	if len(y.Months) != MonthsPerYear {
		return ErrInvalidMonthLayout
	}
	for i, m := range y.Months {
		if m.ID != i {
			return ErrInvalidMonthLayout
		}
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the document invariants.
func (s AppState) Validate() error {
	seen := make(map[int]struct{}, len(s.Years))
	for _, y := range s.Years {
		if _, ok := seen[y.Year]; ok {
			return ErrDuplicateYear
		}
		seen[y.Year] = struct{}{}
		if err := y.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FindYear returns the index of year in s.Years.
func (s AppState) FindYear(year int) (int, bool) {
	for i, y := range s.Years {
		if y.Year == year {
			return i, true
		}
	}
	return -1, false
}

// LastYear returns the most recently appended year.
func (s AppState) LastYear() (YearData, bool) {
	if len(s.Years) == 0 {
		return YearData{}, false
	}
	return s.Years[len(s.Years)-1], true
}

// YearNumbers lists the years in document order.
func (s AppState) YearNumbers() []int {
	out := make([]int, len(s.Years))
	for i, y := range s.Years {
		out[i] = y.Year
	}
	return out
}

// FindMonth returns the index of the month with the given id.
func (y YearData) FindMonth(monthID int) (int, bool) {
	for i, m := range y.Months {
		if m.ID == monthID {
			return i, true
		}
	}
	return -1, false
}

// FindBill returns the index of the bill with the given id.
func (m MonthData) FindBill(billID string) (int, bool) {
	for i, b := range m.Bills {
		if b.ID == billID {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy of the month.
func (m MonthData) Clone() MonthData {
	out := m
	out.Bills = make([]Bill, len(m.Bills))
	copy(out.Bills, m.Bills)
	return out
}

// Clone returns a deep copy of the year.
func (y YearData) Clone() YearData {
	out := YearData{Year: y.Year, Months: make([]MonthData, len(y.Months))}
	for i, m := range y.Months {
		out.Months[i] = m.Clone()
	}
	return out
}

// Clone returns a deep copy of the document.
func (s AppState) Clone() AppState {
	out := AppState{Reserve: s.Reserve, Years: make([]YearData, len(s.Years))}
	for i, y := range s.Years {
		out.Years[i] = y.Clone()
	}
	return out
}
