package state

import (
	"strings"

	"financeiro/internal/core"
)

// The setters below replace a generic "field name + any value" update. Each
// one changes a single bill field on a month copy and validates its own
// input; callers hand the result to Reducer.UpdateMonth.

func withBill(m core.MonthData, billID string, fn func(*core.Bill) error) (core.MonthData, error) {
	i, ok := m.FindBill(billID)
	if !ok {
		return m, ErrBillNotFound
	}
	out := m.Clone()
	if err := fn(&out.Bills[i]); err != nil {
		return m, err
	}
	return out, nil
}

// SetBillName renames a bill. Blank names are rejected.
func SetBillName(m core.MonthData, billID, name string) (core.MonthData, error) {
	name = SanitizeText(name)
	if name == "" {
		return m, core.ErrEmptyName
	}
	return withBill(m, billID, func(b *core.Bill) error {
		b.Name = name
		return nil
	})
}

// SetBillDueDate accepts a day of the month or the no-due-date sentinel.
// An empty value clears the due date.
func SetBillDueDate(m core.MonthData, billID, dueDate string) (core.MonthData, error) {
	dueDate = NormalizeDueDate(dueDate)
	if err := core.ValidateDueDate(dueDate); err != nil {
		return m, err
	}
	return withBill(m, billID, func(b *core.Bill) error {
		b.DueDate = dueDate
		return nil
	})
}

// SetBillValue sets the amount. Non-numbers are already 0 by the time they
// get here; negative amounts are rejected.
func SetBillValue(m core.MonthData, billID string, value float64) (core.MonthData, error) {
	value = core.SanitizeAmount(value)
	if value < 0 {
		return m, core.ErrInvalidAmount
	}
	return withBill(m, billID, func(b *core.Bill) error {
		b.Value = value
		return nil
	})
}

// SetBillPaid sets the payment flag.
func SetBillPaid(m core.MonthData, billID string, paid bool) (core.MonthData, error) {
	return withBill(m, billID, func(b *core.Bill) error {
		b.Paid = paid
		return nil
	})
}

// ToggleBillPaid flips the payment flag.
func ToggleBillPaid(m core.MonthData, billID string) (core.MonthData, error) {
	return withBill(m, billID, func(b *core.Bill) error {
		b.Paid = !b.Paid
		return nil
	})
}

// SetBillNote replaces the free-text note. Empty is allowed.
func SetBillNote(m core.MonthData, billID, note string) (core.MonthData, error) {
	note = SanitizeText(note)
	return withBill(m, billID, func(b *core.Bill) error {
		b.Note = note
		return nil
	})
}

// SetIncome sets one income source. Negative amounts are rejected.
func SetIncome(m core.MonthData, source core.IncomeSource, value float64) (core.MonthData, error) {
	if !source.IsValid() {
		return m, core.ErrInvalidIncome
	}
	value = core.SanitizeAmount(value)
	if value < 0 {
		return m, core.ErrInvalidAmount
	}
	out := m.Clone()
	out.Income = out.Income.With(source, value)
	return out, nil
}

// NewBill prepares a user-entered bill for AddBill.
func NewBill(name, dueDate string, value float64, paid bool, note string) (core.Bill, error) {
	b := core.Bill{
		Name:    SanitizeText(name),
		DueDate: NormalizeDueDate(dueDate),
		Value:   core.SanitizeAmount(value),
		Paid:    paid,
		Note:    SanitizeText(note),
	}
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}
	return b, nil
}

// NormalizeDueDate trims input and maps an empty value to the sentinel.
func NormalizeDueDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.NoDueDate
	}
	return s
}

// SanitizeText trims whitespace and drops control characters other than
// tab and newlines.
func SanitizeText(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s))
}
