// Package core provides the household document model, the static seed
// template, amount parsing and the read-side aggregation.
//
// This file contains the amount parsing used for every numeric field a
// user can type: reserve, income and bill values.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-typed decimal string into a number.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// Thousands separators are not. NaN and infinities are rejected.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-5")    -> -5, nil
//	ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	v := d.InexactFloat64()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// CoerceAmount parses s and returns 0 for anything that is not a number.
// Invalid numeric input is silently corrected, never rejected.
func CoerceAmount(s string) float64 {
	v, err := ParseAmount(s)
	if err != nil {
		return 0
	}
	return v
}

// SanitizeAmount maps NaN and infinities to 0.
func SanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatBRL renders an amount the way the dashboard shows it
// ("R$ 1.234,56"). Display only; no locale library is involved.
func FormatBRL(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "R$ " + b.String() + "," + frac
	if neg {
		return "-" + out
	}
	return out
}
