package core

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"1.23", 1.23, true},
		{"1,23", 1.23, true},
		{" 2.50 ", 2.5, true},
		{"-300", -300, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"12abc", 0, false},
		{"12,5 reais", 0, false},
		{"NaN", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestCoerceAmount(t *testing.T) {
	if got := CoerceAmount("abc"); got != 0 {
		t.Fatalf("expected 0 for abc, got %v", got)
	}
	if got := CoerceAmount("1234,5"); got != 1234.5 {
		t.Fatalf("expected 1234.5, got %v", got)
	}
}

func TestSanitizeAmount(t *testing.T) {
	if got := SanitizeAmount(math.NaN()); got != 0 {
		t.Fatalf("expected 0 for NaN, got %v", got)
	}
	if got := SanitizeAmount(math.Inf(-1)); got != 0 {
		t.Fatalf("expected 0 for -Inf, got %v", got)
	}
	if got := SanitizeAmount(-12.5); got != -12.5 {
		t.Fatalf("expected -12.5, got %v", got)
	}
}

func TestFormatBRL(t *testing.T) {
	cases := map[float64]string{
		0:           "R$ 0,00",
		5089.06:     "R$ 5.089,06",
		1234567.891: "R$ 1.234.567,89",
		-850:        "-R$ 850,00",
	}
	for in, want := range cases {
		if got := FormatBRL(in); got != want {
			t.Errorf("FormatBRL(%v) = %q, want %q", in, got, want)
		}
	}
}
