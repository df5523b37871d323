package core

import (
	"math"
	"testing"
)

func TestBuildReports(t *testing.T) {
	year := func(n int, income, bill float64) YearData {
		y := YearData{Year: n, Months: make([]MonthData, MonthsPerYear)}
		for i := range y.Months {
			y.Months[i] = MonthData{ID: i, Name: MonthNames[i], Bills: []Bill{}}
		}
		y.Months[0].Income = Income{Samuel: income}
		y.Months[0].Bills = []Bill{{ID: "a", Name: "Luz", DueDate: "5", Value: bill}}
		return y
	}
	s := AppState{Years: []YearData{year(2026, 1000, 400), year(2027, 100, 300)}, Reserve: 50}

	r := BuildReports(s)

	if r.Reserve != 50 {
		t.Errorf("reserve = %v", r.Reserve)
	}
	if len(r.Years) != 2 || r.Years[0].Year != 2027 || r.Years[1].Year != 2026 {
		t.Fatalf("years must be newest first: %+v", r.Years)
	}
	if r.Latest == nil || r.Latest.Year != 2027 || r.Latest.Net != -200 || r.Latest.Label != "Deficit" {
		t.Fatalf("unexpected latest %+v", r.Latest)
	}
	y26 := r.Years[1]
	if y26.Net != 600 || y26.ActiveMonths != 1 || y26.AvgMonthlyNet != 600 || y26.Outcome != Surplus {
		t.Errorf("unexpected 2026 report %+v", y26.YearAggregate)
	}
	if len(y26.Months) != MonthsPerYear || y26.Months[0].Net != 600 {
		t.Errorf("unexpected month summaries")
	}
	if math.Abs(y26.Bar.ExpenseShare-400.0/1400.0) > 1e-9 {
		t.Errorf("expense share = %v", y26.Bar.ExpenseShare)
	}
}

func TestBuildReportsEmpty(t *testing.T) {
	r := BuildReports(AppState{})
	if r.Latest != nil || len(r.Years) != 0 || r.Years == nil {
		t.Fatalf("unexpected reports %+v", r)
	}
}
