package core

import "slices"

// YearReport is one year of the reports screen.
type YearReport struct {
	YearAggregate
	Outcome Outcome        `json:"outcome"`
	Bar     Proportion     `json:"bar"`
	Months  []MonthSummary `json:"months"`
}

// Performance is the headline for the most recent year.
type Performance struct {
	Year    int     `json:"year"`
	Net     float64 `json:"net"`
	Outcome Outcome `json:"outcome"`
	Label   string  `json:"label"`
}

// Reports is the full reports view.
type Reports struct {
	Reserve float64      `json:"reserve"`
	Latest  *Performance `json:"latest,omitempty"`
	Years   []YearReport `json:"years"`
}

// BuildYearReport aggregates y and summarizes each of its months.
func BuildYearReport(y YearData) YearReport {
	agg := AggregateYear(y)
	months := make([]MonthSummary, len(y.Months))
	for i, m := range y.Months {
		months[i] = SummarizeMonth(m)
	}
	return YearReport{
		YearAggregate: agg,
		Outcome:       OutcomeOf(agg.Net),
		Bar:           ReportBar(agg.TotalIncome, agg.TotalExpenses),
		Months:        months,
	}
}

// BuildReports lists every year newest first. Latest describes the last
// year in document order.
func BuildReports(s AppState) Reports {
	r := Reports{Reserve: s.Reserve, Years: make([]YearReport, 0, len(s.Years))}
	for _, y := range s.Years {
		r.Years = append(r.Years, BuildYearReport(y))
	}
	if last, ok := s.LastYear(); ok {
		agg := AggregateYear(last)
		o := OutcomeOf(agg.Net)
		r.Latest = &Performance{Year: last.Year, Net: agg.Net, Outcome: o, Label: o.PerformanceLabel()}
	}
	slices.Reverse(r.Years)
	return r
}
