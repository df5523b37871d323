// Package memory keeps exported year reports in process. It backs the
// export worker's dry-run mode and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"financeiro/internal/core"
	ports "financeiro/internal/sheets"
)

var _ ports.ReportWriter = (*Store)(nil)

type Store struct {
	mu      sync.Mutex
	reports map[int]core.YearReport
	writes  int
}

func New() *Store {
	return &Store{reports: make(map[int]core.YearReport)}
}

// WriteYearReport replaces the stored report for r.Year.
func (s *Store) WriteYearReport(ctx context.Context, r core.YearReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.Year] = r
	s.writes++
	return nil
}

// Report returns the last report written for year.
func (s *Store) Report(year int) (core.YearReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[year]
	return r, ok
}

// Years lists the exported years in ascending order.
func (s *Store) Years() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.reports))
	for y := range s.reports {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Writes counts every successful WriteYearReport call.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
