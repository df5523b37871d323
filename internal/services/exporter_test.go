package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"financeiro/internal/core"
	"financeiro/internal/ids"
	"financeiro/internal/metrics"
	"financeiro/internal/persistence"
	"financeiro/internal/persistence/memory"
	"financeiro/internal/persistence/sqlite"
	sheetsmem "financeiro/internal/sheets/memory"
	"financeiro/internal/state"
)

type mapLedger struct {
	mu   sync.Mutex
	recs map[int]sqlite.ExportRecord
}

func newMapLedger() *mapLedger {
	return &mapLedger{recs: map[int]sqlite.ExportRecord{}}
}

func (l *mapLedger) LastExport(_ context.Context, year int) (sqlite.ExportRecord, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.recs[year]
	return rec, ok, nil
}

func (l *mapLedger) RecordExport(_ context.Context, rec sqlite.ExportRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recs[rec.Year] = rec
	return nil
}

type flakySink struct {
	*sheetsmem.Store
	failYear int
}

func (f *flakySink) WriteYearReport(ctx context.Context, r core.YearReport) error {
	if r.Year == f.failYear {
		return errors.New("quota exceeded")
	}
	return f.Store.WriteYearReport(ctx, r)
}

func twoYearDoc(t *testing.T) (*state.Reducer, core.AppState, []byte) {
	t.Helper()
	r := state.NewReducer(&ids.Sequence{Prefix: "x"})
	doc := r.CreateNextYear(r.InitializeDefault())
	body, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	return r, doc, body
}

func TestExporterWritesChangedYearsOnce(t *testing.T) {
	r, doc, body := twoYearDoc(t)
	docs := memory.New()
	docs.Seed(persistence.DefaultPath, body)
	sink := sheetsmem.New()
	ledger := newMapLedger()
	e := NewReportExporter(docs, r, sink, ledger, metrics.New(), testLogger(), "")
	ctx := context.Background()

	res, err := e.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Written != 2 || res.Skipped != 0 {
		t.Fatalf("first pass: %+v", res)
	}
	if got := sink.Years(); len(got) != 2 || got[0] != 2026 || got[1] != 2027 {
		t.Fatalf("exported years %v", got)
	}

	res, err = e.Export(ctx)
	if err != nil || res.Written != 0 || res.Skipped != 2 {
		t.Fatalf("second pass: %+v err=%v", res, err)
	}

	doc.Years[1].Months[0].Income.Others = 1000
	body, _ = json.Marshal(doc)
	docs.Seed(persistence.DefaultPath, body)

	res, err = e.Export(ctx)
	if err != nil || res.Written != 1 || res.Skipped != 1 {
		t.Fatalf("third pass: %+v err=%v", res, err)
	}
	rep, _ := sink.Report(2027)
	if rep.Months[0].IncomeTotal != core.DefaultIncome.Samuel+core.DefaultIncome.Sammia+core.DefaultIncome.Others+1000 {
		t.Fatalf("stale 2027 report: %+v", rep.Months[0])
	}
	if sink.Writes() != 3 {
		t.Fatalf("writes = %d, want 3", sink.Writes())
	}
}

func TestExporterUsesLedgerAcrossRestarts(t *testing.T) {
	r, _, body := twoYearDoc(t)
	docs := memory.New()
	docs.Seed(persistence.DefaultPath, body)
	ledger := newMapLedger()
	ctx := context.Background()

	first := sheetsmem.New()
	if _, err := NewReportExporter(docs, r, first, ledger, nil, testLogger(), "").Export(ctx); err != nil {
		t.Fatalf("Export: %v", err)
	}

	second := sheetsmem.New()
	res, err := NewReportExporter(docs, r, second, ledger, nil, testLogger(), "").Export(ctx)
	if err != nil {
		t.Fatalf("Export after restart: %v", err)
	}
	if res.Skipped != 2 || second.Writes() != 0 {
		t.Fatalf("restart rewrote reports: %+v writes=%d", res, second.Writes())
	}
}

func TestExporterSkipsMissingAndUnreadableDocuments(t *testing.T) {
	r := state.NewReducer(&ids.Sequence{Prefix: "x"})
	docs := memory.New()
	sink := sheetsmem.New()
	e := NewReportExporter(docs, r, sink, nil, nil, testLogger(), "")
	ctx := context.Background()

	if res, err := e.Export(ctx); err != nil || res != (ExportResult{}) {
		t.Fatalf("absent document: %+v err=%v", res, err)
	}
	docs.Seed(persistence.DefaultPath, []byte(`{oops`))
	if res, err := e.Export(ctx); err != nil || res != (ExportResult{}) {
		t.Fatalf("unreadable document: %+v err=%v", res, err)
	}
	if sink.Writes() != 0 {
		t.Fatalf("default document was exported")
	}
}

func TestExporterRetriesFailedYears(t *testing.T) {
	r, _, body := twoYearDoc(t)
	docs := memory.New()
	docs.Seed(persistence.DefaultPath, body)
	sink := &flakySink{Store: sheetsmem.New(), failYear: 2027}
	ledger := newMapLedger()
	e := NewReportExporter(docs, r, sink, ledger, nil, testLogger(), "")
	ctx := context.Background()

	res, err := e.Export(ctx)
	if err == nil {
		t.Fatal("expected export error")
	}
	if res.Written != 1 || res.Failed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, ok := ledger.recs[2027]; ok {
		t.Fatalf("failed year recorded in ledger")
	}

	sink.failYear = 0
	res, err = e.Export(ctx)
	if err != nil || res.Written != 1 || res.Skipped != 1 {
		t.Fatalf("retry pass: %+v err=%v", res, err)
	}
}

func TestExporterWithSQLiteLedger(t *testing.T) {
	r, _, body := twoYearDoc(t)
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "financeiro.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()
	ctx := context.Background()
	if err := st.Put(ctx, persistence.DefaultPath, body); err != nil {
		t.Fatalf("Put: %v", err)
	}

	sink := sheetsmem.New()
	e := NewReportExporter(st, r, sink, st, nil, testLogger(), "")
	if res, err := e.Export(ctx); err != nil || res.Written != 2 {
		t.Fatalf("Export: %+v err=%v", res, err)
	}

	rec, ok, err := st.LastExport(ctx, 2026)
	if err != nil || !ok {
		t.Fatalf("LastExport: ok=%v err=%v", ok, err)
	}
	if rec.Revision != 1 || rec.Fingerprint == "" {
		t.Fatalf("unexpected record %+v", rec)
	}
}
