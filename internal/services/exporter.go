package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"financeiro/internal/cache"
	"financeiro/internal/core"
	"financeiro/internal/log"
	"financeiro/internal/metrics"
	"financeiro/internal/persistence"
	"financeiro/internal/persistence/sqlite"
	"financeiro/internal/sheets"
	"financeiro/internal/state"
)

// ExportLedger remembers what was last exported per year so restarts do
// not rewrite every tab.
type ExportLedger interface {
	LastExport(ctx context.Context, year int) (sqlite.ExportRecord, bool, error)
	RecordExport(ctx context.Context, rec sqlite.ExportRecord) error
}

type revisioner interface {
	Revision(ctx context.Context, path string) (int64, error)
}

// ExportResult counts what one export pass did.
type ExportResult struct {
	Written int
	Skipped int
	Failed  int
}

// ReportExporter writes every changed year report of the stored document
// to a ReportWriter.
type ReportExporter struct {
	reader  persistence.Reader
	reducer *state.Reducer
	sink    sheets.ReportWriter
	ledger  ExportLedger
	metrics *metrics.Metrics
	logger  *log.Logger
	path    string

	// mu serializes passes triggered by messages and by the ticker.
	mu   sync.Mutex
	seen *cache.LRUCache[string]
}

// NewReportExporter wires an exporter. ledger and m may be nil.
func NewReportExporter(
	reader persistence.Reader,
	reducer *state.Reducer,
	sink sheets.ReportWriter,
	ledger ExportLedger,
	m *metrics.Metrics,
	logger *log.Logger,
	path string,
) *ReportExporter {
	if path == "" {
		path = persistence.DefaultPath
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ReportExporter{
		reader:  reader,
		reducer: reducer,
		sink:    sink,
		ledger:  ledger,
		metrics: m,
		logger:  logger.WithComponent(log.ComponentWorker),
		path:    path,
		seen:    cache.NewLRUCache[string](32, time.Hour),
	}
}

// Path is the document path the exporter reads.
func (e *ReportExporter) Path() string {
	return e.path
}

// Cache exposes the fingerprint cache for periodic cleanup.
func (e *ReportExporter) Cache() *cache.LRUCache[string] {
	return e.seen
}

// Export reads the stored document and writes each year whose report
// changed since the last successful export. A missing or unreadable
// document exports nothing. Failed years are retried on the next pass.
func (e *ReportExporter) Export(ctx context.Context) (ExportResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res ExportResult
	raw, present, err := e.reader.Get(ctx, e.path)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", e.path, err)
	}
	if !present {
		e.logger.DebugContext(ctx, "No stored document to export", log.FieldDocPath, e.path)
		return res, nil
	}
	resolved := e.reducer.Resolve(raw, present)
	if resolved.Shape == state.ShapeDefault {
		e.logger.WarnContext(ctx, "Stored document not exportable",
			log.FieldDocPath, e.path, log.FieldShape, resolved.Shape, log.FieldError, resolved.Err)
		return res, nil
	}

	var revision int64
	if r, ok := e.reader.(revisioner); ok {
		if revision, err = r.Revision(ctx, e.path); err != nil {
			e.logger.WarnContext(ctx, "Failed to read document revision", log.FieldError, err)
		}
	}

	var firstErr error
	for _, y := range resolved.State.Years {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		written, err := e.exportYear(ctx, y, revision)
		switch {
		case err != nil:
			res.Failed++
			e.record(metrics.ResultError)
			e.logger.ErrorContext(ctx, "Failed to export year report",
				log.FieldYear, y.Year, log.FieldOperation, log.OpExport, log.FieldError, err)
			if firstErr == nil {
				firstErr = err
			}
		case written:
			res.Written++
			e.record(metrics.ResultOK)
		default:
			res.Skipped++
		}
	}

	if res.Written > 0 || res.Failed > 0 {
		e.logger.InfoContext(ctx, "Export pass finished",
			"written", res.Written, "skipped", res.Skipped, "failed", res.Failed,
			log.FieldRevision, revision)
	}
	return res, firstErr
}

func (e *ReportExporter) exportYear(ctx context.Context, y core.YearData, revision int64) (bool, error) {
	report := core.BuildYearReport(y)
	body, err := json.Marshal(report)
	if err != nil {
		return false, fmt.Errorf("encode report: %w", err)
	}
	fp := cache.Digest(body)
	key := fmt.Sprintf("%s:%d", e.path, y.Year)

	if last, ok := e.seen.Get(key); ok && last == fp {
		return false, nil
	}
	if e.ledger != nil {
		rec, ok, err := e.ledger.LastExport(ctx, y.Year)
		if err != nil {
			return false, fmt.Errorf("read export ledger: %w", err)
		}
		if ok && rec.Fingerprint == fp {
			e.seen.Set(key, fp)
			return false, nil
		}
	}

	if err := e.sink.WriteYearReport(ctx, report); err != nil {
		return false, fmt.Errorf("write report %d: %w", y.Year, err)
	}
	if e.ledger != nil {
		if err := e.ledger.RecordExport(ctx, sqlite.ExportRecord{Year: y.Year, Fingerprint: fp, Revision: revision}); err != nil {
			// The report is out; worst case it is rewritten after a restart.
			e.logger.WarnContext(ctx, "Failed to record export", log.FieldYear, y.Year, log.FieldError, err)
		}
	}
	e.seen.Set(key, fp)
	e.logger.InfoContext(ctx, "Exported year report", log.FieldYear, y.Year, log.FieldRevision, revision)
	return true, nil
}

func (e *ReportExporter) record(result string) {
	if e.metrics != nil {
		e.metrics.Exports.WithLabelValues(result).Inc()
	}
}
