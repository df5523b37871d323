package worker

import (
	"context"
	"time"

	"financeiro/internal/amqp"
	"financeiro/internal/log"
	"financeiro/internal/services"
)

// Exporter is the part of services.ReportExporter the worker drives.
type Exporter interface {
	Path() string
	Export(ctx context.Context) (services.ExportResult, error)
}

// ExportWorker keeps the report spreadsheet in step with the stored
// document. Change notifications trigger an export right away; a periodic
// pass catches anything a lost message missed.
type ExportWorker struct {
	exporter Exporter
	interval time.Duration
	logger   *log.Logger
}

func NewExportWorker(exporter Exporter, interval time.Duration, logger *log.Logger) *ExportWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExportWorker{
		exporter: exporter,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleDocumentChanged processes a single change notification from AMQP.
// Notifications for other documents are ignored. Export failures are
// logged and left to the periodic pass; the message is never requeued.
func (w *ExportWorker) HandleDocumentChanged(ctx context.Context, msg *amqp.DocumentChangedMessage) error {
	if msg.Path != w.exporter.Path() {
		w.logger.DebugContext(ctx, "Ignoring change for other document", log.FieldDocPath, msg.Path)
		return nil
	}
	w.logger.InfoContext(ctx, "Processing document change",
		log.FieldDocPath, msg.Path,
		log.FieldRevision, msg.Revision,
		log.FieldOrigin, msg.Origin)

	w.pass(ctx, "message")
	return nil
}

// Run exports once at startup and then every interval until ctx is done.
func (w *ExportWorker) Run(ctx context.Context) error {
	w.pass(ctx, "startup")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.pass(ctx, "periodic")
		}
	}
}

func (w *ExportWorker) pass(ctx context.Context, trigger string) {
	res, err := w.exporter.Export(ctx)
	if err != nil && ctx.Err() == nil {
		w.logger.ErrorContext(ctx, "Export pass failed",
			"trigger", trigger, log.FieldOperation, log.OpExport, log.FieldError, err)
		return
	}
	w.logger.DebugContext(ctx, "Export pass done",
		"trigger", trigger, "written", res.Written, "skipped", res.Skipped)
}
