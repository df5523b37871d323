package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"financeiro/internal/amqp"
	"financeiro/internal/cache"
	"financeiro/internal/cli"
	"financeiro/internal/config"
	"financeiro/internal/ids"
	"financeiro/internal/log"
	"financeiro/internal/metrics"
	"financeiro/internal/persistence/sqlite"
	"financeiro/internal/services"
	gsheet "financeiro/internal/sheets/google"
	"financeiro/internal/state"
	"financeiro/internal/worker"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	logger = logger.WithComponent(log.ComponentWorker)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	logger.Info("Starting financeiro-worker", log.FieldOperation, log.OpStartup)
	if err := run(ctx, cfg, logger); err != nil {
		cli.Fatal(logger, "financeiro-worker stopped", err)
	}
	logger.Info("Worker stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	store, err := sqlite.Open(cfg.SQLiteDBPath, sqlite.WithLogger(logger.Logger))
	if err != nil {
		return err
	}
	defer store.Close()

	sheetsClient, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	exporter := services.NewReportExporter(
		store,
		state.NewReducer(ids.New()),
		sheetsClient,
		store,
		metrics.New(),
		logger,
		cfg.DocumentPath,
	)
	exportWorker := worker.NewExportWorker(exporter, cfg.ExportInterval, logger)

	caches := cache.NewManager(func(removed int) {
		logger.Debug("Expired cache entries removed", "removed", removed)
	})
	caches.Register(exporter.Cache())
	caches.StartCleanup(10 * time.Minute)
	defer caches.Stop()

	g, gctx := errgroup.WithContext(ctx)

	// The periodic pass catches anything missed while the broker was down.
	g.Go(func() error {
		return exportWorker.Run(gctx)
	})

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, "financeiro-worker")
		if err != nil {
			logger.Warn("AMQP unavailable, relying on periodic exports", log.FieldError, err)
		} else {
			defer client.Close()
			g.Go(func() error {
				err := client.ConsumeDocumentChanges(gctx, cfg.AMQPQueue, func(msg *amqp.DocumentChangedMessage) error {
					return exportWorker.HandleDocumentChanged(gctx, msg)
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		}
	}

	return g.Wait()
}
