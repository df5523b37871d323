package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"financeiro/internal/amqp"
	"financeiro/internal/backend"
	"financeiro/internal/cli"
	"financeiro/internal/config"
	apphttp "financeiro/internal/http"
	"financeiro/internal/ids"
	"financeiro/internal/log"
	"financeiro/internal/metrics"
	"financeiro/internal/services"
	"financeiro/internal/state"
	"financeiro/internal/syncstatus"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig((*config.Config).Validate)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		cli.Fatal(logger, "financeiro stopped", err)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	m := metrics.New()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	be, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err)
		}
	}()

	session := services.NewSession(
		be.Store,
		state.NewReducer(ids.New()),
		syncstatus.New(cfg.SyncMinDisplay),
		m,
		logger,
		services.SessionConfig{Path: cfg.DocumentPath, WriteTimeout: cfg.WriteTimeout},
	)

	srv := apphttp.NewServer(":"+cfg.Port, session, m, logger, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return session.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("Starting financeiro server",
			"port", cfg.Port, "backend", cfg.DataBackend, log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if be.AMQP != nil && be.SQLite != nil {
		// Writes by other processes wake the watcher instead of waiting
		// for the next poll.
		g.Go(func() error {
			err := be.AMQP.ConsumeDocumentChanges(gctx, "", func(msg *amqp.DocumentChangedMessage) error {
				be.SQLite.Wake(msg.Path)
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := session.Flush(shutdownCtx); err != nil {
			logger.Warn("Pending writes not flushed", log.FieldError, err)
		}
		return nil
	})

	return g.Wait()
}
