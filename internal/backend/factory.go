package backend

import (
	"context"
	"errors"
	"fmt"

	"financeiro/internal/amqp"
	"financeiro/internal/log"
	"financeiro/internal/persistence/local"
	"financeiro/internal/persistence/memory"
	"financeiro/internal/persistence/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case LocalBackend:
		return f.createLocalBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*Result, error) {
	// AMQP is optional: without it other processes only see writes by polling.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.Origin)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change feed",
				log.FieldError, err)
		} else {
			amqpClient = client
			f.logger.InfoContext(ctx, "Initialized AMQP client", "exchange", config.AMQPExchange)
		}
	}

	opts := []sqlite.Option{
		sqlite.WithPollInterval(config.PollInterval),
		sqlite.WithLogger(f.logger.Logger),
	}
	if amqpClient != nil {
		opts = append(opts, sqlite.WithPublisher(amqpClient))
	}

	store, err := sqlite.Open(config.SQLiteDBPath, opts...)
	if err != nil {
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"poll_interval", config.PollInterval,
		"amqp_enabled", amqpClient != nil)

	return &Result{
		Store:  store,
		SQLite: store,
		AMQP:   amqpClient,
		Cleanup: func() error {
			var errs []error
			if amqpClient != nil {
				errs = append(errs, amqpClient.Close())
			}
			errs = append(errs, store.Close())
			return errors.Join(errs...)
		},
	}, nil
}

func (f *DefaultFactory) createLocalBackend(config Config) (*Result, error) {
	store, err := local.New(config.LocalDataDir, config.LocalStorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local store: %w", err)
	}

	f.logger.Info("Initialized local backend", "file", store.FilePath())

	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	store := memory.New()

	f.logger.Info("Initialized memory backend")

	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}
