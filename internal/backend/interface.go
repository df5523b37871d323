package backend

import (
	"context"
	"time"

	"financeiro/internal/amqp"
	"financeiro/internal/persistence"
	"financeiro/internal/persistence/sqlite"
)

// CleanupFunc releases whatever a backend opened.
type CleanupFunc func() error

// Result is a ready document backend. SQLite and AMQP are set only when the
// sqlite backend was selected and, for AMQP, when a broker URL was given.
type Result struct {
	Store   persistence.Store
	SQLite  *sqlite.Store
	AMQP    *amqp.Client
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	PollInterval time.Duration
	AMQPURL      string
	AMQPExchange string

	// Origin tags change notifications so a process can recognize its own.
	Origin string

	// Local specific
	LocalDataDir    string
	LocalStorageKey string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
	LocalBackend  BackendType = "local"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend, LocalBackend:
		return true
	default:
		return false
	}
}
