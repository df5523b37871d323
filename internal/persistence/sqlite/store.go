// Package sqlite stores the document in a SQLite table and turns it into a
// push-based feed: local writes wake watchers directly, remote writers are
// picked up through change notifications and a slow poll.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"financeiro/internal/persistence"

	_ "modernc.org/sqlite"
)

// Publisher announces committed writes to other processes.
type Publisher interface {
	PublishDocumentChanged(ctx context.Context, path string, revision int64) error
}

type Option func(*Store)

// WithPublisher announces every Put through p.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithPollInterval sets how often watchers re-read the table. Zero disables
// polling.
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) { s.poll = d }
}

// WithLogger sets the logger used for publish failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

type Store struct {
	db        *sql.DB
	hub       *persistence.Hub
	publisher Publisher
	poll      time.Duration
	logger    *slog.Logger
}

// Open creates the database file if needed and runs migrations.
func Open(dbPath string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under concurrent Puts.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{
		db:     db,
		hub:    persistence.NewHub(),
		poll:   5 * time.Second,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// dsn enables WAL and a busy timeout so the API and the worker can share
// one database file.
func dsn(dbPath string) string {
	return dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Get(ctx context.Context, path string) ([]byte, bool, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE path = ?`, path).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select document: %w", err)
	}
	return body, true, nil
}

// Revision returns the write counter for path, or 0 when nothing is stored.
func (s *Store) Revision(ctx context.Context, path string) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM documents WHERE path = ?`, path).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select revision: %w", err)
	}
	return rev, nil
}

// Put replaces the document and bumps its revision. Watchers in this
// process are woken right away; other processes learn about it through
// the publisher.
func (s *Store) Put(ctx context.Context, path string, doc []byte) error {
	var rev int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO documents (path, body, revision, updated_at)
		VALUES (?, ?, 1, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(path) DO UPDATE SET
			body = excluded.body,
			revision = documents.revision + 1,
			updated_at = excluded.updated_at
		RETURNING revision`, path, doc).Scan(&rev)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	s.hub.Notify(path)

	if s.publisher != nil {
		if err := s.publisher.PublishDocumentChanged(ctx, path, rev); err != nil {
			// The write is committed; peers still catch up on their next poll.
			s.logger.WarnContext(ctx, "Failed to publish document change",
				"path", path, "revision", rev, "error", err)
		}
	}
	return nil
}

// Wake signals watchers of path to re-read, e.g. after a change
// notification from another process.
func (s *Store) Wake(path string) {
	s.hub.Notify(path)
}

func (s *Store) Watch(ctx context.Context, path string, fn func(persistence.Delivery)) error {
	wake, cancel := s.hub.Subscribe(path)
	defer cancel()
	return persistence.Follow(ctx, s, path, wake, s.poll, s.logger, fn)
}

// ExportRecord is the last report export for a year.
type ExportRecord struct {
	Year        int
	Fingerprint string
	Revision    int64
}

// LastExport returns the last recorded export for year.
func (s *Store) LastExport(ctx context.Context, year int) (ExportRecord, bool, error) {
	rec := ExportRecord{Year: year}
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint, revision FROM report_exports WHERE year = ?`, year,
	).Scan(&rec.Fingerprint, &rec.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		return ExportRecord{}, false, nil
	}
	if err != nil {
		return ExportRecord{}, false, fmt.Errorf("select export: %w", err)
	}
	return rec, true, nil
}

// RecordExport stores the fingerprint of a successful export.
func (s *Store) RecordExport(ctx context.Context, rec ExportRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO report_exports (year, fingerprint, revision, exported_at)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(year) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			revision = excluded.revision,
			exported_at = excluded.exported_at`,
		rec.Year, rec.Fingerprint, rec.Revision)
	if err != nil {
		return fmt.Errorf("upsert export: %w", err)
	}
	return nil
}

var _ persistence.Store = (*Store)(nil)
