package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"financeiro/internal/config"
	"financeiro/internal/log"
)

func quietFactory() Factory {
	return NewFactory(log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)}))
}

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name       string
		config     Config
		wantSQLite bool
	}{
		{name: "memory", config: Config{Type: MemoryBackend}},
		{name: "local", config: Config{Type: LocalBackend, LocalDataDir: dir, LocalStorageKey: "doc"}},
		{name: "sqlite", config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "f.db")}, wantSQLite: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := quietFactory().CreateBackend(context.Background(), tt.config)
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			defer res.Cleanup()

			if (res.SQLite != nil) != tt.wantSQLite {
				t.Fatalf("sqlite handle = %v, want %v", res.SQLite != nil, tt.wantSQLite)
			}
			if res.AMQP != nil {
				t.Fatalf("no broker was configured")
			}

			ctx := context.Background()
			if err := res.Store.Put(ctx, "appState", []byte(`{"years":[]}`)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, ok, err := res.Store.Get(ctx, "appState")
			if err != nil || !ok || string(got) != `{"years":[]}` {
				t.Fatalf("Get = %q %v %v", got, ok, err)
			}
		})
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	for _, c := range []Config{
		{Type: "sheets"},
		{Type: SQLiteBackend},
		{Type: SQLiteBackend, SQLiteDBPath: "x.db", AMQPURL: "amqp://localhost"},
		{Type: LocalBackend, LocalDataDir: "data"},
	} {
		if _, err := quietFactory().CreateBackend(context.Background(), c); err == nil {
			t.Fatalf("expected an error for %+v", c)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("nil config must fail")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Fatalf("unknown backend must fail")
	}

	cfg := &config.Config{DataBackend: config.BackendSQLite, SQLiteDBPath: "a.db", AMQPURL: "amqp://x", AMQPExchange: "ex"}
	a, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	b, _ := FromAppConfig(cfg)
	if a.Type != SQLiteBackend || a.SQLiteDBPath != "a.db" || a.AMQPExchange != "ex" {
		t.Fatalf("unexpected config %+v", a)
	}
	if a.Origin == "" || a.Origin == b.Origin {
		t.Fatalf("every process needs its own origin")
	}
}
