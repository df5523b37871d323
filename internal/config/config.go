package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"financeiro/internal/log"
)

// Backends selectable through DATA_BACKEND.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendLocal  = "local"
)

var validBackends = []string{BackendMemory, BackendSQLite, BackendLocal}

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int

	// Document
	DataBackend  string
	DocumentPath string

	// SQLite backend
	SQLiteDBPath string
	PollInterval time.Duration

	// Local backend
	LocalDataDir    string
	LocalStorageKey string

	// Session
	WriteTimeout   time.Duration
	SyncMinDisplay time.Duration

	// AMQP change feed (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets report export (worker)
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
	ExportInterval           time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8081"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		DataBackend:  getEnv("DATA_BACKEND", BackendLocal),
		DocumentPath: getEnv("DOCUMENT_PATH", "appState"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/financeiro.db"),
		PollInterval: getEnvDuration("POLL_INTERVAL", 5*time.Second),

		LocalDataDir:    getEnv("LOCAL_DATA_DIR", "./data"),
		LocalStorageKey: getEnv("LOCAL_STORAGE_KEY", "financeiro_sk_sb_v3_data"),

		WriteTimeout:   getEnvDuration("WRITE_TIMEOUT", 10*time.Second),
		SyncMinDisplay: getEnvDuration("SYNC_MIN_DISPLAY", 400*time.Millisecond),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "financeiro"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "financeiro_report_exports"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		ExportInterval:           getEnvDuration("EXPORT_INTERVAL", time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", log.FormatText),
	}

	return cfg
}

// Validate validates the configuration shared by every binary and returns
// an error listing every problem found.
func (c *Config) Validate() error {
	errs := c.validateCommon()
	return combine(errs)
}

// ValidateWorker additionally checks what the report export worker needs.
func (c *Config) ValidateWorker() error {
	errs := c.validateCommon()

	if c.DataBackend != BackendSQLite {
		errs = append(errs, fmt.Sprintf("worker requires the sqlite backend, got '%s'", c.DataBackend))
	}
	if c.GoogleSpreadsheetID == "" {
		errs = append(errs, "GOOGLE_SPREADSHEET_ID is required for the report export worker")
	}
	hasFile := c.GoogleServiceAccountFile != ""
	hasJSON := c.GoogleServiceAccountJSON != ""
	if !hasFile && !hasJSON {
		errs = append(errs, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided")
	}
	if hasFile {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}
	if c.ExportInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid export interval %v: must be at least 1 second", c.ExportInterval))
	}

	return combine(errs)
}

func (c *Config) validateCommon() []string {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if strings.TrimSpace(c.DocumentPath) == "" {
		errs = append(errs, "DOCUMENT_PATH cannot be empty")
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
		if c.PollInterval < 0 {
			errs = append(errs, fmt.Sprintf("invalid poll interval %v: must not be negative", c.PollInterval))
		}
	case BackendLocal:
		if c.LocalDataDir == "" {
			errs = append(errs, "LOCAL_DATA_DIR cannot be empty when using local backend")
		}
		if c.LocalStorageKey == "" {
			errs = append(errs, "LOCAL_STORAGE_KEY cannot be empty when using local backend")
		} else if strings.ContainsAny(c.LocalStorageKey, `/\`) {
			errs = append(errs, fmt.Sprintf("invalid local storage key '%s': must not contain path separators", c.LocalStorageKey))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.WriteTimeout < 100*time.Millisecond {
		errs = append(errs, fmt.Sprintf("invalid write timeout %v: must be at least 100ms", c.WriteTimeout))
	}
	if c.SyncMinDisplay < 0 {
		errs = append(errs, fmt.Sprintf("invalid sync min display %v: must not be negative", c.SyncMinDisplay))
	}
	if c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be at least 1 per minute", c.RateLimitPerMinute))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if !slices.Contains([]string{log.FormatText, log.FormatJSON, log.FormatTint}, c.LogFormat) {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be text, json or tint", c.LogFormat))
	}

	return errs
}

func combine(errs []string) error {
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
