package backend

import (
	"fmt"

	"github.com/google/uuid"

	"financeiro/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,
		PollInterval: appConfig.PollInterval,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		Origin:       uuid.NewString(),

		LocalDataDir:    appConfig.LocalDataDir,
		LocalStorageKey: appConfig.LocalStorageKey,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
		if c.AMQPURL != "" && c.AMQPExchange == "" {
			return fmt.Errorf("AMQP exchange is required when an AMQP URL is set")
		}
	case LocalBackend:
		if c.LocalDataDir == "" || c.LocalStorageKey == "" {
			return fmt.Errorf("local backend needs a data directory and a storage key")
		}
	case MemoryBackend:
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{SQLiteBackend, MemoryBackend, LocalBackend}
}
