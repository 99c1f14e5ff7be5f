// Package cli provides common initialization shared by cmd/wealthgrows and
// cmd/report-worker.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"wealthgrows/internal/backend"
	"wealthgrows/internal/config"
	"wealthgrows/internal/store"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the configured persistence backend.
// Returns the store or exits the process on failure.
func OpenStore(logger *slog.Logger, cfg *config.Config) store.Store {
	st, err := backend.Open(cfg)
	if err != nil {
		logger.Error("Failed to open storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return st
}
