// Package backend selects and opens the persistence backend for the
// configured storage type.
package backend

import (
	"fmt"
	"log/slog"

	"wealthgrows/internal/config"
	"wealthgrows/internal/store"
	"wealthgrows/internal/store/jsonfile"
	"wealthgrows/internal/store/sqlite"
)

const (
	JSONFileBackend = "jsonfile"
	SQLiteBackend   = "sqlite"
)

// Open builds the Store named by cfg.DataBackend. The returned Store owns
// its resources; callers close it on shutdown.
func Open(cfg *config.Config) (store.Store, error) {
	switch cfg.DataBackend {
	case JSONFileBackend:
		st, err := jsonfile.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open jsonfile backend: %w", err)
		}
		slog.Info("Initialized jsonfile backend", "data_dir", cfg.DataDir)
		return st, nil

	case SQLiteBackend:
		st, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		slog.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return st, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}
