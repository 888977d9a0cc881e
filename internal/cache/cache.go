// Package cache persists the dashboard's single snapshot entry.
package cache

import (
	"context"
	"fmt"

	"github.com/abdulachik/dashboard/internal/dashboard"
	"github.com/abdulachik/dashboard/internal/db"
)

// ErrMiss is returned by Load when no entry is stored.
var ErrMiss = dashboard.ErrMiss

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store is a SnapshotStore that can report its backend, be cleared and be closed.
type Store interface {
	dashboard.SnapshotStore
	Backend() string
	// Clear removes the stored entry. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend      string
	FilePath     string
	DatabasePath string
}

// Open creates the configured store. The sqlite backend migrates its schema
// before returning.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.FilePath), nil

	case BackendMemory:
		return NewMemoryStore(), nil

	case BackendSQLite:
		conn, err := db.NewStore(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		if err := conn.Migrate(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate cache database: %w", err)
		}
		return NewSQLiteStore(conn), nil
	}

	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
