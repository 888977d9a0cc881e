// Package db owns the SQLite connection backing the sqlite cache store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/abdulachik/dashboard/internal/db/migrations"
)

// pragmas are applied to every new connection.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

// Store wraps the database connection and provides access to queries.
type Store struct {
	*sql.DB
	*Queries
}

// MigrationStatus lists applied and pending migration files.
type MigrationStatus struct {
	Applied []string
	Pending []string
}

// NewStore opens the database at dbPath, creating its directory if needed.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Writes are serialized; one connection keeps the pragmas in effect.
	sqlDB.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := sqlDB.ExecContext(ctx, p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	return &Store{
		DB:      sqlDB,
		Queries: New(sqlDB),
	}, nil
}

// Migrate applies every pending migration, each in its own transaction.
func (s *Store) Migrate(ctx context.Context) error {
	status, err := s.Status(ctx)
	if err != nil {
		return err
	}

	if len(status.Pending) == 0 {
		slog.Debug("database schema up to date", "applied", len(status.Applied))
		return nil
	}

	for _, file := range status.Pending {
		if err := s.apply(ctx, file); err != nil {
			return err
		}
		slog.Info("applied migration", "file", file)
	}

	return nil
}

// Status reports which migrations have been applied.
func (s *Store) Status(ctx context.Context) (*MigrationStatus, error) {
	if _, err := s.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return nil, fmt.Errorf("create migrations table: %w", err)
	}

	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	files, err := migrationFiles()
	if err != nil {
		return nil, err
	}

	status := &MigrationStatus{}
	for _, file := range files {
		if applied[file] {
			status.Applied = append(status.Applied, file)
		} else {
			status.Pending = append(status.Pending, file)
		}
	}
	return status, nil
}

func (s *Store) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := s.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate migrations: %w", err)
	}
	return applied, nil
}

func (s *Store) apply(ctx context.Context, file string) error {
	content, err := fs.ReadFile(migrations.FS, file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upSection(string(content))); err != nil {
		return fmt.Errorf("execute migration %s: %w", file, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", file); err != nil {
		return fmt.Errorf("record migration %s: %w", file, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", file, err)
	}
	return nil
}

func migrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// upSection returns the statements between the Up and Down markers.
func upSection(content string) string {
	if idx := strings.Index(content, "-- +migrate Down"); idx != -1 {
		content = content[:idx]
	}
	content = strings.TrimSpace(content)
	return strings.TrimSpace(strings.TrimPrefix(content, "-- +migrate Up"))
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}
