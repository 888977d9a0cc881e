package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abdulachik/dashboard/internal/dashboard"
	"github.com/abdulachik/dashboard/internal/db"
)

// SQLiteStore keeps the entry in the single-row snapshot_cache table.
type SQLiteStore struct {
	conn *db.Store
}

// NewSQLiteStore wraps a migrated database connection.
func NewSQLiteStore(conn *db.Store) *SQLiteStore {
	return &SQLiteStore{conn: conn}
}

// Backend returns "sqlite".
func (s *SQLiteStore) Backend() string {
	return BackendSQLite
}

// Load reads the row. No row is ErrMiss; undecodable data is an error.
func (s *SQLiteStore) Load(ctx context.Context) (*dashboard.Entry, error) {
	row, err := s.conn.GetSnapshot(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get cached snapshot: %w", err)
	}

	var snap dashboard.Snapshot
	if err := json.Unmarshal([]byte(row.Data), &snap); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}

	return &dashboard.Entry{Timestamp: row.GeneratedAt, Data: snap}, nil
}

// Save replaces the row.
func (s *SQLiteStore) Save(ctx context.Context, entry dashboard.Entry) error {
	data, err := json.Marshal(entry.Data)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := s.conn.UpsertSnapshot(ctx, db.UpsertSnapshotParams{
		GeneratedAt: entry.Timestamp,
		Data:        string(data),
	}); err != nil {
		return fmt.Errorf("save cached snapshot: %w", err)
	}
	return nil
}

// Clear deletes the row.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := s.conn.DeleteSnapshot(ctx); err != nil {
		return fmt.Errorf("delete cached snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
