package db

import (
	"context"
)

// SnapshotCache is the single cached snapshot row.
type SnapshotCache struct {
	ID          int64
	GeneratedAt string
	Data        string
}

const getSnapshot = `-- name: GetSnapshot :one
SELECT id, generated_at, data FROM snapshot_cache WHERE id = 1
`

// GetSnapshot returns the cached row or sql.ErrNoRows.
func (q *Queries) GetSnapshot(ctx context.Context) (SnapshotCache, error) {
	row := q.db.QueryRowContext(ctx, getSnapshot)
	var i SnapshotCache
	err := row.Scan(&i.ID, &i.GeneratedAt, &i.Data)
	return i, err
}

const upsertSnapshot = `-- name: UpsertSnapshot :exec
INSERT INTO snapshot_cache (id, generated_at, data, updated_at)
VALUES (1, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
    generated_at = excluded.generated_at,
    data = excluded.data,
    updated_at = excluded.updated_at
`

// UpsertSnapshotParams holds the columns written by UpsertSnapshot.
type UpsertSnapshotParams struct {
	GeneratedAt string
	Data        string
}

// UpsertSnapshot replaces the cached row.
func (q *Queries) UpsertSnapshot(ctx context.Context, arg UpsertSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, upsertSnapshot, arg.GeneratedAt, arg.Data)
	return err
}

const deleteSnapshot = `-- name: DeleteSnapshot :exec
DELETE FROM snapshot_cache
`

// DeleteSnapshot clears the cache.
func (q *Queries) DeleteSnapshot(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteSnapshot)
	return err
}
