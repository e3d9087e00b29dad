package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ItemRevision is the change marker of one storage entry.
type ItemRevision struct {
	Revision int64
	Origin   string
}

// GetItem returns the value stored under key, or ("", false, nil) if not set.
func (d *DB) GetItem(ctx context.Context, key string) (string, bool, error) {
	var val string
	err := d.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("GetItem: %w", err)
	}
	return val, true, nil
}

// SetItem upserts key, recording origin as the last writer and bumping the
// entry's revision. Returns the new revision.
func (d *DB) SetItem(ctx context.Context, key, value, origin string) (int64, error) {
	var rev int64
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO local_storage (key, value, origin, revision, updated_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			origin = excluded.origin,
			revision = local_storage.revision + 1,
			updated_at = excluded.updated_at
		RETURNING revision`,
		key, value, origin, formatTime(time.Now()),
	).Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("SetItem: %w", err)
	}
	return rev, nil
}

// ItemRevisions returns the current revision of every storage entry.
func (d *DB) ItemRevisions(ctx context.Context) (map[string]ItemRevision, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT key, revision, origin FROM local_storage`)
	if err != nil {
		return nil, fmt.Errorf("ItemRevisions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ItemRevision)
	for rows.Next() {
		var key string
		var r ItemRevision
		if err := rows.Scan(&key, &r.Revision, &r.Origin); err != nil {
			return nil, fmt.Errorf("ItemRevisions: scan: %w", err)
		}
		out[key] = r
	}
	return out, rows.Err()
}
