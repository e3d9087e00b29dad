// Package db manages the SQLite database holding memos and the shared
// key/value storage area.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql

	"github.com/go-ports/memoapp/internal/models"
	"github.com/go-ports/memoapp/internal/search"
)

// timeLayout is a fixed-width UTC layout so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DB wraps a *sql.DB with the path it was opened from.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path and initialises the schema.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("db.Open: %w", err)
	}
	d := &DB{db: sqldb, path: path}
	if err := d.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("db.Open createSchema: %w", err)
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the file the database was opened from.
func (d *DB) Path() string { return d.path }

// Ping verifies the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	var one int
	if err := d.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("Ping: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func (d *DB) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memos (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			content    TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS memos_updated_at ON memos(updated_at DESC)`,
		`CREATE TABLE IF NOT EXISTS local_storage (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			origin     TEXT NOT NULL,
			revision   INTEGER NOT NULL DEFAULT 1,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, s := range stmts {
		if _, err := d.db.Exec(s); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, s)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Memos
// ---------------------------------------------------------------------------

// InsertMemo inserts a memo record.
func (d *DB) InsertMemo(ctx context.Context, m *models.Memo) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO memos (id, title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Title, nullable(m.Content),
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("InsertMemo: %w", err)
	}
	return nil
}

// GetMemo fetches a single memo by exact ID.
func (d *DB) GetMemo(ctx context.Context, id string) (*models.Memo, bool, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM memos WHERE id = ?`, id)
	m, err := scanMemo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("GetMemo: %w", err)
	}
	return m, true, nil
}

// UpdateMemo overwrites the title and content of an existing memo and stamps
// updatedAt. Returns the updated memo, or (nil, false, nil) when id is unknown.
func (d *DB) UpdateMemo(ctx context.Context, id string, in models.MemoInput, updatedAt time.Time) (*models.Memo, bool, error) {
	res, err := d.db.ExecContext(ctx,
		`UPDATE memos SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		in.Title, nullable(in.Content), formatTime(updatedAt), id,
	)
	if err != nil {
		return nil, false, fmt.Errorf("UpdateMemo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("UpdateMemo: %w", err)
	}
	if n == 0 {
		return nil, false, nil
	}
	return d.GetMemo(ctx, id)
}

// DeleteMemo deletes a memo by exact ID.
// Returns true if a record was found and deleted.
func (d *DB) DeleteMemo(ctx context.Context, id string) (bool, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM memos WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("DeleteMemo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("DeleteMemo: %w", err)
	}
	return n > 0, nil
}

// ListMemos returns the memos matching f, most recently updated first.
func (d *DB) ListMemos(ctx context.Context, f search.Filter) ([]models.Memo, error) {
	where, params := f.Where("m")
	q := `SELECT m.id, m.title, m.content, m.created_at, m.updated_at FROM memos m` +
		where + "\n\t\tORDER BY m.updated_at DESC" // #nosec G202 -- WHERE clause uses hardcoded column names only; values flow through ? bound parameters
	rows, err := d.db.QueryContext(ctx, q, params...)
	if err != nil {
		return nil, fmt.Errorf("ListMemos: %w", err)
	}
	defer rows.Close()

	memos := make([]models.Memo, 0)
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, fmt.Errorf("ListMemos: scan: %w", err)
		}
		memos = append(memos, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListMemos: rows: %w", err)
	}
	return memos, nil
}

// CountMemos returns the total number of memos.
func (d *DB) CountMemos(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memos`).Scan(&n)
	return n, err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type scanner interface {
	Scan(dest ...any) error
}

func scanMemo(s scanner) (*models.Memo, error) {
	var (
		m                    models.Memo
		content              sql.NullString
		createdAt, updatedAt string
	)
	if err := s.Scan(&m.ID, &m.Title, &content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	m.Content = content.String
	var err error
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by hand or older builds may use plain RFC 3339.
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}
