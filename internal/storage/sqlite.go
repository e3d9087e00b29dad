package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/go-ports/memoapp/internal/db"
	"github.com/go-ports/memoapp/internal/events"
)

// SQLite is a storage view over the local_storage table of a memo database.
// Several processes opening the same file share the area; each view has its
// own origin so Watch can tell foreign writes from its own.
type SQLite struct {
	db     *db.DB
	events *events.Dispatcher
	origin string
}

// NewSQLite returns a view of the area stored in database, bound to the
// context whose dispatcher is d.
func NewSQLite(database *db.DB, d *events.Dispatcher) *SQLite {
	return &SQLite{db: database, events: d, origin: uuid.NewString()}
}

// Origin returns the identifier recorded with this view's writes.
func (s *SQLite) Origin() string { return s.origin }

// GetItem implements Storage.
func (s *SQLite) GetItem(key string) (string, bool) {
	v, ok, err := s.db.GetItem(context.Background(), key)
	if err != nil {
		slog.Warn("GetItem: read failed, treating as absent", "key", key, "err", err)
		return "", false
	}
	return v, ok
}

// SetItem implements Storage.
func (s *SQLite) SetItem(key, value string) error {
	_, err := s.db.SetItem(context.Background(), key, value, s.origin)
	return err
}

// Watch polls the area every interval and dispatches a storage event for
// each entry whose last write came from another origin. It returns when ctx
// is done.
func (s *SQLite) Watch(ctx context.Context, interval time.Duration) error {
	seen, err := s.db.ItemRevisions(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		current, err := s.db.ItemRevisions(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("Watch: poll failed", "err", err)
			continue
		}
		for key, rev := range current {
			if prev, ok := seen[key]; ok && prev.Revision == rev.Revision {
				continue
			}
			if rev.Origin != s.origin {
				s.events.Dispatch(events.Event{Type: events.TypeStorage, Key: key})
			}
		}
		for key := range seen {
			if _, ok := current[key]; !ok {
				s.events.Dispatch(events.Event{Type: events.TypeStorage, Key: key})
			}
		}
		seen = current
	}
}
