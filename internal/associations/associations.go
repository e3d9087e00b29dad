// Package associations stores which categories each memo is tagged with.
package associations

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-ports/memoapp/internal/events"
	"github.com/go-ports/memoapp/internal/storage"
)

const (
	// StorageKey is the storage entry holding the memo to category-ids map.
	StorageKey = "memoapp:memo-category-map"
	// EventUpdated is dispatched in the writing context after every write.
	EventUpdated = "memoapp:memo-categories-updated"
)

// Source is the read side consumers depend on.
type Source interface {
	All() map[string][]string
	Subscribe(fn func()) (unsubscribe func())
}

// Store reads and writes assignments through one context's storage view.
type Store struct {
	storage storage.Storage
	events  *events.Dispatcher
	mu      sync.Mutex // serializes read-modify-write in SetCategories
}

// NewStore returns a Store bound to one context.
func NewStore(s storage.Storage, d *events.Dispatcher) *Store {
	return &Store{storage: s, events: d}
}

// All returns a snapshot of every assignment. Corrupt data yields an empty map.
func (s *Store) All() map[string][]string {
	raw, ok := s.storage.GetItem(StorageKey)
	if !ok {
		return map[string][]string{}
	}
	return parse(raw)
}

// CategoriesFor returns the category ids assigned to memoID, or an empty slice.
func (s *Store) CategoriesFor(memoID string) []string {
	ids, ok := s.All()[memoID]
	if !ok {
		return []string{}
	}
	return ids
}

// SetCategories replaces the assignment of memoID with the deduplicated ids,
// keeping first-seen order. An empty result removes the entry. An empty memoID
// is a no-op. The per-memo limit is the caller's responsibility.
func (s *Store) SetCategories(memoID string, ids []string) error {
	if memoID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.All()
	unique := dedupe(ids)
	if len(unique) == 0 {
		delete(all, memoID)
	} else {
		all[memoID] = unique
	}

	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("associations.SetCategories: %w", err)
	}
	if err := s.storage.SetItem(StorageKey, string(data)); err != nil {
		return fmt.Errorf("associations.SetCategories: %w", err)
	}
	s.events.Dispatch(events.Event{Type: EventUpdated})
	return nil
}

// Subscribe calls fn after every assignment change seen by this context. The
// returned function unsubscribes and may be called more than once.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	removeStorage := s.events.AddListener(events.TypeStorage, func(ev events.Event) {
		if ev.Key == "" || ev.Key == StorageKey {
			fn()
		}
	})
	removeUpdated := s.events.AddListener(EventUpdated, func(events.Event) { fn() })
	return func() {
		removeStorage()
		removeUpdated()
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// parse decodes the stored map. Non-array values become empty lists and
// non-string elements are dropped.
func parse(raw string) map[string][]string {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil || entries == nil {
		if err != nil {
			slog.Debug("associations: ignoring malformed map", "err", err)
		}
		return map[string][]string{}
	}
	out := make(map[string][]string, len(entries))
	for memoID, value := range entries {
		var items []any
		if err := json.Unmarshal(value, &items); err != nil {
			out[memoID] = []string{}
			continue
		}
		ids := make([]string, 0, len(items))
		for _, item := range items {
			if id, ok := item.(string); ok {
				ids = append(ids, id)
			}
		}
		out[memoID] = ids
	}
	return out
}
