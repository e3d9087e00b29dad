// Package categories owns the category catalog: the bounded list of labels a
// memo can be tagged with, persisted in the local storage area.
package categories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/go-ports/memoapp/internal/events"
	"github.com/go-ports/memoapp/internal/storage"
)

const (
	// Limit is the maximum number of categories in the catalog.
	Limit = 6
	// PerMemoLimit is the maximum number of categories assigned to one memo.
	PerMemoLimit = 4

	// StorageKey is the storage entry holding the catalog as a JSON array.
	StorageKey = "memoapp:categories"
	// EventUpdated is dispatched in the writing context after every Save.
	EventUpdated = "memoapp:categories-updated"

	// PlaceholderDescription is stored when a category is saved without one.
	PlaceholderDescription = "説明未設定"
)

// Category is a user-defined label.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// ColorPresets are the colors offered for new categories.
var ColorPresets = []string{"#5B6DFF", "#FF8F6B", "#41C9A6", "#F2C94C", "#C084FC"}

var seed = []Category{
	{ID: "work", Name: "仕事", Description: "タスク管理や商談メモをまとめるカテゴリ", Color: "#5B6DFF"},
	{ID: "personal", Name: "個人", Description: "プライベートな記録や日記", Color: "#FF8F6B"},
	{ID: "idea", Name: "アイデア", Description: "ひらめきや草案をストック", Color: "#41C9A6"},
	{ID: "research", Name: "リサーチ", Description: "学習メモや調査ログ", Color: "#F2C94C"},
}

// Defaults returns a fresh copy of the seed catalog.
func Defaults() []Category {
	return slices.Clone(seed)
}

// Source is the read side of the catalog that consumers depend on.
type Source interface {
	Load() []Category
	Subscribe(fn func()) (unsubscribe func())
}

// Store reads and writes the catalog through one context's storage view and
// announces writes on that context's dispatcher.
type Store struct {
	storage storage.Storage
	events  *events.Dispatcher
}

// NewStore returns a Store bound to one context.
func NewStore(s storage.Storage, d *events.Dispatcher) *Store {
	return &Store{storage: s, events: d}
}

// Load returns the persisted catalog truncated to Limit, or the seed catalog
// when nothing valid is stored.
func (s *Store) Load() []Category {
	raw, ok := s.storage.GetItem(StorageKey)
	if !ok {
		return Defaults()
	}
	parsed := parse(raw)
	if len(parsed) == 0 {
		return Defaults()
	}
	if len(parsed) > Limit {
		parsed = parsed[:Limit]
	}
	return parsed
}

// Save persists at most Limit categories and notifies subscribers.
func (s *Store) Save(list []Category) error {
	if len(list) > Limit {
		list = list[:Limit]
	}
	if list == nil {
		list = []Category{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("categories.Save: %w", err)
	}
	if err := s.storage.SetItem(StorageKey, string(data)); err != nil {
		return fmt.Errorf("categories.Save: %w", err)
	}
	s.events.Dispatch(events.Event{Type: EventUpdated})
	return nil
}

// Subscribe calls fn after every catalog change seen by this context, whether
// written here or in another context. The returned function unsubscribes and
// may be called more than once.
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

// parse decodes a stored catalog, keeping only elements that carry all four
// fields as strings. Anything that is not a JSON array yields nil.
func parse(raw string) []Category {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.Debug("categories: ignoring malformed catalog", "err", err)
		return nil
	}
	out := make([]Category, 0, len(items))
	for _, item := range items {
		var fields map[string]any
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			continue
		}
		id, ok1 := fields["id"].(string)
		name, ok2 := fields["name"].(string)
		desc, ok3 := fields["description"].(string)
		color, ok4 := fields["color"].(string)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		out = append(out, Category{ID: id, Name: name, Description: desc, Color: color})
	}
	return out
}

// ---------------------------------------------------------------------------
// Catalog management
// ---------------------------------------------------------------------------

// Draft is the editable part of a category.
type Draft struct {
	Name        string
	Description string
	Color       string
}

// normalize trims the draft and fills defaults. ok is false when the name is blank.
func (d Draft) normalize() (Draft, bool) {
	out := Draft{
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		Color:       strings.TrimSpace(d.Color),
	}
	if out.Description == "" {
		out.Description = PlaceholderDescription
	}
	if out.Color == "" {
		out.Color = ColorPresets[0]
	}
	return out, out.Name != ""
}

// Remaining returns how many more categories can be added.
func (s *Store) Remaining() int {
	return max(Limit-len(s.Load()), 0)
}

// Add appends a new category. It is a no-op returning false when the name is
// blank or the catalog is full.
func (s *Store) Add(d Draft) (Category, bool, error) {
	draft, ok := d.normalize()
	if !ok {
		return Category{}, false, nil
	}
	list := s.Load()
	if len(list) >= Limit {
		return Category{}, false, nil
	}
	cat := Category{
		ID:          newID(list),
		Name:        draft.Name,
		Description: draft.Description,
		Color:       draft.Color,
	}
	if err := s.Save(append(list, cat)); err != nil {
		return Category{}, false, err
	}
	return cat, true, nil
}

// Update replaces the editable fields of the category with the given id.
// It returns false when the id is unknown or the name is blank.
func (s *Store) Update(id string, d Draft) (bool, error) {
	draft, ok := d.normalize()
	if !ok {
		return false, nil
	}
	list := s.Load()
	i := slices.IndexFunc(list, func(c Category) bool { return c.ID == id })
	if i < 0 {
		return false, nil
	}
	list[i] = Category{ID: id, Name: draft.Name, Description: draft.Description, Color: draft.Color}
	return true, s.Save(list)
}

// Remove deletes the category with the given id. Assignments that still
// reference it are left in place and dropped when memos are decorated.
func (s *Store) Remove(id string) (bool, error) {
	list := s.Load()
	next := slices.DeleteFunc(slices.Clone(list), func(c Category) bool { return c.ID == id })
	if len(next) == len(list) {
		return false, nil
	}
	return true, s.Save(next)
}

// Find returns the category with the given id from list.
func Find(list []Category, id string) (Category, bool) {
	i := slices.IndexFunc(list, func(c Category) bool { return c.ID == id })
	if i < 0 {
		return Category{}, false
	}
	return list[i], true
}

// newID returns a "cat-" id not used by any category in list.
func newID(list []Category) string {
	for {
		id := "cat-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		if _, taken := Find(list, id); !taken {
			return id
		}
	}
}
