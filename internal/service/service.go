// Package service implements the memo service orchestrator that wires
// together configuration, the database, the storage area, both category
// stores, the listing engine and the session gate.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/go-ports/memoapp/internal/associations"
	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/config"
	"github.com/go-ports/memoapp/internal/db"
	"github.com/go-ports/memoapp/internal/events"
	"github.com/go-ports/memoapp/internal/i18n"
	"github.com/go-ports/memoapp/internal/listing"
	"github.com/go-ports/memoapp/internal/models"
	"github.com/go-ports/memoapp/internal/picker"
	"github.com/go-ports/memoapp/internal/search"
	"github.com/go-ports/memoapp/internal/session"
	"github.com/go-ports/memoapp/internal/storage"
)

// Service errors.
var (
	ErrSignInRequired = errors.New("sign in required")
	ErrMemoNotFound   = errors.New("memo not found")
)

// Service orchestrates memo operations for one context: it owns the
// context's dispatcher and storage view.
type Service struct {
	Home   string
	Config *config.AppConfig
	Locale i18n.Locale

	Events       *events.Dispatcher
	Storage      *storage.SQLite
	Categories   *categories.Store
	Associations *associations.Store
	Sessions     *session.Manager

	database *db.DB
	engine   *listing.Engine
	gate     session.Gate
	now      func() time.Time
}

// New initialises a Service rooted at home.
// If home is empty it is resolved via config.GetHome.
func New(home string) (*Service, error) {
	if home == "" {
		home = config.GetHome()
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		if secret, err = session.LoadOrCreateKey(filepath.Join(home, "session.key")); err != nil {
			return nil, fmt.Errorf("service.New: session key: %w", err)
		}
	}

	database, err := db.Open(cfg.DatabasePath(home))
	if err != nil {
		return nil, fmt.Errorf("service.New: open db: %w", err)
	}

	collation, err := language.Parse(cfg.Listing.Collation)
	if err != nil {
		slog.Warn("service.New: invalid collation, using ja", "collation", cfg.Listing.Collation, "err", err)
		collation = language.Japanese
	}

	d := events.NewDispatcher()
	local := storage.NewSQLite(database, d)
	sessions := session.NewManager(filepath.Join(home, "session.jwt"), secret, cfg.SessionTTL())
	return &Service{
		Home:         home,
		Config:       cfg,
		Locale:       i18n.Match(cfg.Locale),
		Events:       d,
		Storage:      local,
		Categories:   categories.NewStore(local, d),
		Associations: associations.NewStore(local, d),
		Sessions:     sessions,
		database:     database,
		engine:       listing.NewEngine(collation),
		gate:         sessions,
		now:          time.Now,
	}, nil
}

// Close delivers pending notifications and releases all resources.
func (s *Service) Close() error {
	s.Events.Close()
	return s.database.Close()
}

// Ping checks that the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.database.Ping(ctx)
}

// Engine returns the listing engine configured for this home.
func (s *Service) Engine() *listing.Engine { return s.engine }

// Watch turns changes written by other processes into storage events on
// this service's dispatcher until ctx is done.
func (s *Service) Watch(ctx context.Context) error {
	return s.Storage.Watch(ctx, s.Config.WatchInterval())
}

// requireSession enforces the sign-in gate for mutations.
func (s *Service) requireSession() error {
	if s.Config.Session.Required && !s.gate.Active() {
		return ErrSignInRequired
	}
	return nil
}

// ---------------------------------------------------------------------------
// Memos
// ---------------------------------------------------------------------------

// ListOptions selects and orders a memo list.
type ListOptions struct {
	Query      string
	CategoryID string
	Sort       string // empty uses the configured default
}

// ListMemos returns the decorated, filtered and sorted memo list.
func (s *Service) ListMemos(ctx context.Context, opts ListOptions) (listing.Result, error) {
	filter := search.ParseQuery(opts.Query)
	memos, err := s.database.ListMemos(ctx, filter)
	if err != nil {
		return listing.Result{}, err
	}
	return s.engine.Build(memos, s.Categories.Load(), s.Associations.All(), s.Query(opts)), nil
}

// Query converts list options into listing parameters.
func (s *Service) Query(opts ListOptions) listing.Query {
	sortMode := opts.Sort
	if sortMode == "" {
		sortMode = s.Config.Listing.Sort
	}
	return listing.Query{
		CategoryID:     strings.TrimSpace(opts.CategoryID),
		Sort:           listing.ParseSortMode(sortMode),
		SearchFiltered: !search.ParseQuery(opts.Query).IsZero(),
	}
}

// SearchMemos returns the raw memo list for a query, most recent first.
func (s *Service) SearchMemos(ctx context.Context, query string) ([]models.Memo, error) {
	return s.database.ListMemos(ctx, search.ParseQuery(query))
}

// GetMemo returns one memo decorated with its categories.
func (s *Service) GetMemo(ctx context.Context, id string) (*listing.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, models.ErrMemoIDRequired
	}
	m, found, err := s.database.GetMemo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrMemoNotFound, id)
	}
	return s.decorate(*m), nil
}

// CreateMemo validates and stores a new memo. A non-nil categoryIDs is
// written as the memo's assignment, capped at categories.PerMemoLimit.
func (s *Service) CreateMemo(ctx context.Context, in models.MemoInput, categoryIDs []string) (*listing.Item, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	valid, err := models.ValidateMemoInput(in)
	if err != nil {
		return nil, err
	}
	m := models.NewMemo(valid, s.now())
	if err := s.database.InsertMemo(ctx, m); err != nil {
		return nil, err
	}
	if categoryIDs != nil {
		if err := s.Associations.SetCategories(m.ID, capSelection(categoryIDs)); err != nil {
			return nil, fmt.Errorf("CreateMemo: %w", err)
		}
	}
	return s.decorate(*m), nil
}

// UpdateMemo overwrites a memo's title and content. A nil categoryIDs keeps
// the current assignment; an empty one clears it.
func (s *Service) UpdateMemo(ctx context.Context, id string, in models.MemoInput, categoryIDs []string) (*listing.Item, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, models.ErrMemoIDRequired
	}
	valid, err := models.ValidateMemoInput(in)
	if err != nil {
		return nil, err
	}
	m, found, err := s.database.UpdateMemo(ctx, id, valid, s.now())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrMemoNotFound, id)
	}
	if categoryIDs != nil {
		if err := s.Associations.SetCategories(id, capSelection(categoryIDs)); err != nil {
			return nil, fmt.Errorf("UpdateMemo: %w", err)
		}
	}
	return s.decorate(*m), nil
}

// DeleteMemo removes a memo and its category assignment.
func (s *Service) DeleteMemo(ctx context.Context, id string) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return models.ErrMemoIDRequired
	}
	deleted, err := s.database.DeleteMemo(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrMemoNotFound, id)
	}
	if err := s.Associations.SetCategories(id, nil); err != nil {
		slog.Warn("DeleteMemo: failed to clear categories", "id", id, "err", err)
	}
	return nil
}

// CountMemos returns the number of stored memos.
func (s *Service) CountMemos(ctx context.Context) (int, error) {
	return s.database.CountMemos(ctx)
}

// ---------------------------------------------------------------------------
// Category selection
// ---------------------------------------------------------------------------

// SelectionResult reports the outcome of applying toggles to a selection.
type SelectionResult struct {
	Selected []string
	// Ignored lists ids whose toggle had no effect: unknown categories or
	// additions past the per-memo limit.
	Ignored []string
}

// ApplyToggles runs each id through the category picker starting from
// selected, the way a user clicking the options in order would.
func (s *Service) ApplyToggles(selected []string, ids []string) SelectionResult {
	res := SelectionResult{Selected: selected}
	changed := false
	p := picker.New(s.Categories, func(next []string) {
		res.Selected = next
		changed = true
	})
	defer p.Close()

	for _, id := range ids {
		changed = false
		p.Toggle(res.Selected, id)
		if !changed {
			res.Ignored = append(res.Ignored, id)
		}
	}
	if res.Selected == nil {
		res.Selected = []string{}
	}
	return res
}

// ToggleMemoCategories applies toggles to the memo's current assignment and
// saves the result.
func (s *Service) ToggleMemoCategories(ctx context.Context, memoID string, ids []string) (SelectionResult, error) {
	if err := s.requireSession(); err != nil {
		return SelectionResult{}, err
	}
	item, err := s.GetMemo(ctx, memoID)
	if err != nil {
		return SelectionResult{}, err
	}
	res := s.ApplyToggles(s.Associations.CategoriesFor(item.ID), ids)
	if err := s.Associations.SetCategories(item.ID, res.Selected); err != nil {
		return SelectionResult{}, fmt.Errorf("ToggleMemoCategories: %w", err)
	}
	return res, nil
}

// ---------------------------------------------------------------------------
// Views
// ---------------------------------------------------------------------------

// NewView returns a live list over memos that follows both category stores.
// The caller must Close it.
func (s *Service) NewView(memos []models.Memo, opts ListOptions) *listing.View {
	return listing.NewView(s.engine, s.Categories, s.Associations, memos, s.Query(opts))
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (s *Service) decorate(m models.Memo) *listing.Item {
	items := listing.Decorate([]models.Memo{m}, s.Categories.Load(), s.Associations.All())
	return &items[0]
}

// capSelection deduplicates ids and keeps at most categories.PerMemoLimit.
func capSelection(ids []string) []string {
	out := make([]string, 0, min(len(ids), categories.PerMemoLimit))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		if len(out) == categories.PerMemoLimit {
			break
		}
	}
	return out
}
