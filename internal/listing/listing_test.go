package listing_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"golang.org/x/text/language"

	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/listing"
	"github.com/go-ports/memoapp/internal/models"
)

var base = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func memo(id string, updatedHoursAgo int) models.Memo {
	t := base.Add(-time.Duration(updatedHoursAgo) * time.Hour)
	return models.Memo{ID: id, Title: "memo " + id, CreatedAt: t, UpdatedAt: t}
}

func ids(items []listing.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

var catalog = []categories.Category{
	{ID: "w", Name: "仕事"},
	{ID: "i", Name: "アイデア"},
	{ID: "r", Name: "リサーチ"},
	{ID: "b", Name: "Books"},
	{ID: "a", Name: "art"},
}

// ---------------------------------------------------------------------------
// ParseSortMode
// ---------------------------------------------------------------------------

func TestParseSortMode(t *testing.T) {
	c := qt.New(t)
	c.Assert(listing.ParseSortMode("category"), qt.Equals, listing.SortCategory)
	c.Assert(listing.ParseSortMode("recent"), qt.Equals, listing.SortRecent)
	c.Assert(listing.ParseSortMode(""), qt.Equals, listing.SortRecent)
	c.Assert(listing.ParseSortMode("Category"), qt.Equals, listing.SortRecent)
}

// ---------------------------------------------------------------------------
// Decorate / FilterByCategory
// ---------------------------------------------------------------------------

func TestDecorate(t *testing.T) {
	c := qt.New(t)

	c.Run("resolves in assignment order and drops dangling ids", func(c *qt.C) {
		items := listing.Decorate(
			[]models.Memo{memo("m1", 0), memo("m2", 1)},
			catalog,
			map[string][]string{"m1": {"r", "gone", "w"}},
		)
		c.Assert(items, qt.HasLen, 2)
		c.Assert(items[0].Categories, qt.DeepEquals, []categories.Category{catalog[2], catalog[0]})
		c.Assert(items[1].Categories, qt.HasLen, 0)
	})

	c.Run("memo whose only category was deleted has none", func(c *qt.C) {
		items := listing.Decorate([]models.Memo{memo("m1", 0)}, catalog, map[string][]string{"m1": {"gone"}})
		c.Assert(items[0].Categories, qt.HasLen, 0)
	})
}

func TestFilterByCategory(t *testing.T) {
	c := qt.New(t)
	items := listing.Decorate(
		[]models.Memo{memo("m1", 0), memo("m2", 1), memo("m3", 2)},
		catalog,
		map[string][]string{"m1": {"w"}, "m2": {"i", "w"}, "m3": {"gone"}},
	)

	c.Assert(ids(listing.FilterByCategory(items, "")), qt.DeepEquals, []string{"m1", "m2", "m3"})
	c.Assert(ids(listing.FilterByCategory(items, "w")), qt.DeepEquals, []string{"m1", "m2"})
	c.Assert(ids(listing.FilterByCategory(items, "i")), qt.DeepEquals, []string{"m2"})
	c.Assert(ids(listing.FilterByCategory(items, "gone")), qt.DeepEquals, []string{})
}

// ---------------------------------------------------------------------------
// Sort
// ---------------------------------------------------------------------------

func TestSort(t *testing.T) {
	c := qt.New(t)
	engine := listing.NewEngine(language.Japanese)

	c.Run("recent orders by updatedAt descending", func(c *qt.C) {
		items := listing.Decorate([]models.Memo{memo("old", 5), memo("new", 0), memo("mid", 2)}, catalog, nil)
		engine.Sort(items, listing.SortRecent)
		c.Assert(ids(items), qt.DeepEquals, []string{"new", "mid", "old"})
	})

	c.Run("category orders by first name with uncategorized last", func(c *qt.C) {
		items := listing.Decorate(
			[]models.Memo{memo("none-new", 0), memo("work", 3), memo("idea", 4), memo("none-old", 9), memo("research", 1)},
			catalog,
			map[string][]string{"work": {"w"}, "idea": {"i", "w"}, "research": {"r"}},
		)
		engine.Sort(items, listing.SortCategory)
		// Katakana sorts before kanji in Japanese collation.
		c.Assert(ids(items), qt.DeepEquals, []string{"idea", "research", "work", "none-new", "none-old"})
	})

	c.Run("equal first names break ties by updatedAt descending", func(c *qt.C) {
		items := listing.Decorate(
			[]models.Memo{memo("older", 6), memo("newer", 1)},
			catalog,
			map[string][]string{"older": {"w"}, "newer": {"w", "i"}},
		)
		engine.Sort(items, listing.SortCategory)
		c.Assert(ids(items), qt.DeepEquals, []string{"newer", "older"})
	})

	c.Run("latin names collate case-insensitively", func(c *qt.C) {
		items := listing.Decorate(
			[]models.Memo{memo("books", 0), memo("art", 1)},
			catalog,
			map[string][]string{"books": {"b"}, "art": {"a"}},
		)
		listing.NewEngine(language.English).Sort(items, listing.SortCategory)
		c.Assert(ids(items), qt.DeepEquals, []string{"art", "books"})
	})
}

// ---------------------------------------------------------------------------
// Build
// ---------------------------------------------------------------------------

func TestBuild_EmptyStates(t *testing.T) {
	c := qt.New(t)
	engine := listing.NewEngine(language.Japanese)

	tests := []struct {
		name  string
		memos []models.Memo
		query listing.Query
		want  listing.EmptyState
	}{
		{name: "no memos at all", memos: nil, query: listing.Query{}, want: listing.EmptyNoMemos},
		{name: "search matched nothing", memos: nil, query: listing.Query{SearchFiltered: true}, want: listing.EmptyNoSearchResults},
		{name: "category filter matched nothing", memos: []models.Memo{memo("m1", 0)}, query: listing.Query{CategoryID: "w"}, want: listing.EmptyNoCategoryMatches},
		{name: "non-empty list", memos: []models.Memo{memo("m1", 0)}, query: listing.Query{}, want: listing.EmptyNone},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			res := engine.Build(tt.memos, catalog, nil, tt.query)
			c.Assert(res.Empty, qt.Equals, tt.want)
			c.Assert(res.Total, qt.Equals, len(tt.memos))
		})
	}
}

func TestBuild_DoesNotReorderInput(t *testing.T) {
	c := qt.New(t)
	memos := []models.Memo{memo("old", 3), memo("new", 0)}
	res := listing.NewEngine(language.Japanese).Build(memos, catalog, nil, listing.Query{Sort: listing.SortRecent})
	c.Assert(ids(res.Items), qt.DeepEquals, []string{"new", "old"})
	c.Assert(memos[0].ID, qt.Equals, "old")
}
