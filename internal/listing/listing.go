// Package listing merges memos with their category assignments and applies
// the category filter and sort order used by every memo list.
package listing

import (
	"slices"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/models"
)

// SortMode selects the memo list order.
type SortMode string

// Sort modes.
const (
	SortRecent   SortMode = "recent"
	SortCategory SortMode = "category"
)

// ParseSortMode maps "category" to SortCategory and anything else to SortRecent.
func ParseSortMode(s string) SortMode {
	if SortMode(s) == SortCategory {
		return SortCategory
	}
	return SortRecent
}

// EmptyState tells an empty list apart by cause.
type EmptyState string

// Empty states. EmptyNone means the list has items.
const (
	EmptyNone              EmptyState = ""
	EmptyNoMemos           EmptyState = "no-memos"
	EmptyNoSearchResults   EmptyState = "no-search-results"
	EmptyNoCategoryMatches EmptyState = "no-category-matches"
)

// Item is a memo decorated with its resolved categories, in assignment order.
type Item struct {
	models.Memo
	Categories []categories.Category `json:"categories"`
}

// Query holds the list parameters.
type Query struct {
	CategoryID string
	Sort       SortMode
	// SearchFiltered is true when the memo input was narrowed by a search.
	SearchFiltered bool
}

// Result is a computed list.
type Result struct {
	Items []Item
	Empty EmptyState
	// Total is the number of memos before the category filter.
	Total int
}

// ---------------------------------------------------------------------------
// Pure steps
// ---------------------------------------------------------------------------

// Decorate attaches resolved categories to each memo. Ids that no longer
// exist in cats are dropped silently.
func Decorate(memos []models.Memo, cats []categories.Category, assoc map[string][]string) []Item {
	byID := make(map[string]categories.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	items := make([]Item, len(memos))
	for i, m := range memos {
		resolved := make([]categories.Category, 0, len(assoc[m.ID]))
		for _, id := range assoc[m.ID] {
			if c, ok := byID[id]; ok {
				resolved = append(resolved, c)
			}
		}
		items[i] = Item{Memo: m, Categories: resolved}
	}
	return items
}

// FilterByCategory keeps the items tagged with categoryID. An empty
// categoryID keeps every item.
func FilterByCategory(items []Item, categoryID string) []Item {
	if categoryID == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if slices.ContainsFunc(it.Categories, func(c categories.Category) bool { return c.ID == categoryID }) {
			out = append(out, it)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// Engine sorts and assembles lists using the collation rules of one locale.
type Engine struct {
	tag language.Tag
}

// NewEngine returns an Engine collating category names for tag.
func NewEngine(tag language.Tag) *Engine {
	return &Engine{tag: tag}
}

// Sort orders items in place. SortRecent orders by UpdatedAt descending.
// SortCategory orders by the first category name, memos without a category
// last, ties by UpdatedAt descending.
func (e *Engine) Sort(items []Item, mode SortMode) {
	if mode != SortCategory {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		})
		return
	}

	// collate.Collator is not safe for concurrent use.
	col := collate.New(e.tag)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		aNamed, bNamed := len(a.Categories) > 0, len(b.Categories) > 0
		if aNamed != bNamed {
			return aNamed
		}
		if aNamed {
			if c := col.CompareString(a.Categories[0].Name, b.Categories[0].Name); c != 0 {
				return c < 0
			}
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})
}

// Build decorates, filters and sorts memos and classifies an empty outcome.
// memos is not modified.
func (e *Engine) Build(memos []models.Memo, cats []categories.Category, assoc map[string][]string, q Query) Result {
	res := Result{Total: len(memos)}
	if len(memos) == 0 {
		res.Items = []Item{}
		if q.SearchFiltered {
			res.Empty = EmptyNoSearchResults
		} else {
			res.Empty = EmptyNoMemos
		}
		return res
	}

	items := FilterByCategory(Decorate(memos, cats, assoc), q.CategoryID)
	e.Sort(items, q.Sort)
	res.Items = items
	if len(items) == 0 {
		res.Empty = EmptyNoCategoryMatches
	}
	return res
}
