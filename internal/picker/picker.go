// Package picker implements category selection for a single memo, capped at
// categories.PerMemoLimit.
package picker

import (
	"slices"
	"sync"

	"github.com/go-ports/memoapp/internal/categories"
)

// Toggle removes id from selected when present, otherwise appends it unless
// the selection is already full. A full selection is returned unchanged.
// The input slice is never modified.
func Toggle(selected []string, id string) []string {
	if slices.Contains(selected, id) {
		return slices.DeleteFunc(slices.Clone(selected), func(s string) bool { return s == id })
	}
	if len(selected) >= categories.PerMemoLimit {
		return selected
	}
	return append(slices.Clone(selected), id)
}

// Option is one selectable category as presented to the user.
type Option struct {
	Category categories.Category
	Selected bool
	// Disabled marks an unselected option that cannot be added because the
	// selection is full.
	Disabled bool
}

// Status summarizes a selection against both limits.
type Status struct {
	Selected      int
	PerMemoLimit  int
	Categories    int
	CategoryLimit int
	LimitReached  bool
}

// Picker is a controlled selector: the caller owns the selection and receives
// every accepted change through onChange. It keeps its option list in step
// with the category catalog until Close.
type Picker struct {
	source      categories.Source
	onChange    func(next []string)
	unsubscribe func()

	mu      sync.RWMutex
	catalog []categories.Category
}

// New returns a Picker listening to src.
func New(src categories.Source, onChange func(next []string)) *Picker {
	p := &Picker{
		source:   src,
		onChange: onChange,
		catalog:  src.Load(),
	}
	p.unsubscribe = src.Subscribe(p.refresh)
	return p
}

func (p *Picker) refresh() {
	next := p.source.Load()
	p.mu.Lock()
	p.catalog = next
	p.mu.Unlock()
}

// Categories returns the current catalog snapshot.
func (p *Picker) Categories() []categories.Category {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.catalog)
}

// Toggle applies a toggle of categoryID to selected and reports the result
// through onChange. Adding to a full selection and adding an id that is not
// in the catalog are ignored. Removal always succeeds.
func (p *Picker) Toggle(selected []string, categoryID string) {
	if !slices.Contains(selected, categoryID) {
		if len(selected) >= categories.PerMemoLimit {
			return
		}
		if _, known := categories.Find(p.Categories(), categoryID); !known {
			return
		}
	}
	if p.onChange != nil {
		p.onChange(Toggle(selected, categoryID))
	}
}

// Options returns the catalog annotated with the selection state.
func (p *Picker) Options(selected []string) []Option {
	full := len(selected) >= categories.PerMemoLimit
	catalog := p.Categories()
	out := make([]Option, len(catalog))
	for i, cat := range catalog {
		isSelected := slices.Contains(selected, cat.ID)
		out[i] = Option{Category: cat, Selected: isSelected, Disabled: full && !isSelected}
	}
	return out
}

// Status reports the selection count against the per-memo limit and the
// catalog size against the catalog limit.
func (p *Picker) Status(selected []string) Status {
	return Status{
		Selected:      len(selected),
		PerMemoLimit:  categories.PerMemoLimit,
		Categories:    len(p.Categories()),
		CategoryLimit: categories.Limit,
		LimitReached:  len(selected) >= categories.PerMemoLimit,
	}
}

// Close stops following the catalog.
func (p *Picker) Close() {
	p.unsubscribe()
}
