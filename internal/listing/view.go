package listing

import (
	"slices"
	"sync"

	"github.com/go-ports/memoapp/internal/associations"
	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/models"
)

// View keeps a computed list in step with both stores. It re-reads the
// category catalog and the assignments on every notification and recomputes.
type View struct {
	engine *Engine
	cats   categories.Source
	assoc  associations.Source

	mu       sync.Mutex
	memos    []models.Memo
	query    Query
	catalog  []categories.Category
	assigned map[string][]string
	result   Result
	onChange func(Result)

	unsubscribe []func()
}

// NewView subscribes to both stores and computes the initial result.
func NewView(engine *Engine, cats categories.Source, assoc associations.Source, memos []models.Memo, q Query) *View {
	v := &View{
		engine:   engine,
		cats:     cats,
		assoc:    assoc,
		memos:    slices.Clone(memos),
		query:    q,
		catalog:  cats.Load(),
		assigned: assoc.All(),
	}
	v.recompute()
	v.unsubscribe = []func(){
		cats.Subscribe(v.reloadCategories),
		assoc.Subscribe(v.reloadAssignments),
	}
	return v
}

// OnChange registers fn to receive every recomputed result. It replaces any
// previous callback.
func (v *View) OnChange(fn func(Result)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = fn
}

// Result returns the current list.
func (v *View) Result() Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result
}

// SetMemos replaces the memo input and recomputes.
func (v *View) SetMemos(memos []models.Memo) {
	v.update(func() { v.memos = slices.Clone(memos) })
}

// SetQuery replaces the list parameters and recomputes.
func (v *View) SetQuery(q Query) {
	v.update(func() { v.query = q })
}

// Close unsubscribes from both stores.
func (v *View) Close() {
	for _, fn := range v.unsubscribe {
		fn()
	}
}

func (v *View) reloadCategories() {
	catalog := v.cats.Load()
	v.update(func() { v.catalog = catalog })
}

func (v *View) reloadAssignments() {
	assigned := v.assoc.All()
	v.update(func() { v.assigned = assigned })
}

func (v *View) update(mutate func()) {
	v.mu.Lock()
	mutate()
	v.recompute()
	res, fn := v.result, v.onChange
	v.mu.Unlock()
	if fn != nil {
		fn(res)
	}
}

// recompute must be called with v.mu held.
func (v *View) recompute() {
	v.result = v.engine.Build(v.memos, v.catalog, v.assigned, v.query)
}
