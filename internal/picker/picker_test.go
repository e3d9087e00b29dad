package picker_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/events"
	"github.com/go-ports/memoapp/internal/picker"
	"github.com/go-ports/memoapp/internal/storage"
)

// ---------------------------------------------------------------------------
// Toggle
// ---------------------------------------------------------------------------

func TestToggle(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name     string
		selected []string
		id       string
		want     []string
	}{
		{name: "adds to empty selection", selected: nil, id: "a", want: []string{"a"}},
		{name: "appends at the end", selected: []string{"a"}, id: "b", want: []string{"a", "b"}},
		{name: "removes selected id", selected: []string{"a", "b", "c"}, id: "b", want: []string{"a", "c"}},
		{name: "full selection ignores a new id", selected: []string{"a", "b", "c", "d"}, id: "e", want: []string{"a", "b", "c", "d"}},
		{name: "full selection still allows removal", selected: []string{"a", "b", "c", "d"}, id: "d", want: []string{"a", "b", "c"}},
		{name: "fourth id is accepted", selected: []string{"a", "b", "c"}, id: "d", want: []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(picker.Toggle(tt.selected, tt.id), qt.DeepEquals, tt.want)
		})
	}

	c.Run("input is not modified", func(c *qt.C) {
		in := []string{"a", "b", "c"}
		picker.Toggle(in, "a")
		picker.Toggle(in, "z")
		c.Assert(in, qt.DeepEquals, []string{"a", "b", "c"})
	})
}

// ---------------------------------------------------------------------------
// Picker
// ---------------------------------------------------------------------------

// fakeSource is a categories.Source whose catalog is set directly.
type fakeSource struct {
	list      []categories.Category
	listeners []func()
	removed   int
}

func (f *fakeSource) Load() []categories.Category { return f.list }

func (f *fakeSource) Subscribe(fn func()) func() {
	f.listeners = append(f.listeners, fn)
	return func() { f.removed++ }
}

func (f *fakeSource) publish(list []categories.Category) {
	f.list = list
	for _, fn := range f.listeners {
		fn()
	}
}

func TestPicker_Toggle(t *testing.T) {
	c := qt.New(t)

	var got [][]string
	src := &fakeSource{list: categories.Defaults()}
	p := picker.New(src, func(next []string) { got = append(got, next) })
	defer p.Close()

	p.Toggle(nil, "work")
	p.Toggle([]string{"work"}, "work")
	p.Toggle(nil, "unknown")
	p.Toggle([]string{"work", "personal", "idea", "research"}, "extra")
	p.Toggle([]string{"stale"}, "stale")

	c.Assert(got, qt.DeepEquals, [][]string{{"work"}, {}, {}})
}

func TestPicker_Options(t *testing.T) {
	c := qt.New(t)
	src := &fakeSource{list: categories.Defaults()}
	p := picker.New(src, nil)
	defer p.Close()

	c.Run("nothing disabled below the limit", func(c *qt.C) {
		opts := p.Options([]string{"idea"})
		c.Assert(opts, qt.HasLen, 4)
		c.Assert(opts[2].Selected, qt.IsTrue)
		for _, o := range opts {
			c.Assert(o.Disabled, qt.IsFalse)
		}
	})

	c.Run("full selection disables unselected options", func(c *qt.C) {
		six := append(categories.Defaults(),
			categories.Category{ID: "x", Name: "X"},
			categories.Category{ID: "y", Name: "Y"})
		src.publish(six)

		opts := p.Options([]string{"work", "personal", "idea", "research"})
		c.Assert(opts, qt.HasLen, 6)
		c.Assert(opts[0].Disabled, qt.IsFalse)
		c.Assert(opts[4].Disabled, qt.IsTrue)
		c.Assert(opts[5].Disabled, qt.IsTrue)

		st := p.Status([]string{"work", "personal", "idea", "research"})
		c.Assert(st, qt.Equals, picker.Status{
			Selected: 4, PerMemoLimit: 4, Categories: 6, CategoryLimit: 6, LimitReached: true,
		})
	})
}

func TestPicker_FollowsCatalog(t *testing.T) {
	c := qt.New(t)

	area := storage.NewArea()
	d := events.NewDispatcher()
	defer d.Close()
	store := categories.NewStore(area.Open(d), d)

	p := picker.New(store, nil)
	c.Assert(p.Categories(), qt.HasLen, 4)

	_, ok, err := store.Add(categories.Draft{Name: "Travel"})
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	d.Sync()
	c.Assert(p.Categories(), qt.HasLen, 5)

	p.Close()
	_, _, err = store.Add(categories.Draft{Name: "Books"})
	c.Assert(err, qt.IsNil)
	d.Sync()
	c.Assert(p.Categories(), qt.HasLen, 5)
}
