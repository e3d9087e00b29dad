package storage_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"go.uber.org/goleak"

	"github.com/go-ports/memoapp/internal/db"
	"github.com/go-ports/memoapp/internal/events"
	"github.com/go-ports/memoapp/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// keyRecorder collects the keys of storage events delivered to a dispatcher.
type keyRecorder struct {
	mu   sync.Mutex
	keys []string
	hit  chan struct{}
}

func record(d *events.Dispatcher) *keyRecorder {
	r := &keyRecorder{hit: make(chan struct{}, 16)}
	d.AddListener(events.TypeStorage, func(ev events.Event) {
		r.mu.Lock()
		r.keys = append(r.keys, ev.Key)
		r.mu.Unlock()
		r.hit <- struct{}{}
	})
	return r
}

func (r *keyRecorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

func newDispatcher(t *testing.T) *events.Dispatcher {
	t.Helper()
	d := events.NewDispatcher()
	t.Cleanup(d.Close)
	return d
}

// ---------------------------------------------------------------------------
// Area
// ---------------------------------------------------------------------------

func TestArea_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("views share values", func(c *qt.C) {
		area := storage.NewArea()
		a := area.Open(newDispatcher(t))
		b := area.Open(newDispatcher(t))

		c.Assert(a.SetItem("k", "v"), qt.IsNil)
		got, ok := b.GetItem("k")
		c.Assert(ok, qt.IsTrue)
		c.Assert(got, qt.Equals, "v")
	})

	c.Run("write notifies other views but not the writer", func(c *qt.C) {
		area := storage.NewArea()
		da, other := newDispatcher(t), newDispatcher(t)
		recA, recB := record(da), record(other)
		a := area.Open(da)
		area.Open(other)

		c.Assert(a.SetItem("k", "v"), qt.IsNil)
		da.Sync()
		other.Sync()

		c.Assert(recA.got(), qt.HasLen, 0)
		c.Assert(recB.got(), qt.DeepEquals, []string{"k"})
	})

	c.Run("rewriting the same value does not notify", func(c *qt.C) {
		area := storage.NewArea()
		other := newDispatcher(t)
		rec := record(other)
		a := area.Open(newDispatcher(t))
		area.Open(other)

		c.Assert(a.SetItem("k", "v"), qt.IsNil)
		c.Assert(a.SetItem("k", "v"), qt.IsNil)
		other.Sync()

		c.Assert(rec.got(), qt.DeepEquals, []string{"k"})
	})

	c.Run("closed view stops receiving events", func(c *qt.C) {
		area := storage.NewArea()
		other := newDispatcher(t)
		rec := record(other)
		a := area.Open(newDispatcher(t))
		b := area.Open(other)
		b.Close()

		c.Assert(a.SetItem("k", "v"), qt.IsNil)
		other.Sync()

		c.Assert(rec.got(), qt.HasLen, 0)
	})
}

func TestArea_FailurePath(t *testing.T) {
	c := qt.New(t)
	l := storage.NewArea().Open(newDispatcher(t))
	_, ok := l.GetItem("missing")
	c.Assert(ok, qt.IsFalse)
}

// ---------------------------------------------------------------------------
// SQLite
// ---------------------------------------------------------------------------

func openTestDB(t *testing.T, path string) *db.DB {
	t.Helper()
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("openTestDB: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestSQLite_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("values persist across handles", func(c *qt.C) {
		path := filepath.Join(t.TempDir(), "memo.db")
		a := storage.NewSQLite(openTestDB(t, path), newDispatcher(t))
		b := storage.NewSQLite(openTestDB(t, path), newDispatcher(t))

		c.Assert(a.SetItem("k", "v"), qt.IsNil)
		got, ok := b.GetItem("k")
		c.Assert(ok, qt.IsTrue)
		c.Assert(got, qt.Equals, "v")
		c.Assert(a.Origin(), qt.Not(qt.Equals), b.Origin())
	})

	c.Run("watch reports foreign writes only", func(c *qt.C) {
		path := filepath.Join(t.TempDir(), "memo.db")
		dw := newDispatcher(t)
		rec := record(dw)
		watcher := storage.NewSQLite(openTestDB(t, path), dw)
		writer := storage.NewSQLite(openTestDB(t, path), newDispatcher(t))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- watcher.Watch(ctx, 10*time.Millisecond) }()
		defer func() {
			cancel()
			c.Assert(<-done, qt.IsNil)
		}()

		// Wait for the watcher's baseline before writing.
		time.Sleep(30 * time.Millisecond)
		c.Assert(watcher.SetItem("own", "x"), qt.IsNil)
		c.Assert(writer.SetItem("foreign", "y"), qt.IsNil)

		select {
		case <-rec.hit:
		case <-time.After(5 * time.Second):
			c.Fatal("no storage event for the foreign write")
		}
		time.Sleep(50 * time.Millisecond)
		dw.Sync()
		c.Assert(rec.got(), qt.DeepEquals, []string{"foreign"})
	})
}
