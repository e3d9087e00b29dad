package storage

import (
	"sync"

	"github.com/go-ports/memoapp/internal/events"
)

// Area is an in-memory storage area shared by any number of contexts in the
// same process. It backs tests and embedded use.
type Area struct {
	mu     sync.RWMutex
	items  map[string]string
	views  map[int]*Local
	nextID int
}

// NewArea returns an empty area.
func NewArea() *Area {
	return &Area{
		items: make(map[string]string),
		views: make(map[int]*Local),
	}
}

// Open returns a view of the area bound to the context whose dispatcher is d.
func (a *Area) Open(d *events.Dispatcher) *Local {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	l := &Local{area: a, id: a.nextID, events: d}
	a.views[l.id] = l
	return l
}

// Local is one context's view of an Area.
type Local struct {
	area   *Area
	id     int
	events *events.Dispatcher
}

// GetItem implements Storage.
func (l *Local) GetItem(key string) (string, bool) {
	l.area.mu.RLock()
	defer l.area.mu.RUnlock()
	v, ok := l.area.items[key]
	return v, ok
}

// SetItem implements Storage. Other open views are notified only when the
// stored value actually changed.
func (l *Local) SetItem(key, value string) error {
	l.area.mu.Lock()
	old, existed := l.area.items[key]
	l.area.items[key] = value
	var others []*events.Dispatcher
	if !existed || old != value {
		for id, v := range l.area.views {
			if id != l.id {
				others = append(others, v.events)
			}
		}
	}
	l.area.mu.Unlock()

	for _, d := range others {
		d.Dispatch(events.Event{Type: events.TypeStorage, Key: key})
	}
	return nil
}

// Close detaches the view; it no longer receives storage events.
func (l *Local) Close() {
	l.area.mu.Lock()
	defer l.area.mu.Unlock()
	delete(l.area.views, l.id)
}
