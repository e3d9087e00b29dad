// Package events provides the per-context event loop that carries change
// notifications between the stores and their subscribers.
//
// A Dispatcher plays the part of a browsing context: writers dispatch events
// and return immediately, and listeners run later on the dispatcher's own
// goroutine in the order events were dispatched.
package events

import (
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
)

// TypeStorage is the event type delivered when another context changed an
// entry of the shared storage area.
const TypeStorage = "storage"

// Event is a payload-free change notification. Key names the storage entry
// for TypeStorage events; an empty Key means the whole area changed.
type Event struct {
	Type string
	Key  string
}

// Listener handles a delivered event.
type Listener func(Event)

type registration struct {
	id       uint64
	listener Listener
}

type pending struct {
	event Event
	ack   chan struct{} // non-nil for Sync barriers
}

// Dispatcher queues events and delivers them asynchronously on a single
// goroutine. Listeners are called in registration order.
type Dispatcher struct {
	mu        sync.Mutex
	cond      *sync.Cond
	listeners map[string][]registration
	nextID    uint64
	queue     []pending
	closed    bool
	stopped   chan struct{}
}

// NewDispatcher starts a dispatcher. Close must be called to stop its goroutine.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		listeners: make(map[string][]registration),
		stopped:   make(chan struct{}),
	}
	d.cond = sync.NewCond(&d.mu)
	go d.loop()
	return d
}

// AddListener registers l for events of type typ. The returned function
// removes the registration; it is safe to call more than once.
func (d *Dispatcher) AddListener(typ string, l Listener) (remove func()) {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.listeners[typ] = append(d.listeners[typ], registration{id: id, listener: l})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.listeners[typ] = slices.DeleteFunc(d.listeners[typ], func(r registration) bool {
				return r.id == id
			})
			if len(d.listeners[typ]) == 0 {
				delete(d.listeners, typ)
			}
		})
	}
}

// Dispatch queues ev for delivery and returns without running any listener.
// Events dispatched after Close are dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	if !d.enqueue(pending{event: ev}) {
		slog.Debug("Dispatch: dispatcher closed, event dropped", "type", ev.Type, "key", ev.Key)
	}
}

// Sync blocks until every event dispatched before the call has been delivered.
// It must not be called from a listener.
func (d *Dispatcher) Sync() {
	ack := make(chan struct{})
	if !d.enqueue(pending{ack: ack}) {
		return
	}
	<-ack
}

// Close delivers the events still queued, stops the loop and waits for it.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.stopped
		return
	}
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
	<-d.stopped
}

func (d *Dispatcher) enqueue(p pending) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.queue = append(d.queue, p)
	d.cond.Signal()
	return true
}

func (d *Dispatcher) loop() {
	defer close(d.stopped)
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		next := d.queue[0]
		d.queue[0] = pending{}
		d.queue = d.queue[1:]
		var ids []uint64
		if next.ack == nil {
			for _, r := range d.listeners[next.event.Type] {
				ids = append(ids, r.id)
			}
		}
		d.mu.Unlock()

		if next.ack != nil {
			close(next.ack)
			continue
		}
		for _, id := range ids {
			// Re-check each registration so a listener removed by an earlier
			// listener of the same event is not called.
			if l := d.lookup(next.event.Type, id); l != nil {
				d.deliver(l, next.event)
			}
		}
	}
}

func (d *Dispatcher) lookup(typ string, id uint64) Listener {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.listeners[typ] {
		if r.id == id {
			return r.listener
		}
	}
	return nil
}

func (d *Dispatcher) deliver(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Dispatcher: listener panicked", "type", ev.Type, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	l(ev)
}
