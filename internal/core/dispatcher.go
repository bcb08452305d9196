package core

import (
	"sync"

	"github.com/google/uuid"
)

// Dispatcher fans accepted domain events out to registered listeners.
// Each listener is tied to a logical owner (the collaborator
// responsible for a resource kind) and only receives events whose
// resolved owner matches.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string]*listener
}

type listener struct {
	owner string
	fn    func(Event)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[string]*listener),
	}
}

// AddListener registers a callback for the given owner and returns a
// disposer that removes it. Calling the disposer more than once is a
// no-op.
func (d *Dispatcher) AddListener(owner string, fn func(Event)) func() {
	id := uuid.NewString()

	d.mu.Lock()
	d.listeners[id] = &listener{owner: owner, fn: fn}
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}

// Dispatch delivers the event to every listener registered for the
// owner, in the caller's goroutine so arrival order is preserved.
// Returns the number of listeners reached.
func (d *Dispatcher) Dispatch(owner string, ev Event) int {
	d.mu.RLock()
	var fns []func(Event)
	for _, l := range d.listeners {
		if l.owner == owner {
			fns = append(fns, l.fn)
		}
	}
	d.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
	return len(fns)
}
