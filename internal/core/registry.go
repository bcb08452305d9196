package core

import (
	"sort"
	"sync"
)

// Interest identifies one watchable resource collection: the canonical
// resource name (lowercase plural, e.g. "pods") and whether the
// collection is namespace-scoped.
type Interest struct {
	Kind       string
	Namespaced bool
}

// Registry is the reference-counted set of watch interests. Consumers
// subscribe with one or more interests and receive a disposer that
// releases them again; an interest stays active while at least one
// subscriber holds it. Pure bookkeeping, no I/O.
type Registry struct {
	mu       sync.Mutex
	refs     map[Interest]int
	onChange func()
}

// NewRegistry returns a Registry that invokes onChange after every
// mutation of the active interest set. onChange is called without the
// registry lock held and may be nil.
func NewRegistry(onChange func()) *Registry {
	return &Registry{
		refs:     make(map[Interest]int),
		onChange: onChange,
	}
}

// Subscribe increments the reference count for each interest and
// returns a disposer that decrements them again, removing entries that
// reach zero. Calling the disposer more than once is a no-op.
func (r *Registry) Subscribe(interests ...Interest) func() {
	r.mu.Lock()
	for _, in := range interests {
		r.refs[in]++
	}
	r.mu.Unlock()
	r.notify()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			for _, in := range interests {
				if n, ok := r.refs[in]; ok {
					if n <= 1 {
						delete(r.refs, in)
					} else {
						r.refs[in] = n - 1
					}
				}
			}
			r.mu.Unlock()
			r.notify()
		})
	}
}

// Active returns the current interest set, sorted by kind so that
// query construction is deterministic.
func (r *Registry) Active() []Interest {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Interest, 0, len(r.refs))
	for in := range r.refs {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return !out[i].Namespaced && out[j].Namespaced
	})
	return out
}

// HasKind reports whether at least one subscriber holds an interest
// for the given kind, in either scope.
func (r *Registry) HasKind(kind string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for in := range r.refs {
		if in.Kind == kind {
			return true
		}
	}
	return false
}

// Empty reports whether no interests are registered.
func (r *Registry) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refs) == 0
}

// Clear drops all registrations. Outstanding disposers become no-ops
// for the cleared entries.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.refs = make(map[Interest]int)
	r.mu.Unlock()
	r.notify()
}

func (r *Registry) notify() {
	if r.onChange != nil {
		r.onChange()
	}
}
