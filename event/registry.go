package event

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

// Registry is an ordered set of observers. Writers copy the current list and
// publish the copy, so readers never block and a list taken for dispatch is
// never mutated afterwards.
type Registry struct {
	mu        sync.Mutex // serializes writers
	observers atomic.Pointer[[]Observer]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends o. It returns false if o is nil, already registered, or of
// a type that cannot be compared with ==.
func (r *Registry) Add(o Observer) bool {
	if o == nil || !reflect.TypeOf(o).Comparable() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	if indexOf(cur, o) >= 0 {
		return false
	}
	next := make([]Observer, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, o)
	r.observers.Store(&next)
	return true
}

// Remove deletes o. It returns false if o was not registered.
func (r *Registry) Remove(o Observer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	i := indexOf(cur, o)
	if i < 0 {
		return false
	}
	next := make([]Observer, 0, len(cur)-1)
	next = append(next, cur[:i]...)
	next = append(next, cur[i+1:]...)
	r.observers.Store(&next)
	return true
}

// Contains reports whether o is registered.
func (r *Registry) Contains(o Observer) bool {
	return indexOf(r.load(), o) >= 0
}

// Len returns the number of registered observers.
func (r *Registry) Len() int {
	return len(r.load())
}

// Snapshot returns a copy of the registered observers in registration order.
func (r *Registry) Snapshot() []Observer {
	return slices.Clone(r.load())
}

// load returns the published list. It must not be modified.
func (r *Registry) load() []Observer {
	if p := r.observers.Load(); p != nil {
		return *p
	}
	return nil
}

// indexOf finds o in list. Observers are compared with ==, an uncomparable
// o is never registered.
func indexOf(list []Observer, o Observer) int {
	if o == nil || !reflect.TypeOf(o).Comparable() {
		return -1
	}
	for i, v := range list {
		if v == o {
			return i
		}
	}
	return -1
}
