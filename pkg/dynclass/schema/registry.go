package schema

import (
	"sync"
	"sync/atomic"
)

// Serializer projects a record's stored values onto an ordered View.
// A Serializer is compiled against one field list and never changes.
type Serializer func(values map[string]any) View

// Observer is notified after a field has been committed to a registry.
// It is never called while the registry lock is held.
type Observer interface {
	FieldAdded(field string, size int)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(field string, size int)

// FieldAdded calls f(field, size).
func (f ObserverFunc) FieldAdded(field string, size int) { f(field, size) }

// Option configures a Registry.
type Option func(*Registry)

// WithObserver sets the observer notified on every field addition.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// snapshot is one committed state of a registry. It is immutable once published.
type snapshot struct {
	fields     []string
	index      map[string]int
	serializer Serializer
}

// Registry is the ordered, append-only set of field names for one record class.
type Registry struct {
	mu       sync.Mutex
	state    atomic.Pointer[snapshot]
	observer Observer
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	r.state.Store(&snapshot{
		index:      map[string]int{},
		serializer: compile(nil),
	})
	return r
}

// EnsureField adds name to the registry if it is not already known.
// It reports whether this call performed the addition.
//
// Known names return immediately without taking the lock. Unknown names are
// re-checked under the lock, so racing callers with the same name add it once.
func (r *Registry) EnsureField(name string) bool {
	// Fast path: already committed
	if _, ok := r.state.Load().index[name]; ok {
		return false
	}

	r.mu.Lock()
	cur := r.state.Load()

	// Double-check after acquiring the lock
	if _, ok := cur.index[name]; ok {
		r.mu.Unlock()
		return false
	}

	fields := make([]string, len(cur.fields), len(cur.fields)+1)
	copy(fields, cur.fields)
	fields = append(fields, name)

	index := make(map[string]int, len(fields))
	for k, v := range cur.index {
		index[k] = v
	}
	index[name] = len(fields) - 1

	r.state.Store(&snapshot{
		fields:     fields,
		index:      index,
		serializer: compile(fields),
	})
	size := len(fields)
	r.mu.Unlock()

	if r.observer != nil {
		r.observer.FieldAdded(name, size)
	}
	return true
}

// HasField reports whether name has been added to the registry.
func (r *Registry) HasField(name string) bool {
	_, ok := r.state.Load().index[name]
	return ok
}

// Fields returns the known field names in the order they were added.
func (r *Registry) Fields() []string {
	cur := r.state.Load()
	fields := make([]string, len(cur.fields))
	copy(fields, cur.fields)
	return fields
}

// Len returns the number of known fields.
func (r *Registry) Len() int {
	return len(r.state.Load().fields)
}

// Serializer returns the serializer compiled for the current field set.
func (r *Registry) Serializer() Serializer {
	return r.state.Load().serializer
}

// Project returns the ordered view of values under the current field set.
// Fields without a stored value are left out.
func (r *Registry) Project(values map[string]any) View {
	return r.state.Load().serializer(values)
}

// compile builds the serializer for a fixed field list.
func compile(fields []string) Serializer {
	return func(values map[string]any) View {
		v := View{
			keys:   make([]string, 0, min(len(fields), len(values))),
			values: make(map[string]any, len(values)),
		}
		for _, f := range fields {
			val, ok := values[f]
			if !ok {
				continue
			}
			v.keys = append(v.keys, f)
			v.values[f] = val
		}
		return v
	}
}
