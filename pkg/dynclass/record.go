package dynclass

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/dynclass/pkg/dynclass/ident"
	"github.com/randalmurphal/dynclass/pkg/dynclass/schema"
)

// Pair is one key/value entry, used both as construction input and in views.
type Pair = schema.Pair

// Symbol is the symbolic key form. Symbol("name") and "name" address the same field.
type Symbol string

// String returns the symbol's name.
func (s Symbol) String() string { return string(s) }

// Record is one instance of a Class. It stores values only for the fields it
// has been given; everything about which fields exist lives in the class schema.
//
// Construction sources (Class.New), applied in order:
//   - nil: ignored
//   - []Pair, schema.View, *Record, or anything with All() iter.Seq2[string, any]:
//     applied in their own order
//   - map[string]V: applied in sorted key order
//   - struct or *struct: exported fields in declared order, keyed by the
//     `dynclass` tag or the lower-camel-cased field name (`dynclass:"-"` skips)
//
// Record methods are safe for concurrent use.
type Record struct {
	class  *Class
	mu     sync.RWMutex
	values map[string]any
	frozen atomic.Bool
}

// Class returns the record's class.
func (r *Record) Class() *Class {
	return r.class
}

// Get returns the value stored for name and whether one is stored.
// Unknown and unset fields both yield (nil, false). Get never changes the schema.
func (r *Record) Get(name string) (any, bool) {
	canon, err := r.class.canonical(name)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[canon]
	return v, ok
}

// Set stores value under name, adding name to the class schema if it is new.
// It returns value. Frozen records reject the write with *ImmutableError.
func (r *Record) Set(name string, value any) (any, error) {
	canon, err := r.class.canonical(name)
	if err != nil {
		return nil, r.class.reject(name, "set", err)
	}

	r.mu.Lock()
	if r.frozen.Load() {
		r.mu.Unlock()
		return nil, r.class.reject(canon, "set", &ImmutableError{Class: r.class.name, Field: canon, Op: "set"})
	}
	r.values[canon] = value
	r.mu.Unlock()

	r.class.schema.EnsureField(canon)
	return value, nil
}

// DeleteField clears the stored value for name. The field stays in the
// schema, so every record of the class keeps its accessors.
func (r *Record) DeleteField(name string) error {
	canon, err := r.class.canonical(name)
	if err != nil {
		return r.class.reject(name, "delete", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return r.class.reject(canon, "delete", &ImmutableError{Class: r.class.name, Field: canon, Op: "delete"})
	}
	delete(r.values, canon)
	return nil
}

// At is indexed read access. key may be a string, a Symbol or a fmt.Stringer.
// An unset field yields nil and no error.
func (r *Record) At(key any) (any, error) {
	name, err := keyName(key)
	if err != nil {
		return nil, err
	}
	if _, err := r.class.canonical(name); err != nil {
		return nil, err
	}
	v, _ := r.Get(name)
	return v, nil
}

// Put is indexed write access; see At for accepted keys and Set for semantics.
func (r *Record) Put(key any, value any) (any, error) {
	name, err := keyName(key)
	if err != nil {
		return nil, r.class.reject(fmt.Sprint(key), "set", err)
	}
	return r.Set(name, value)
}

// keyName extracts the textual form of a structured-access key.
func keyName(key any) (string, error) {
	switch k := key.(type) {
	case string:
		return k, nil
	case Symbol:
		return string(k), nil
	case fmt.Stringer:
		return k.String(), nil
	default:
		return "", &ident.InvalidError{
			Name:   fmt.Sprint(key),
			Reason: fmt.Sprintf("unsupported key type %T", key),
		}
	}
}

// View returns the ordered key/value view of the record under the current
// class schema. Only fields with a stored value appear.
func (r *Record) View() schema.View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.class.schema.Project(r.values)
}

// All returns an iterator over the record's pairs in schema order. Each
// iteration takes a fresh view, so the sequence can be ranged over repeatedly.
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for k, v := range r.View().All() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// EachPair calls fn once per pair in schema order and returns the view it iterated.
func (r *Record) EachPair(fn func(key string, value any)) schema.View {
	v := r.View()
	for k, val := range v.All() {
		fn(k, val)
	}
	return v
}

// Map returns the record's pairs as a plain map.
func (r *Record) Map() map[string]any {
	return r.View().Map()
}

// Equal reports whether other is a *Record of exactly the same class with an
// equal view. Records of a parent or child class are never equal. Records
// that contain themselves, directly or through each other, compare without
// looping.
func (r *Record) Equal(other any) bool {
	if _, ok := other.(*Record); !ok {
		return false
	}
	return schema.ValuesEqual(r, other)
}

// SameKind reports whether other is a non-nil *Record of exactly r's class.
func (r *Record) SameKind(other any) bool {
	o, ok := other.(*Record)
	return ok && r != nil && o != nil && r.class == o.class
}

// Hash returns the hash of the record's view. Equal records hash identically.
func (r *Record) Hash() uint64 {
	return r.View().Hash()
}

// Freeze makes the record read-only and returns it. Other records of the
// class can still add fields to the shared schema.
func (r *Record) Freeze() *Record {
	r.mu.Lock()
	r.frozen.Store(true)
	r.mu.Unlock()
	return r
}

// Frozen reports whether the record has been frozen.
func (r *Record) Frozen() bool {
	return r.frozen.Load()
}

// Clone returns an unfrozen copy of the record with the same class and values.
// Values are copied shallowly.
func (r *Record) Clone() *Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	values := make(map[string]any, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return &Record{class: r.class, values: values}
}

// String renders the record as ClassName{field: value, ...}.
func (r *Record) String() string {
	return r.class.name + r.View().String()
}

var (
	_ schema.Equaler = (*Record)(nil)
	_ schema.Hasher  = (*Record)(nil)
	_ schema.Viewer  = (*Record)(nil)
	_ PairSource     = (*Record)(nil)
)
