package schema

import (
	"fmt"
	"iter"
	"reflect"
	"strings"
)

// Pair is one key/value entry of a View.
type Pair struct {
	Key   string
	Value any
}

// Equaler is implemented by values that define their own equality.
// View comparison uses it in preference to deep equality.
type Equaler interface {
	Equal(other any) bool
}

// Viewer is implemented by composite values, such as records, whose equality
// and hash derive from their own View. Comparing and hashing track the
// Viewers in progress, so values that contain themselves terminate.
type Viewer interface {
	View() View
	// SameKind reports whether other may equal the receiver at all.
	SameKind(other any) bool
}

// View is an immutable, ordered key/value projection of a record.
// The zero View is empty and ready to use.
type View struct {
	keys   []string
	values map[string]any
}

// NewView builds a View from pairs in the given order.
// A repeated key keeps its first position and takes the last value.
func NewView(pairs ...Pair) View {
	v := View{
		keys:   make([]string, 0, len(pairs)),
		values: make(map[string]any, len(pairs)),
	}
	for _, p := range pairs {
		if _, ok := v.values[p.Key]; !ok {
			v.keys = append(v.keys, p.Key)
		}
		v.values[p.Key] = p.Value
	}
	return v
}

// Len returns the number of entries.
func (v View) Len() int {
	return len(v.keys)
}

// Keys returns the keys in order.
func (v View) Keys() []string {
	keys := make([]string, len(v.keys))
	copy(keys, v.keys)
	return keys
}

// Get returns the value stored under key and whether it is present.
func (v View) Get(key string) (any, bool) {
	val, ok := v.values[key]
	return val, ok
}

// Has reports whether key is present.
func (v View) Has(key string) bool {
	_, ok := v.values[key]
	return ok
}

// All returns an iterator over the entries in order.
// The iterator can be ranged over any number of times.
func (v View) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range v.keys {
			if !yield(k, v.values[k]) {
				return
			}
		}
	}
}

// Pairs returns the entries in order.
func (v View) Pairs() []Pair {
	pairs := make([]Pair, len(v.keys))
	for i, k := range v.keys {
		pairs[i] = Pair{Key: k, Value: v.values[k]}
	}
	return pairs
}

// Map returns the entries as a plain map. Order is lost.
func (v View) Map() map[string]any {
	m := make(map[string]any, len(v.keys))
	for _, k := range v.keys {
		m[k] = v.values[k]
	}
	return m
}

// Equal reports whether both views hold the same keys with equal values.
// Key order is not compared.
func (v View) Equal(other View) bool {
	return new(comparer).views(v, other)
}

// String renders the view as {key: value, ...} in order. Nested Viewers
// render as their own views; one already being rendered shows as {...}.
func (v View) String() string {
	var b strings.Builder
	new(printer).view(&b, v)
	return b.String()
}

// printer carries the Viewers currently being rendered.
type printer struct {
	inProgress map[uintptr]bool
}

func (p *printer) view(b *strings.Builder, v View) {
	b.WriteByte('{')
	for i, k := range v.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		if vw, ok := v.values[k].(Viewer); ok {
			p.viewer(b, vw)
			continue
		}
		fmt.Fprintf(b, "%#v", v.values[k])
	}
	b.WriteByte('}')
}

func (p *printer) viewer(b *strings.Builder, vw Viewer) {
	rv := reflect.ValueOf(vw)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			b.WriteString("nil")
			return
		}
		ptr := rv.Pointer()
		if p.inProgress[ptr] {
			b.WriteString("{...}")
			return
		}
		if p.inProgress == nil {
			p.inProgress = make(map[uintptr]bool)
		}
		p.inProgress[ptr] = true
		defer delete(p.inProgress, ptr)
	}
	p.view(b, vw.View())
}

// ValuesEqual compares two field values. Viewers compare by view, Equaler
// implementations decide for themselves, and anything else falls back to
// reflect.DeepEqual.
func ValuesEqual(a, b any) bool {
	return new(comparer).values(a, b)
}

// viewerPair identifies one pair of Viewers under comparison.
type viewerPair struct {
	a, b uintptr
}

// comparer carries the Viewer pairs already being compared. Meeting a pair
// again means the walk has come back around a cycle, which counts as equal.
type comparer struct {
	inProgress map[viewerPair]bool
}

func (c *comparer) views(x, y View) bool {
	if len(x.keys) != len(y.keys) {
		return false
	}
	for _, k := range x.keys {
		yv, ok := y.values[k]
		if !ok {
			return false
		}
		if !c.values(x.values[k], yv) {
			return false
		}
	}
	return true
}

func (c *comparer) values(a, b any) bool {
	if va, ok := a.(Viewer); ok {
		return c.viewers(va, b)
	}
	if vb, ok := b.(Viewer); ok {
		return c.viewers(vb, a)
	}
	if eq, ok := a.(Equaler); ok {
		return eq.Equal(b)
	}
	if eq, ok := b.(Equaler); ok {
		return eq.Equal(a)
	}
	return reflect.DeepEqual(a, b)
}

func (c *comparer) viewers(a Viewer, b any) bool {
	vb, ok := b.(Viewer)
	if !ok || !a.SameKind(b) {
		return false
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.Pointer && rb.Kind() == reflect.Pointer {
		key := viewerPair{a: ra.Pointer(), b: rb.Pointer()}
		if key.a == key.b || c.inProgress[key] {
			return true
		}
		if key.a == 0 || key.b == 0 {
			return false
		}
		if c.inProgress == nil {
			c.inProgress = make(map[viewerPair]bool)
		}
		c.inProgress[key] = true
	}
	return c.views(a.View(), vb.View())
}
