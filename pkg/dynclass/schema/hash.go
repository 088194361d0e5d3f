package schema

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Hasher is implemented by values that define their own hash code.
// Implementations must hash equal values (per Equaler) identically.
type Hasher interface {
	Hash() uint64
}

// maxHashDepth bounds the structural walk through plain Go pointers.
const maxHashDepth = 32

var (
	hasherType = reflect.TypeFor[Hasher]()
	viewerType = reflect.TypeFor[Viewer]()
)

// hasher carries the Viewers currently being hashed, so a value that
// contains itself hashes to a fixed marker instead of recursing.
type hasher struct {
	inProgress map[uintptr]bool
}

// Hash returns the hash code of the view. Entry order does not contribute,
// so views that are Equal always hash the same.
func (v View) Hash() uint64 {
	return new(hasher).view(v, 0)
}

// HashPair hashes a single key/value entry.
func HashPair(key string, value any) uint64 {
	return new(hasher).pair(key, value, 0)
}

// HashValue hashes a single field value.
func HashValue(value any) uint64 {
	d := xxhash.New()
	new(hasher).write(d, reflect.ValueOf(value), 0)
	return d.Sum64()
}

func (h *hasher) view(v View, depth int) uint64 {
	var sum uint64
	for _, k := range v.keys {
		sum += h.pair(k, v.values[k], depth)
	}
	d := xxhash.New()
	writeUint(d, uint64(len(v.keys)))
	writeUint(d, sum)
	return d.Sum64()
}

func (h *hasher) pair(key string, value any, depth int) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(key)
	_, _ = d.Write([]byte{0})
	h.write(d, reflect.ValueOf(value), depth)
	return d.Sum64()
}

// viewer hashes a Viewer through its own view. A pointer already on the
// walk's stack writes the cycle marker.
func (h *hasher) viewer(d *xxhash.Digest, rv reflect.Value, depth int) {
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			_, _ = d.WriteString("nil")
			return
		}
		p := rv.Pointer()
		if h.inProgress[p] {
			_, _ = d.WriteString("cycle")
			return
		}
		if h.inProgress == nil {
			h.inProgress = make(map[uintptr]bool)
		}
		h.inProgress[p] = true
		defer delete(h.inProgress, p)
	}
	_, _ = d.WriteString("v")
	writeUint(d, h.view(rv.Interface().(Viewer).View(), depth+1))
}

func writeUint(d *xxhash.Digest, u uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], u)
	_, _ = d.Write(buf[:])
}

// write feeds a structural encoding of rv into d. Values that are deeply
// equal produce the same byte stream.
func (h *hasher) write(d *xxhash.Digest, rv reflect.Value, depth int) {
	if !rv.IsValid() {
		_, _ = d.WriteString("nil")
		return
	}
	if depth > maxHashDepth {
		return
	}

	if rv.Type().Implements(viewerType) && rv.CanInterface() {
		h.viewer(d, rv, depth)
		return
	}

	if rv.Type().Implements(hasherType) && rv.CanInterface() {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			_, _ = d.WriteString("nil")
			return
		}
		_, _ = d.WriteString("h")
		writeUint(d, rv.Interface().(Hasher).Hash())
		return
	}

	_, _ = d.WriteString(rv.Type().String())

	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			writeUint(d, 1)
		} else {
			writeUint(d, 0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeUint(d, uint64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		writeUint(d, rv.Uint())
	case reflect.Float32, reflect.Float64:
		writeUint(d, math.Float64bits(rv.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		writeUint(d, math.Float64bits(real(c)))
		writeUint(d, math.Float64bits(imag(c)))
	case reflect.String:
		_, _ = d.WriteString(rv.String())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			_, _ = d.WriteString("nil")
			return
		}
		h.write(d, rv.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			_, _ = d.WriteString("nil")
			return
		}
		writeUint(d, uint64(rv.Len()))
		for i := range rv.Len() {
			h.write(d, rv.Index(i), depth+1)
		}
	case reflect.Map:
		if rv.IsNil() {
			_, _ = d.WriteString("nil")
			return
		}
		// Map iteration order is random; combine entry hashes commutatively.
		var sum uint64
		iter := rv.MapRange()
		for iter.Next() {
			ed := xxhash.New()
			h.write(ed, iter.Key(), depth+1)
			h.write(ed, iter.Value(), depth+1)
			sum += ed.Sum64()
		}
		writeUint(d, uint64(rv.Len()))
		writeUint(d, sum)
	case reflect.Struct:
		for i := range rv.NumField() {
			h.write(d, rv.Field(i), depth+1)
		}
	default:
		// Func, Chan, UnsafePointer: only equal when identical.
		writeUint(d, uint64(rv.Pointer()))
	}
}
