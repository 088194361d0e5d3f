// Package schema provides the shared, append-only field registry that backs a
// dynclass record class.
//
// A Registry owns the ordered set of field names known to one class and the
// serializer compiled from that set. Fields are only ever added. Reads are
// lock-free; additions use a check-lock-check protocol so that concurrent
// first writes of the same name collapse to one addition and concurrent
// writes of different names are all kept.
//
// # Basic Usage
//
//	r := schema.New()
//	r.EnsureField("name")
//	r.EnsureField("age")
//
//	r.HasField("name") // true
//	r.Fields()         // [name age]
//
//	view := r.Project(map[string]any{"age": 70, "name": "John Smith"})
//	view.Keys() // [name age]
//
// # Views
//
// Project returns a View: an immutable, ordered key/value projection. Only
// fields with a stored value appear in it. Views compare with Equal and hash
// with Hash; equal views always hash identically.
//
//	for key, value := range view.All() {
//	    fmt.Println(key, value)
//	}
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. The field set and the
// serializer are published together as one immutable snapshot, so a reader
// sees either the state before an addition or the state after it, never a
// mix of the two.
package schema
