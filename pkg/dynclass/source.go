package dynclass

import (
	"fmt"
	"iter"
	"reflect"
	"sort"

	"github.com/randalmurphal/dynclass/pkg/dynclass/ident"
	"github.com/randalmurphal/dynclass/pkg/dynclass/schema"
)

// sourceTag is the struct tag consulted when reading struct sources.
const sourceTag = "dynclass"

// PairSource is anything that can enumerate its key/value pairs in order.
// schema.View and *Record both implement it.
type PairSource interface {
	All() iter.Seq2[string, any]
}

// load applies one construction source to the record.
func (r *Record) load(src any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case *Record:
		if s == nil {
			return nil
		}
		return r.apply(s.All())
	case []Pair:
		return r.apply(pairSeq(s))
	case PairSource:
		return r.apply(s.All())
	case map[string]any:
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return r.apply(func(yield func(string, any) bool) {
			for _, k := range keys {
				if !yield(k, s[k]) {
					return
				}
			}
		})
	}

	rv := reflect.ValueOf(src)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return r.apply(mapSeq(rv))
		}
	case reflect.Struct:
		return r.apply(structSeq(rv))
	}

	return r.class.reject("", "new", &SourceError{Type: fmt.Sprintf("%T", src)})
}

// apply assigns each pair through the setter dispatch, so custom setters run
// during construction exactly as they do afterwards.
func (r *Record) apply(pairs iter.Seq2[string, any]) error {
	for k, v := range pairs {
		canon, err := r.class.canonical(k)
		if err != nil {
			return r.class.reject(k, "new", err)
		}
		if _, err := r.Call(canon+ident.SetterSuffix, v); err != nil {
			return err
		}
	}
	return nil
}

func pairSeq(pairs []Pair) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, p := range pairs {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// mapSeq yields a string-keyed map in sorted key order.
func mapSeq(rv reflect.Value) iter.Seq2[string, any] {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return func(yield func(string, any) bool) {
		for _, k := range keys {
			if !yield(k.String(), rv.MapIndex(k).Interface()) {
				return
			}
		}
	}
}

// structSeq yields exported struct fields in declared order.
func structSeq(rv reflect.Value) iter.Seq2[string, any] {
	t := rv.Type()
	return func(yield func(string, any) bool) {
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := f.Tag.Get(sourceTag)
			if name == "-" {
				continue
			}
			if name == "" {
				name = ident.FromGoField(f.Name)
			}
			if !yield(name, rv.Field(i).Interface()) {
				return
			}
		}
	}
}

// KV is shorthand for a Pair.
func KV(key string, value any) Pair {
	return Pair{Key: key, Value: value}
}

var _ PairSource = schema.View{}
