package dynclass

import "github.com/randalmurphal/dynclass/pkg/dynclass/ident"

// Method is a custom method supplied at class definition. It receives the
// record it was called on and the call arguments.
type Method func(r *Record, args ...any) (any, error)

// Call invokes a method by name.
//
// A custom method of that name always wins, matched exactly or by its
// canonical accessor name. Otherwise the call is treated as
// a generated accessor: "name=" with exactly one argument sets the field and
// returns the value; "name" with no arguments returns the stored value (nil
// when unset). Any other arity fails with *ArgumentCountError.
func (r *Record) Call(method string, args ...any) (any, error) {
	if m, ok := r.class.method(method); ok {
		return m(r, args...)
	}

	if base, ok := ident.SetterBase(method); ok {
		if len(args) != 1 {
			return nil, r.class.reject(base, "call", &ArgumentCountError{Method: method, Got: len(args), Want: 1})
		}
		return r.Set(base, args[0])
	}

	if len(args) != 0 {
		return nil, r.class.reject(method, "call", &ArgumentCountError{Method: method, Got: len(args), Want: 0})
	}
	if _, err := r.class.canonical(method); err != nil {
		return nil, err
	}
	v, _ := r.Get(method)
	return v, nil
}

// RespondsTo reports whether Call(method) resolves to a custom method or to a
// generated accessor for a field already known to the class.
func (r *Record) RespondsTo(method string) bool {
	if r.class.HasMethod(method) {
		return true
	}
	base, _ := ident.SetterBase(method)
	return r.class.HasField(base)
}
