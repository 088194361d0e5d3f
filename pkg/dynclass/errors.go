package dynclass

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/dynclass/pkg/dynclass/ident"
)

// Sentinel errors for record access.
var (
	// ErrArgumentCount indicates an accessor call with the wrong number of arguments.
	ErrArgumentCount = errors.New("wrong number of arguments")

	// ErrImmutable indicates a mutation attempted on a frozen record.
	ErrImmutable = errors.New("record is frozen")

	// ErrInvalidFieldName indicates a key that cannot be used as an accessor identifier.
	ErrInvalidFieldName = ident.ErrInvalid

	// ErrUnsupportedSource indicates a construction source with no key/value capability.
	ErrUnsupportedSource = errors.New("unsupported record source")
)

// InvalidFieldNameError describes a rejected field name.
// errors.Is(err, ErrInvalidFieldName) reports true for it.
type InvalidFieldNameError = ident.InvalidError

// ArgumentCountError reports an accessor call with an arity that matches
// neither a getter (0 arguments) nor a setter (1 argument).
type ArgumentCountError struct {
	// Method is the accessor name as called.
	Method string
	// Got is the number of arguments supplied.
	Got int
	// Want is the number of arguments the accessor takes.
	Want int
}

// Error implements the error interface.
func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("%s: wrong number of arguments (%d for %d)", e.Method, e.Got, e.Want)
}

// Unwrap returns ErrArgumentCount for errors.Is support.
func (e *ArgumentCountError) Unwrap() error {
	return ErrArgumentCount
}

// ImmutableError reports a rejected mutation of a frozen record.
type ImmutableError struct {
	// Class is the name of the record's class.
	Class string
	// Field is the field the mutation targeted.
	Field string
	// Op is the rejected operation ("set", "delete").
	Op string
}

// Error implements the error interface.
func (e *ImmutableError) Error() string {
	return fmt.Sprintf("can't %s %s on frozen %s", e.Op, e.Field, e.Class)
}

// Unwrap returns ErrImmutable for errors.Is support.
func (e *ImmutableError) Unwrap() error {
	return ErrImmutable
}

// SourceError reports a construction source that exposes no key/value pairs.
type SourceError struct {
	// Type is the Go type of the rejected source.
	Type string
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("unsupported record source of type %s", e.Type)
}

// Unwrap returns ErrUnsupportedSource for errors.Is support.
func (e *SourceError) Unwrap() error {
	return ErrUnsupportedSource
}

// rejectionKind names an error for metrics.
func rejectionKind(err error) string {
	switch {
	case errors.Is(err, ErrImmutable):
		return "immutable"
	case errors.Is(err, ErrArgumentCount):
		return "argument_count"
	case errors.Is(err, ErrInvalidFieldName):
		return "invalid_field_name"
	case errors.Is(err, ErrUnsupportedSource):
		return "unsupported_source"
	default:
		return "other"
	}
}
