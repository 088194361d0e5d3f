// Package ident canonicalizes and validates dynclass field names.
package ident

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/stoewer/go-strcase"
)

// SetterSuffix marks the setter form of an accessor name ("name=").
const SetterSuffix = "="

// ErrInvalid indicates a name that cannot be used as an accessor identifier.
var ErrInvalid = errors.New("invalid field name")

// InvalidError describes why a name was rejected.
type InvalidError struct {
	// Name is the name as supplied by the caller.
	Name string
	// Reason explains the rejection.
	Reason string
}

// Error implements the error interface.
func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid field name %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalid for errors.Is support.
func (e *InvalidError) Unwrap() error {
	return ErrInvalid
}

// Normalizer rewrites a raw name before validation.
type Normalizer func(string) string

// Identity leaves names untouched.
func Identity(name string) string { return name }

// Lower folds names to lower case.
func Lower(name string) string { return strings.ToLower(name) }

// Snake converts names to snake_case ("FirstName" -> "first_name").
func Snake(name string) string { return strcase.SnakeCase(name) }

// Canonical normalizes name with n (Identity when nil) and validates the result.
func Canonical(name string, n Normalizer) (string, error) {
	if n == nil {
		n = Identity
	}
	canon := n(name)
	if err := Validate(canon); err != nil {
		return "", &InvalidError{Name: name, Reason: err.Error()}
	}
	return canon, nil
}

// Validate checks that name is a usable identifier: a letter or underscore
// followed by letters, digits or underscores.
func Validate(name string) error {
	if name == "" {
		return errors.New("empty")
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		case i == 0 && unicode.IsDigit(r):
			return errors.New("starts with a digit")
		default:
			return fmt.Errorf("contains %q", r)
		}
	}
	return nil
}

// SetterBase splits a setter-form method name. It returns the field part and
// true for "name=", or the input and false otherwise.
func SetterBase(method string) (string, bool) {
	if len(method) > len(SetterSuffix) && strings.HasSuffix(method, SetterSuffix) {
		return strings.TrimSuffix(method, SetterSuffix), true
	}
	return method, false
}

// FromGoField derives a field name from an exported Go struct field name
// ("Name" -> "name", "FirstName" -> "firstName").
func FromGoField(name string) string {
	return strcase.LowerCamelCase(name)
}
