package dynclass

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/dynclass/pkg/dynclass/ident"
	"github.com/randalmurphal/dynclass/pkg/dynclass/observability"
	"github.com/randalmurphal/dynclass/pkg/dynclass/schema"
)

// Class is a record class: a shared schema plus the custom methods every
// record of the class responds to.
//
// A Class is safe for concurrent use. Its schema only grows; the other
// settings are fixed at definition.
type Class struct {
	id     uuid.UUID
	name   string
	parent *Class
	schema *schema.Registry
	cfg    classConfig
	logger *slog.Logger
}

// Define creates a new record class with its own, empty schema.
//
// Example:
//
//	Person := dynclass.Define(dynclass.WithName("Person"))
//	p, err := Person.New([]dynclass.Pair{
//	    {Key: "name", Value: "John Smith"},
//	    {Key: "age", Value: 70},
//	})
func Define(opts ...Option) *Class {
	cfg := defaultClassConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newClass(nil, cfg)
}

// Derive creates a subclass. The subclass starts with its own empty schema:
// fields added to either class afterwards stay with that class. Custom
// methods, normalizer, logger and metrics are inherited unless overridden.
func (c *Class) Derive(opts ...Option) *Class {
	cfg := c.cfg.clone()
	cfg.name = ""
	for _, opt := range opts {
		opt(&cfg)
	}
	return newClass(c, cfg)
}

func newClass(parent *Class, cfg classConfig) *Class {
	c := &Class{
		id:     uuid.New(),
		parent: parent,
		cfg:    cfg,
	}
	c.name = cfg.name
	if c.name == "" {
		c.name = "dynclass." + c.id.String()[:8]
	}
	c.logger = observability.EnrichLogger(cfg.logger, c.name, c.id.String())
	c.schema = schema.New(schema.WithObserver(schema.ObserverFunc(c.fieldAdded)))

	parentName := ""
	if parent != nil {
		parentName = parent.name
	}
	observability.LogClassDefined(cfg.logger, c.name, parentName)
	return c
}

// fieldAdded runs after the schema commits a new field.
func (c *Class) fieldAdded(field string, size int) {
	observability.LogFieldAdded(c.logger, field, size)
	c.cfg.metrics.RecordFieldAdded(context.Background(), c.name, field, size)
}

// reject reports a refused operation and returns err unchanged.
func (c *Class) reject(field, op string, err error) error {
	observability.LogMutationRejected(c.logger, field, op, err)
	c.cfg.metrics.RecordRejection(context.Background(), c.name, rejectionKind(err))
	return err
}

// canonical normalizes and validates a raw field name.
func (c *Class) canonical(name string) (string, error) {
	return ident.Canonical(name, c.cfg.normalize)
}

// ID returns the unique identity of the class.
func (c *Class) ID() uuid.UUID { return c.id }

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Parent returns the class this one was derived from, or nil.
func (c *Class) Parent() *Class { return c.parent }

// IsA reports whether c is other or was derived from it, directly or not.
func (c *Class) IsA(other *Class) bool {
	for k := c; k != nil; k = k.parent {
		if k == other {
			return true
		}
	}
	return false
}

// HasField reports whether any record of this class has ever been given name.
// Names that fail validation are never known.
func (c *Class) HasField(name string) bool {
	canon, err := c.canonical(name)
	if err != nil {
		return false
	}
	return c.schema.HasField(canon)
}

// Fields returns the known field names in the order they were first written.
func (c *Class) Fields() []string {
	return c.schema.Fields()
}

// HasMethod reports whether the class defines a custom method called name,
// either exactly or once the accessor name is canonicalized.
func (c *Class) HasMethod(name string) bool {
	_, ok := c.method(name)
	return ok
}

// method finds the custom method for name. An exact match wins; otherwise
// the accessor base is canonicalized, so "FirstName" reaches a "first_name"
// method on a snake-case class.
func (c *Class) method(name string) (Method, bool) {
	if m, ok := c.cfg.methods[name]; ok {
		return m, true
	}
	base, setter := ident.SetterBase(name)
	canon, err := c.canonical(base)
	if err != nil {
		return nil, false
	}
	if setter {
		canon += ident.SetterSuffix
	}
	if canon == name {
		return nil, false
	}
	m, ok := c.cfg.methods[canon]
	return m, ok
}

// Schema returns the registry backing the class.
func (c *Class) Schema() *schema.Registry {
	return c.schema
}

// New creates a record and applies each source's pairs in order.
// See Record for the accepted source kinds.
func (c *Class) New(sources ...any) (*Record, error) {
	r := &Record{
		class:  c,
		values: make(map[string]any),
	}
	for _, src := range sources {
		if err := r.load(src); err != nil {
			return nil, err
		}
	}
	c.cfg.metrics.RecordCreated(context.Background(), c.name)
	return r, nil
}

// MustNew is like New but panics on error.
func (c *Class) MustNew(sources ...any) *Record {
	r, err := c.New(sources...)
	if err != nil {
		panic("dynclass: " + err.Error())
	}
	return r
}

// String returns the class name.
func (c *Class) String() string {
	return c.name
}
