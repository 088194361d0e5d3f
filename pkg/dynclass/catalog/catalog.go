package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/randalmurphal/dynclass/pkg/dynclass"
	"github.com/randalmurphal/dynclass/pkg/dynclass/config"
)

// ErrNotFound indicates a lookup of a name the catalog has never defined.
var ErrNotFound = errors.New("class not found")

// Catalog is a thread-safe set of record classes indexed by name.
// Classes are never removed once defined.
type Catalog struct {
	defaults []dynclass.Option

	mu      sync.RWMutex
	classes map[string]*dynclass.Class
	order   []string
}

// New creates an empty catalog. defaults are applied to every class it
// defines, before the per-class options.
func New(defaults ...dynclass.Option) *Catalog {
	return &Catalog{
		defaults: defaults,
		classes:  make(map[string]*dynclass.Class),
	}
}

// Define returns the class registered under name, defining it with opts if
// it does not exist yet. The class is constructed at most once per name, even
// under concurrent access; opts are ignored for an existing class.
func (c *Catalog) Define(name string, opts ...dynclass.Option) *dynclass.Class {
	return c.getOrCreate(name, func() *dynclass.Class {
		return dynclass.Define(c.options(name, opts)...)
	})
}

// Derive is like Define but derives the new class from the class registered
// under parent. It fails with ErrNotFound if parent is unknown.
func (c *Catalog) Derive(parent, name string, opts ...dynclass.Option) (*dynclass.Class, error) {
	p, ok := c.Lookup(parent)
	if !ok {
		return nil, fmt.Errorf("derive %s from %s: %w", name, parent, ErrNotFound)
	}
	return c.getOrCreate(name, func() *dynclass.Class {
		return p.Derive(c.options(name, opts)...)
	}), nil
}

func (c *Catalog) options(name string, opts []dynclass.Option) []dynclass.Option {
	all := make([]dynclass.Option, 0, len(c.defaults)+len(opts)+1)
	all = append(all, c.defaults...)
	all = append(all, dynclass.WithName(name))
	return append(all, opts...)
}

func (c *Catalog) getOrCreate(name string, factory func() *dynclass.Class) *dynclass.Class {
	c.mu.RLock()
	k, ok := c.classes[name]
	c.mu.RUnlock()
	if ok {
		return k
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if k, ok := c.classes[name]; ok {
		return k
	}
	k = factory()
	c.classes[name] = k
	c.order = append(c.order, name)
	return k
}

// Lookup returns the class registered under name and whether it exists.
func (c *Catalog) Lookup(name string) (*dynclass.Class, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	k, ok := c.classes[name]
	return k, ok
}

// MustLookup returns the class registered under name, panicking if not found.
func (c *Catalog) MustLookup(name string) *dynclass.Class {
	k, ok := c.Lookup(name)
	if !ok {
		panic("catalog: class " + name + " not found")
	}
	return k
}

// Has returns true if a class is registered under name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Names returns the registered names in definition order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Len returns the number of registered classes.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.classes)
}

// Range calls fn for each class in definition order until fn returns false.
// It iterates over a snapshot, so fn may define further classes.
func (c *Catalog) Range(fn func(name string, class *dynclass.Class) bool) {
	c.mu.RLock()
	names := append([]string(nil), c.order...)
	snapshot := make([]*dynclass.Class, len(names))
	for i, n := range names {
		snapshot[i] = c.classes[n]
	}
	c.mu.RUnlock()

	for i, n := range names {
		if !fn(n, snapshot[i]) {
			return
		}
	}
}

// LoadConfig defines every class listed under the "classes" section of cfg.
// Each entry accepts the keys understood by dynclass.OptionsFromConfig plus
// "parent", naming another class to derive from. Parents may appear anywhere
// in the section or already be in the catalog.
//
// Example (YAML):
//
//	classes:
//	  Person:
//	    field_case: snake
//	  Pensioner:
//	    parent: Person
func (c *Catalog) LoadConfig(cfg config.Config) error {
	section := cfg.Section("classes")
	pending := section.Keys()

	for len(pending) > 0 {
		var next []string
		for _, name := range pending {
			entry := section.Section(name)
			opts, err := dynclass.OptionsFromConfig(entry)
			if err != nil {
				return fmt.Errorf("class %s: %w", name, err)
			}

			parent := entry.String("parent", "")
			if parent == "" {
				c.Define(name, opts...)
				continue
			}
			if !c.Has(parent) {
				next = append(next, name)
				continue
			}
			if _, err := c.Derive(parent, name, opts...); err != nil {
				return err
			}
		}
		if len(next) == len(pending) {
			return fmt.Errorf("class %s: parent %s: %w",
				next[0], section.Section(next[0]).String("parent", ""), ErrNotFound)
		}
		pending = next
	}
	return nil
}
