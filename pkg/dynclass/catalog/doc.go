// Package catalog provides a thread-safe, named collection of record classes.
//
// Applications that decide their record types at runtime (from configuration,
// from incoming data) can keep them in a Catalog instead of package globals.
//
// # Basic Usage
//
//	cat := catalog.New(dynclass.WithLogger(logger))
//	person := cat.Define("Person")
//	john := person.MustNew([]dynclass.Pair{{Key: "name", Value: "John"}})
//
//	// Elsewhere, the same class:
//	same := cat.MustLookup("Person")
//
// # Lazy Definition
//
// Define is get-or-create: the class is constructed at most once per name,
// even when many goroutines ask for it at the same moment, so every caller
// shares one schema.
//
// # Configuration
//
// LoadConfig defines classes from a "classes" section, deriving subclasses
// through a "parent" key.
package catalog
