/*
Package dynclass provides records whose fields are discovered at runtime and
then shared by every record of the same class.

# Overview

A Class starts with no fields. The first time any of its records is given a
value for a name, that name joins the class schema and from then on every
record of the class, existing or future, answers to it. Fields are never
removed: deleting a value leaves the field in place.

	Person := dynclass.Define(dynclass.WithName("Person"))

	john := Person.MustNew([]dynclass.Pair{
	    {Key: "name", Value: "John Smith"},
	    {Key: "age", Value: 70},
	    {Key: "pension", Value: 300},
	})

	john.View().Keys()           // [name age pension]
	Person.HasField("pension")   // true
	Person.MustNew().RespondsTo("age") // true, nothing set yet

# Access

Records are read and written three ways, all reaching the same storage:

	john.Set("age", 71)          // direct
	john.Put(dynclass.Symbol("age"), 71) // indexed, string or Symbol key
	john.Call("age=", 71)        // named accessor dispatch
	john.Call("age")             // 71

Call runs a custom method when the class defines one with that name,
otherwise it behaves as a generated getter ("age", no arguments) or setter
("age=", one argument). Any other arity returns *ArgumentCountError.

# Custom Methods

Custom methods are supplied when the class is defined and always take
precedence over generated accessors, even for fields added later:

	Account := dynclass.Define(
	    dynclass.WithMethod("balance=", func(r *dynclass.Record, args ...any) (any, error) {
	        return r.Set("balance", args[0].(int)*100)
	    }),
	)

# Subclasses

Derive creates a class with its own empty schema. Fields added to the parent
after derivation do not appear in the child and vice versa. Records are equal
only when their classes are identical.

# Equality and Hashing

Equal compares the ordered views of two records of the same class; Hash is the
hash of the view, so equal records always hash the same.

# Thread Safety

Classes and records are safe for concurrent use. Growing the schema takes a
per-class lock only when a name is new; known names, reads, views, equality
and hashing never contend on it.
*/
package dynclass
