package dynclass

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/dynclass/pkg/dynclass/schema"
)

// stringer is a fmt.Stringer key.
type stringer string

func (s stringer) String() string { return string(s) }

func TestSettingAndGetting(t *testing.T) {
	t.Run("at initialization", func(t *testing.T) {
		klass := Define()
		r := klass.MustNew([]Pair{{Key: "foo", Value: "bar"}})

		v, err := r.Call("foo")
		require.NoError(t, err)
		assert.Equal(t, "bar", v)

		v, err = r.At(Symbol("foo"))
		require.NoError(t, err)
		assert.Equal(t, "bar", v)

		v, err = r.At("foo")
		require.NoError(t, err)
		assert.Equal(t, "bar", v)

		v, err = r.At(stringer("foo"))
		require.NoError(t, err)
		assert.Equal(t, "bar", v)
	})

	t.Run("setter dispatch returns the value", func(t *testing.T) {
		r := Define().MustNew()
		value := &struct{ X int }{X: 1}

		got, err := r.Call("foo=", value)
		require.NoError(t, err)
		assert.Same(t, value, got)

		v, _ := r.Call("foo")
		assert.Same(t, value, v)
	})

	t.Run("indexed put returns the value", func(t *testing.T) {
		r := Define().MustNew()

		got, err := r.Put(Symbol("foo"), 42)
		require.NoError(t, err)
		assert.Equal(t, 42, got)

		v, ok := r.Get("foo")
		assert.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("overwrite", func(t *testing.T) {
		r := Define().MustNew()
		_, _ = r.Set("foo", 1)
		_, _ = r.Set("foo", 2)

		v, _ := r.Get("foo")
		assert.Equal(t, 2, v)
		assert.Equal(t, []string{"foo"}, r.Class().Fields())
	})
}

func TestGetAbsent(t *testing.T) {
	klass := Define()
	a := klass.MustNew()
	b := klass.MustNew()
	_, _ = b.Set("foo", "bar")

	t.Run("known field unset on this record", func(t *testing.T) {
		v, ok := a.Get("foo")
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("unknown field", func(t *testing.T) {
		v, ok := a.Get("nope")
		assert.False(t, ok)
		assert.Nil(t, v)

		v, err := a.Call("nope")
		assert.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("explicit nil is a stored value", func(t *testing.T) {
		_, _ = a.Set("foo", nil)
		v, ok := a.Get("foo")
		assert.True(t, ok)
		assert.Nil(t, v)
		assert.True(t, a.View().Has("foo"))
	})
}

func TestAppendOnlyAccessors(t *testing.T) {
	t.Run("no accessors by default", func(t *testing.T) {
		r := Define().MustNew()
		assert.False(t, r.RespondsTo("foo"))
		assert.False(t, r.RespondsTo("foo="))
	})

	t.Run("added by a write at initialization of another record", func(t *testing.T) {
		klass := Define()
		subject := klass.MustNew()
		klass.MustNew([]Pair{{Key: "foo", Value: "bar"}})

		assert.True(t, subject.RespondsTo("foo"))
		assert.True(t, subject.RespondsTo("foo="))
	})

	writes := map[string]func(r *Record) error{
		"setter dispatch": func(r *Record) error { _, err := r.Call("foo=", "bar"); return err },
		"put with symbol": func(r *Record) error { _, err := r.Put(Symbol("foo"), "bar"); return err },
		"put with string": func(r *Record) error { _, err := r.Put("foo", "bar"); return err },
		"set":             func(r *Record) error { _, err := r.Set("foo", "bar"); return err },
	}
	for name, write := range writes {
		t.Run("added by "+name, func(t *testing.T) {
			r := Define().MustNew()
			require.NoError(t, write(r))
			assert.True(t, r.RespondsTo("foo"))
			assert.True(t, r.RespondsTo("foo="))
		})
	}

	t.Run("not added by a read", func(t *testing.T) {
		r := Define().MustNew()
		_, _ = r.Call("foo")
		_, _ = r.At("foo")
		r.Get("foo")
		assert.False(t, r.RespondsTo("foo"))
		assert.False(t, r.Class().HasField("foo"))
	})

	t.Run("not removed by delete", func(t *testing.T) {
		r := Define().MustNew()
		_, _ = r.Set("foo", "bar")
		require.NoError(t, r.DeleteField("foo"))

		assert.True(t, r.RespondsTo("foo"))
		_, ok := r.Get("foo")
		assert.False(t, ok)
		assert.False(t, r.View().Has("foo"))
	})
}

func TestDeleteFieldThenSetAgain(t *testing.T) {
	r := Define().MustNew()
	_, _ = r.Set("a", 1)
	_, _ = r.Set("b", 2)
	require.NoError(t, r.DeleteField("a"))
	_, _ = r.Set("a", 3)

	// Position comes from the schema, not from the latest write.
	assert.Equal(t, []string{"a", "b"}, r.View().Keys())
}

func TestCustomMethodsTakePrecedence(t *testing.T) {
	klass := Define(WithMethods(adderMethods()))

	check := func(t *testing.T, r *Record) {
		bar, err := r.Call("bar")
		require.NoError(t, err)
		assert.Equal(t, 4, bar, "explicit setter")

		foo, err := r.Call("foo")
		require.NoError(t, err)
		assert.Equal(t, 3, foo, "explicit getter")
	}

	t.Run("on fields set at initialization", func(t *testing.T) {
		r := klass.MustNew([]Pair{{Key: "foo", Value: 0}, {Key: "bar", Value: 0}})
		check(t, r)
	})

	t.Run("on fields set after initialization", func(t *testing.T) {
		r := klass.MustNew()
		_, err := r.Call("foo=", 0)
		require.NoError(t, err)
		_, err = r.Call("bar=", 0)
		require.NoError(t, err)
		check(t, r)
	})

	t.Run("plain custom method", func(t *testing.T) {
		r := klass.MustNew()
		v, err := r.Call("four")
		require.NoError(t, err)
		assert.Equal(t, 4, v)
		assert.True(t, r.RespondsTo("four"))
	})
}

func TestEquality(t *testing.T) {
	klass := Define()

	tests := []struct {
		name  string
		data1 []Pair
		data2 []Pair
		want  bool
	}{
		{"both empty", nil, nil, true},
		{"one empty", nil, []Pair{{Key: "a", Value: "foo"}}, false},
		{"same data", []Pair{{Key: "a", Value: "foo"}}, []Pair{{Key: "a", Value: "foo"}}, true},
		{"same keys different values", []Pair{{Key: "a", Value: "foo"}}, []Pair{{Key: "a", Value: "bar"}}, false},
		{"same values different keys", []Pair{{Key: "a", Value: "foo"}}, []Pair{{Key: "b", Value: "foo"}}, false},
		{"extra key", []Pair{{Key: "a", Value: "foo"}}, []Pair{{Key: "a", Value: "foo"}, {Key: "b", Value: 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r1 := klass.MustNew(tt.data1)
			r2 := klass.MustNew(tt.data2)
			assert.Equal(t, tt.want, r1.Equal(r2))
			assert.Equal(t, tt.want, r2.Equal(r1))
			if tt.want {
				assert.Equal(t, r1.Hash(), r2.Hash())
			}
		})
	}

	t.Run("unrelated classes", func(t *testing.T) {
		a := Define().MustNew(personPairs)
		b := Define().MustNew(personPairs)
		assert.True(t, a.View().Equal(b.View()))
		assert.False(t, a.Equal(b))
	})

	t.Run("parent and child", func(t *testing.T) {
		parent := Define()
		child := parent.Derive()
		assert.False(t, parent.MustNew(personPairs).Equal(child.MustNew(personPairs)))
	})

	t.Run("non-records", func(t *testing.T) {
		r := klass.MustNew()
		assert.False(t, r.Equal(nil))
		assert.False(t, r.Equal("record"))
		assert.False(t, r.Equal((*Record)(nil)))
		assert.True(t, r.Equal(r))
	})

	t.Run("nested records", func(t *testing.T) {
		inner := Define()
		outer := Define()
		a := outer.MustNew([]Pair{{Key: "child", Value: inner.MustNew([]Pair{{Key: "x", Value: 1}})}})
		b := outer.MustNew([]Pair{{Key: "child", Value: inner.MustNew([]Pair{{Key: "x", Value: 1}})}})
		c := outer.MustNew([]Pair{{Key: "child", Value: inner.MustNew([]Pair{{Key: "x", Value: 2}})}})

		assert.True(t, a.Equal(b))
		assert.Equal(t, a.Hash(), b.Hash())
		assert.False(t, a.Equal(c))
	})

	t.Run("records holding themselves", func(t *testing.T) {
		a := klass.MustNew()
		b := klass.MustNew()
		_, _ = a.Set("me", a)
		_, _ = b.Set("me", b)

		assert.True(t, a.Equal(b))
		assert.True(t, b.Equal(a))
		assert.True(t, a.Equal(a))
		assert.Equal(t, a.Hash(), b.Hash())

		_, _ = b.Set("extra", 1)
		assert.False(t, a.Equal(b))
	})

	t.Run("records holding each other", func(t *testing.T) {
		a := klass.MustNew()
		b := klass.MustNew()
		_, _ = a.Set("peer", b)
		_, _ = b.Set("peer", a)

		assert.True(t, a.Equal(b))
		assert.Equal(t, a.Hash(), b.Hash())
	})
}

func TestHash(t *testing.T) {
	r := Define().MustNew(personPairs)

	assert.Equal(t, schema.NewView(personPairs...).Hash(), r.Hash())
	assert.Equal(t, r.View().Hash(), r.Hash())

	_, _ = r.Set("age", 71)
	assert.NotEqual(t, schema.NewView(personPairs...).Hash(), r.Hash())

	t.Run("record holding itself", func(t *testing.T) {
		self := Define().MustNew()
		_, _ = self.Set("me", self)

		assert.NotPanics(t, func() { _ = self.Hash() })
		assert.Equal(t, self.Hash(), self.Hash())
		assert.Equal(t, self.Hash(), self.Clone().Hash())
	})

	t.Run("record held in a slice of itself", func(t *testing.T) {
		self := Define().MustNew()
		_, _ = self.Set("all", []any{self})
		assert.NotPanics(t, func() { _ = self.Hash() })
	})
}

func TestOrderedViewScenario(t *testing.T) {
	r := Define().MustNew(personPairs)

	view := r.View()
	assert.Equal(t, []string{"name", "age", "pension"}, view.Keys())
	assert.Equal(t, personPairs, view.Pairs())
	assert.Equal(t, map[string]any{"name": "John Smith", "age": 70, "pension": 300}, r.Map())
}

func TestSources(t *testing.T) {
	klass := Define()
	want := schema.NewView(personPairs...)

	type pensioner struct {
		Name    string
		Age     int
		Pension int
		secret  string
	}

	type tagged struct {
		FullName string `dynclass:"name"`
		Age      int
		Pension  int
		Ignored  string `dynclass:"-"`
	}

	tests := []struct {
		name      string
		source    any
		wantOrder []string
	}{
		{"pairs", personPairs, []string{"name", "age", "pension"}},
		{"view", want, []string{"name", "age", "pension"}},
		{"record", klass.MustNew(personPairs), []string{"name", "age", "pension"}},
		{"struct", pensioner{Name: "John Smith", Age: 70, Pension: 300, secret: "x"}, []string{"name", "age", "pension"}},
		{"struct pointer", &pensioner{Name: "John Smith", Age: 70, Pension: 300}, []string{"name", "age", "pension"}},
		{"tagged struct", tagged{FullName: "John Smith", Age: 70, Pension: 300, Ignored: "x"}, []string{"name", "age", "pension"}},
		{"any map", map[string]any{"pension": 300, "name": "John Smith", "age": 70}, []string{"age", "name", "pension"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A fresh class per source so schema order comes from this source.
			k := Define()
			r, err := k.New(tt.source)
			require.NoError(t, err)
			assert.True(t, r.View().Equal(want), "got %s", r.View())
			assert.Equal(t, tt.wantOrder, r.View().Keys())
		})
	}

	t.Run("typed map", func(t *testing.T) {
		r, err := Define().New(map[string]int{"b": 2, "a": 1})
		require.NoError(t, err)
		assert.Equal(t, []Pair{{Key: "a", Value: 1}, {Key: "b", Value: 2}}, r.View().Pairs())
	})

	t.Run("nil sources", func(t *testing.T) {
		r, err := Define().New(nil, (*Record)(nil), (*pensioner)(nil))
		require.NoError(t, err)
		assert.Equal(t, 0, r.View().Len())
	})

	t.Run("several sources apply in order", func(t *testing.T) {
		r, err := Define().New([]Pair{{Key: "a", Value: 1}}, map[string]any{"a": 2, "b": 3})
		require.NoError(t, err)
		assert.Equal(t, []Pair{{Key: "a", Value: 2}, {Key: "b", Value: 3}}, r.View().Pairs())
	})

	t.Run("unsupported", func(t *testing.T) {
		for _, src := range []any{42, "text", []int{1}, map[int]string{1: "a"}} {
			_, err := Define().New(src)
			require.Error(t, err, "%T", src)
			assert.True(t, errors.Is(err, ErrUnsupportedSource))

			var srcErr *SourceError
			require.True(t, errors.As(err, &srcErr))
			assert.Equal(t, fmt.Sprintf("%T", src), srcErr.Type)
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := Define().New([]Pair{{Key: "not valid", Value: 1}})
		assert.True(t, errors.Is(err, ErrInvalidFieldName))
	})
}

func TestRoundTrip(t *testing.T) {
	klass := Define()
	original := klass.MustNew(personPairs)

	copied := klass.MustNew(original.View())

	assert.True(t, copied.View().Equal(original.View()))
	assert.True(t, copied.Equal(original))
}

func TestEachPair(t *testing.T) {
	r := Define().MustNew(personPairs)

	t.Run("iterates each pair in order", func(t *testing.T) {
		var seen []Pair
		r.EachPair(func(k string, v any) {
			seen = append(seen, Pair{Key: k, Value: v})
		})
		assert.Equal(t, personPairs, seen)
	})

	t.Run("returns the iterated view", func(t *testing.T) {
		v := r.EachPair(func(string, any) {})
		assert.True(t, v.Equal(schema.NewView(personPairs...)))
	})

	t.Run("sequence is lazy and restartable", func(t *testing.T) {
		seq := r.All()
		_, _ = r.Set("extra", true)

		var first, second []string
		for k := range seq {
			first = append(first, k)
		}
		for k := range seq {
			second = append(second, k)
		}
		assert.Equal(t, []string{"name", "age", "pension", "extra"}, first)
		assert.Equal(t, first, second)
	})
}

func TestArgumentErrors(t *testing.T) {
	r := Define().MustNew()

	tests := []struct {
		name   string
		method string
		args   []any
		want   int
		got    int
	}{
		{"getter with an argument", "foo", []any{true}, 0, 1},
		{"setter with two arguments", "foo=", []any{"bar", "bar"}, 1, 2},
		{"setter with no arguments", "foo=", nil, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Call(tt.method, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrArgumentCount))

			var argErr *ArgumentCountError
			require.True(t, errors.As(err, &argErr))
			assert.Equal(t, tt.method, argErr.Method)
			assert.Equal(t, tt.want, argErr.Want)
			assert.Equal(t, tt.got, argErr.Got)
		})
	}

	t.Run("state untouched", func(t *testing.T) {
		assert.Equal(t, 0, r.View().Len())
		assert.False(t, r.Class().HasField("foo"))
	})

	t.Run("message", func(t *testing.T) {
		_, err := r.Call("foo", 1)
		assert.EqualError(t, err, "foo: wrong number of arguments (1 for 0)")
	})
}

func TestInvalidFieldNames(t *testing.T) {
	r := Define().MustNew()

	_, err := r.Set("1abc", 1)
	assert.True(t, errors.Is(err, ErrInvalidFieldName))

	_, err = r.Put(42, 1)
	assert.True(t, errors.Is(err, ErrInvalidFieldName))

	_, err = r.At(3.5)
	assert.True(t, errors.Is(err, ErrInvalidFieldName))

	_, err = r.At("has space")
	assert.True(t, errors.Is(err, ErrInvalidFieldName))

	_, err = r.Call("what?")
	assert.True(t, errors.Is(err, ErrInvalidFieldName))

	err = r.DeleteField("")
	assert.True(t, errors.Is(err, ErrInvalidFieldName))

	var nameErr *InvalidFieldNameError
	_, err = r.Set("a-b", 1)
	require.True(t, errors.As(err, &nameErr))
	assert.Equal(t, "a-b", nameErr.Name)

	// Reads of invalid names are simply absent.
	_, ok := r.Get("1abc")
	assert.False(t, ok)

	assert.Empty(t, r.Class().Fields())
}

func TestFreeze(t *testing.T) {
	klass := Define()
	r := klass.MustNew()
	_, _ = r.Set("foo", "bar")
	assert.Same(t, r, r.Freeze())
	assert.True(t, r.Frozen())

	t.Run("rejects adding a value", func(t *testing.T) {
		_, err := r.Call("baz=", "quux")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrImmutable))
		assert.False(t, klass.HasField("baz"))
	})

	t.Run("rejects modifying a value", func(t *testing.T) {
		_, err := r.Set("foo", "quux")
		assert.True(t, errors.Is(err, ErrImmutable))

		_, err = r.Put(Symbol("foo"), "quux")
		assert.True(t, errors.Is(err, ErrImmutable))

		v, _ := r.Get("foo")
		assert.Equal(t, "bar", v)
	})

	t.Run("rejects delete", func(t *testing.T) {
		err := r.DeleteField("foo")
		var immErr *ImmutableError
		require.True(t, errors.As(err, &immErr))
		assert.Equal(t, "delete", immErr.Op)
		assert.Equal(t, "foo", immErr.Field)
		assert.True(t, r.View().Has("foo"))
	})

	t.Run("other records still grow the schema", func(t *testing.T) {
		other := klass.MustNew()
		_, err := other.Set("baz", 1)
		require.NoError(t, err)

		assert.True(t, r.RespondsTo("baz"))
		assert.Equal(t, []string{"foo"}, r.View().Keys())
	})

	t.Run("reads still work", func(t *testing.T) {
		v, err := r.Call("foo")
		require.NoError(t, err)
		assert.Equal(t, "bar", v)
		assert.NotZero(t, r.Hash())
	})
}

func TestClone(t *testing.T) {
	r := Define().MustNew(personPairs).Freeze()
	c := r.Clone()

	assert.False(t, c.Frozen())
	assert.True(t, c.Equal(r))
	assert.Same(t, r.Class(), c.Class())

	_, err := c.Set("age", 71)
	require.NoError(t, err)
	v, _ := r.Get("age")
	assert.Equal(t, 70, v)
}

func TestRecordString(t *testing.T) {
	klass := Define(WithName("Person"))
	r := klass.MustNew(personPairs[:2])
	assert.Equal(t, `Person{name: "John Smith", age: 70}`, r.String())

	t.Run("nested and cyclic", func(t *testing.T) {
		self := klass.MustNew([]Pair{{Key: "name", Value: "Me"}})
		_, _ = self.Set("me", self)
		assert.Equal(t, `Person{name: "Me", me: {name: "Me", me: {...}}}`, self.String())
	})
}
