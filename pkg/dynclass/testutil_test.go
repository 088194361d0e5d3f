package dynclass

import (
	"context"
	"sync"
)

// Test data shared across tests

// personPairs is the canonical three-field record used throughout.
var personPairs = []Pair{
	{Key: "name", Value: "John Smith"},
	{Key: "age", Value: 70},
	{Key: "pension", Value: 300},
}

// fakeMetrics records calls for assertions.
type fakeMetrics struct {
	mu         sync.Mutex
	created    map[string]int
	added      []string
	sizes      []int
	rejections map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		created:    map[string]int{},
		rejections: map[string]int{},
	}
}

func (m *fakeMetrics) RecordCreated(_ context.Context, className string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created[className]++
}

func (m *fakeMetrics) RecordFieldAdded(_ context.Context, _ string, field string, size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, field)
	m.sizes = append(m.sizes, size)
}

func (m *fakeMetrics) RecordRejection(_ context.Context, _ string, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections[kind]++
}

// adderMethods returns custom accessors that shift stored values, so tests can
// tell them apart from the generated ones.
func adderMethods() map[string]Method {
	return map[string]Method{
		"bar=": func(r *Record, args ...any) (any, error) {
			return r.Set("bar", args[0].(int)+4)
		},
		"foo": func(r *Record, _ ...any) (any, error) {
			v, _ := r.Get("foo")
			return v.(int) + 3, nil
		},
		"four": func(*Record, ...any) (any, error) {
			return 4, nil
		},
	}
}
