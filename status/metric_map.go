package status

import (
	"slices"
	"sync"
)

// MetricMap is a concurrent name -> metric table
// Lookup takes a lock; callers cache the returned pointer and write it lock-free
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

// NewMetricMap creates an empty map
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the metric for key, allocating a zero value on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	ptr, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another goroutine may have won the race
	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[key] = ptr
	return ptr
}

// Has reports whether key was ever requested
func (m *MetricMap[T]) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Range visits metrics in sorted key order
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	slices.Sort(keys)

	for _, k := range keys {
		fn(k, m.Get(k))
	}
}

// Count returns the number of metrics
func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
