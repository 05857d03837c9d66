package safe

import (
	"sort"
	"sync"
)

// Map is a concurrency & type safe map keyed by name
type Map[T any] struct {
	mu   sync.RWMutex
	data map[string]T
}

// NewMap returns a Map holding a copy of data
func NewMap[T any](data map[string]T) *Map[T] {
	m := &Map[T]{data: map[string]T{}}
	for k, v := range data {
		m.data[k] = v
	}
	return m
}

// Get returns the value stored under key and whether it exists
func (m *Map[T]) Get(key string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *Map[T]) Set(key string, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]T{}
	}
	m.data[key] = value
}

func (m *Map[T]) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// Keys returns the map's keys in sorted order
func (m *Map[T]) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries
func (m *Map[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
