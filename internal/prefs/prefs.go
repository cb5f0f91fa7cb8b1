// Package prefs persists small editor state between sessions: command and
// search history, file marks. Values are ordered string lists keyed by name.
package prefs

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("preference not found")

// Store is a persistent key to string-list mapping.
type Store interface {
	// Get returns the list stored under key, or ErrNotFound.
	Get(key string) ([]string, error)
	// Put replaces the list stored under key.
	Put(key string, values []string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys returns all keys with the given prefix in sorted order.
	Keys(prefix string) ([]string, error)
	// Close flushes and releases the store.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Open returns a store for the named backend: "memory", "yaml" or "sqlite".
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendYAML:
		return OpenYAML(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("prefs: unknown backend %q", backend)
	}
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]string)}
}

// Get implements Store.
func (m *Memory) Get(key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]string(nil), v...), nil
}

// Put implements Store.
func (m *Memory) Put(key string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]string(nil), values...)
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys implements Store.
func (m *Memory) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.data, prefix), nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

func sortedKeys(data map[string][]string, prefix string) []string {
	var keys []string
	for k := range data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
