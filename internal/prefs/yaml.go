package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// YAML is a Store backed by a single YAML document. Every Put rewrites the
// file.
type YAML struct {
	mu   sync.Mutex
	path string
	data map[string][]string
}

// OpenYAML loads path, or starts empty if it does not exist.
func OpenYAML(path string) (*YAML, error) {
	if path == "" {
		return nil, errors.New("prefs: yaml backend requires a path")
	}
	s := &YAML{path: path, data: make(map[string][]string)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prefs: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("prefs: parse %s: %w", path, err)
	}
	if s.data == nil {
		s.data = make(map[string][]string)
	}
	return s, nil
}

// Get implements Store.
func (s *YAML) Get(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]string(nil), v...), nil
}

// Put implements Store.
func (s *YAML) Put(key string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]string(nil), values...)
	return s.flush()
}

// Delete implements Store.
func (s *YAML) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

// Keys implements Store.
func (s *YAML) Keys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.data, prefix), nil
}

// Close implements Store.
func (s *YAML) Close() error { return nil }

func (s *YAML) flush() error {
	out, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("prefs: write %s: %w", tmp, err)
	}
	return os.Rename(tmp, s.path)
}
