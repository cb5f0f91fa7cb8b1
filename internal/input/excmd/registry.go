package excmd

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Registry maps possibly abbreviated command names to commands.
type Registry struct {
	mu     sync.RWMutex
	items  []*Item // sorted by Abbrev
	byName map[string]*Item
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Item)}
}

// Register adds a command. abbrev must be a non-empty prefix of name, and
// neither may already be registered.
func (r *Registry) Register(abbrev, name string, handler Handler, flags Flags) error {
	return r.RegisterItem(Item{Abbrev: abbrev, Name: name, Handler: handler, Flags: flags})
}

// RegisterItem adds a fully described command.
func (r *Registry) RegisterItem(item Item) error {
	fail := func(reason string, err error) error {
		return &RegistrationError{Abbrev: item.Abbrev, Name: item.Name, Reason: reason, Err: err}
	}
	switch {
	case item.Abbrev == "":
		return fail("empty abbreviation", ErrInvalidArgument)
	case item.Name == "":
		return fail("empty name", ErrInvalidArgument)
	case item.Handler == nil:
		return fail("nil handler", ErrInvalidArgument)
	case !strings.HasPrefix(item.Name, item.Abbrev):
		return fail("abbreviation is not a prefix of the name", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.search(item.Abbrev)
	if i < len(r.items) && r.items[i].Abbrev == item.Abbrev {
		return fail("abbreviation already registered for "+r.items[i].Name, ErrNameConflict)
	}
	if other, ok := r.byName[item.Name]; ok {
		return fail("name already registered as "+other.Abbrev, ErrNameConflict)
	}

	it := item
	r.items = append(r.items, nil)
	copy(r.items[i+1:], r.items[i:])
	r.items[i] = &it
	r.byName[it.Name] = &it
	return nil
}

// Deregister removes the command registered under abbrev.
func (r *Registry) Deregister(abbrev string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.search(abbrev)
	if i >= len(r.items) || r.items[i].Abbrev != abbrev {
		return false
	}
	delete(r.byName, r.items[i].Name)
	r.items = append(r.items[:i], r.items[i+1:]...)
	return true
}

// DeregisterBySource removes every command from source and returns how
// many were removed.
func (r *Registry) DeregisterBySource(source string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	removed := 0
	for _, it := range r.items {
		if it.Source == source {
			delete(r.byName, it.Name)
			removed++
			continue
		}
		kept = append(kept, it)
	}
	for i := len(kept); i < len(r.items); i++ {
		r.items[i] = nil
	}
	r.items = kept
	return removed
}

// Lookup resolves input to a command. Only entries sharing the input's first
// character are examined, in abbreviation order; the first entry whose
// abbreviation prefixes input and whose name starts with input wins.
func (r *Registry) Lookup(input string) (*Item, bool) {
	if input == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, size := utf8.DecodeRuneInString(input)
	first := input[:size]
	for i := r.search(first); i < len(r.items); i++ {
		it := r.items[i]
		if !strings.HasPrefix(it.Abbrev, first) {
			break
		}
		if strings.HasPrefix(input, it.Abbrev) && strings.HasPrefix(it.Name, input) {
			return it, true
		}
	}
	return nil, false
}

// HasExactCommand reports whether s is registered as an abbreviation.
func (r *Registry) HasExactCommand(s string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.search(s)
	return i < len(r.items) && r.items[i].Abbrev == s
}

// Complete returns the names of commands that prefix can abbreviate, sorted.
func (r *Registry) Complete(prefix string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, it := range r.items {
		if strings.HasPrefix(it.Name, prefix) {
			names = append(names, it.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Items returns the registered commands in abbreviation order.
func (r *Registry) Items() []*Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Item(nil), r.items...)
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// search returns the insertion point for abbrev. Callers hold mu.
func (r *Registry) search(abbrev string) int {
	return sort.Search(len(r.items), func(i int) bool { return r.items[i].Abbrev >= abbrev })
}
