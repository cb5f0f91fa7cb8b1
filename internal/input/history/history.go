// Package history keeps the command-line histories (Ex commands and search
// patterns) with prefix-filtered traversal.
//
// Entries are ordered oldest first. Traversal uses a cursor that starts one
// past the newest entry, where Current reads back the filter text:
//
//	h.Init()
//	h.SetFilter(typed)
//	for text, ok := h.Next(); ok; text, ok = h.Next() { ... }
//
// Next moves toward older entries and Prev toward newer ones, both skipping
// entries that do not start with the filter. Traversal requires Init since
// the last Push; violating that panics with ErrNotReady.
package history

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/vicore/internal/logging"
	"github.com/dshills/vicore/internal/notify"
	"github.com/dshills/vicore/internal/prefs"
)

// ErrNotReady is the panic value for traversal without Init.
var ErrNotReady = errors.New("history: traversal without Init")

// DefaultMax is used when a non-positive size is given.
const DefaultMax = 100

// Kind names a history.
type Kind int

const (
	// Colon is the Ex command history.
	Colon Kind = iota
	// Search is the search pattern history.
	Search
)

func (k Kind) String() string {
	switch k {
	case Colon:
		return "colon"
	case Search:
		return "search"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Key is the preference key the history is stored under.
func (k Kind) Key() string { return "history/" + k.String() }

// Entry is one history line. Seq increases with every push.
type Entry struct {
	Text string
	Seq  uint64
}

type jumpRequest struct {
	index int
	text  string
}

// History is a bounded, deduplicated list of lines.
type History struct {
	mu sync.Mutex

	kind    Kind
	max     int
	entries []Entry
	seq     uint64

	ready  bool
	idx    int
	filter string
	jump   *jumpRequest

	notify notify.Notifier
	log    *logging.Logger
}

// Option configures a History.
type Option func(*History)

// WithNotifier sets where a failed jump beeps. Pass a deferred notifier so
// the beep happens after the current command.
func WithNotifier(n notify.Notifier) Option {
	return func(h *History) {
		if n != nil {
			h.notify = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *History) {
		if l != nil {
			h.log = l
		}
	}
}

// New creates an empty history holding at most max entries.
func New(kind Kind, max int, opts ...Option) *History {
	if max <= 0 {
		max = DefaultMax
	}
	h := &History{
		kind:   kind,
		max:    max,
		notify: notify.Discard,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("history").WithField("kind", kind.String())
	return h
}

// Kind returns the history kind.
func (h *History) Kind() Kind { return h.kind }

// Max returns the size limit.
func (h *History) Max() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.max
}

// SetMax changes the size limit, dropping the oldest entries if needed.
func (h *History) SetMax(max int) {
	if max <= 0 {
		max = DefaultMax
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.max = max
	h.trimLocked()
	h.ready = false
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Push adds text as the newest entry. An equal older entry is removed
// first. Empty text is ignored.
func (h *History) Push(text string) {
	if text == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].Text == text {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.seq++
	h.entries = append(h.entries, Entry{Text: text, Seq: h.seq})
	h.trimLocked()
	h.ready = false
}

func (h *History) trimLocked() {
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
}

// RequestJump asks the next Init to position the traversal at entry index
// (0 is the oldest), provided its text is still text.
func (h *History) RequestJump(index int, text string) {
	h.mu.Lock()
	h.jump = &jumpRequest{index: index, text: text}
	h.mu.Unlock()
}

// Init starts a traversal: the cursor goes past the newest entry and the
// filter is cleared. A pending jump request moves the cursor to its entry;
// if the entry no longer matches, the notifier beeps.
func (h *History) Init() {
	h.mu.Lock()
	h.idx = len(h.entries)
	h.filter = ""
	h.ready = true
	jump := h.jump
	h.jump = nil
	missed := false
	if jump != nil {
		if jump.index >= 0 && jump.index < len(h.entries) && h.entries[jump.index].Text == jump.text {
			h.idx = jump.index
		} else {
			missed = true
		}
	}
	h.mu.Unlock()

	if missed {
		h.log.Debug("jump target %d %q not found", jump.index, jump.text)
		h.notify.Beep()
	}
}

// SetFilter sets the prefix entries must start with.
func (h *History) SetFilter(text string) {
	h.mu.Lock()
	h.filter = text
	h.mu.Unlock()
}

// Filter returns the current filter.
func (h *History) Filter() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.filter
}

// Next moves to the next older entry matching the filter. At the oldest
// match it returns false and the cursor stays put.
func (h *History) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mustBeReady()

	for i := h.idx - 1; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i].Text, h.filter) {
			h.idx = i
			return h.entries[i].Text, true
		}
	}
	return "", false
}

// Prev moves to the next newer entry matching the filter. Past the newest
// match it returns to the filter text itself.
func (h *History) Prev() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mustBeReady()

	for i := h.idx + 1; i < len(h.entries); i++ {
		if strings.HasPrefix(h.entries[i].Text, h.filter) {
			h.idx = i
			return h.entries[i].Text
		}
	}
	h.idx = len(h.entries)
	return h.filter
}

// Current returns the entry under the cursor, or the filter when the
// cursor is past the newest entry.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mustBeReady()

	if h.idx >= len(h.entries) {
		return h.filter
	}
	return h.entries[h.idx].Text
}

// Index returns the cursor position; Len means past the newest entry.
func (h *History) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mustBeReady()
	return h.idx
}

func (h *History) mustBeReady() {
	if !h.ready {
		panic(ErrNotReady)
	}
}

// Load replaces the entries with those stored in s, oldest first.
// A missing key leaves the history empty.
func (h *History) Load(s prefs.Store) error {
	lines, err := s.Get(h.kind.Key())
	if errors.Is(err, prefs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s history: %w", h.kind, err)
	}

	h.mu.Lock()
	h.entries = nil
	h.ready = false
	h.mu.Unlock()
	for _, line := range lines {
		h.Push(line)
	}
	h.log.Debug("loaded %d entries", h.Len())
	return nil
}

// Save writes the entries to s, oldest first.
func (h *History) Save(s prefs.Store) error {
	h.mu.Lock()
	lines := make([]string, len(h.entries))
	for i, e := range h.entries {
		lines[i] = e.Text
	}
	h.mu.Unlock()

	if err := s.Put(h.kind.Key(), lines); err != nil {
		return fmt.Errorf("save %s history: %w", h.kind, err)
	}
	return nil
}
