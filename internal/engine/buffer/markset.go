package buffer

import (
	"sort"

	"github.com/google/uuid"
)

// Special mark names.
const (
	MarkVisualStart = '<'
	MarkVisualEnd   = '>'
	MarkChangeStart = '['
	MarkChangeEnd   = ']'
	MarkLastInsert  = '^'
	MarkLastCursor  = '"'
	MarkPrevContext = '\''
)

const specialMarks = "<>[]^\"'"

// IsLocalMark reports whether r names a per-buffer mark: a-z or one of the
// special marks.
func IsLocalMark(r rune) bool {
	if r >= 'a' && r <= 'z' {
		return true
	}
	for _, s := range specialMarks {
		if r == s {
			return true
		}
	}
	return false
}

// IsFileMark reports whether r names a file mark (A-Z).
func IsFileMark(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// MarkSet holds a buffer's named and dynamic marks.
type MarkSet struct {
	buf     *Buffer
	named   map[rune]*Mark
	dynamic map[uuid.UUID]*Mark
}

func newMarkSet(b *Buffer) *MarkSet {
	s := &MarkSet{
		buf:     b,
		named:   make(map[rune]*Mark, 26+len(specialMarks)),
		dynamic: make(map[uuid.UUID]*Mark),
	}
	for r := 'a'; r <= 'z'; r++ {
		s.named[r] = &Mark{buf: b, name: r}
	}
	for _, r := range specialMarks {
		s.named[r] = &Mark{buf: b, name: r}
	}
	return s
}

// Get returns the named mark, set or not.
func (s *MarkSet) Get(name rune) (*Mark, error) {
	m, ok := s.named[name]
	if !ok {
		return nil, ErrInvalidMarkName
	}
	return m, nil
}

// Set moves the named mark to p.
func (s *MarkSet) Set(name rune, p *Position) error {
	m, err := s.Get(name)
	if err != nil {
		return err
	}
	return m.SetTo(p)
}

// Line returns the line of a set named mark.
func (s *MarkSet) Line(name rune) (int, error) {
	m, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	if !m.IsSet() {
		return 0, ErrMarkNotSet
	}
	return m.Line(), nil
}

// Names returns the names of all set marks in sorted order.
func (s *MarkSet) Names() []rune {
	var out []rune
	for r, m := range s.named {
		if m.set {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NewMark creates a dynamic mark at offset. It is tracked until Release.
func (s *MarkSet) NewMark(offset int) *Mark {
	m := &Mark{buf: s.buf, id: uuid.New()}
	m.SetOffset(offset)
	s.dynamic[m.id] = m
	return m
}

// Release stops tracking a dynamic mark.
func (s *MarkSet) Release(m *Mark) bool {
	if _, ok := s.dynamic[m.id]; !ok {
		return false
	}
	delete(s.dynamic, m.id)
	m.set = false
	return true
}

// Dynamic returns the number of tracked dynamic marks.
func (s *MarkSet) Dynamic() int { return len(s.dynamic) }

func (s *MarkSet) each(fn func(*Mark)) {
	for _, m := range s.named {
		fn(m)
	}
	for _, m := range s.dynamic {
		fn(m)
	}
}

func (s *MarkSet) insertUpdate(at, n int) {
	s.each(func(m *Mark) { m.insertUpdate(at, n) })
}

func (s *MarkSet) removeUpdate(start, end int) {
	s.each(func(m *Mark) { m.removeUpdate(start, end) })
}

func (s *MarkSet) clampAll(n int) {
	s.each(func(m *Mark) {
		if m.set && m.offset > n {
			m.offset = n
			m.moved()
		}
	})
}

func (s *MarkSet) clear() {
	s.each(func(m *Mark) { m.Clear() })
	s.dynamic = make(map[uuid.UUID]*Mark)
}
