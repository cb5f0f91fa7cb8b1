package buffer

import "github.com/google/uuid"

// Mark is an edit-tracking location owned by a buffer.
//
// Inserting text at or before the mark moves it forward by the inserted
// length. Deleting text wholly before it moves it back; deleting a span that
// contains it moves it to the start of the span.
type Mark struct {
	buf    *Buffer
	name   rune // zero for dynamic marks
	id     uuid.UUID
	offset int
	set    bool
	watch  []func(*Mark)
}

// Name returns the mark's name, or zero for a dynamic mark.
func (m *Mark) Name() rune { return m.name }

// ID returns the unique id of a dynamic mark.
func (m *Mark) ID() uuid.UUID { return m.id }

// Buffer returns the owning buffer.
func (m *Mark) Buffer() *Buffer { return m.buf }

// IsSet reports whether the mark holds a location.
func (m *Mark) IsSet() bool { return m.set }

// Offset returns the mark's offset. Only meaningful if IsSet.
func (m *Mark) Offset() int { return m.offset }

// Line returns the mark's 1-based line.
func (m *Mark) Line() int { return m.buf.LineOfOffset(m.offset) }

// Column returns the mark's 0-based column.
func (m *Mark) Column() int {
	return m.offset - m.buf.LineStartOffset(m.Line())
}

// Position returns a snapshot of the mark's location.
func (m *Mark) Position() (*Position, error) {
	if !m.set {
		return nil, ErrMarkNotSet
	}
	return m.buf.PositionAt(m.offset), nil
}

// SetTo moves the mark to p, which must belong to the mark's buffer.
func (m *Mark) SetTo(p *Position) error {
	if err := p.In(m.buf); err != nil {
		return err
	}
	m.SetOffset(p.Offset())
	return nil
}

// SetOffset moves the mark to offset, clamped into the buffer.
func (m *Mark) SetOffset(offset int) {
	m.offset = clamp(offset, 0, m.buf.Len())
	m.set = true
	m.moved()
}

// Clear unsets the mark.
func (m *Mark) Clear() {
	m.set = false
	m.offset = 0
}

// OnMove registers fn to be called whenever the mark changes location.
func (m *Mark) OnMove(fn func(*Mark)) {
	m.watch = append(m.watch, fn)
}

func (m *Mark) moved() {
	for _, fn := range m.watch {
		fn(m)
	}
}

func (m *Mark) insertUpdate(at, n int) {
	if !m.set || at > m.offset {
		return
	}
	m.offset += n
	m.moved()
}

func (m *Mark) removeUpdate(start, end int) {
	if !m.set || m.offset <= start {
		return
	}
	if m.offset >= end {
		m.offset -= end - start
	} else {
		m.offset = start
	}
	m.moved()
}
