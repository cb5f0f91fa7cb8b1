package buffer

import (
	"fmt"
	"math"
	"runtime/debug"
	"weak"
)

// MaxColumn is a column sentinel meaning "end of line". Passing it to
// SetLineCol clamps silently.
const MaxColumn = math.MaxInt32

// Position is a location in a buffer. It holds only a weak reference to the
// buffer, so it never keeps a closed buffer alive, and it does not track edits.
type Position struct {
	buf    weak.Pointer[Buffer]
	offset int
	line   int // 1-based
	col    int // 0-based
}

// NewPosition returns a position at the start of the buffer.
func (b *Buffer) NewPosition() *Position {
	return &Position{buf: b.self, line: 1}
}

// PositionAt returns a position at offset, clamped into the buffer.
func (b *Buffer) PositionAt(offset int) *Position {
	p := b.NewPosition()
	p.setOffset(b, offset)
	return p
}

// PositionAtLineCol returns a position at (line, col), clamped into the buffer.
func (b *Buffer) PositionAtLineCol(line, col int) *Position {
	p := b.NewPosition()
	p.setLineCol(b, line, col, true)
	return p
}

// Buffer returns the buffer the position belongs to.
func (p *Position) Buffer() (*Buffer, error) {
	b := p.buf.Value()
	if b == nil || b.closed {
		return nil, ErrStaleBuffer
	}
	return b, nil
}

// In verifies that the position belongs to b.
func (p *Position) In(b *Buffer) error {
	own, err := p.Buffer()
	if err != nil {
		return err
	}
	if own != b {
		return ErrWrongBuffer
	}
	return nil
}

// Offset returns the absolute character offset.
func (p *Position) Offset() int { return p.offset }

// Line returns the 1-based line.
func (p *Position) Line() int { return p.line }

// Column returns the 0-based column.
func (p *Position) Column() int { return p.col }

// Set moves the position to offset, clamped into [0, Len()].
func (p *Position) Set(offset int) error {
	b, err := p.Buffer()
	if err != nil {
		return err
	}
	p.setOffset(b, offset)
	return nil
}

func (p *Position) setOffset(b *Buffer, offset int) {
	p.offset = clamp(offset, 0, b.Len())
	p.line = b.LineOfOffset(p.offset)
	p.col = p.offset - b.LineStartOffset(p.line)
}

// SetLineCol moves the position to (line, col). Out-of-range lines are
// clamped into [1, LineCount()] and columns into [0, line length]. Unless
// wantAdjust is set, an adjustment is reported through the buffer's logger
// with a stack trace; col == MaxColumn is never reported.
func (p *Position) SetLineCol(line, col int, wantAdjust bool) error {
	b, err := p.Buffer()
	if err != nil {
		return err
	}
	p.setLineCol(b, line, col, wantAdjust)
	return nil
}

func (p *Position) setLineCol(b *Buffer, line, col int, wantAdjust bool) {
	adjusted := false
	if line < 1 || line > b.LineCount() {
		adjusted = true
		line = clamp(line, 1, b.LineCount())
	}
	n := b.LineLen(line)
	if col < 0 || col > n {
		if col != MaxColumn {
			adjusted = true
		}
		col = clamp(col, 0, n)
	}
	if adjusted && !wantAdjust {
		b.log.WithField("stack", string(debug.Stack())).
			Warn("position adjusted to %d:%d", line, col)
	}
	p.line = line
	p.col = col
	p.offset = b.LineStartOffset(line) + col
}

// Copy returns an independent copy of the position.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p *Position) Compare(other *Position) int {
	switch {
	case p.offset < other.offset:
		return -1
	case p.offset > other.offset:
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p *Position) Before(other *Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p *Position) After(other *Position) bool {
	return p.Compare(other) > 0
}

// String returns a human-readable representation of the position.
func (p *Position) String() string {
	return fmt.Sprintf("%d:%d", p.line, p.col)
}
