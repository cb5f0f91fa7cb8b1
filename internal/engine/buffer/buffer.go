package buffer

import (
	"sort"
	"strings"
	"weak"

	"github.com/dshills/vicore/internal/logging"
)

// Buffer holds the text of one file and its marks.
type Buffer struct {
	id       int
	name     string
	text     []rune
	lines    []int // start offset of every line; always at least one entry
	tabWidth int
	revision uint64
	modified bool
	closed   bool

	marks *MarkSet
	self  weak.Pointer[Buffer]
	log   *logging.Logger
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:    []int{0},
		tabWidth: 8,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.self = weak.Make(b)
	b.marks = newMarkSet(b)
	return b
}

// NewBufferFromString creates a buffer with initial content.
// CRLF and CR line endings are normalized to LF.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.text = []rune(normalizeLineEndings(s))
	b.rebuildLines()
	return b
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func (b *Buffer) rebuildLines() {
	b.lines = b.lines[:0]
	b.lines = append(b.lines, 0)
	for i, r := range b.text {
		if r == '\n' {
			b.lines = append(b.lines, i+1)
		}
	}
}

// ID returns the buffer number assigned by a List, or 0.
func (b *Buffer) ID() int { return b.id }

// Name returns the associated file path, possibly empty.
func (b *Buffer) Name() string { return b.name }

// SetName associates the buffer with a file path.
func (b *Buffer) SetName(name string) { b.name = name }

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int { return b.tabWidth }

// SetTabWidth sets the buffer's tab width.
func (b *Buffer) SetTabWidth(width int) {
	if width > 0 {
		b.tabWidth = width
	}
}

// Modified reports whether the text changed since the last SetModified(false).
func (b *Buffer) Modified() bool { return b.modified }

// SetModified sets the modified flag.
func (b *Buffer) SetModified(m bool) { b.modified = m }

// Revision returns a counter incremented by every edit.
func (b *Buffer) Revision() uint64 { return b.revision }

// Closed reports whether Close has been called.
func (b *Buffer) Closed() bool { return b.closed }

// Marks returns the buffer's mark set.
func (b *Buffer) Marks() *MarkSet { return b.marks }

// Logger returns the buffer's logger.
func (b *Buffer) Logger() *logging.Logger { return b.log }

// Close releases the buffer's marks. Positions taken from the buffer become
// stale and fail on further use.
func (b *Buffer) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.marks.clear()
	b.self = weak.Pointer[Buffer]{}
}

// Read Operations

// Text returns the full buffer content.
func (b *Buffer) Text() string { return string(b.text) }

// Runes returns the buffer content. The slice aliases buffer storage, must
// not be modified and is invalidated by the next edit.
func (b *Buffer) Runes() []rune { return b.text }

// Len returns the buffer length in characters.
func (b *Buffer) Len() int { return len(b.text) }

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool { return len(b.text) == 0 }

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int { return len(b.lines) }

// RuneAt returns the character at offset.
func (b *Buffer) RuneAt(offset int) (rune, bool) {
	if offset < 0 || offset >= len(b.text) {
		return 0, false
	}
	return b.text[offset], true
}

// Slice returns the text in [start, end).
func (b *Buffer) Slice(start, end int) string {
	start = clamp(start, 0, len(b.text))
	end = clamp(end, start, len(b.text))
	return string(b.text[start:end])
}

// LineStartOffset returns the offset of the first character of a 1-based line.
// Lines outside [1, LineCount()] are clamped.
func (b *Buffer) LineStartOffset(line int) int {
	return b.lines[clamp(line, 1, len(b.lines))-1]
}

// LineEndOffset returns the offset just past the last character of a line,
// excluding its newline.
func (b *Buffer) LineEndOffset(line int) int {
	line = clamp(line, 1, len(b.lines))
	if line == len(b.lines) {
		return len(b.text)
	}
	return b.lines[line] - 1
}

// LineLen returns the length of a line without its newline.
func (b *Buffer) LineLen(line int) int {
	return b.LineEndOffset(line) - b.LineStartOffset(line)
}

// LineRunes returns the characters of a line without its newline.
// The returned slice aliases buffer storage and must not be modified.
func (b *Buffer) LineRunes(line int) []rune {
	return b.text[b.LineStartOffset(line):b.LineEndOffset(line)]
}

// LineText returns the text of a line without its newline.
func (b *Buffer) LineText(line int) string {
	return string(b.LineRunes(line))
}

// Lines returns the text of lines [line1, line2].
func (b *Buffer) Lines(line1, line2 int) []string {
	line1 = clamp(line1, 1, len(b.lines))
	line2 = clamp(line2, line1, len(b.lines))
	out := make([]string, 0, line2-line1+1)
	for l := line1; l <= line2; l++ {
		out = append(out, b.LineText(l))
	}
	return out
}

// LineOfOffset returns the 1-based line containing offset.
func (b *Buffer) LineOfOffset(offset int) int {
	offset = clamp(offset, 0, len(b.text))
	// First line whose start is beyond offset, minus one.
	return sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > offset })
}

// LineSpan returns the offsets covering whole lines [line1, line2] including
// the line terminators, suitable for deleting or replacing the lines. When the
// span reaches the last line the newline before line1 is included instead.
func (b *Buffer) LineSpan(line1, line2 int) (start, end int) {
	line1 = clamp(line1, 1, len(b.lines))
	line2 = clamp(line2, line1, len(b.lines))
	start = b.LineStartOffset(line1)
	if line2 < len(b.lines) {
		return start, b.lines[line2]
	}
	if line1 > 1 {
		start--
	}
	return start, len(b.text)
}

// Write Operations

// Insert inserts text at offset.
func (b *Buffer) Insert(offset int, text string) error {
	if b.closed {
		return ErrBufferClosed
	}
	if offset < 0 || offset > len(b.text) {
		return ErrOffsetOutOfRange
	}
	ins := []rune(normalizeLineEndings(text))
	if len(ins) == 0 {
		return nil
	}

	out := make([]rune, 0, len(b.text)+len(ins))
	out = append(out, b.text[:offset]...)
	out = append(out, ins...)
	out = append(out, b.text[offset:]...)
	b.text = out
	b.edited()
	b.marks.insertUpdate(offset, len(ins))
	return nil
}

// Delete removes the text in [start, end).
func (b *Buffer) Delete(start, end int) error {
	if b.closed {
		return ErrBufferClosed
	}
	if start < 0 || start > end || end > len(b.text) {
		return ErrRangeInvalid
	}
	if start == end {
		return nil
	}
	b.text = append(b.text[:start], b.text[end:]...)
	b.edited()
	b.marks.removeUpdate(start, end)
	return nil
}

// Replace replaces [start, end) with text. Marks see a delete followed by an
// insert.
func (b *Buffer) Replace(start, end int, text string) error {
	if err := b.Delete(start, end); err != nil {
		return err
	}
	return b.Insert(start, text)
}

// SetText replaces the whole content. Marks are clamped into the new text.
func (b *Buffer) SetText(s string) {
	b.text = []rune(normalizeLineEndings(s))
	b.edited()
	b.marks.clampAll(len(b.text))
}

func (b *Buffer) edited() {
	b.rebuildLines()
	b.revision++
	b.modified = true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
