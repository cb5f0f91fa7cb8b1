package app

import (
	"fmt"

	"github.com/dshills/vicore/internal/engine/buffer"
	"github.com/dshills/vicore/internal/input/exparse"
)

// The App is both the parser's view of the editor and the Lua host.

// CursorLine returns the cursor line in the current buffer.
func (a *App) CursorLine() int {
	return a.cursorMark(a.Current()).Line()
}

// LineCount returns the number of lines in the current buffer.
func (a *App) LineCount() int {
	return a.Current().LineCount()
}

// MarkLine returns the line of a mark in the current buffer. A file mark
// counts only while it is in the current buffer.
func (a *App) MarkLine(name rune) (int, error) {
	b := a.Current()
	if buffer.IsFileMark(name) {
		fm, err := a.buffers.Filemarks().Get(name)
		if err != nil {
			return 0, err
		}
		live := fm.Live()
		if live == nil || live.Buffer() != b || !live.IsSet() {
			return 0, buffer.ErrMarkNotSet
		}
		return live.Line(), nil
	}
	return b.Marks().Line(name)
}

// SearchLine resolves a /pattern/ address and records the pattern in the
// search history.
func (a *App) SearchLine(pattern string, from int, backward bool) (int, error) {
	line, err := a.patterns.SearchLine(a.Current(), pattern, from, backward, a.cfg.Editor.WrapScan)
	if last := a.patterns.Last(); last != "" {
		a.searches.Push(last)
	}
	return line, err
}

// FileName returns the name of the buffer sel refers to.
func (a *App) FileName(sel exparse.FileSelector) (string, bool) {
	var b *buffer.Buffer
	switch sel.Kind {
	case exparse.FileCurrent:
		b = a.buffers.Current()
	case exparse.FileAlternate:
		b = a.buffers.Alternate()
	case exparse.FileNumber:
		b, _ = a.buffers.ByNumber(sel.N)
	case exparse.FileRecent:
		b = a.buffers.Recent(sel.N)
	}
	if b == nil {
		return "", false
	}
	return b.Name(), true
}

// LastShellCommand returns the previous :! command.
func (a *App) LastShellCommand() (string, bool) {
	return a.lastShell, a.lastShell != ""
}

// Line returns the text of line n of the current buffer.
func (a *App) Line(n int) (string, error) {
	b := a.Current()
	if n < 1 || n > b.LineCount() {
		return "", fmt.Errorf("line %d: %w", n, buffer.ErrOffsetOutOfRange)
	}
	return b.LineText(n), nil
}

// SetLine replaces the text of line n of the current buffer.
func (a *App) SetLine(n int, text string) error {
	b := a.Current()
	if n < 1 || n > b.LineCount() {
		return fmt.Errorf("line %d: %w", n, buffer.ErrOffsetOutOfRange)
	}
	return b.Replace(b.LineStartOffset(n), b.LineEndOffset(n), text)
}

// Cursor returns the cursor position in the current buffer.
func (a *App) Cursor() *buffer.Position {
	b := a.Current()
	return b.PositionAt(a.cursorMark(b).Offset())
}

// SetCursor moves the cursor of the current buffer. Out-of-range values are
// clamped.
func (a *App) SetCursor(line, col int) {
	b := a.Current()
	p := b.PositionAtLineCol(line, col)
	a.cursorMark(b).SetOffset(p.Offset())
}

// cursorMark returns the dynamic mark holding b's cursor, so the cursor
// follows edits.
func (a *App) cursorMark(b *buffer.Buffer) *buffer.Mark {
	m, ok := a.cursors[b]
	if !ok {
		m = b.Marks().NewMark(0)
		a.cursors[b] = m
	}
	return m
}

// jump moves the cursor to the first non-blank of line and remembers the
// previous line in the ' mark.
func (a *App) jump(line int) {
	b := a.Current()
	if m, err := b.Marks().Get(buffer.MarkPrevContext); err == nil {
		m.SetOffset(a.cursorMark(b).Offset())
	}
	a.SetCursor(line, firstNonBlank(b.LineRunes(min(max(line, 1), b.LineCount()))))
}

func firstNonBlank(line []rune) int {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return i
		}
	}
	return 0
}

// closeBuffer closes b and forgets its cursor.
func (a *App) closeBuffer(b *buffer.Buffer) {
	delete(a.cursors, b)
	a.buffers.Close(b)
}
