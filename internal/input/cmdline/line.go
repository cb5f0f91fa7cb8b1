// Package cmdline is the command-line editor: the rune buffer a ':' or '/'
// command is typed into, with history recall.
package cmdline

import (
	"unicode"

	"github.com/dshills/vicore/internal/input/history"
)

// Result is the state of the line after a keystroke.
type Result int

const (
	// Pending means the line is still being edited.
	Pending Result = iota
	// Accepted means Enter was pressed.
	Accepted
	// Cancelled means the line was abandoned.
	Cancelled
)

func (r Result) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Cancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Line holds the command being typed.
type Line struct {
	prompt rune
	buffer []rune
	pos    int

	hist *history.History
	// recalling is set while Up/Down walk the history; any edit clears it so
	// the next Up filters by the newly typed prefix.
	recalling bool
}

// New creates an empty line. hist may be nil.
func New(prompt rune, hist *history.History) *Line {
	return &Line{
		prompt: prompt,
		buffer: make([]rune, 0, 64),
		hist:   hist,
	}
}

// Prompt returns the prompt character.
func (l *Line) Prompt() rune { return l.prompt }

// History returns the history used for recall.
func (l *Line) History() *history.History { return l.hist }

// Text returns the buffer content.
func (l *Line) Text() string { return string(l.buffer) }

// Cursor returns the cursor position in runes.
func (l *Line) Cursor() int { return l.pos }

// SetText replaces the content and puts the cursor at the end.
func (l *Line) SetText(s string) {
	l.buffer = []rune(s)
	l.pos = len(l.buffer)
}

// Reset clears the line.
func (l *Line) Reset() {
	l.buffer = l.buffer[:0]
	l.pos = 0
	l.recalling = false
}

// Insert inserts r at the cursor.
func (l *Line) Insert(r rune) {
	l.recalling = false
	l.buffer = append(l.buffer, 0)
	copy(l.buffer[l.pos+1:], l.buffer[l.pos:])
	l.buffer[l.pos] = r
	l.pos++
}

// Backspace deletes the character before the cursor.
func (l *Line) Backspace() bool {
	if l.pos == 0 {
		return false
	}
	l.recalling = false
	l.buffer = append(l.buffer[:l.pos-1], l.buffer[l.pos:]...)
	l.pos--
	return true
}

// Delete deletes the character at the cursor.
func (l *Line) Delete() bool {
	if l.pos >= len(l.buffer) {
		return false
	}
	l.recalling = false
	l.buffer = append(l.buffer[:l.pos], l.buffer[l.pos+1:]...)
	return true
}

// ClearToStart deletes everything before the cursor.
func (l *Line) ClearToStart() {
	l.recalling = false
	l.buffer = append(l.buffer[:0], l.buffer[l.pos:]...)
	l.pos = 0
}

// DeleteWord deletes the blanks and then the word before the cursor.
func (l *Line) DeleteWord() {
	start := l.pos
	for start > 0 && unicode.IsSpace(l.buffer[start-1]) {
		start--
	}
	word := start > 0 && isWordRune(l.buffer[start-1])
	for start > 0 && !unicode.IsSpace(l.buffer[start-1]) && isWordRune(l.buffer[start-1]) == word {
		start--
	}
	if start == l.pos {
		return
	}
	l.recalling = false
	l.buffer = append(l.buffer[:start], l.buffer[l.pos:]...)
	l.pos = start
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// MoveLeft moves the cursor left.
func (l *Line) MoveLeft() bool {
	if l.pos == 0 {
		return false
	}
	l.pos--
	return true
}

// MoveRight moves the cursor right.
func (l *Line) MoveRight() bool {
	if l.pos >= len(l.buffer) {
		return false
	}
	l.pos++
	return true
}

// MoveToStart moves the cursor to the start.
func (l *Line) MoveToStart() { l.pos = 0 }

// MoveToEnd moves the cursor to the end.
func (l *Line) MoveToEnd() { l.pos = len(l.buffer) }

// Up recalls the next older history entry starting with the text typed
// before recall began.
func (l *Line) Up() bool {
	if l.hist == nil {
		return false
	}
	if !l.recalling {
		l.hist.Init()
		l.hist.SetFilter(l.Text())
		l.recalling = true
	}
	text, ok := l.hist.Next()
	if ok {
		l.SetText(text)
	}
	return ok
}

// Down recalls the next newer entry, ending at the typed text.
func (l *Line) Down() bool {
	if l.hist == nil || !l.recalling {
		return false
	}
	l.SetText(l.hist.Prev())
	return true
}

// Feed applies one keystroke. On Accepted it returns the line, which is
// also pushed to the history.
func (l *Line) Feed(st Stroke) (Result, string) {
	switch st.Key {
	case KeyRune:
		l.Insert(st.Rune)
	case KeyEnter:
		text := l.Text()
		if l.hist != nil {
			l.hist.Push(text)
		}
		l.Reset()
		return Accepted, text
	case KeyEscape:
		l.Reset()
		return Cancelled, ""
	case KeyBackspace:
		if len(l.buffer) == 0 {
			l.Reset()
			return Cancelled, ""
		}
		l.Backspace()
	case KeyDelete:
		l.Delete()
	case KeyLeft:
		l.MoveLeft()
	case KeyRight:
		l.MoveRight()
	case KeyHome:
		l.MoveToStart()
	case KeyEnd:
		l.MoveToEnd()
	case KeyUp:
		l.Up()
	case KeyDown:
		l.Down()
	case KeyClearLine:
		l.ClearToStart()
	case KeyDeleteWord:
		l.DeleteWord()
	}
	return Pending, ""
}

// FeedAll applies strokes and collects every accepted line.
func (l *Line) FeedAll(strokes []Stroke) []string {
	var lines []string
	for _, st := range strokes {
		if res, text := l.Feed(st); res == Accepted {
			lines = append(lines, text)
		}
	}
	return lines
}
