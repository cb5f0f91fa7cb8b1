package exparse

import "strconv"

// Env gives the parser read access to editor state.
type Env interface {
	// CursorLine returns the 1-based cursor line.
	CursorLine() int
	// LineCount returns the number of lines in the current buffer.
	LineCount() int
	// MarkLine returns the line of the named mark.
	MarkLine(name rune) (int, error)
	// SearchLine finds the next line after (or before) from that matches
	// pattern. An empty pattern reuses the last one.
	SearchLine(pattern string, from int, backward bool) (int, error)
	// FileName returns the file name of the selected buffer; ok is false if
	// no such buffer exists.
	FileName(sel FileSelector) (name string, ok bool)
	// LastShellCommand returns the previous :! command text.
	LastShellCommand() (string, bool)
}

// FileKind selects which buffer a '%' or '#' refers to.
type FileKind int

const (
	// FileCurrent is '%'.
	FileCurrent FileKind = iota
	// FileAlternate is '#'.
	FileAlternate
	// FileNumber is '#N', buffer number N.
	FileNumber
	// FileRecent is '#-N', the N-th most recently used other buffer.
	FileRecent
)

// FileSelector names a buffer in file name expansion.
type FileSelector struct {
	Kind FileKind
	N    int
}

func (s FileSelector) String() string {
	switch s.Kind {
	case FileAlternate:
		return "#"
	case FileNumber:
		return "#" + strconv.Itoa(s.N)
	case FileRecent:
		return "#-" + strconv.Itoa(s.N)
	default:
		return "%"
	}
}

// SwapPrompt is the question asked before swapping a backwards range.
const SwapPrompt = "Backwards range given, OK to swap (y/n)?"

// Confirmer answers yes/no questions. The call blocks until answered.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	// AlwaysNo declines every question. It is the default.
	AlwaysNo Confirmer = ConfirmFunc(func(string) bool { return false })
	// AlwaysYes accepts every question.
	AlwaysYes Confirmer = ConfirmFunc(func(string) bool { return true })
)
