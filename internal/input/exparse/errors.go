package exparse

import "errors"

// ParseError is a user-visible parse failure carrying a vim error code.
type ParseError struct {
	Code string
	Msg  string
	// Line is the command line that failed.
	Line string
}

func (e *ParseError) Error() string {
	return e.Code + ": " + e.Msg
}

// Is matches any ParseError with the same code.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Code == e.Code
}

// Parse error kinds. Compare with errors.Is.
var (
	ErrNotEditorCommand  = &ParseError{Code: "E492", Msg: "Not an editor command"}
	ErrTrailing          = &ParseError{Code: "E488", Msg: "Trailing characters"}
	ErrNoRange           = &ParseError{Code: "E481", Msg: "No range allowed"}
	ErrNoBang            = &ParseError{Code: "E477", Msg: "No ! allowed"}
	ErrMarkNotSet        = &ParseError{Code: "E20", Msg: "Mark not set"}
	ErrUnknownMark       = &ParseError{Code: "E78", Msg: "Unknown mark"}
	ErrInvalidRange      = &ParseError{Code: "E16", Msg: "Invalid range"}
	ErrInvalidAddress    = &ParseError{Code: "E14", Msg: "Invalid address"}
	ErrNoPreviousCommand = &ParseError{Code: "E34", Msg: "No previous command"}
	ErrEmptyFileName     = &ParseError{Code: "E499", Msg: `Empty file name for '%' or '#', only works with ":p:h"`}
	ErrNoAlternate       = &ParseError{Code: "E194", Msg: "No alternate file name to substitute for '#'"}
	ErrPatternNotFound   = &ParseError{Code: "E486", Msg: "Pattern not found"}
	ErrNoPreviousPattern = &ParseError{Code: "E35", Msg: "No previous regular expression"}
)

// ErrRangeDeclined is returned when the user refuses to swap a backwards
// range. No message is shown for it.
var ErrRangeDeclined = errors.New("backwards range not confirmed")

func newError(kind *ParseError, line, detail string) *ParseError {
	msg := kind.Msg
	if detail != "" {
		msg += ": " + detail
	}
	return &ParseError{Code: kind.Code, Msg: msg, Line: line}
}
