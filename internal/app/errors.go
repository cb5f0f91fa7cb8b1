package app

import (
	"errors"
	"fmt"
)

// ErrQuit signals that the editor should exit normally.
var ErrQuit = errors.New("quit requested")

// CommandError is a user-visible command failure carrying a vim error code.
type CommandError struct {
	Code string
	Msg  string
}

func (e *CommandError) Error() string {
	return e.Code + ": " + e.Msg
}

// Is matches any CommandError with the same code.
func (e *CommandError) Is(target error) bool {
	t, ok := target.(*CommandError)
	return ok && t.Code == e.Code
}

// Command error kinds. Compare with errors.Is.
var (
	ErrNoWrite          = &CommandError{Code: "E37", Msg: "No write since last change (add ! to override)"}
	ErrNoFileName       = &CommandError{Code: "E32", Msg: "No file name"}
	ErrFileExists       = &CommandError{Code: "E13", Msg: "File exists (add ! to override)"}
	ErrNoSuchBuffer     = &CommandError{Code: "E86", Msg: "Buffer does not exist"}
	ErrNoMatchingBuffer = &CommandError{Code: "E94", Msg: "No matching buffer"}
	ErrMultipleMatches  = &CommandError{Code: "E93", Msg: "More than one match"}
	ErrArgRequired      = &CommandError{Code: "E471", Msg: "Argument required"}
	ErrBadMarkArg       = &CommandError{Code: "E191", Msg: "Argument must be a letter or forward/backward quote"}
	ErrUnknownOption    = &CommandError{Code: "E518", Msg: "Unknown option"}
	ErrInvalidArgument  = &CommandError{Code: "E474", Msg: "Invalid argument"}
	ErrNumberRequired   = &CommandError{Code: "E521", Msg: "Number required after ="}
	ErrNoPreviousSub    = &CommandError{Code: "E35", Msg: "No previous substitute"}
	ErrTooRecursive     = &CommandError{Code: "E169", Msg: "Command too recursive"}
	ErrShellFailed      = &CommandError{Code: "E485", Msg: "Shell command failed"}
	ErrNoMarks          = &CommandError{Code: "E283", Msg: "No marks matching"}
)

func commandError(kind *CommandError, detail string) *CommandError {
	msg := kind.Msg
	if detail != "" {
		msg += ": " + detail
	}
	return &CommandError{Code: kind.Code, Msg: msg}
}

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // e.g. "boot", "write", "source"
	Target string // file path or component
	Err    error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorList collects multiple errors.
// NOTE: ErrorList is NOT safe for concurrent use.
type ErrorList struct {
	errors []error
}

// Add adds an error to the list. Nil errors are ignored.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.errors = append(e.errors, err)
	}
}

// Len returns the number of errors.
func (e *ErrorList) Len() int {
	return len(e.errors)
}

// Errors returns a copy of the error slice.
func (e *ErrorList) Errors() []error {
	if e == nil || len(e.errors) == 0 {
		return nil
	}
	out := make([]error, len(e.errors))
	copy(out, e.errors)
	return out
}

// Error returns a combined error message.
func (e *ErrorList) Error() string {
	if e == nil || len(e.errors) == 0 {
		return ""
	}
	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}
	return fmt.Sprintf("%d errors: first: %v", len(e.errors), e.errors[0])
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *ErrorList) Unwrap() []error {
	return e.Errors()
}

// AsError returns nil if there are no errors, otherwise returns the ErrorList.
func (e *ErrorList) AsError() error {
	if e.Len() == 0 {
		return nil
	}
	return e
}
