package config

import (
	"errors"
	"fmt"

	"github.com/dshills/vicore/internal/config/loader"
)

// ErrValidationFailed is wrapped by every ValidationError.
var ErrValidationFailed = errors.New("validation failed")

// ParseError reports a malformed configuration file.
type ParseError = loader.ParseError

// ValidationError describes a setting with an unusable value.
type ValidationError struct {
	// Path is the dotted setting name, e.g. "editor.tabstop".
	Path    string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Unwrap returns ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// UnknownKeyError lists settings the file or environment set that do not
// exist.
type UnknownKeyError struct {
	Keys []string
}

// Error implements the error interface.
func (e *UnknownKeyError) Error() string {
	if len(e.Keys) == 1 {
		return fmt.Sprintf("unknown setting %s", e.Keys[0])
	}
	return fmt.Sprintf("unknown settings %v", e.Keys)
}
