package excmd

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the class of every registration failure.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNameConflict indicates an abbreviation or name that is already taken.
	ErrNameConflict = errors.New("command name conflict")
)

// RegistrationError describes a rejected registration.
type RegistrationError struct {
	Abbrev string
	Name   string
	Reason string
	Err    error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register %q/%q: %s", e.Abbrev, e.Name, e.Reason)
}

// Unwrap returns the underlying error.
func (e *RegistrationError) Unwrap() error { return e.Err }

// Is reports every registration error as ErrInvalidArgument.
func (e *RegistrationError) Is(target error) bool {
	return target == ErrInvalidArgument
}
