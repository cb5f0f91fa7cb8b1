package search

import "errors"

var (
	// ErrPatternNotFound indicates a search with no match.
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrNoPreviousPattern indicates an empty pattern with nothing to reuse.
	ErrNoPreviousPattern = errors.New("no previous regular expression")

	// ErrInvalidFlags indicates an unknown SearchPair flag character.
	ErrInvalidFlags = errors.New("invalid search flags")

	// ErrBadMatchPairs indicates a malformed matchpairs option.
	ErrBadMatchPairs = errors.New("invalid matchpairs")
)
