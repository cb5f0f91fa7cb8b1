package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrOffsetOutOfRange indicates an offset outside [0, Len()].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates an invalid range (e.g., end < start).
	ErrRangeInvalid = errors.New("invalid range")

	// ErrStaleBuffer indicates a Position whose buffer has been closed.
	ErrStaleBuffer = errors.New("position refers to a closed buffer")

	// ErrWrongBuffer indicates a Position used against a buffer it does not belong to.
	ErrWrongBuffer = errors.New("position belongs to a different buffer")

	// ErrBufferClosed indicates an edit on a closed buffer.
	ErrBufferClosed = errors.New("buffer is closed")

	// ErrMarkNotSet indicates a mark that has never been set or was cleared.
	ErrMarkNotSet = errors.New("mark not set")

	// ErrInvalidMarkName indicates a rune that does not name a mark.
	ErrInvalidMarkName = errors.New("invalid mark name")

	// ErrNoFileName indicates a buffer without an associated file.
	ErrNoFileName = errors.New("no file name")
)
