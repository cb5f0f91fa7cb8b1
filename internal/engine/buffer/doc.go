// Package buffer provides the text buffer and the position/mark model used by
// the command parser, the bracket matcher and the visual-selection code.
//
// A Buffer stores its text as runes together with a line table, so every
// location can be expressed three ways at once:
//
//   - offset: absolute character (rune) offset, 0-based
//   - line: 1-based line number
//   - column: 0-based character column within the line
//
// The buffer is the single authority for converting between them.
//
// Position Types:
//
//   - Position: a short-lived cursor snapshot. It holds a weak reference to its
//     buffer and does not follow edits. Using it after the buffer was closed
//     fails with ErrStaleBuffer; using it against another buffer fails with
//     ErrWrongBuffer.
//   - Mark: an edit-tracking location owned by its buffer. Inserting text at or
//     before a mark moves it forward; deleting a span that contains it clamps
//     it to the start of the span.
//   - Filemark: an uppercase (A-Z) mark that outlives the buffer. While the file
//     is open it shadows a live Mark, while closed it keeps the last known
//     (line, column, offset) and is persisted through a preference store.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("one\ntwo\nthree")
//	pos := buf.PositionAt(5)          // line 2, column 1
//	m := buf.Marks().NewMark(pos.Offset())
//	_ = buf.Insert(0, "zero\n")       // m.Offset() is now 10
//
// Concurrency:
//
// Buffers, marks and positions are not safe for concurrent use. They are meant
// to be driven from the single editor event goroutine; callers that hand them
// to other goroutines must add their own synchronization.
package buffer
