package buffer

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// LoadFile reads path into a new buffer named path. A missing file yields an
// empty buffer. One trailing newline is stripped; WriteFile adds it back.
func LoadFile(path string, opts ...Option) (*Buffer, error) {
	raw, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	text := normalizeLineEndings(string(raw))
	text = strings.TrimSuffix(text, "\n")
	opts = append(opts, WithName(path))
	b := NewBufferFromString(text, opts...)
	return b, nil
}

// WriteFile writes lines [line1, line2] to path, each terminated by a newline,
// and returns the number of lines written. Writing the whole buffer to its own
// file clears the modified flag.
func (b *Buffer) WriteFile(path string, line1, line2 int) (int, error) {
	if path == "" {
		path = b.name
	}
	if path == "" {
		return 0, ErrNoFileName
	}
	lines := b.Lines(line1, line2)
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return 0, err
	}
	if path == b.name && line1 <= 1 && line2 >= b.LineCount() {
		b.modified = false
	}
	return len(lines), nil
}
