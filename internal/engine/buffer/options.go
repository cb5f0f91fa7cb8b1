package buffer

import "github.com/dshills/vicore/internal/logging"

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithName associates the buffer with a file path.
func WithName(name string) Option {
	return func(b *Buffer) {
		b.name = name
	}
}

// WithTabWidth sets the buffer's tab width.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// WithLogger sets the logger used for position instrumentation.
func WithLogger(l *logging.Logger) Option {
	return func(b *Buffer) {
		if l != nil {
			b.log = l
		}
	}
}
