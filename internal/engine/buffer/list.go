package buffer

import (
	"github.com/dshills/vicore/internal/logging"
)

// List tracks open buffers by number and in most-recently-used order.
type List struct {
	buffers   []*Buffer
	nextID    int
	mru       []*Buffer // mru[0] is the current buffer
	filemarks *FilemarkTable
	opts      []Option
	log       *logging.Logger
}

// NewList creates an empty list. Buffers it opens are created with opts.
func NewList(filemarks *FilemarkTable, log *logging.Logger, opts ...Option) *List {
	if log == nil {
		log = logging.Discard()
	}
	if filemarks == nil {
		filemarks = NewFilemarkTable(log)
	}
	return &List{
		nextID:    1,
		filemarks: filemarks,
		opts:      append(opts, WithLogger(log)),
		log:       log.WithComponent("buffers"),
	}
}

// Filemarks returns the file mark table.
func (l *List) Filemarks() *FilemarkTable { return l.filemarks }

// Add numbers b and adds it to the list.
func (l *List) Add(b *Buffer) {
	b.id = l.nextID
	l.nextID++
	l.buffers = append(l.buffers, b)
	l.filemarks.Activate(b)
}

// Open returns the buffer for path, loading it if it is not open yet.
func (l *List) Open(path string) (*Buffer, error) {
	if b := l.FindByName(path); b != nil {
		return b, nil
	}
	b, err := LoadFile(path, l.opts...)
	if err != nil {
		return nil, err
	}
	l.Add(b)
	l.log.Debug("opened %q as buffer %d", path, b.id)
	return b, nil
}

// FindByName returns the open buffer for path, or nil.
func (l *List) FindByName(path string) *Buffer {
	for _, b := range l.buffers {
		if sameFile(b.name, path) {
			return b
		}
	}
	return nil
}

// ByNumber returns the buffer with number n.
func (l *List) ByNumber(n int) (*Buffer, bool) {
	for _, b := range l.buffers {
		if b.id == n {
			return b, true
		}
	}
	return nil, false
}

// SetCurrent makes b the current buffer; the previous one becomes the
// alternate.
func (l *List) SetCurrent(b *Buffer) {
	for i, m := range l.mru {
		if m == b {
			l.mru = append(l.mru[:i], l.mru[i+1:]...)
			break
		}
	}
	l.mru = append([]*Buffer{b}, l.mru...)
}

// Current returns the current buffer, or nil.
func (l *List) Current() *Buffer { return l.Recent(0) }

// Alternate returns the alternate buffer, or nil.
func (l *List) Alternate() *Buffer { return l.Recent(1) }

// Recent returns the n-th most recently used buffer: 0 is the current
// buffer, 1 the alternate.
func (l *List) Recent(n int) *Buffer {
	if n < 0 || n >= len(l.mru) {
		return nil
	}
	return l.mru[n]
}

// Buffers returns the open buffers in number order.
func (l *List) Buffers() []*Buffer {
	return append([]*Buffer(nil), l.buffers...)
}

// Close removes b from the list and closes it.
func (l *List) Close(b *Buffer) {
	l.filemarks.Deactivate(b)
	for i, m := range l.buffers {
		if m == b {
			l.buffers = append(l.buffers[:i], l.buffers[i+1:]...)
			break
		}
	}
	for i, m := range l.mru {
		if m == b {
			l.mru = append(l.mru[:i], l.mru[i+1:]...)
			break
		}
	}
	b.Close()
}

// CloseAll closes every buffer.
func (l *List) CloseAll() {
	for _, b := range l.Buffers() {
		l.Close(b)
	}
}
