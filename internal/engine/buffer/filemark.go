package buffer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dshills/vicore/internal/logging"
	"github.com/dshills/vicore/internal/prefs"
)

const filemarkKeyPrefix = "filemark/"

// Filemark is an uppercase mark that survives its buffer. While the file is
// open a live Mark tracks edits and the shadow copy follows it; while closed
// only the shadow remains.
type Filemark struct {
	name     rune
	fileName string
	line     int
	col      int
	offset   int
	live     *Mark
}

// Name returns the mark letter.
func (f *Filemark) Name() rune { return f.name }

// FileName returns the file the mark belongs to.
func (f *Filemark) FileName() string { return f.fileName }

// Line returns the last known 1-based line.
func (f *Filemark) Line() int { return f.line }

// Column returns the last known 0-based column.
func (f *Filemark) Column() int { return f.col }

// Offset returns the last known offset.
func (f *Filemark) Offset() int { return f.offset }

// Live returns the tracking mark while the file is open, otherwise nil.
func (f *Filemark) Live() *Mark { return f.live }

func (f *Filemark) refresh(m *Mark) {
	f.offset = m.Offset()
	f.line = m.Line()
	f.col = m.Column()
}

// FilemarkTable holds the A-Z file marks.
type FilemarkTable struct {
	marks map[rune]*Filemark
	log   *logging.Logger
}

// NewFilemarkTable creates an empty table.
func NewFilemarkTable(log *logging.Logger) *FilemarkTable {
	if log == nil {
		log = logging.Discard()
	}
	return &FilemarkTable{
		marks: make(map[rune]*Filemark),
		log:   log.WithComponent("filemarks"),
	}
}

// Set places file mark name at p. The position's buffer must have a file name.
func (t *FilemarkTable) Set(name rune, p *Position) error {
	if !IsFileMark(name) {
		return ErrInvalidMarkName
	}
	b, err := p.Buffer()
	if err != nil {
		return err
	}
	if b.Name() == "" {
		return ErrNoFileName
	}

	fm := t.marks[name]
	if fm == nil {
		fm = &Filemark{name: name}
		t.marks[name] = fm
	}
	t.detach(fm)
	fm.fileName = b.Name()
	t.attach(fm, b, p.Offset())
	return nil
}

// Get returns a set file mark.
func (t *FilemarkTable) Get(name rune) (*Filemark, error) {
	if !IsFileMark(name) {
		return nil, ErrInvalidMarkName
	}
	fm, ok := t.marks[name]
	if !ok {
		return nil, ErrMarkNotSet
	}
	return fm, nil
}

// Remove deletes a file mark.
func (t *FilemarkTable) Remove(name rune) {
	if fm, ok := t.marks[name]; ok {
		t.detach(fm)
		delete(t.marks, name)
	}
}

// Names returns the set file marks in order.
func (t *FilemarkTable) Names() []rune {
	var out []rune
	for r := 'A'; r <= 'Z'; r++ {
		if _, ok := t.marks[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Activate attaches live marks for every file mark that belongs to b.
// The shadow line and column win over the shadow offset; a disagreement
// between them is logged.
func (t *FilemarkTable) Activate(b *Buffer) {
	for _, r := range t.Names() {
		fm := t.marks[r]
		if fm.live != nil || !sameFile(fm.fileName, b.Name()) {
			continue
		}
		p := b.PositionAtLineCol(fm.line, fm.col)
		if p.Offset() != fm.offset || p.Line() != fm.line || p.Column() != fm.col {
			t.log.Warn("filemark %c: stored %d:%d offset %d resolves to %s offset %d",
				r, fm.line, fm.col, fm.offset, p, p.Offset())
		}
		t.attach(fm, b, p.Offset())
	}
}

// Deactivate snapshots and detaches the live marks that belong to b.
// Call it before closing b.
func (t *FilemarkTable) Deactivate(b *Buffer) {
	for _, fm := range t.marks {
		if fm.live != nil && fm.live.Buffer() == b {
			fm.refresh(fm.live)
			t.detach(fm)
		}
	}
}

// Sync compares every shadow copy with its live mark, logs and repairs any
// drift, and returns the number of repaired marks.
func (t *FilemarkTable) Sync() int {
	repaired := 0
	for _, r := range t.Names() {
		fm := t.marks[r]
		if fm.live == nil || !fm.live.IsSet() {
			continue
		}
		m := fm.live
		if m.Offset() != fm.offset || m.Line() != fm.line || m.Column() != fm.col {
			t.log.Error("filemark %c: shadow %d:%d offset %d, live %d:%d offset %d",
				r, fm.line, fm.col, fm.offset, m.Line(), m.Column(), m.Offset())
			fm.refresh(m)
			repaired++
		}
	}
	return repaired
}

// Save writes all file marks to store as [file, line, col, offset].
func (t *FilemarkTable) Save(store prefs.Store) error {
	t.Sync()
	var errs []error
	for r := 'A'; r <= 'Z'; r++ {
		key := filemarkKeyPrefix + string(r)
		fm, ok := t.marks[r]
		if !ok {
			errs = append(errs, store.Delete(key))
			continue
		}
		errs = append(errs, store.Put(key, []string{
			fm.fileName,
			strconv.Itoa(fm.line),
			strconv.Itoa(fm.col),
			strconv.Itoa(fm.offset),
		}))
	}
	return errors.Join(errs...)
}

// Load reads file marks from store. Malformed entries are logged and skipped.
func (t *FilemarkTable) Load(store prefs.Store) error {
	for r := 'A'; r <= 'Z'; r++ {
		vals, err := store.Get(filemarkKeyPrefix + string(r))
		if errors.Is(err, prefs.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		fm, err := parseFilemark(r, vals)
		if err != nil {
			t.log.Warn("%v", err)
			continue
		}
		if old, ok := t.marks[r]; ok {
			t.detach(old)
		}
		t.marks[r] = fm
	}
	return nil
}

func parseFilemark(r rune, vals []string) (*Filemark, error) {
	if len(vals) != 4 || vals[0] == "" {
		return nil, fmt.Errorf("filemark %c: malformed entry %q", r, vals)
	}
	nums := make([]int, 3)
	for i, s := range vals[1:] {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("filemark %c: bad number %q", r, s)
		}
		nums[i] = n
	}
	if nums[0] < 1 {
		return nil, fmt.Errorf("filemark %c: bad line %d", r, nums[0])
	}
	return &Filemark{name: r, fileName: vals[0], line: nums[0], col: nums[1], offset: nums[2]}, nil
}

func (t *FilemarkTable) attach(fm *Filemark, b *Buffer, offset int) {
	m := b.Marks().NewMark(offset)
	m.OnMove(fm.refresh)
	fm.live = m
	fm.refresh(m)
}

func (t *FilemarkTable) detach(fm *Filemark) {
	if fm.live == nil {
		return
	}
	fm.live.Buffer().Marks().Release(fm.live)
	fm.live = nil
}

func sameFile(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}
