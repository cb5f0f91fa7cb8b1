package cursor

import (
	"fmt"

	"github.com/dshills/vicore/internal/engine/buffer"
)

// Mode is a visual selection mode.
type Mode uint8

const (
	// ModeChar selects characters (v).
	ModeChar Mode = iota
	// ModeLine selects whole lines (V).
	ModeLine
	// ModeBlock selects a rectangle (CTRL-V).
	ModeBlock
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeChar:
		return "char"
	case ModeLine:
		return "line"
	case ModeBlock:
		return "block"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode maps "v", "V" and "^V" (or the mode names) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "v", "char":
		return ModeChar, nil
	case "V", "line":
		return ModeLine, nil
	case "^V", "\x16", "block":
		return ModeBlock, nil
	}
	return 0, fmt.Errorf("unknown visual mode %q", s)
}

// Options control how a selection is measured.
type Options struct {
	// Inclusive includes the character under the end of the selection.
	Inclusive bool
	// ToLineEnd extends a block selection to the end of every line, as after `$`.
	ToLineEnd bool
}

// LineSpan is the part of one line covered by a block selection.
type LineSpan struct {
	Line  int
	Start int // offset, inclusive
	End   int // offset, exclusive
}

// Bounds is the extent of a visual selection.
type Bounds struct {
	Mode      Mode
	Start     int // offset, inclusive
	End       int // offset, exclusive
	StartLine int
	EndLine   int

	// Block mode only.
	LeftVCol  int
	RightVCol int // inclusive, MaxColumn when extending to line end
	Lines     []LineSpan
}

// Compute normalizes sel against b and computes its bounds in mode.
func Compute(b *buffer.Buffer, sel Selection, mode Mode, opts Options) (Bounds, error) {
	if b.Closed() {
		return Bounds{}, buffer.ErrStaleBuffer
	}
	sel = sel.Clamp(b.Len())
	start := b.PositionAt(sel.Start())
	end := b.PositionAt(sel.End())

	bd := Bounds{Mode: mode, StartLine: start.Line(), EndLine: end.Line()}
	switch mode {
	case ModeChar:
		bd.Start, bd.End = start.Offset(), end.Offset()
		if opts.Inclusive || bd.Start == bd.End {
			bd.End = min(bd.End+1, b.Len())
		}
	case ModeLine:
		bd.Start = b.LineStartOffset(bd.StartLine)
		bd.End = b.LineEndOffset(bd.EndLine)
		if bd.EndLine < b.LineCount() {
			bd.End++
		}
	case ModeBlock:
		computeBlock(b, start, end, opts, &bd)
	default:
		return Bounds{}, fmt.Errorf("unknown visual mode %d", mode)
	}
	return bd, nil
}

func computeBlock(b *buffer.Buffer, start, end *buffer.Position, opts Options, bd *Bounds) {
	tw := b.TabWidth()
	s1, e1 := VirtCols(b.LineRunes(start.Line()), start.Column(), tw)
	s2, e2 := VirtCols(b.LineRunes(end.Line()), end.Column(), tw)

	bd.LeftVCol = min(s1, s2)
	bd.RightVCol = max(e1, e2)
	if !opts.Inclusive && bd.RightVCol > bd.LeftVCol {
		// Exclusive selections stop before the character under the right edge.
		bd.RightVCol = max(s1, s2) - 1
		if bd.RightVCol < bd.LeftVCol {
			bd.RightVCol = bd.LeftVCol
		}
	}
	if opts.ToLineEnd {
		bd.RightVCol = MaxColumn
	}

	bd.Lines = make([]LineSpan, 0, bd.EndLine-bd.StartLine+1)
	for line := bd.StartLine; line <= bd.EndLine; line++ {
		c1, c2 := ColsForRange(b.LineRunes(line), bd.LeftVCol, bd.RightVCol, tw)
		base := b.LineStartOffset(line)
		bd.Lines = append(bd.Lines, LineSpan{Line: line, Start: base + c1, End: base + c2})
	}
	bd.Start = bd.Lines[0].Start
	bd.End = bd.Lines[len(bd.Lines)-1].End
}
