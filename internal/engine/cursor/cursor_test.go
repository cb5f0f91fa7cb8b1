package cursor

import (
	"testing"

	"github.com/dshills/vicore/internal/engine/buffer"
	"pgregory.net/rapid"
)

// Selection Tests

func TestSelectionBounds(t *testing.T) {
	s := NewSelection(20, 10)

	if s.Start() != 10 || s.End() != 20 {
		t.Errorf("expected 10..20, got %d..%d", s.Start(), s.End())
	}
	if !s.IsBackward() {
		t.Error("expected backward selection")
	}
	if c := s.Collapse(); !c.IsEmpty() || c.Head != 10 {
		t.Errorf("unexpected collapse %s", c)
	}
	if e := s.Extend(30); e.Anchor != 20 || e.Head != 30 {
		t.Errorf("unexpected extend %s", e)
	}
	if c := NewSelection(-3, 99).Clamp(50); c.Anchor != 0 || c.Head != 50 {
		t.Errorf("unexpected clamp %s", c)
	}
}

// Visual Bounds Tests

func TestComputeCharMode(t *testing.T) {
	b := buffer.NewBufferFromString("hello world\nsecond")

	tests := []struct {
		name       string
		sel        Selection
		inclusive  bool
		start, end int
	}{
		{"inclusive", NewSelection(2, 6), true, 2, 7},
		{"exclusive", NewSelection(2, 6), false, 2, 6},
		{"backward", NewSelection(6, 2), true, 2, 7},
		{"empty exclusive", NewSelection(4, 4), false, 4, 5},
		{"at end", NewSelection(15, b.Len()), true, 15, b.Len()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd, err := Compute(b, tt.sel, ModeChar, Options{Inclusive: tt.inclusive})
			if err != nil {
				t.Fatal(err)
			}
			if bd.Start != tt.start || bd.End != tt.end {
				t.Errorf("got %d..%d, want %d..%d", bd.Start, bd.End, tt.start, tt.end)
			}
		})
	}
}

func TestComputeLineMode(t *testing.T) {
	b := buffer.NewBufferFromString("one\ntwo\nthree")

	bd, _ := Compute(b, NewSelection(5, 1), ModeLine, Options{})
	if bd.StartLine != 1 || bd.EndLine != 2 {
		t.Errorf("expected lines 1..2, got %d..%d", bd.StartLine, bd.EndLine)
	}
	if b.Slice(bd.Start, bd.End) != "one\ntwo\n" {
		t.Errorf("unexpected text %q", b.Slice(bd.Start, bd.End))
	}

	bd, _ = Compute(b, NewSelection(9, 9), ModeLine, Options{})
	if b.Slice(bd.Start, bd.End) != "three" {
		t.Errorf("unexpected last line %q", b.Slice(bd.Start, bd.End))
	}
}

func TestComputeBlockModeWithTabs(t *testing.T) {
	b := buffer.NewBufferFromString("abcdefghij\n\tXYZ\nab", buffer.WithTabWidth(4))
	// Anchor on 'c' (vcol 2) in line 1, head on 'Y' (vcol 5) in line 2.
	anchor := 2
	head := b.LineStartOffset(2) + 2

	bd, err := Compute(b, NewSelection(anchor, head), ModeBlock, Options{Inclusive: true})
	if err != nil {
		t.Fatal(err)
	}
	if bd.LeftVCol != 2 || bd.RightVCol != 5 {
		t.Fatalf("expected vcols 2..5, got %d..%d", bd.LeftVCol, bd.RightVCol)
	}
	want := []string{"cdef", "\tXY"}
	if len(bd.Lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(bd.Lines))
	}
	for i, span := range bd.Lines {
		if got := b.Slice(span.Start, span.End); got != want[i] {
			t.Errorf("line %d: got %q, want %q", span.Line, got, want[i])
		}
	}
}

func TestComputeBlockToLineEnd(t *testing.T) {
	b := buffer.NewBufferFromString("abc\nabcdefg\nab")
	bd, _ := Compute(b, NewSelection(1, b.LineStartOffset(3)+1), ModeBlock, Options{Inclusive: true, ToLineEnd: true})

	if bd.RightVCol != MaxColumn {
		t.Fatalf("expected MaxColumn, got %d", bd.RightVCol)
	}
	want := []string{"bc", "bcdefg", "b"}
	for i, span := range bd.Lines {
		if got := b.Slice(span.Start, span.End); got != want[i] {
			t.Errorf("line %d: got %q, want %q", span.Line, got, want[i])
		}
	}
}

func TestComputeBlockShortLine(t *testing.T) {
	b := buffer.NewBufferFromString("abcdef\nx\nabcdef")
	bd, _ := Compute(b, NewSelection(3, b.LineStartOffset(3)+4), ModeBlock, Options{Inclusive: true})

	mid := bd.Lines[1]
	if mid.Start != mid.End {
		t.Errorf("short line should be empty, got %q", b.Slice(mid.Start, mid.End))
	}
}

func TestComputeClosedBuffer(t *testing.T) {
	b := buffer.NewBufferFromString("x")
	b.Close()
	if _, err := Compute(b, NewSelection(0, 0), ModeChar, Options{}); err == nil {
		t.Error("expected error for closed buffer")
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"v": ModeChar, "V": ModeLine, "^V": ModeBlock, "block": ModeBlock} {
		if got, err := ParseMode(in); err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("x"); err == nil {
		t.Error("expected error")
	}
}

// Virtual Column Tests

func TestVirtCols(t *testing.T) {
	line := []rune("a\tb世c")
	tests := []struct {
		col        int
		start, end int
	}{
		{0, 0, 0},
		{1, 1, 7},
		{2, 8, 8},
		{3, 9, 10},
		{4, 11, 11},
		{9, 12, 12},
	}
	for _, tt := range tests {
		s, e := VirtCols(line, tt.col, 8)
		if s != tt.start || e != tt.end {
			t.Errorf("VirtCols(col=%d) = %d,%d want %d,%d", tt.col, s, e, tt.start, tt.end)
		}
	}
}

func TestColsForRangeInvertsVirtCols(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		line := []rune(rapid.StringMatching(`[a\t世]{0,20}`).Draw(t, "line"))
		tw := rapid.IntRange(1, 8).Draw(t, "tabwidth")
		if len(line) == 0 {
			return
		}
		col := rapid.IntRange(0, len(line)-1).Draw(t, "col")

		s, e := VirtCols(line, col, tw)
		c1, c2 := ColsForRange(line, s, e, tw)
		if c1 != col || c2 != col+1 {
			t.Fatalf("line %q col %d: vcols %d..%d map back to [%d,%d)", string(line), col, s, e, c1, c2)
		}
	})
}
