package buffer

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestMarkShiftsWithEdits(t *testing.T) {
	b := NewBufferFromString("0123456789abcdefghij")
	m := b.Marks().NewMark(10)

	if err := b.Insert(3, "XXXXX"); err != nil {
		t.Fatal(err)
	}
	if m.Offset() != 15 {
		t.Errorf("after insert: expected 15, got %d", m.Offset())
	}
	if err := b.Delete(1, 6); err != nil {
		t.Fatal(err)
	}
	// The mark sits at 15, past the deleted span, so it moves back by the
	// five deleted runes. Clamping to the span start only applies to marks
	// inside it, which is why this is 10 and not 1.
	if m.Offset() != 10 {
		t.Errorf("after delete: expected 10, got %d", m.Offset())
	}
}

func TestMarkInsideDeletedSpanClamps(t *testing.T) {
	b := NewBufferFromString("0123456789")
	m := b.Marks().NewMark(5)

	_ = b.Delete(3, 8)
	if m.Offset() != 3 {
		t.Errorf("expected clamp to 3, got %d", m.Offset())
	}
	_ = b.Insert(4, "zz")
	if m.Offset() != 3 {
		t.Errorf("insert after mark moved it: %d", m.Offset())
	}
	_ = b.Insert(3, "y")
	if m.Offset() != 4 {
		t.Errorf("insert at mark should push it: %d", m.Offset())
	}
}

func TestNamedMarks(t *testing.T) {
	b := NewBufferFromString("one\ntwo\nthree")
	ms := b.Marks()

	if _, err := ms.Line('a'); !errors.Is(err, ErrMarkNotSet) {
		t.Errorf("expected ErrMarkNotSet, got %v", err)
	}
	if err := ms.Set('a', b.PositionAtLineCol(3, 2)); err != nil {
		t.Fatal(err)
	}
	if line, err := ms.Line('a'); err != nil || line != 3 {
		t.Errorf("expected line 3, got %d (%v)", line, err)
	}
	if err := ms.Set('<', b.PositionAt(0)); err != nil {
		t.Fatal(err)
	}
	if _, err := ms.Get('1'); !errors.Is(err, ErrInvalidMarkName) {
		t.Errorf("expected ErrInvalidMarkName, got %v", err)
	}
	if got := string(ms.Names()); got != "<a" {
		t.Errorf("expected names \"<a\", got %q", got)
	}

	_ = b.Delete(0, 4)
	if line, _ := ms.Line('a'); line != 2 {
		t.Errorf("expected line 2 after deleting line 1, got %d", line)
	}
}

func TestDynamicMarkRelease(t *testing.T) {
	b := NewBufferFromString("abc")
	m := b.Marks().NewMark(2)
	if b.Marks().Dynamic() != 1 {
		t.Fatal("dynamic mark not tracked")
	}
	if !b.Marks().Release(m) || b.Marks().Release(m) {
		t.Error("release should succeed exactly once")
	}
	_ = b.Insert(0, "x")
	if m.IsSet() {
		t.Error("released mark still set")
	}
}

func TestMarkShiftProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(1, 200).Draw(t, "size")
		b := NewBufferFromString(string(make([]rune, size)))
		at := rapid.IntRange(0, size).Draw(t, "mark")
		m := b.Marks().NewMark(at)

		if rapid.Bool().Draw(t, "insert") {
			off := rapid.IntRange(0, size).Draw(t, "off")
			n := rapid.IntRange(1, 20).Draw(t, "n")
			_ = b.Insert(off, string(make([]rune, n)))
			want := at
			if off <= at {
				want += n
			}
			if m.Offset() != want {
				t.Fatalf("insert %d@%d: mark %d -> %d, want %d", n, off, at, m.Offset(), want)
			}
			return
		}

		start := rapid.IntRange(0, size).Draw(t, "start")
		end := rapid.IntRange(start, size).Draw(t, "end")
		_ = b.Delete(start, end)
		want := at
		switch {
		case at >= end:
			want = at - (end - start)
		case at > start:
			want = start
		}
		if m.Offset() != want {
			t.Fatalf("delete [%d,%d): mark %d -> %d, want %d", start, end, at, m.Offset(), want)
		}
		if m.Offset() > b.Len() {
			t.Fatalf("mark %d beyond buffer length %d", m.Offset(), b.Len())
		}
	})
}
