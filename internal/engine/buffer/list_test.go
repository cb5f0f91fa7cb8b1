package buffer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListCurrentAlternate(t *testing.T) {
	l := NewList(nil, nil)
	a := NewBufferFromString("a", WithName("a.txt"))
	b := NewBufferFromString("b", WithName("b.txt"))
	c := NewBufferFromString("c", WithName("c.txt"))
	l.Add(a)
	l.Add(b)
	l.Add(c)

	if a.ID() != 1 || b.ID() != 2 || c.ID() != 3 {
		t.Fatalf("unexpected numbering %d %d %d", a.ID(), b.ID(), c.ID())
	}

	l.SetCurrent(a)
	l.SetCurrent(b)
	l.SetCurrent(c)
	if l.Current() != c || l.Alternate() != b || l.Recent(2) != a {
		t.Error("unexpected MRU order")
	}
	l.SetCurrent(a)
	if l.Current() != a || l.Alternate() != c || l.Recent(2) != b {
		t.Error("unexpected MRU order after revisiting")
	}
	if l.Recent(3) != nil {
		t.Error("expected nil beyond MRU length")
	}

	if got, ok := l.ByNumber(2); !ok || got != b {
		t.Error("ByNumber(2) failed")
	}
	l.Close(b)
	if _, ok := l.ByNumber(2); ok {
		t.Error("closed buffer still listed")
	}
	if len(l.Buffers()) != 2 || l.Recent(2) != nil {
		t.Error("close did not remove buffer")
	}
}

func TestListOpenReusesBuffer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.txt")
	if err := os.WriteFile(path, []byte("hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewList(nil, nil, WithTabWidth(4))
	b1, err := l.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := l.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if b1 != b2 {
		t.Error("expected the same buffer")
	}
	if b1.Text() != "hello" || b1.TabWidth() != 4 {
		t.Errorf("unexpected buffer %q tab %d", b1.Text(), b1.TabWidth())
	}
}
