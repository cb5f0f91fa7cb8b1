package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/vicore/internal/logging"
)

func TestDeferredDeliversOnDrain(t *testing.T) {
	rec := &Recorder{}
	q := NewQueue()
	n := Deferred(rec, q)

	n.Message("E492: Not an editor command: foo")
	n.Beep()
	if rec.Beeps != 0 || len(rec.Messages) != 0 {
		t.Fatal("deferred notifier delivered immediately")
	}
	if q.Len() != 2 {
		t.Fatalf("expected 2 pending, got %d", q.Len())
	}

	if ran := q.Drain(); ran != 2 {
		t.Errorf("expected 2 callbacks, got %d", ran)
	}
	if rec.Beeps != 1 || rec.Last() != "E492: Not an editor command: foo" {
		t.Errorf("unexpected delivery: %+v", rec)
	}
}

func TestDrainRunsNestedPosts(t *testing.T) {
	q := NewQueue()
	var order []int
	q.InvokeLater(func() {
		order = append(order, 1)
		q.InvokeLater(func() { order = append(order, 3) })
	})
	q.InvokeLater(func() { order = append(order, 2) })

	if ran := q.Drain(); ran != 3 {
		t.Errorf("expected 3, got %d", ran)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("unexpected order %v", order)
	}
}

func TestLoggedNotifier(t *testing.T) {
	var out bytes.Buffer
	n := Logged(logging.New(logging.Config{Level: logging.LevelDebug, Output: &out}))
	n.Message("written")
	n.Beep()
	if !strings.Contains(out.String(), "written") || !strings.Contains(out.String(), "beep") {
		t.Errorf("unexpected log %q", out.String())
	}
}

func TestRecorderReset(t *testing.T) {
	rec := &Recorder{}
	rec.Beep()
	rec.Message("x")
	rec.Reset()
	if rec.Beeps != 0 || rec.Last() != "" {
		t.Error("reset did not clear")
	}
	Discard.Beep()
	Discard.Message("ignored")
}
