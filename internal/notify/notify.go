// Package notify delivers user-facing notifications (beeps and messages)
// and provides the "invoke later" queue used to deliver them outside the
// operation that raised them.
package notify

import (
	"sync"

	"github.com/dshills/vicore/internal/logging"
)

// Notifier shows feedback to the user.
type Notifier interface {
	// Beep signals an error audibly.
	Beep()
	// Message shows a one-line message.
	Message(msg string)
}

// Discard is a Notifier that drops everything.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Beep()          {}
func (discard) Message(string) {}

// Queue holds callbacks to run after the current operation completes.
// It is safe to post from any goroutine; Drain runs callbacks on the caller's
// goroutine in posting order.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// InvokeLater schedules fn.
func (q *Queue) InvokeLater(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs pending callbacks, including any they post, and returns how
// many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()
		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
			n++
		}
	}
}

// Deferred returns a Notifier that posts every notification to q instead of
// delivering it immediately.
func Deferred(target Notifier, q *Queue) Notifier {
	return &deferred{target: target, queue: q}
}

type deferred struct {
	target Notifier
	queue  *Queue
}

func (d *deferred) Beep() {
	d.queue.InvokeLater(d.target.Beep)
}

func (d *deferred) Message(msg string) {
	d.queue.InvokeLater(func() { d.target.Message(msg) })
}

// Logged returns a Notifier that logs messages and beeps at the given logger.
func Logged(log *logging.Logger) Notifier {
	return &logged{log: log.WithComponent("notify")}
}

type logged struct {
	log *logging.Logger
}

func (l *logged) Beep()              { l.log.Debug("beep") }
func (l *logged) Message(msg string) { l.log.Info("%s", msg) }

// Recorder collects notifications, for tests and batch output.
type Recorder struct {
	mu       sync.Mutex
	Beeps    int
	Messages []string
}

// Beep implements Notifier.
func (r *Recorder) Beep() {
	r.mu.Lock()
	r.Beeps++
	r.mu.Unlock()
}

// Message implements Notifier.
func (r *Recorder) Message(msg string) {
	r.mu.Lock()
	r.Messages = append(r.Messages, msg)
	r.mu.Unlock()
}

// Last returns the most recent message, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1]
}

// Reset clears the recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.Beeps = 0
	r.Messages = nil
	r.mu.Unlock()
}
