package exparse

import (
	"errors"
	"strings"

	"github.com/dshills/vicore/internal/input/excmd"
	"github.com/dshills/vicore/internal/logging"
	"github.com/dshills/vicore/internal/notify"
)

// Parser turns command lines into events.
type Parser struct {
	reg     *excmd.Registry
	env     Env
	confirm Confirmer
	notify  notify.Notifier
	paths   func() PathEnv
	log     *logging.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithConfirmer sets the policy used to confirm backwards ranges.
func WithConfirmer(c Confirmer) Option {
	return func(p *Parser) {
		if c != nil {
			p.confirm = c
		}
	}
}

// WithNotifier sets where parse errors are reported.
func WithNotifier(n notify.Notifier) Option {
	return func(p *Parser) {
		if n != nil {
			p.notify = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l.WithComponent("exparse")
		}
	}
}

// WithPathEnv fixes the home and working directories used by path
// modifiers.
func WithPathEnv(pe PathEnv) Option {
	return func(p *Parser) {
		p.paths = func() PathEnv { return pe }
	}
}

// New creates a parser resolving names through reg.
func New(reg *excmd.Registry, env Env, opts ...Option) *Parser {
	p := &Parser{
		reg:     reg,
		env:     env,
		confirm: AlwaysNo,
		notify:  notify.Discard,
		paths:   CurrentPathEnv,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry returns the registry names are resolved against.
func (p *Parser) Registry() *excmd.Registry { return p.reg }

// ParseForExecution parses line for execution. It may prompt to swap a
// backwards range, searches for pattern addresses and expands file names.
//
// A blank or comment line yields an event with an empty Name and no
// addresses. A range with no command yields an event with an empty Name
// whose Line2 is the line to go to.
//
// Failures are reported through the notifier and returned as *ParseError,
// except ErrRangeDeclined which is silent.
func (p *Parser) ParseForExecution(line string) (*excmd.Event, error) {
	ev, err := p.parse(line, true)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			if errors.Is(pe, ErrNotEditorCommand) {
				p.notify.Beep()
			}
			p.notify.Message(pe.Error())
		}
		p.log.WithField("line", line).Debug("parse failed: %v", err)
		return nil, err
	}
	return ev, nil
}

// ParseForInspection parses line without side effects: it never prompts,
// searches or expands file names. It always returns an event; an unknown
// command leaves Item nil, and Err holds the first error execution would
// have reported.
func (p *Parser) ParseForInspection(line string) *excmd.Event {
	ev, _ := p.parse(line, false)
	return ev
}

// state is one parse in progress.
type state struct {
	p    *Parser
	src  string
	i    int
	exec bool
	// cur is the cursor line addresses are relative to; ';' moves it.
	cur int
	ev  *excmd.Event
}

func (p *Parser) parse(line string, exec bool) (*excmd.Event, error) {
	cur := p.env.CursorLine()
	s := &state{
		p:    p,
		src:  line,
		exec: exec,
		cur:  cur,
		ev:   &excmd.Event{CommandLine: line, Line1: cur, Line2: cur},
	}
	ev := s.ev

	for !s.eol() && (s.peek() == ':' || isWhite(s.peek())) {
		s.i++
	}
	if s.eol() || s.peek() == '"' {
		return ev, nil
	}

	if err := s.parseRange(); err != nil {
		return nil, err
	}

	s.skipWhite()
	if s.eol() || s.peek() == '"' {
		return s.gotoLine()
	}

	s.scanName()
	item, ok := p.reg.Lookup(ev.Typed)
	if !ok {
		ev.Name = ev.Typed
		if s.fail(newError(ErrNotEditorCommand, line, strings.TrimLeft(line, ": \t"))) {
			return nil, ev.Err
		}
	} else {
		ev.Item = item
		ev.Name = item.Name
	}

	s.skipWhite()
	ev.ArgString = s.src[s.i:]
	ev.Expanded = ev.ArgString

	if item != nil {
		if err := s.validate(item); err != nil {
			return nil, err
		}
		if s.exec && item.Flags.Has(excmd.XFile) {
			expanded, err := s.expand(ev.ArgString)
			if err != nil {
				return nil, err
			}
			ev.Expanded = expanded
		}
	}

	switch {
	case item != nil && item.Flags.Has(excmd.NoParse):
		if ev.Expanded != "" {
			ev.Args = []string{ev.Expanded}
		}
	default:
		ev.Args = splitArgs(ev.Expanded)
	}
	return ev, nil
}

// fail records err. It reports whether the parse must stop, which is
// always the case when executing.
func (s *state) fail(err error) bool {
	if s.ev.Err == nil {
		s.ev.Err = err
	}
	return s.exec
}

// validate checks the event against the command's flags and the buffer.
func (s *state) validate(item *excmd.Item) error {
	ev := s.ev
	flags := item.Flags

	if ev.Bang && !flags.Has(excmd.Bang) {
		if s.fail(newError(ErrNoBang, s.src, "")) {
			return ev.Err
		}
	}
	if ev.AddrCount > 0 && !flags.Has(excmd.Range) {
		if s.fail(newError(ErrNoRange, s.src, "")) {
			return ev.Err
		}
	}
	if flags.Has(excmd.NoArgs) && ev.ArgString != "" {
		if ev.ArgString[0] == '"' {
			ev.ArgString = ""
			ev.Expanded = ""
		} else if s.fail(newError(ErrTrailing, s.src, ev.ArgString)) {
			return ev.Err
		}
	}

	if ev.AddrCount > 1 && ev.Line1 > ev.Line2 && s.exec {
		if !s.p.confirm.Confirm(SwapPrompt) {
			return ErrRangeDeclined
		}
		ev.Line1, ev.Line2 = ev.Line2, ev.Line1
	}

	if ev.AddrCount > 0 {
		count := s.p.env.LineCount()
		zeroOK := flags.Has(excmd.ZeroLine)
		for _, l := range [2]int{ev.Line1, ev.Line2} {
			if l < 0 || l > count || (l == 0 && !zeroOK) {
				if s.fail(newError(ErrInvalidRange, s.src, "")) {
					return ev.Err
				}
				break
			}
		}
	}
	return nil
}

// gotoLine finishes a line that has a range but no command.
func (s *state) gotoLine() (*excmd.Event, error) {
	ev := s.ev
	if ev.AddrCount == 0 {
		return ev, nil
	}
	if ev.Line2 < 0 {
		if s.fail(newError(ErrInvalidRange, s.src, "")) {
			return nil, ev.Err
		}
		return ev, nil
	}
	if count := s.p.env.LineCount(); ev.Line2 > count {
		ev.Line2 = count
	}
	if ev.Line2 == 0 {
		ev.Line2 = 1
	}
	return ev, nil
}

// scanName reads the command name and a trailing '!'.
func (s *state) scanName() {
	ev := s.ev
	start := s.i
	switch c := s.peek(); {
	case c == '!':
		// The shell command; a following '!' is its argument.
		s.i++
		ev.Typed = "!"
		return
	case c == '&' || c == '<' || c == '>':
		// Repeats are left to the handler, e.g. ":>>>" shifts three times.
		s.i++
	default:
		for isAlpha(s.peek()) {
			s.i++
		}
		if c := s.peek(); isDigit(c) && s.i > start && s.p.reg.HasExactCommand(s.src[start:s.i]+string(c)) {
			s.i++
		}
	}
	ev.Typed = s.src[start:s.i]
	if s.peek() == '!' {
		s.i++
		ev.Bang = true
	}
}

func (s *state) eol() bool { return s.i >= len(s.src) }

func (s *state) peek() byte {
	if s.i >= len(s.src) {
		return 0
	}
	return s.src[s.i]
}

func (s *state) skipWhite() {
	for !s.eol() && isWhite(s.src[s.i]) {
		s.i++
	}
}

func isWhite(c byte) bool { return c == ' ' || c == '\t' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

// splitArgs splits on runs of blanks. A backslash keeps the following
// blank inside the argument.
func splitArgs(s string) []string {
	var (
		args []string
		cur  strings.Builder
		in   bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && isWhite(s[i+1]):
			i++
			cur.WriteByte(s[i])
			in = true
		case isWhite(c):
			if in {
				args = append(args, cur.String())
				cur.Reset()
				in = false
			}
		default:
			cur.WriteByte(c)
			in = true
		}
	}
	if in {
		args = append(args, cur.String())
	}
	return args
}
