package exparse

import (
	"errors"
	"unicode/utf8"

	"github.com/dshills/vicore/internal/engine/buffer"
	"github.com/dshills/vicore/internal/engine/search"
)

// maxLine bounds numeric addresses.
const maxLine = 1<<31 - 1

// parseRange reads the addresses before the command name.
func (s *state) parseRange() error {
	ev := s.ev
	var given, whole bool
	for {
		ev.Line1 = ev.Line2
		ev.Line2 = s.cur

		lnum, ok, err := s.getAddress()
		if err != nil {
			if s.fail(err) {
				return err
			}
			lnum, ok = s.cur, true
		}
		given, whole = ok, false
		switch {
		case ok:
			ev.Line2 = lnum
			ev.AddrCount++
		case s.peek() == '%':
			s.i++
			ev.Line1 = 1
			ev.Line2 = s.p.env.LineCount()
			ev.AddrCount++
			whole = true
		default:
			ev.AddrCount++
		}

		if s.peek() == ';' {
			s.i++
			if ev.Line2 < 1 || ev.Line2 > s.p.env.LineCount() {
				if s.fail(newError(ErrInvalidRange, s.src, "")) {
					return s.ev.Err
				}
				continue
			}
			s.cur = ev.Line2
		} else if s.peek() == ',' {
			s.i++
		} else {
			break
		}
	}

	// One address sets both ends; an empty one is no address at all.
	if ev.AddrCount == 1 && !whole {
		ev.Line1 = ev.Line2
		if !given {
			ev.AddrCount = 0
		}
	}
	return nil
}

// getAddress reads one address and its offsets. ok is false when no
// address is present, which is not an error. On error the address text has
// still been consumed.
func (s *state) getAddress() (lnum int, ok bool, err error) {
	s.skipWhite()
	switch c := s.peek(); {
	case c == '.':
		s.i++
		lnum, ok = s.cur, true
	case c == '$':
		s.i++
		lnum, ok = s.p.env.LineCount(), true
	case c == '\'':
		s.i++
		if s.eol() {
			return 0, false, newError(ErrMarkNotSet, s.src, "")
		}
		name, size := utf8.DecodeRuneInString(s.src[s.i:])
		s.i += size
		ok = true
		lnum, err = s.markLine(name)
	case c == '/' || c == '?':
		s.i++
		pat := s.scanPattern(c)
		ok = true
		lnum, err = s.searchLine(pat, c == '?')
	case isDigit(c):
		ok = true
		lnum, err = s.number()
	}

	for {
		s.skipWhite()
		c := s.peek()
		if c != '+' && c != '-' && !isDigit(c) {
			break
		}
		if !ok {
			lnum, ok = s.cur, true
		}
		op := byte('+')
		if !isDigit(c) {
			op = c
			s.i++
		}
		n := 1
		if isDigit(s.peek()) {
			var nerr error
			n, nerr = s.number()
			if err == nil {
				err = nerr
			}
		}
		if op == '-' {
			lnum -= n
		} else {
			lnum += n
		}
	}
	return lnum, ok, err
}

func (s *state) number() (int, error) {
	n := 0
	overflow := false
	for isDigit(s.peek()) {
		if !overflow {
			n = n*10 + int(s.peek()-'0')
			overflow = n > maxLine
		}
		s.i++
	}
	if overflow {
		return 0, newError(ErrInvalidRange, s.src, "")
	}
	return n, nil
}

// scanPattern reads up to the unescaped delimiter and consumes it.
func (s *state) scanPattern(delim byte) string {
	start := s.i
	for !s.eol() {
		c := s.src[s.i]
		if c == '\\' && s.i+1 < len(s.src) {
			s.i += 2
			continue
		}
		if c == delim {
			pat := s.src[start:s.i]
			s.i++
			return pat
		}
		s.i++
	}
	return s.src[start:]
}

func (s *state) markLine(name rune) (int, error) {
	line, err := s.p.env.MarkLine(name)
	switch {
	case err == nil:
		return line, nil
	case errors.Is(err, buffer.ErrInvalidMarkName):
		return 0, newError(ErrUnknownMark, s.src, "")
	default:
		return 0, newError(ErrMarkNotSet, s.src, "")
	}
}

// searchLine resolves a pattern address. Inspection does not search.
func (s *state) searchLine(pat string, backward bool) (int, error) {
	if !s.exec {
		return s.cur, nil
	}
	line, err := s.p.env.SearchLine(pat, s.cur, backward)
	switch {
	case err == nil:
		return line, nil
	case errors.Is(err, search.ErrNoPreviousPattern):
		return 0, newError(ErrNoPreviousPattern, s.src, "")
	default:
		return 0, newError(ErrPatternNotFound, s.src, pat)
	}
}
