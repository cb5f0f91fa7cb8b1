package exparse

import (
	"strconv"
	"strings"

	"github.com/dshills/vicore/internal/input/excmd"
)

// Expand performs file name expansion on arg as an XFile command's argument
// would get it. Commands that treat part of their argument specially, such
// as ":w !cmd", expand the rest themselves.
func (p *Parser) Expand(arg string) (string, error) {
	s := &state{
		p:    p,
		src:  arg,
		exec: true,
		cur:  p.env.CursorLine(),
		ev:   &excmd.Event{CommandLine: arg},
	}
	return s.expand(arg)
}

// expand replaces '!', '%' and '#' in arg. A backslash before any of them
// yields the character itself.
func (s *state) expand(arg string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(arg); {
		c := arg[i]
		switch c {
		case '\\':
			if i+1 < len(arg) && strings.IndexByte("%#!", arg[i+1]) >= 0 {
				b.WriteByte(arg[i+1])
				i += 2
				continue
			}
			b.WriteByte(c)
			i++
		case '!':
			last, ok := s.p.env.LastShellCommand()
			if !ok {
				s.fail(newError(ErrNoPreviousCommand, s.src, ""))
				return "", s.ev.Err
			}
			b.WriteString(last)
			i++
		case '%', '#':
			sel, n := parseSelector(arg[i:])
			i += n
			name, ok := s.p.env.FileName(sel)
			if !ok && sel.Kind != FileCurrent {
				s.fail(newError(ErrNoAlternate, s.src, ""))
				return "", s.ev.Err
			}
			if name == "" && !strings.HasPrefix(arg[i:], ":p:h") {
				s.fail(newError(ErrEmptyFileName, s.src, ""))
				return "", s.ev.Err
			}
			res, used := ModifyPath(name, arg[i:], s.p.paths())
			i += used
			b.WriteString(res)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

// parseSelector reads '%', '#', '#N' or '#-N' and returns the byte length.
func parseSelector(s string) (FileSelector, int) {
	if s[0] == '%' {
		return FileSelector{Kind: FileCurrent}, 1
	}
	i := 1
	kind := FileNumber
	if i+1 < len(s) && s[i] == '-' && isDigit(s[i+1]) {
		kind = FileRecent
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return FileSelector{Kind: FileAlternate}, 1
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return FileSelector{Kind: FileAlternate}, 1
	}
	return FileSelector{Kind: kind, N: n}, i
}
