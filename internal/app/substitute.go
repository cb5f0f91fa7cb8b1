package app

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/dshills/vicore/internal/input/excmd"
	"github.com/dshills/vicore/internal/input/exparse"
)

// substitution is the last :s, reused by :& and :s with no pattern.
type substitution struct {
	pattern     string
	replacement string
	flags       string
}

// cmdSubstitute implements :[range]s/{pattern}/{string}/[flags].
func (a *App) cmdSubstitute(ev *excmd.Event) error {
	arg := strings.TrimLeft(ev.ArgString, " \t")
	if arg == "" {
		return a.repeatSubstitute(ev, "")
	}
	delim, size := utf8.DecodeRuneInString(arg)
	if isWordRune(delim) || delim == '\\' || delim == '"' || delim == '|' {
		return a.repeatSubstitute(ev, arg)
	}

	pattern, rest := splitDelimited(arg[size:], delim)
	replacement, flags := splitDelimited(rest, delim)
	pattern, err := a.patterns.Resolve(pattern)
	if err != nil {
		return &exparse.ParseError{Code: exparse.ErrNoPreviousPattern.Code, Msg: exparse.ErrNoPreviousPattern.Msg, Line: ev.CommandLine}
	}
	a.searches.Push(pattern)

	sub := &substitution{pattern: pattern, replacement: replacement}
	if strings.HasPrefix(flags, "&") {
		if a.lastSub != nil {
			sub.flags = a.lastSub.flags
		}
		flags = flags[1:]
	}
	sub.flags += strings.TrimSpace(flags)
	return a.substitute(ev, sub)
}

// cmdRepeatSubstitute implements :[range]&[&][flags].
func (a *App) cmdRepeatSubstitute(ev *excmd.Event) error {
	return a.repeatSubstitute(ev, strings.TrimSpace(ev.ArgString))
}

// repeatSubstitute runs the last substitution with new flags. A leading &
// keeps the previous flags.
func (a *App) repeatSubstitute(ev *excmd.Event, flags string) error {
	if a.lastSub == nil {
		return ErrNoPreviousSub
	}
	sub := &substitution{pattern: a.lastSub.pattern, replacement: a.lastSub.replacement}
	if strings.HasPrefix(flags, "&") {
		sub.flags = a.lastSub.flags
		flags = flags[1:]
	}
	sub.flags += flags
	return a.substitute(ev, sub)
}

func (a *App) substitute(ev *excmd.Event, sub *substitution) error {
	var global, countOnly, quiet bool
	pattern := sub.pattern
	for _, f := range sub.flags {
		switch f {
		case 'g':
			global = !global
		case 'n':
			countOnly = true
		case 'e':
			quiet = true
		case 'i':
			pattern = "(?i)" + sub.pattern
		case 'I':
			pattern = "(?-i)" + sub.pattern
		case ' ', '\t':
		default:
			return trailing(ev, sub.flags)
		}
	}
	re, err := a.patterns.Compile(pattern)
	if err != nil {
		return commandError(ErrInvalidArgument, err.Error())
	}
	a.lastSub = sub

	limit := 1
	if global {
		limit = -1
	}
	b := a.Current()
	total, lines, lastLine := 0, 0, 0
	// Bottom up, so a replacement containing newlines does not shift the
	// lines still to visit.
	for line := ev.Line2; line >= ev.Line1; line-- {
		text := b.LineText(line)
		n := 0
		out, err := re.ReplaceFunc(text, func(m regexp2.Match) string {
			n++
			return expandReplacement(sub.replacement, &m)
		}, -1, limit)
		if err != nil {
			return commandError(ErrInvalidArgument, err.Error())
		}
		if n == 0 {
			continue
		}
		total += n
		lines++
		if lastLine == 0 {
			lastLine = line
		}
		if countOnly {
			continue
		}
		if err := b.Replace(b.LineStartOffset(line), b.LineEndOffset(line), out); err != nil {
			return err
		}
	}

	if total == 0 {
		if quiet {
			return nil
		}
		return &exparse.ParseError{
			Code: exparse.ErrPatternNotFound.Code,
			Msg:  exparse.ErrPatternNotFound.Msg + ": " + sub.pattern,
			Line: ev.CommandLine,
		}
	}
	if countOnly {
		a.out.Message(plural(total, "match") + " on " + plural(lines, "line"))
		return nil
	}
	a.jump(lastLine)
	a.report(total, "%s on %s", plural(total, "substitution"), plural(lines, "line"))
	return nil
}

func plural(n int, word string) string {
	switch {
	case n == 1:
		return "1 " + word
	case strings.HasSuffix(word, "h"):
		return strconv.Itoa(n) + " " + word + "es"
	}
	return strconv.Itoa(n) + " " + word + "s"
}

// splitDelimited returns s up to the first unescaped delim and the text
// after it. "\delim" becomes delim; other escapes are kept.
func splitDelimited(s string, delim rune) (field, rest string) {
	var sb strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == delim:
			return sb.String(), s[i+size:]
		case r == '\\' && i+size < len(s):
			next, nsize := utf8.DecodeRuneInString(s[i+size:])
			if next != delim {
				sb.WriteRune(r)
			}
			sb.WriteRune(next)
			i += size + nsize
			continue
		}
		sb.WriteRune(r)
		i += size
	}
	return sb.String(), ""
}

// expandReplacement builds the text for one match. & and \0 insert the whole
// match, \1 to \9 a group, \r and \n a line break and \t a tab.
func expandReplacement(repl string, m *regexp2.Match) string {
	var sb strings.Builder
	rs := []rune(repl)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '&':
			sb.WriteString(m.String())
		case r == '\\' && i+1 < len(rs):
			i++
			switch c := rs[i]; {
			case c >= '0' && c <= '9':
				if g := m.GroupByNumber(int(c - '0')); g != nil {
					sb.WriteString(g.String())
				}
			case c == 'n' || c == 'r':
				sb.WriteByte('\n')
			case c == 't':
				sb.WriteByte('\t')
			default:
				sb.WriteRune(c)
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isWordRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
