package search

import (
	"math"

	"github.com/dshills/vicore/internal/engine/buffer"
)

// Flags modify FindMatchLimit.
type Flags uint8

const (
	// FMBackward searches backward for '#', '/' and '*' targets, and forces
	// the direction for an explicit bracket.
	FMBackward Flags = 1 << iota
	// FMForward searches forward.
	FMForward
	// FMBlockStop stops at a '{' or '}' in column 0.
	FMBlockStop
)

// Options configure a Matcher.
type Options struct {
	// Pairs is the matchpairs table. Nil means DefaultPairs.
	Pairs []Pair
	// CpoMatch disables quote, comment and #if awareness ('%' in cpoptions).
	CpoMatch bool
	// CpoMatchBSL ignores backslashes before brackets ('M' in cpoptions).
	CpoMatchBSL bool
}

// Matcher finds matching brackets, comment delimiters and preprocessor
// directives.
type Matcher struct {
	opts Options
}

// NewMatcher creates a matcher.
func NewMatcher(opts Options) *Matcher {
	if opts.Pairs == nil {
		opts.Pairs, _ = ParsePairs(DefaultPairs)
	}
	return &Matcher{opts: opts}
}

// Match is a successful FindMatchLimit result.
type Match struct {
	Pos *buffer.Position
	// Linewise is set for #if/#else/#endif matches, which operate on lines.
	Linewise bool
}

// FindMatch finds the match for the bracket under or after pos.
func (m *Matcher) FindMatch(pos *buffer.Position) (Match, bool, error) {
	return m.FindMatchLimit(pos, 0, 0, 0)
}

// FindMatchLimit finds the match for initc starting at pos.
//
// With initc zero the target is detected at or after the cursor: a bracket
// from the matchpairs table, a C comment delimiter, or a #if/#else/#endif
// line. An explicit bracket searches for the unmatched occurrence of that
// bracket, so '(' searches backward for an unclosed '('. '#' walks
// preprocessor directives and '/' or '*' find the start or end of a C
// comment; all three take their direction from flags.
//
// maxTravel limits the number of lines crossed; zero means no limit.
func (m *Matcher) FindMatchLimit(pos *buffer.Position, initc rune, flags Flags, maxTravel int) (Match, bool, error) {
	b, err := pos.Buffer()
	if err != nil {
		return Match{}, false, err
	}
	s := &scanner{
		buf:        b,
		opts:       &m.opts,
		flags:      flags,
		maxTravel:  maxTravel,
		line:       pos.Line(),
		col:        pos.Column(),
		commentCol: noComment,
	}
	s.linep = b.LineRunes(s.line)
	if !s.setup(initc) {
		return Match{}, false, nil
	}
	for {
		switch s.step() {
		case stepFound:
			return Match{
				Pos:      b.PositionAtLineCol(s.line, s.col),
				Linewise: s.mode == modeHash,
			}, true, nil
		case stepFail:
			return Match{}, false, nil
		}
	}
}

type scanMode uint8

const (
	modeBrace scanMode = iota
	modeComment
	modeHash
)

type stepResult uint8

const (
	stepContinue stepResult = iota
	stepFound
	stepFail
)

type tristate uint8

const (
	maybe tristate = iota
	yes
	no
)

const noComment = math.MaxInt

type linePos struct {
	line, col int
	set       bool
}

// scanner is the state of one FindMatchLimit call.
type scanner struct {
	buf       *buffer.Buffer
	opts      *Options
	flags     Flags
	maxTravel int
	traveled  int

	mode  scanMode
	line  int
	col   int
	linep []rune

	initc     rune
	findc     rune
	backwards bool
	count     int

	commentDir int
	hashDir    int
	ignoreCend bool
	commentCol int
	matchPos   linePos

	doQuotes      int // -1 until counted for the current line
	inquote       bool
	startInQuotes tristate
	matchEscaped  int
}

func (s *scanner) at(col int) rune {
	if col < 0 || col >= len(s.linep) {
		return 0
	}
	return s.linep[col]
}

func (s *scanner) setup(initc rune) bool {
	dir := 0
	if s.flags&FMBackward != 0 {
		dir = -1
	} else if s.flags&FMForward != 0 {
		dir = 1
	}

	switch {
	case initc == '/' || initc == '*':
		if dir == 0 {
			return false
		}
		s.commentDir = dir
		s.ignoreCend = initc == '/'
		s.backwards = dir < 0
	case initc != '#' && initc != 0:
		s.initc, s.findc, s.backwards = lookup(s.opts.Pairs, initc, true)
		if dir != 0 {
			s.backwards = dir < 0
		}
		if s.findc == 0 {
			return false
		}
	default:
		if initc == '#' {
			if dir == 0 {
				return false
			}
			s.initc = '#'
			s.hashDir = dir
		} else if !s.detect() {
			return false
		}
		if s.hashDir != 0 {
			return s.setupHash(initc)
		}
	}

	s.doQuotes = -1
	s.startInQuotes = maybe
	s.mode = modeBrace
	if s.commentDir != 0 {
		s.mode = modeComment
		if s.backwards {
			s.commentCol = lineComment(s.linep)
		}
	}
	return true
}

// detect looks for something to match under or after the cursor.
func (s *scanner) detect() bool {
	if !s.opts.CpoMatch {
		first := skipWhite(s.linep, 0)
		switch {
		case s.at(first) == '#' && s.col <= first:
			if isDirective(s.linep[skipWhite(s.linep, first+1):]) {
				s.hashDir = 1
			}
		case s.at(s.col) == '/':
			if s.at(s.col+1) == '*' {
				s.commentDir, s.backwards = 1, false
				s.col++
			} else if s.col > 0 && s.at(s.col-1) == '*' {
				s.commentDir, s.backwards = -1, true
				s.col--
			}
		case s.at(s.col) == '*':
			if s.at(s.col+1) == '/' {
				s.commentDir, s.backwards = -1, true
			} else if s.col > 0 && s.at(s.col-1) == '/' {
				s.commentDir, s.backwards = 1, false
			}
		}
	}
	if s.hashDir != 0 || s.commentDir != 0 {
		return true
	}

	// Find the bracket under or after the cursor. Past the end of the line
	// use the last character.
	if s.at(s.col) == 0 && s.col > 0 {
		s.col--
	}
	for {
		c := s.at(s.col)
		if c == 0 {
			s.initc = 0
			break
		}
		s.initc, s.findc, s.backwards = lookup(s.opts.Pairs, c, false)
		if s.findc != 0 {
			break
		}
		s.col++
	}
	if s.findc == 0 {
		if !s.opts.CpoMatch && s.at(skipWhite(s.linep, 0)) == '#' {
			s.hashDir = 1
			return true
		}
		return false
	}
	if !s.opts.CpoMatchBSL {
		s.matchEscaped = s.backslashesBefore(s.col) & 1
	}
	return true
}

func (s *scanner) setupHash(initc rune) bool {
	s.mode = modeHash
	if initc != '#' {
		rest := s.linep[skipWhite(s.linep, skipWhite(s.linep, 0)+1):]
		switch {
		case hasPrefix(rest, "if"), hasPrefix(rest, "el"):
			s.hashDir = 1
		case hasPrefix(rest, "endif"):
			s.hashDir = -1
		default:
			return false
		}
	}
	s.col = 0
	return true
}

func (s *scanner) step() stepResult {
	if s.mode == modeHash {
		return s.stepHash()
	}
	if !s.advance() {
		return s.exhausted()
	}
	if s.col == 0 && s.flags&FMBlockStop != 0 && (s.at(0) == '{' || s.at(0) == '}') {
		if s.at(0) == s.findc && s.count == 0 {
			return stepFound
		}
		return s.exhausted()
	}
	if s.mode == modeComment {
		return s.stepComment()
	}
	return s.stepBrace()
}

// advance moves one character in the search direction, crossing lines.
func (s *scanner) advance() bool {
	if s.backwards {
		if s.col > 0 {
			s.col--
			return true
		}
		if s.line == 1 {
			return false
		}
		s.line--
		s.traveled++
		if s.maxTravel > 0 && s.traveled > s.maxTravel {
			return false
		}
		s.linep = s.buf.LineRunes(s.line)
		s.col = len(s.linep)
		s.doQuotes = -1
		if s.commentDir != 0 {
			s.commentCol = lineComment(s.linep)
		}
		return true
	}

	if s.col < len(s.linep) {
		s.col++
		return true
	}
	if s.line == s.buf.LineCount() {
		return false
	}
	s.line++
	if s.maxTravel > 0 {
		if s.traveled > s.maxTravel {
			return false
		}
		s.traveled++
	}
	s.linep = s.buf.LineRunes(s.line)
	s.col = 0
	s.doQuotes = -1
	return true
}

// exhausted ends a scan that ran out of text. A backward comment search
// that saw a comment start still succeeds.
func (s *scanner) exhausted() stepResult {
	if s.commentDir < 0 && s.count > 0 && s.matchPos.set {
		s.line, s.col = s.matchPos.line, s.matchPos.col
		return stepFound
	}
	return stepFail
}

// stepComment looks for the other end of a C comment. Comments do not nest
// and quotes inside them are ignored.
func (s *scanner) stepComment() stepResult {
	if s.commentDir > 0 {
		if s.at(s.col) == '*' && s.at(s.col+1) == '/' {
			s.col++
			return stepFound
		}
		return stepContinue
	}

	// A comment may contain /* or //, and may start or end with /*/.
	// Ignore a /* after // and after *.
	if s.col == 0 {
		return stepContinue
	}
	prev, c := s.at(s.col-1), s.at(s.col)
	switch {
	case prev == '/' && c == '*' && (s.col == 1 || s.at(s.col-2) != '*') && s.col < s.commentCol:
		s.count++
		s.matchPos = linePos{line: s.line, col: s.col - 1, set: true}
	case prev == '*' && c == '/':
		switch {
		case s.count > 0:
			s.line, s.col = s.matchPos.line, s.matchPos.col
		case s.col > 1 && s.at(s.col-2) == '/' && s.col <= s.commentCol:
			s.col -= 2
		case s.ignoreCend:
			return stepContinue
		default:
			return stepFail
		}
		return stepFound
	}
	return stepContinue
}

// stepBrace examines one character for the bracket being matched.
//
// Brackets inside double quotes are ignored, but only when the line has an
// even number of quotes, or this or the previous line ends in a backslash
// (a continued string). An odd count means the quoted part cannot be known.
func (s *scanner) stepBrace() stepResult {
	if s.opts.CpoMatch {
		s.doQuotes = 0
	} else if s.doQuotes == -1 {
		s.countQuotes()
	}
	if s.startInQuotes == maybe {
		s.startInQuotes = no
	}

	c := s.at(s.col)
	switch c {
	case 0:
		// End of a line without a trailing backslash closes any string.
		if s.col == 0 || s.at(s.col-1) != '\\' {
			s.inquote = false
			s.startInQuotes = no
		}

	case '"':
		if s.doQuotes != 0 && s.backslashesBefore(s.col)%2 == 0 {
			s.inquote = !s.inquote
			s.startInQuotes = no
		}

	case '\'':
		// Skip 'x' and '\x' as a whole. Longer escapes like '\233' never
		// contain a bracket.
		if !s.opts.CpoMatch && s.initc != '\'' && s.findc != '\'' {
			if s.backwards {
				if s.col > 1 {
					if s.at(s.col-2) == '\'' {
						s.col -= 2
						return stepContinue
					}
					if s.at(s.col-2) == '\\' && s.col > 2 && s.at(s.col-3) == '\'' {
						s.col -= 3
						return stepContinue
					}
				}
			} else if s.at(s.col+1) != 0 {
				if s.at(s.col+1) == '\\' && s.at(s.col+2) != 0 && s.at(s.col+3) == '\'' {
					s.col += 3
					return stepContinue
				}
				if s.at(s.col+2) == '\'' {
					s.col += 2
					return stepContinue
				}
			}
		}
		fallthrough

	default:
		if s.inquote && s.startInQuotes != yes {
			break
		}
		if c != s.initc && c != s.findc {
			break
		}
		// Only accept a bracket escaped the same way as the one we started on.
		if !s.opts.CpoMatchBSL && s.backslashesBefore(s.col)&1 != s.matchEscaped {
			break
		}
		if c == s.initc {
			s.count++
		} else {
			if s.count == 0 {
				return stepFound
			}
			s.count--
		}
	}
	return stepContinue
}

// countQuotes decides whether quotes can be trusted on the current line.
func (s *scanner) countQuotes() {
	line := s.linep
	here := s.col
	if s.backwards {
		here++
	}
	n := 0
	atStart := true
	for i := 0; i < len(line); i++ {
		if i == here {
			atStart = n%2 == 0
		}
		if line[i] == '"' && (i == 0 || line[i-1] != '\'' || s.at(i+1) != '\'') {
			n++
		}
		if line[i] == '\\' && i+1 < len(line) {
			i++
		}
	}
	s.doQuotes = 0
	if n%2 == 0 {
		s.doQuotes = 1
		return
	}

	// Odd count: only a backslash continuation tells us where strings are.
	s.inquote = false
	if len(line) > 0 && line[len(line)-1] == '\\' {
		s.doQuotes = 1
		if s.startInQuotes == maybe {
			s.inquote = true
			s.startInQuotes = yes
		} else if s.backwards {
			s.inquote = true
		}
	}
	if s.line > 1 {
		prev := s.buf.LineRunes(s.line - 1)
		if len(prev) > 0 && prev[len(prev)-1] == '\\' {
			s.doQuotes = 1
			if s.startInQuotes == maybe {
				s.inquote = atStart
				if s.inquote {
					s.startInQuotes = yes
				}
			} else if !s.backwards {
				s.inquote = true
			}
		}
	}
}

// stepHash moves one line and checks it for a matching directive.
func (s *scanner) stepHash() stepResult {
	if s.hashDir > 0 {
		if s.line == s.buf.LineCount() {
			return stepFail
		}
	} else if s.line == 1 {
		return stepFail
	}
	s.line += s.hashDir
	s.linep = s.buf.LineRunes(s.line)

	first := skipWhite(s.linep, 0)
	if s.at(first) != '#' {
		return stepContinue
	}
	s.col = first
	rest := s.linep[skipWhite(s.linep, first+1):]

	if s.hashDir > 0 {
		switch {
		case hasPrefix(rest, "if"):
			s.count++
		case hasPrefix(rest, "el"):
			if s.count == 0 {
				return stepFound
			}
		case hasPrefix(rest, "endif"):
			if s.count == 0 {
				return stepFound
			}
			s.count--
		}
		return stepContinue
	}

	switch {
	case hasPrefix(rest, "if"):
		if s.count == 0 {
			return stepFound
		}
		s.count--
	case s.initc == '#' && hasPrefix(rest, "el"):
		if s.count == 0 {
			return stepFound
		}
	case hasPrefix(rest, "endif"):
		s.count++
	}
	return stepContinue
}

// backslashesBefore counts the backslashes immediately before col.
func (s *scanner) backslashesBefore(col int) int {
	n := 0
	for col--; col >= 0 && s.linep[col] == '\\'; col-- {
		n++
	}
	return n
}

// lineComment returns the column of a // comment outside of a string, or
// noComment.
func lineComment(line []rune) int {
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if inString {
				i++
			}
		case '"':
			inString = !inString
		case '/':
			if inString || i+1 >= len(line) || line[i+1] != '/' {
				continue
			}
			// "*//*" is the end of one comment and the start of another.
			if i > 0 && line[i-1] == '*' && i+2 < len(line) && line[i+2] == '*' {
				continue
			}
			return i
		}
	}
	return noComment
}

func skipWhite(line []rune, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

func hasPrefix(line []rune, prefix string) bool {
	i := 0
	for _, r := range prefix {
		if i >= len(line) || line[i] != r {
			return false
		}
		i++
	}
	return true
}

func isDirective(rest []rune) bool {
	return hasPrefix(rest, "if") || hasPrefix(rest, "endif") || hasPrefix(rest, "el")
}
