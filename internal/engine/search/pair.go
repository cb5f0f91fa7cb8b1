package search

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/dshills/vicore/internal/engine/buffer"
)

// PairFlags control SearchPair.
type PairFlags struct {
	Backward       bool // b: search backward
	NoWrap         bool // W: do not wrap around the end of the buffer
	Repeat         bool // r: repeat until no more matches, ending at the outermost pair
	Count          bool // m: report the number of matches
	AcceptAtCursor bool // c: accept a match at the cursor
	NoMove         bool // n: the caller should not move the cursor
}

// ParsePairFlags parses a flag string such as "bW".
func ParsePairFlags(s string) (PairFlags, error) {
	var f PairFlags
	for _, r := range s {
		switch r {
		case 'b':
			f.Backward = true
		case 'W':
			f.NoWrap = true
		case 'w':
			f.NoWrap = false
		case 'r':
			f.Repeat = true
		case 'm':
			f.Count = true
		case 'c':
			f.AcceptAtCursor = true
		case 'n':
			f.NoMove = true
		default:
			return PairFlags{}, fmt.Errorf("%w: %q", ErrInvalidFlags, r)
		}
	}
	return f, nil
}

// SkipFunc reports whether the match at pos should be ignored, for example
// because it is inside a comment.
type SkipFunc func(pos *buffer.Position) (bool, error)

// PairResult is the outcome of SearchPair. Pos is nil when nothing matched.
type PairResult struct {
	Pos   *buffer.Position
	Line  int
	Count int
}

// SearchPair searches from cur for the partner of a start/end pattern pair,
// skipping nested pairs. A non-empty middle pattern also matches at the
// outer level, as "else" does between "if" and "endif". stopLine, when
// positive, ends the search at that line.
func (p *Patterns) SearchPair(cur *buffer.Position, start, middle, end string, flags PairFlags, skip SkipFunc, stopLine int) (PairResult, error) {
	b, err := cur.Buffer()
	if err != nil {
		return PairResult{}, err
	}

	// Nested pairs only need start and end; the outer level also looks for
	// the middle.
	nested, err := p.Compile(fmt.Sprintf("(?<start>%s)|(?<end>%s)", start, end))
	if err != nil {
		return PairResult{}, err
	}
	outer := nested
	if middle != "" {
		outer, err = p.Compile(fmt.Sprintf("(?<start>%s)|(?<end>%s)|(?<middle>%s)", start, end, middle))
		if err != nil {
			return PairResult{}, err
		}
	}

	var (
		text     = b.Runes()
		pos      = cur.Offset()
		firstPos = -1
		foundPos = -1
		nest     = 1
		re       = outer
		accept   = flags.AcceptAtCursor
		res      PairResult
		final    = -1
	)
	for {
		m, err := find(re, text, pos, flags.Backward, accept, !flags.NoWrap)
		if err != nil {
			return PairResult{}, err
		}
		if m == nil || m.Index == firstPos {
			break
		}
		if stopLine > 0 {
			line := b.LineOfOffset(m.Index)
			if (!flags.Backward && line > stopLine) || (flags.Backward && line < stopLine) {
				break
			}
		}
		if firstPos < 0 {
			firstPos = m.Index
		}
		pos = m.Index
		if pos == foundPos {
			// Same place again, e.g. an empty match: step over it.
			if flags.Backward {
				pos--
			} else {
				pos++
			}
		}
		foundPos = pos
		accept = false

		if skip != nil {
			skipped, err := skip(b.PositionAt(pos))
			if err != nil {
				return PairResult{}, err
			}
			if skipped {
				continue
			}
		}

		if (flags.Backward && matched(m, "end")) || (!flags.Backward && matched(m, "start")) {
			nest++
			re = nested
		} else {
			nest--
			if nest == 1 {
				re = outer
			}
		}

		if nest == 0 {
			res.Count++
			final = pos
			if !flags.Repeat {
				break
			}
			nest = 1
			re = outer
		}
	}

	if final < 0 {
		return PairResult{}, nil
	}
	res.Pos = b.PositionAt(final)
	res.Line = res.Pos.Line()
	return res, nil
}

func matched(m *regexp2.Match, name string) bool {
	g := m.GroupByName(name)
	return g != nil && len(g.Captures) > 0
}
