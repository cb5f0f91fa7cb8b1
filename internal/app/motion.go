package app

import (
	"github.com/dshills/vicore/internal/engine/buffer"
	"github.com/dshills/vicore/internal/engine/search"
)

// MatchPair finds the match of the bracket, comment or preprocessor
// directive under or after the cursor and moves the cursor to it, as % does.
// It beeps and reports false when there is none.
func (a *App) MatchPair() (search.Match, bool, error) {
	m, ok, err := a.matcher.FindMatch(a.Cursor())
	if err != nil || !ok {
		if err == nil {
			a.out.Beep()
		}
		return m, ok, err
	}
	a.moveTo(m.Pos.Offset())
	return m, true, nil
}

// FindBracket looks for the unmatched initc around the cursor, as [( and ])
// do, and moves the cursor to it.
func (a *App) FindBracket(initc rune, flags search.Flags) (search.Match, bool, error) {
	m, ok, err := a.matcher.FindMatchLimit(a.Cursor(), initc, flags, 0)
	if err != nil || !ok {
		if err == nil {
			a.out.Beep()
		}
		return m, ok, err
	}
	a.moveTo(m.Pos.Offset())
	return m, true, nil
}

// SearchPair finds the partner of a start/end pattern pair from the cursor.
// flags are the characters b, W, r, m, c and n. Unless n is given the
// cursor moves to the match.
func (a *App) SearchPair(start, middle, end, flags string, stopLine int) (search.PairResult, error) {
	pf, err := search.ParsePairFlags(flags)
	if err != nil {
		return search.PairResult{}, commandError(ErrInvalidArgument, flags)
	}
	res, err := a.patterns.SearchPair(a.Cursor(), start, middle, end, pf, nil, stopLine)
	if err != nil {
		return res, err
	}
	if res.Pos != nil && !pf.NoMove {
		a.moveTo(res.Pos.Offset())
	}
	return res, nil
}

// Matcher returns the bracket matcher for the current settings.
func (a *App) Matcher() *search.Matcher { return a.matcher }

// moveTo moves the cursor to offset, remembering the old place in the '
// mark.
func (a *App) moveTo(offset int) {
	b := a.Current()
	if mk, err := b.Marks().Get(buffer.MarkPrevContext); err == nil {
		mk.SetOffset(a.cursorMark(b).Offset())
	}
	a.cursorMark(b).SetOffset(offset)
}
