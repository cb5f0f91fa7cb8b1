package cursor

import "github.com/mattn/go-runewidth"

// MaxColumn marks a block selection that extends to the end of every line.
const MaxColumn = 1<<31 - 1

func charWidth(r rune, vcol, tabWidth int) int {
	if r == '\t' {
		return tabWidth - vcol%tabWidth
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// VirtCols returns the first and last virtual column occupied by the
// character at col. Columns at or beyond the end of the line occupy a single
// virtual column just past the last character.
func VirtCols(line []rune, col, tabWidth int) (start, end int) {
	if tabWidth <= 0 {
		tabWidth = 8
	}
	vcol := 0
	for i, r := range line {
		w := charWidth(r, vcol, tabWidth)
		if i == col {
			return vcol, vcol + w - 1
		}
		vcol += w
	}
	return vcol, vcol
}

// ColsForRange maps the inclusive virtual column range [left, right] back to
// a half-open character range [startCol, endCol) of line. A character that
// straddles a boundary, such as a tab, is included. right may be MaxColumn.
func ColsForRange(line []rune, left, right, tabWidth int) (startCol, endCol int) {
	if tabWidth <= 0 {
		tabWidth = 8
	}
	startCol, endCol = len(line), len(line)
	vcol := 0
	found := false
	for i, r := range line {
		w := charWidth(r, vcol, tabWidth)
		last := vcol + w - 1
		if !found && last >= left {
			startCol = i
			found = true
		}
		if vcol > right {
			endCol = i
			break
		}
		vcol += w
	}
	if !found {
		return len(line), len(line)
	}
	return startCol, endCol
}
