package app

import (
	"fmt"
	"strings"

	"github.com/dshills/vicore/internal/input/excmd"
	"github.com/dshills/vicore/internal/input/history"
)

// cmdHistory implements :his[tory] [{name}]. name is "cmd" or ":" for the
// command history, "search" or "/" for search patterns and "all" for both.
func (a *App) cmdHistory(ev *excmd.Event) error {
	var kinds []history.Kind
	switch arg := strings.TrimSpace(ev.ArgString); arg {
	case "", ":", "c", "cmd", "colon":
		kinds = []history.Kind{history.Colon}
	case "/", "?", "s", "search":
		kinds = []history.Kind{history.Search}
	case "a", "all":
		kinds = []history.Kind{history.Colon, history.Search}
	default:
		return commandError(ErrInvalidArgument, arg)
	}

	for _, kind := range kinds {
		h := a.History(kind)
		a.out.Message(fmt.Sprintf("      #  %s history", kind))
		entries := h.Entries()
		for i, e := range entries {
			cur := ' '
			if i == len(entries)-1 {
				cur = '>'
			}
			a.out.Message(fmt.Sprintf("%c%5d  %s", cur, e.Seq, e.Text))
		}
	}
	return nil
}

// cmdMarks implements :marks [{chars}]: the set marks of the current buffer
// followed by the file marks, optionally limited to chars.
func (a *App) cmdMarks(ev *excmd.Event) error {
	only := strings.TrimSpace(ev.ArgString)
	want := func(r rune) bool { return only == "" || strings.ContainsRune(only, r) }

	b := a.Current()
	var rows []string
	for _, name := range b.Marks().Names() {
		if !want(name) {
			continue
		}
		m, err := b.Marks().Get(name)
		if err != nil {
			continue
		}
		rows = append(rows, markRow(name, m.Line(), m.Column(), b.LineText(m.Line())))
	}

	fms := a.buffers.Filemarks()
	fms.Sync()
	for _, name := range fms.Names() {
		if !want(name) {
			continue
		}
		fm, err := fms.Get(name)
		if err != nil {
			continue
		}
		text := fm.FileName()
		if live := fm.Live(); live != nil && live.Buffer() == b {
			text = b.LineText(fm.Line())
		}
		rows = append(rows, markRow(name, fm.Line(), fm.Column(), text))
	}

	if len(rows) == 0 {
		return commandError(ErrNoMarks, fmt.Sprintf("%q", only))
	}
	a.out.Message("mark line  col file/text")
	for _, r := range rows {
		a.out.Message(r)
	}
	return nil
}

func markRow(name rune, line, col int, text string) string {
	return fmt.Sprintf(" %c %6d %4d %s", name, line, col, strings.TrimLeft(text, " \t"))
}
