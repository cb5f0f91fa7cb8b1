package app

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/vicore/internal/engine/buffer"
	"github.com/dshills/vicore/internal/input/excmd"
	"github.com/dshills/vicore/internal/input/exparse"
)

// BuiltinSource tags the commands registered by the App itself.
const BuiltinSource = "builtin"

// registerBuiltins registers the editor's own Ex commands.
func (a *App) registerBuiltins() error {
	for _, c := range []struct {
		abbrev, name string
		handler      excmd.Handler
		flags        excmd.Flags
	}{
		{"d", "delete", a.cmdDelete, excmd.Range},
		{"ma", "mark", a.cmdMark, excmd.Range},
		{">", ">", a.cmdShift, excmd.Range},
		{"<", "<", a.cmdShift, excmd.Range},
		{"!", "!", a.cmdShell, excmd.Range | excmd.XFile | excmd.NoParse},
		{"e", "edit", a.cmdEdit, excmd.Bang | excmd.XFile | excmd.ComplFn},
		{"w", "write", a.cmdWrite, excmd.Range | excmd.Bang | excmd.ComplFn},
		{"f", "file", a.cmdFile, excmd.Bang | excmd.XFile},
		{"b", "buffer", a.cmdBuffer, excmd.Bang | excmd.ComplFn},
		{"ls", "ls", a.cmdList, excmd.Bang | excmd.NoArgs},
		{"s", "substitute", a.cmdSubstitute, excmd.Range | excmd.NoParse},
		{"&", "&", a.cmdRepeatSubstitute, excmd.Range},
		{"se", "set", a.cmdSet, excmd.ComplFn},
		{"his", "history", a.cmdHistory, 0},
		{"marks", "marks", a.cmdMarks, 0},
		{"j", "join", a.cmdJoin, excmd.Range | excmd.Bang},
		{"p", "print", a.cmdPrint, excmd.Range | excmd.NoArgs},
		{"q", "quit", a.cmdQuit, excmd.Bang | excmd.NoArgs},
		{"lua", "lua", a.cmdLua, excmd.Range | excmd.NoParse},
		{"so", "source", a.cmdSource, excmd.XFile | excmd.NoParse},
	} {
		err := a.reg.RegisterItem(excmd.Item{
			Abbrev:  c.abbrev,
			Name:    c.name,
			Handler: c.handler,
			Flags:   c.flags,
			Source:  BuiltinSource,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// trailing reports unexpected text after a command, as the parser does for
// commands that take no argument.
func trailing(ev *excmd.Event, rest string) error {
	return &exparse.ParseError{
		Code: exparse.ErrTrailing.Code,
		Msg:  exparse.ErrTrailing.Msg + ": " + rest,
		Line: ev.CommandLine,
	}
}

// cmdDelete implements :[range]d.
func (a *App) cmdDelete(ev *excmd.Event) error {
	b := a.Current()
	n := ev.Line2 - ev.Line1 + 1
	start, end := b.LineSpan(ev.Line1, ev.Line2)
	if err := b.Delete(start, end); err != nil {
		return err
	}
	a.jump(min(ev.Line1, b.LineCount()))
	a.report(n, "%d fewer lines", n)
	return nil
}

// cmdMark implements :[line]ma {a-zA-Z'}. The mark goes to the first column
// of the last line in the range.
func (a *App) cmdMark(ev *excmd.Event) error {
	arg := ev.ArgString
	if arg == "" {
		return ErrArgRequired
	}
	name, size := utf8.DecodeRuneInString(arg)
	if size < len(arg) {
		return trailing(ev, arg[size:])
	}

	b := a.Current()
	pos := b.PositionAtLineCol(ev.Line2, 0)
	switch {
	case buffer.IsFileMark(name):
		if err := a.buffers.Filemarks().Set(name, pos); err != nil {
			if errors.Is(err, buffer.ErrNoFileName) {
				return ErrNoFileName
			}
			return err
		}
		return nil
	case name == '\'' || name == '`':
		return b.Marks().Set(buffer.MarkPrevContext, pos)
	case name >= 'a' && name <= 'z':
		return b.Marks().Set(name, pos)
	}
	return ErrBadMarkArg
}

// cmdShift implements :[range]> and :[range]<. Every extra '>' or '<' in
// the argument shifts one more 'shiftwidth'.
func (a *App) cmdShift(ev *excmd.Event) error {
	dir := ev.Name[0]
	times := 1 + strings.Count(ev.ArgString, string(dir))
	if strings.Trim(ev.ArgString, string(dir)+" \t") != "" {
		return trailing(ev, ev.ArgString)
	}
	delta := a.cfg.Editor.ShiftWidth * times
	if dir == '<' {
		delta = -delta
	}

	b := a.Current()
	for line := ev.Line1; line <= ev.Line2; line++ {
		text := b.LineRunes(line)
		// Empty lines are not shifted right.
		if len(text) == 0 && delta > 0 {
			continue
		}
		ws := 0
		for ws < len(text) && (text[ws] == ' ' || text[ws] == '\t') {
			ws++
		}
		width := indentWidth(text[:ws], a.cfg.Editor.TabStop)
		indent := makeIndent(max(width+delta, 0), a.cfg.Editor.TabStop, a.cfg.Editor.ExpandTab)
		if ws == len(text) {
			indent = ""
		}
		start := b.LineStartOffset(line)
		if err := b.Replace(start, start+ws, indent); err != nil {
			return err
		}
	}
	a.jump(ev.Line2)
	n := ev.Line2 - ev.Line1 + 1
	word := "time"
	if times > 1 {
		word = "times"
	}
	a.report(n, "%d lines %ced %d %s", n, dir, times, word)
	return nil
}

func indentWidth(ws []rune, tabstop int) int {
	w := 0
	for _, r := range ws {
		if r == '\t' {
			w += tabstop - w%tabstop
		} else {
			w++
		}
	}
	return w
}

func makeIndent(width, tabstop int, expand bool) string {
	if expand {
		return strings.Repeat(" ", width)
	}
	return strings.Repeat("\t", width/tabstop) + strings.Repeat(" ", width%tabstop)
}

// cmdJoin implements :[range]j[!]. Without a range, or with one address,
// the line is joined with the next; "3,3j" does nothing. Without ! leading white space of joined
// lines is replaced by one space.
func (a *App) cmdJoin(ev *excmd.Event) error {
	b := a.Current()
	line1, line2 := ev.Line1, ev.Line2
	if line1 == line2 {
		if ev.AddrCount >= 2 {
			return nil
		}
		line2++
	}
	if line2 > b.LineCount() {
		a.out.Beep()
		return nil
	}

	var sb strings.Builder
	sb.WriteString(b.LineText(line1))
	for l := line1 + 1; l <= line2; l++ {
		next := b.LineText(l)
		if ev.Bang {
			sb.WriteString(next)
			continue
		}
		next = strings.TrimLeft(next, " \t")
		cur := sb.String()
		if next != "" && next[0] != ')' && cur != "" && !strings.HasSuffix(cur, " ") && !strings.HasSuffix(cur, "\t") {
			sb.WriteByte(' ')
		}
		sb.WriteString(next)
	}
	if err := b.Replace(b.LineStartOffset(line1), b.LineEndOffset(line2), sb.String()); err != nil {
		return err
	}
	a.jump(line1)
	return nil
}

// cmdPrint implements :[range]p.
func (a *App) cmdPrint(ev *excmd.Event) error {
	b := a.Current()
	for _, line := range b.Lines(ev.Line1, ev.Line2) {
		a.out.Message(line)
	}
	a.jump(ev.Line2)
	return nil
}

// cmdLua implements :lua {chunk}.
func (a *App) cmdLua(ev *excmd.Event) error {
	if strings.TrimSpace(ev.ArgString) == "" {
		return ErrArgRequired
	}
	return a.ex.Run(ev.ArgString)
}

func (a *App) cmdQuit(ev *excmd.Event) error {
	if !ev.Bang {
		for _, b := range a.buffers.Buffers() {
			if b.Modified() {
				name := b.Name()
				if name == "" {
					name = "[No Name]"
				}
				return commandError(ErrNoWrite, fmt.Sprintf("buffer %d %q", b.ID(), name))
			}
		}
	}
	return ErrQuit
}
