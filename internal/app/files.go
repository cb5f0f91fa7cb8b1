package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/vicore/internal/engine/buffer"
	"github.com/dshills/vicore/internal/input/excmd"
)

// maxSourceDepth bounds nested :source commands.
const maxSourceDepth = 50

// cmdEdit implements :e[!] [file]. Without a file the current buffer is
// reloaded from disk. Switching away from a modified buffer needs !.
func (a *App) cmdEdit(ev *excmd.Event) error {
	cur := a.Current()
	path := strings.TrimSpace(ev.Expanded)
	if path != "" {
		path = expandHome(path)
	}
	if cur.Modified() && !ev.Bang {
		return ErrNoWrite
	}

	if path == "" || path == cur.Name() {
		if cur.Name() == "" {
			return ErrNoFileName
		}
		return a.reload(cur)
	}

	b, err := a.buffers.Open(path)
	if err != nil {
		return NewOperationError("edit", path, err)
	}
	a.buffers.SetCurrent(b)
	a.out.Message(fileSize(b))
	return nil
}

// reload replaces b's text with its file's content.
func (a *App) reload(b *buffer.Buffer) error {
	fresh, err := buffer.LoadFile(b.Name())
	if err != nil {
		return NewOperationError("edit", b.Name(), err)
	}
	b.SetText(fresh.Text())
	b.SetModified(false)
	fresh.Close()
	a.out.Message(fileSize(b))
	return nil
}

// cmdWrite implements :[range]w[!] [file] and :[range]w !cmd.
func (a *App) cmdWrite(ev *excmd.Event) error {
	b := a.Current()
	line1, line2 := ev.Line1, ev.Line2
	if !ev.HasRange() {
		line1, line2 = 1, b.LineCount()
	}
	arg := strings.TrimSpace(ev.ArgString)

	if rest, ok := strings.CutPrefix(arg, "!"); ok {
		command, err := a.parser.Expand(strings.TrimSpace(rest))
		if err != nil {
			return err
		}
		if command == "" {
			return ErrArgRequired
		}
		input := strings.Join(b.Lines(line1, line2), "\n") + "\n"
		out, err := a.runShell(command, input)
		a.messageLines(out)
		return err
	}

	path := ""
	if arg != "" {
		expanded, err := a.parser.Expand(arg)
		if err != nil {
			return err
		}
		path = expandHome(expanded)
	}
	if path == "" {
		path = b.Name()
	}
	if path == "" {
		return ErrNoFileName
	}
	if path != b.Name() && !ev.Bang {
		if _, err := os.Stat(path); err == nil {
			return ErrFileExists
		} else if !errors.Is(err, fs.ErrNotExist) {
			return NewOperationError("write", path, err)
		}
	}

	n, err := b.WriteFile(path, line1, line2)
	if err != nil {
		return NewOperationError("write", path, err)
	}
	if b.Name() == "" {
		b.SetName(path)
		if line1 == 1 && line2 == b.LineCount() {
			b.SetModified(false)
		}
	}
	a.out.Message(fmt.Sprintf("%q %dL written", path, n))
	return nil
}

// cmdFile implements :f [name]: rename the buffer and show its status.
func (a *App) cmdFile(ev *excmd.Event) error {
	b := a.Current()
	if name := strings.TrimSpace(ev.Expanded); name != "" {
		b.SetName(expandHome(name))
	}
	a.out.Message(a.fileStatus(b))
	return nil
}

// cmdBuffer implements :b[!] {N|name}.
func (a *App) cmdBuffer(ev *excmd.Event) error {
	arg := strings.TrimSpace(ev.ArgString)
	cur := a.Current()
	if arg == "" {
		return nil
	}

	var target *buffer.Buffer
	if n, err := strconv.Atoi(arg); err == nil {
		b, ok := a.buffers.ByNumber(n)
		if !ok {
			return commandError(ErrNoSuchBuffer, arg)
		}
		target = b
	} else {
		b, err := a.matchBuffer(arg)
		if err != nil {
			return err
		}
		target = b
	}

	if target == cur {
		return nil
	}
	if cur.Modified() && !ev.Bang {
		return ErrNoWrite
	}
	a.buffers.SetCurrent(target)
	a.out.Message(a.fileStatus(target))
	return nil
}

// matchBuffer finds the buffer whose name is, or uniquely contains, pat.
func (a *App) matchBuffer(pat string) (*buffer.Buffer, error) {
	if b := a.buffers.FindByName(expandHome(pat)); b != nil {
		return b, nil
	}
	var found []*buffer.Buffer
	for _, b := range a.buffers.Buffers() {
		if b.Name() != "" && strings.Contains(b.Name(), pat) {
			found = append(found, b)
		}
	}
	switch len(found) {
	case 0:
		return nil, commandError(ErrNoMatchingBuffer, pat)
	case 1:
		return found[0], nil
	}
	return nil, commandError(ErrMultipleMatches, pat)
}

// cmdList implements :ls.
func (a *App) cmdList(ev *excmd.Event) error {
	cur, alt := a.buffers.Current(), a.buffers.Alternate()
	for _, b := range a.buffers.Buffers() {
		flag := ' '
		switch b {
		case cur:
			flag = '%'
		case alt:
			flag = '#'
		}
		mod := ' '
		if b.Modified() {
			mod = '+'
		}
		a.out.Message(fmt.Sprintf("%3d %c %c %-30s line %d", b.ID(), flag, mod, quotedName(b), a.cursorMark(b).Line()))
	}
	return nil
}

// cmdSource implements :so {file}. Lua files run as scripts; anything else
// is read as Ex commands, one per line.
func (a *App) cmdSource(ev *excmd.Event) error {
	path := strings.TrimSpace(ev.Expanded)
	if path == "" {
		return ErrArgRequired
	}
	return a.Source(expandHome(path))
}

// Source runs the commands in path.
func (a *App) Source(path string) error {
	if filepath.Ext(path) == ".lua" {
		return a.ex.Source(path)
	}
	if a.depth >= maxSourceDepth {
		return ErrTooRecursive
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return NewOperationError("source", path, err)
	}
	a.depth++
	defer func() { a.depth-- }()

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	for i, line := range strings.Split(text, "\n") {
		ev, err := a.parser.ParseForExecution(line)
		if err == nil {
			err = a.run(ev)
		}
		if errors.Is(err, ErrQuit) {
			return err
		}
		if err != nil {
			return NewOperationError("source", fmt.Sprintf("%s line %d", path, i+1), err)
		}
	}
	return nil
}

func quotedName(b *buffer.Buffer) string {
	if b.Name() == "" {
		return `"[No Name]"`
	}
	return strconv.Quote(b.Name())
}

// fileSize is the message shown after reading a file.
func fileSize(b *buffer.Buffer) string {
	bytes := len(b.Text())
	if !b.IsEmpty() {
		bytes++
	}
	return fmt.Sprintf("%s %dL, %dB", quotedName(b), b.LineCount(), bytes)
}

// fileStatus is the :file message.
func (a *App) fileStatus(b *buffer.Buffer) string {
	var sb strings.Builder
	sb.WriteString(quotedName(b))
	if b.Modified() {
		sb.WriteString(" [Modified]")
	}
	line, count := a.cursorMark(b).Line(), b.LineCount()
	fmt.Fprintf(&sb, " line %d of %d --%d%%--", line, count, line*100/count)
	return sb.String()
}
