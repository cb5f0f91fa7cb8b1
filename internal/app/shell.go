package app

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/dshills/vicore/internal/input/excmd"
)

// ShellTimeout bounds one shell command.
const ShellTimeout = 30 * time.Second

// ShellFunc runs command with input on its standard input and returns what
// it wrote to standard output.
type ShellFunc func(ctx context.Context, command, input string) (string, error)

// systemShell runs commands with "<shell> -c". The shell is read on every
// call so :set shell takes effect.
func systemShell(shell func() string) ShellFunc {
	return func(ctx context.Context, command, input string) (string, error) {
		cmd := exec.CommandContext(ctx, shell(), "-c", command)
		cmd.Stdin = strings.NewReader(input)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return stdout.String(), fmt.Errorf("%w: %s", err, msg)
			}
			return stdout.String(), err
		}
		return stdout.String(), nil
	}
}

func (a *App) runShell(command, input string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ShellTimeout)
	defer cancel()
	a.log.WithField("cmd", command).Debug("shell")
	out, err := a.shell(ctx, command, input)
	if err != nil {
		return out, commandError(ErrShellFailed, err.Error())
	}
	return out, nil
}

// cmdShell implements :!cmd, and :{range}!cmd which filters the lines
// through cmd.
func (a *App) cmdShell(ev *excmd.Event) error {
	command := strings.TrimSpace(ev.Expanded)
	if command == "" {
		return ErrArgRequired
	}
	a.lastShell = command

	if !ev.HasRange() {
		out, err := a.runShell(command, "")
		a.messageLines(out)
		return err
	}

	b := a.Current()
	lines := b.Lines(ev.Line1, ev.Line2)
	out, err := a.runShell(command, strings.Join(lines, "\n")+"\n")
	if err != nil {
		return err
	}
	out = strings.TrimSuffix(out, "\n")
	start, end := b.LineStartOffset(ev.Line1), b.LineEndOffset(ev.Line2)
	if err := b.Replace(start, end, out); err != nil {
		return err
	}
	a.jump(ev.Line1)
	a.report(len(lines), "%d lines filtered", len(lines))
	return nil
}

// messageLines shows each line of out as a message.
func (a *App) messageLines(out string) {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return
	}
	for _, line := range strings.Split(out, "\n") {
		a.out.Message(line)
	}
}

// reportThreshold is vim's default 'report': changes to more lines than
// this are announced.
const reportThreshold = 2

func (a *App) report(n int, format string, args ...any) {
	if n > reportThreshold {
		a.out.Message(fmt.Sprintf(format, args...))
	}
}
