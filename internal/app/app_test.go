package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/vicore/internal/config"
	"github.com/dshills/vicore/internal/engine/cursor"
	"github.com/dshills/vicore/internal/input/exparse"
	"github.com/dshills/vicore/internal/input/history"
	"github.com/dshills/vicore/internal/notify"
	"github.com/dshills/vicore/internal/prefs"
)

type fakeShell struct {
	commands []string
	inputs   []string
	err      error
}

// run upper-cases its input, or echoes the command when there is none.
func (f *fakeShell) run(_ context.Context, command, input string) (string, error) {
	f.commands = append(f.commands, command)
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return "", f.err
	}
	if input == "" {
		return "out: " + command + "\n", nil
	}
	return strings.ToUpper(input), nil
}

type testApp struct {
	*App
	rec   *notify.Recorder
	shell *fakeShell
	store *prefs.Memory
}

func newTestApp(t *testing.T, text string, opts ...func(*Options)) *testApp {
	t.Helper()
	ta := &testApp{rec: &notify.Recorder{}, shell: &fakeShell{}, store: prefs.NewMemory()}
	o := Options{
		Notifier: ta.rec,
		Store:    ta.store,
		Shell:    ta.shell.run,
		PathEnv:  &exparse.PathEnv{Home: "/home/user", Cwd: t.TempDir()},
	}
	for _, opt := range opts {
		opt(&o)
	}
	a, err := New(o)
	require.NoError(t, err)
	require.NoError(t, a.Boot())
	t.Cleanup(func() { a.Shutdown() })
	if text != "" {
		a.Current().SetText(text)
		a.Current().SetModified(false)
	}
	ta.App = a
	return ta
}

func (ta *testApp) text() string { return ta.Current().Text() }

func withConfig(cfg *config.Config) func(*Options) {
	return func(o *Options) { o.Config = cfg }
}

func withFiles(files ...string) func(*Options) {
	return func(o *Options) { o.Files = files }
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.TabStop = 0
	_, err := New(Options{Config: cfg})
	require.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestNewHasScratchBuffer(t *testing.T) {
	a := newTestApp(t, "")
	require.Len(t, a.Buffers().Buffers(), 1)
	require.Equal(t, "", a.Current().Name())
	require.Equal(t, 1, a.CursorLine())
	require.Greater(t, a.Registry().Len(), 15)
}

func TestGotoLine(t *testing.T) {
	a := newTestApp(t, "one\n  two\nthree\nfour")

	require.NoError(t, a.Execute("2"))
	require.Equal(t, 2, a.CursorLine())
	require.Equal(t, 2, a.Cursor().Column(), "first non-blank")

	require.NoError(t, a.Execute("$"))
	require.Equal(t, 4, a.CursorLine())

	require.NoError(t, a.Execute("''"))
	require.Equal(t, 2, a.CursorLine(), "previous context mark")

	require.NoError(t, a.Execute("99"))
	require.Equal(t, 4, a.CursorLine(), "clamped to the last line")

	require.NoError(t, a.Execute("/thr/"))
	require.Equal(t, 3, a.CursorLine())
	entries := a.History(history.Search).Entries()
	require.Equal(t, "thr", entries[len(entries)-1].Text)
}

func TestExecuteParseError(t *testing.T) {
	a := newTestApp(t, "x")
	err := a.Execute("bogus")
	require.ErrorIs(t, err, exparse.ErrNotEditorCommand)
	require.Zero(t, a.rec.Beeps, "parse errors are shown later")
	require.Empty(t, a.rec.Messages)

	a.RunPending()
	require.Equal(t, 1, a.rec.Beeps)
	require.Contains(t, a.rec.Last(), "E492")
}

func TestExecuteCommandErrorIsShown(t *testing.T) {
	a := newTestApp(t, "x")
	err := a.Execute("ma")
	require.ErrorIs(t, err, ErrArgRequired)
	require.Equal(t, "E471: Argument required", a.rec.Last())
}

func TestInspect(t *testing.T) {
	a := newTestApp(t, "a\nb\nc")
	ev := a.Inspect("2,3d")
	require.Equal(t, "delete", ev.Name)
	require.Equal(t, 2, ev.Line1)
	require.Equal(t, 3, ev.Line2)
	require.NoError(t, ev.Err)
	require.Equal(t, "a\nb\nc", a.text(), "inspection does not execute")

	ev = a.Inspect("zz")
	require.False(t, ev.Resolved())
	require.ErrorIs(t, ev.Err, exparse.ErrNotEditorCommand)
}

func TestRunPending(t *testing.T) {
	a := newTestApp(t, "")
	h := a.History(history.Colon)
	h.Push("one")
	h.RequestJump(3, "missing")
	h.Init()

	require.Equal(t, 0, a.rec.Beeps, "beep waits for RunPending")
	require.Equal(t, 1, a.RunPending())
	require.Equal(t, 1, a.rec.Beeps)
	require.Equal(t, 0, a.RunPending())
}

func TestBootShutdownPersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644))
	store := prefs.NewMemory()

	a, err := New(Options{Store: store, Files: []string{path}})
	require.NoError(t, err)
	require.NoError(t, a.Boot())
	require.Equal(t, path, a.Current().Name())
	require.Len(t, a.Buffers().Buffers(), 1, "scratch buffer is dropped")

	a.History(history.Colon).Push("2ma A")
	require.NoError(t, a.Execute("2ma A"))
	require.NoError(t, a.Execute("2s/t/T/"))
	require.NoError(t, a.Shutdown())

	b, err := New(Options{Store: store, Files: []string{path}})
	require.NoError(t, err)
	require.NoError(t, b.Boot())
	defer b.Shutdown()

	colon := b.History(history.Colon).Entries()
	require.Len(t, colon, 1)
	require.Equal(t, "2ma A", colon[0].Text)
	search := b.History(history.Search).Entries()
	require.Equal(t, "t", search[len(search)-1].Text)

	fm, err := b.Buffers().Filemarks().Get('A')
	require.NoError(t, err)
	require.Equal(t, path, fm.FileName())
	require.Equal(t, 2, fm.Line())

	require.NoError(t, b.Execute("'A"))
	require.Equal(t, 2, b.CursorLine())
}

func TestBootOpensStoreFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Prefs.Backend = prefs.BackendYAML
	cfg.Prefs.Path = filepath.Join(t.TempDir(), "prefs.yaml")

	a, err := New(Options{Config: cfg})
	require.NoError(t, err)
	require.NoError(t, a.Boot())
	a.History(history.Search).Push("needle")
	require.NoError(t, a.Shutdown())

	b, err := New(Options{Config: cfg})
	require.NoError(t, err)
	require.NoError(t, b.Boot())
	defer b.Shutdown()
	require.Equal(t, "needle", b.History(history.Search).Entries()[0].Text)
}

func TestBootRunsLuaInit(t *testing.T) {
	init := filepath.Join(t.TempDir(), "init.lua")
	script := `vi.command("Gr", "Greet", function(ev) return "hello " .. ev.arg end)`
	require.NoError(t, os.WriteFile(init, []byte(script), 0o644))
	cfg := config.Default()
	cfg.Lua.Init = init

	a := newTestApp(t, "", withConfig(cfg))
	require.NoError(t, a.Execute("Gr world"))
	require.Equal(t, "hello world", a.rec.Last())
}

func TestBootReportsBadLuaInit(t *testing.T) {
	init := filepath.Join(t.TempDir(), "init.lua")
	require.NoError(t, os.WriteFile(init, []byte("this is not lua"), 0o644))
	cfg := config.Default()
	cfg.Lua.Init = init

	a := newTestApp(t, "", withConfig(cfg))
	require.NotEmpty(t, a.rec.Messages, "init failure is shown, not fatal")
}

func TestSetVisual(t *testing.T) {
	a := newTestApp(t, "abc\ndef\nghi")
	bd, err := a.SetVisual(cursor.NewSelection(1, 5), cursor.ModeChar)
	require.NoError(t, err)
	require.Equal(t, 1, bd.Start)
	require.Equal(t, 6, bd.End)

	l, err := a.MarkLine('<')
	require.NoError(t, err)
	require.Equal(t, 1, l)
	l, err = a.MarkLine('>')
	require.NoError(t, err)
	require.Equal(t, 2, l)

	require.NoError(t, a.Execute("'<,'>d"))
	require.Equal(t, "ghi", a.text())
}

func TestSetVisualExclusive(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.Selection = "exclusive"
	a := newTestApp(t, "abc\ndef", withConfig(cfg))
	bd, err := a.SetVisual(cursor.NewSelection(0, 2), cursor.ModeChar)
	require.NoError(t, err)
	require.Equal(t, 2, bd.End)
}

func TestMatchPair(t *testing.T) {
	a := newTestApp(t, "if (a[1]) {\n}")
	a.SetCursor(1, 3)
	m, ok, err := a.MatchPair()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 8, m.Pos.Column())
	require.Equal(t, 8, a.Cursor().Column())

	a.SetCursor(1, 10)
	_, ok, err = a.MatchPair()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, a.CursorLine())

	b := newTestApp(t, "plain")
	_, ok, err = b.MatchPair()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, b.rec.Beeps)
}

func TestShutdownReportsEveryFailure(t *testing.T) {
	a, err := New(Options{Store: failingStore{prefs.NewMemory()}})
	require.NoError(t, err)
	err = a.Shutdown()
	require.ErrorIs(t, err, errStore)
	var list *ErrorList
	require.True(t, errors.As(err, &list))
	require.Equal(t, 2, list.Len(), "both histories")
}

type failingStore struct{ *prefs.Memory }

var errStore = errors.New("store unavailable")

func (failingStore) Put(string, []string) error { return errStore }
