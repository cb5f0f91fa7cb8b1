package lua

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/vicore/internal/input/excmd"
)

type fakeHost struct {
	lines    []string
	cursor   int
	messages []string
	executed []string
	reg      *excmd.Registry
}

func (h *fakeHost) Execute(line string) error {
	h.executed = append(h.executed, line)
	item, ok := h.reg.Lookup(line)
	if !ok {
		return fmt.Errorf("E492: Not an editor command: %s", line)
	}
	ev := &excmd.Event{Name: item.Name, Item: item, Line1: h.cursor, Line2: h.cursor}
	return ev.Execute()
}

func (h *fakeHost) Message(msg string) { h.messages = append(h.messages, msg) }
func (h *fakeHost) CursorLine() int    { return h.cursor }
func (h *fakeHost) LineCount() int     { return len(h.lines) }

func (h *fakeHost) Line(n int) (string, error) {
	if n < 1 || n > len(h.lines) {
		return "", fmt.Errorf("line %d out of range", n)
	}
	return h.lines[n-1], nil
}

func (h *fakeHost) SetLine(n int, text string) error {
	if n < 1 || n > len(h.lines) {
		return fmt.Errorf("line %d out of range", n)
	}
	h.lines[n-1] = text
	return nil
}

func newTestEx(t *testing.T) (*Ex, *fakeHost) {
	t.Helper()
	reg := excmd.NewRegistry()
	host := &fakeHost{lines: []string{"alpha", "beta", "gamma"}, cursor: 2, reg: reg}
	s := NewState()
	t.Cleanup(func() { s.Close() })
	return NewEx(s, reg, host, nil), host
}

func TestLuaRegistersCommand(t *testing.T) {
	x, host := newTestEx(t)

	require.NoError(t, x.Run(`
vi.command("Up", "Upper", function(ev)
  for n = ev.line1, ev.line2 do
    vi.setline(n, string.upper(vi.line(n)))
  end
  return "uppercased " .. (ev.line2 - ev.line1 + 1)
end, "RANGE|BANG")
`))

	item, ok := x.reg.Lookup("Upp")
	require.True(t, ok)
	require.Equal(t, "Upper", item.Name)
	require.Equal(t, excmd.Range|excmd.Bang, item.Flags)
	require.Equal(t, "lua:chunk", item.Source)

	ev := &excmd.Event{Name: "Upper", Item: item, Line1: 1, Line2: 2, AddrCount: 2, Args: []string{"x"}}
	require.NoError(t, ev.Execute())
	require.Equal(t, []string{"ALPHA", "BETA", "gamma"}, host.lines)
	require.Equal(t, []string{"uppercased 2"}, host.messages)
}

func TestLuaEventFields(t *testing.T) {
	x, host := newTestEx(t)
	require.NoError(t, x.Run(`
vi.command("Sh", "Show", function(ev)
  vi.message(ev.name .. " " .. ev.range .. " " .. tostring(ev.bang) .. " " .. #ev.args .. " " .. ev.arg)
end)
`))
	item, _ := x.reg.Lookup("Show")
	ev := &excmd.Event{Name: "Show", Item: item, Bang: true, Args: []string{"a", "b"}, Expanded: "a b"}
	require.NoError(t, ev.Execute())
	require.Equal(t, []string{"Show 0 true 2 a b"}, host.messages)
}

func TestLuaExecuteAndErrors(t *testing.T) {
	x, host := newTestEx(t)

	require.NoError(t, x.Run(`
vi.command("Hi", "Hello", function() vi.message("hello " .. vi.cursor() .. "/" .. vi.linecount()) end)
local ok, err = vi.execute("Hello")
assert(ok)
ok, err = vi.execute("Nope")
vi.message(err)
`))
	require.Equal(t, []string{"Hello", "Nope"}, host.executed)
	require.Equal(t, "hello 2/3", host.messages[0])
	require.True(t, strings.HasPrefix(host.messages[1], "E492"))

	err := x.Run(`vi.command("x", "y", function() end)`)
	require.Error(t, err, "abbreviation must prefix the name")

	err = x.Run(`vi.command("Zz", "Zzz", function() end, "FAST")`)
	require.Error(t, err)

	require.NoError(t, x.Run(`vi.command("Bad", "Bad", function() error("broken") end)`))
	item, _ := x.reg.Lookup("Bad")
	err = (&excmd.Event{Name: "Bad", Item: item}).Execute()
	require.ErrorContains(t, err, "broken")

	require.Error(t, x.Run(`vi.setline(99, "x")`))
	require.NoError(t, x.Run(`assert(vi.line(99) == nil)`))
}

func TestSourceReplacesCommands(t *testing.T) {
	x, _ := newTestEx(t)
	path := filepath.Join(t.TempDir(), "init.lua")

	write := func(body string) {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	write(`vi.command("Fo", "Foo", function() end)
vi.command("Ba", "Bar", function() end)`)
	require.NoError(t, x.Source(path))
	require.Equal(t, 2, x.reg.Len())
	item, _ := x.reg.Lookup("Foo")
	require.Equal(t, "lua:"+path, item.Source)

	write(`vi.command("Fo", "Foo", function() return "v2" end)`)
	require.NoError(t, x.Source(path))
	require.Equal(t, 1, x.reg.Len())
	_, ok := x.reg.Lookup("Bar")
	require.False(t, ok)

	require.Error(t, x.Source(filepath.Join(t.TempDir(), "missing.lua")))
}
