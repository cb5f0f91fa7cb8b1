package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vicore/internal/input/excmd"
	"github.com/dshills/vicore/internal/logging"
)

// ModuleName is the name scripts require the editor module by.
const ModuleName = "vi"

// Host is the editor as seen from scripts.
type Host interface {
	// Execute parses and runs an Ex command line.
	Execute(line string) error
	// Message shows a message to the user.
	Message(msg string)
	CursorLine() int
	LineCount() int
	// Line returns the text of 1-based line n.
	Line(n int) (string, error)
	// SetLine replaces the text of line n.
	SetLine(n int, text string) error
}

// Ex connects a State to the command registry and the editor.
type Ex struct {
	state  *State
	bridge *Bridge
	reg    *excmd.Registry
	host   Host
	log    *logging.Logger

	// source tags commands registered by the script being run.
	source string
}

// NewEx installs the vi module into state.
func NewEx(state *State, reg *excmd.Registry, host Host, log *logging.Logger) *Ex {
	if log == nil {
		log = logging.Discard()
	}
	x := &Ex{
		state:  state,
		bridge: NewBridge(state.L),
		reg:    reg,
		host:   host,
		log:    log.WithComponent("lua"),
		source: "lua",
	}
	state.L.PreloadModule(ModuleName, x.loader)
	state.Sandbox().Allow(ModuleName)
	if err := state.DoString(fmt.Sprintf("%s = require(%q)", ModuleName, ModuleName)); err != nil {
		x.log.Error("install %s module: %v", ModuleName, err)
	}
	return x
}

// Source runs a script file. Commands it registered on a previous run are
// removed first.
func (x *Ex) Source(path string) error {
	source := "lua:" + path
	removed := x.reg.DeregisterBySource(source)
	x.log.WithField("file", path).Debug("sourcing, %d old commands removed", removed)
	return x.withSource(source, func() error { return x.state.DoFile(path) })
}

// Run executes a chunk of Lua, as the :lua command does.
func (x *Ex) Run(code string) error {
	return x.withSource("lua:chunk", func() error { return x.state.DoString(code) })
}

func (x *Ex) withSource(source string, fn func() error) error {
	prev := x.source
	x.source = source
	defer func() { x.source = prev }()
	return fn()
}

func (x *Ex) loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"command":   x.luaCommand,
		"execute":   x.luaExecute,
		"message":   x.luaMessage,
		"cursor":    x.luaCursor,
		"linecount": x.luaLineCount,
		"line":      x.luaLine,
		"setline":   x.luaSetLine,
	})
	L.Push(mod)
	return 1
}

// luaCommand implements vi.command(abbrev, name, fn [, flags]).
func (x *Ex) luaCommand(L *lua.LState) int {
	abbrev := L.CheckString(1)
	name := L.CheckString(2)
	fn := L.CheckFunction(3)
	flags, err := excmd.ParseFlags(L.OptString(4, ""))
	if err != nil {
		L.ArgError(4, err.Error())
		return 0
	}

	err = x.reg.RegisterItem(excmd.Item{
		Abbrev:  abbrev,
		Name:    name,
		Flags:   flags,
		Source:  x.source,
		Handler: x.handler(fn),
	})
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	x.log.WithField("source", x.source).Debug("registered %s (%s)", name, abbrev)
	return 0
}

// handler adapts a Lua function to an Ex command handler.
func (x *Ex) handler(fn *lua.LFunction) excmd.Handler {
	return func(ev *excmd.Event) error {
		ret, err := x.state.CallFunction(fn, x.eventTable(ev))
		if err != nil {
			return fmt.Errorf("%s: %w", ev.Name, err)
		}
		if s, ok := ret.(lua.LString); ok && s != "" {
			x.host.Message(string(s))
		}
		return nil
	}
}

func (x *Ex) eventTable(ev *excmd.Event) lua.LValue {
	args := ev.Args
	if args == nil {
		args = []string{}
	}
	return x.bridge.ToLuaValue(map[string]any{
		"name":  ev.Name,
		"line1": ev.Line1,
		"line2": ev.Line2,
		"range": ev.AddrCount,
		"bang":  ev.Bang,
		"arg":   ev.Expanded,
		"args":  args,
	})
}

// luaExecute implements vi.execute(line): true, or nil and the error text.
func (x *Ex) luaExecute(L *lua.LState) int {
	if err := x.host.Execute(L.CheckString(1)); err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (x *Ex) luaMessage(L *lua.LState) int {
	x.host.Message(x.bridge.Display(L.CheckAny(1)))
	return 0
}

func (x *Ex) luaCursor(L *lua.LState) int {
	L.Push(lua.LNumber(x.host.CursorLine()))
	return 1
}

func (x *Ex) luaLineCount(L *lua.LState) int {
	L.Push(lua.LNumber(x.host.LineCount()))
	return 1
}

func (x *Ex) luaLine(L *lua.LState) int {
	text, err := x.host.Line(L.CheckInt(1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(text))
	return 1
}

func (x *Ex) luaSetLine(L *lua.LState) int {
	if err := x.host.SetLine(L.CheckInt(1), L.CheckString(2)); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}
