// Package app wires the editor core together: buffers, marks, search,
// history, the Ex command registry and parser, Lua scripts and the
// preference store. An App is used from one goroutine, the way a single
// editor window is driven by its input loop.
package app

import (
	"errors"

	"github.com/dshills/vicore/internal/config"
	"github.com/dshills/vicore/internal/engine/buffer"
	"github.com/dshills/vicore/internal/engine/search"
	"github.com/dshills/vicore/internal/input/excmd"
	"github.com/dshills/vicore/internal/input/exparse"
	"github.com/dshills/vicore/internal/input/history"
	"github.com/dshills/vicore/internal/logging"
	"github.com/dshills/vicore/internal/notify"
	"github.com/dshills/vicore/internal/plugin/lua"
	"github.com/dshills/vicore/internal/prefs"
)

// App is the process-wide editor context.
type App struct {
	cfg *config.Config
	log *logging.Logger

	// out shows messages immediately; later delivers through queue.
	out   notify.Notifier
	queue *notify.Queue
	later notify.Notifier

	store     prefs.Store
	ownsStore bool

	buffers  *buffer.List
	cursors  map[*buffer.Buffer]*buffer.Mark
	patterns *search.Patterns
	matcher  *search.Matcher

	colon    *history.History
	searches *history.History

	reg    *excmd.Registry
	parser *exparse.Parser

	lua *lua.State
	ex  *lua.Ex

	shell     ShellFunc
	lastShell string
	lastSub   *substitution
	depth     int

	files  []string
	booted bool
}

// Options configures an App.
type Options struct {
	// Config holds the settings. Nil means config.Default().
	Config *config.Config
	// Logger receives diagnostics. Nil discards them.
	Logger *logging.Logger
	// Notifier shows beeps and messages to the user. Nil drops them.
	Notifier notify.Notifier
	// Confirmer answers the backwards range question. Nil declines.
	Confirmer exparse.Confirmer
	// Store overrides the store selected by Config.Prefs.
	Store prefs.Store
	// Files are opened by Boot; the first becomes the current buffer.
	Files []string
	// PathEnv fixes the home and working directory used by path modifiers.
	PathEnv *exparse.PathEnv
	// Shell runs shell commands. Nil runs them with Config.Editor.Shell.
	Shell ShellFunc
}

// New creates an App with one empty, unnamed buffer.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewOperationError("init", "config", err)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	out := opts.Notifier
	if out == nil {
		out = notify.Discard
	}

	a := &App{
		cfg:     cfg,
		log:     log.WithComponent("app"),
		out:     out,
		queue:   notify.NewQueue(),
		store:   opts.Store,
		cursors: make(map[*buffer.Buffer]*buffer.Mark),
		shell:   opts.Shell,
		files:   opts.Files,
	}
	a.later = notify.Deferred(out, a.queue)
	if a.shell == nil {
		a.shell = systemShell(func() string { return a.cfg.Editor.Shell })
	}
	if err := a.bootstrap(log, opts); err != nil {
		return nil, err
	}
	return a, nil
}

// Config returns the live settings. :set changes them.
func (a *App) Config() *config.Config { return a.cfg }

// Buffers returns the buffer list.
func (a *App) Buffers() *buffer.List { return a.buffers }

// Current returns the current buffer. There always is one.
func (a *App) Current() *buffer.Buffer { return a.buffers.Current() }

// Registry returns the Ex command registry.
func (a *App) Registry() *excmd.Registry { return a.reg }

// Parser returns the Ex parser.
func (a *App) Parser() *exparse.Parser { return a.parser }

// Patterns returns the search pattern cache.
func (a *App) Patterns() *search.Patterns { return a.patterns }

// History returns the history of the given kind.
func (a *App) History(kind history.Kind) *history.History {
	if kind == history.Search {
		return a.searches
	}
	return a.colon
}

// Lua returns the script state.
func (a *App) Lua() *lua.State { return a.lua }

// Boot loads persisted histories and file marks, opens the initial files
// and runs the Lua init script. A failing init script is reported but does
// not fail Boot.
func (a *App) Boot() error {
	if a.booted {
		return nil
	}
	if a.store == nil {
		store, err := openStore(a.cfg.Prefs)
		if err != nil {
			return NewOperationError("boot", "prefs", err)
		}
		a.store = store
		a.ownsStore = true
	}

	var errs ErrorList
	errs.Add(a.colon.Load(a.store))
	errs.Add(a.searches.Load(a.store))
	errs.Add(a.buffers.Filemarks().Load(a.store))
	if errs.Len() > 0 {
		return NewOperationError("boot", "prefs", errs.AsError())
	}

	if len(a.files) > 0 {
		scratch := a.Current()
		for i, f := range a.files {
			b, err := a.buffers.Open(f)
			if err != nil {
				return NewOperationError("open", f, err)
			}
			if i == 0 {
				a.buffers.SetCurrent(b)
			}
		}
		if scratch.Name() == "" && !scratch.Modified() {
			a.closeBuffer(scratch)
		}
	}

	if init := a.cfg.Lua.Init; init != "" {
		if err := a.ex.Source(expandHome(init)); err != nil {
			a.log.WithField("file", init).Error("init script: %v", err)
			a.out.Message(err.Error())
		}
	}
	a.booted = true
	a.log.Info("booted with %d buffers, %d commands", len(a.buffers.Buffers()), a.reg.Len())
	return nil
}

// Shutdown saves histories and file marks, closes every buffer, the store
// and the Lua state. It reports every failure.
func (a *App) Shutdown() error {
	var errs ErrorList
	if a.store != nil {
		errs.Add(a.colon.Save(a.store))
		errs.Add(a.searches.Save(a.store))
	}
	for b := range a.cursors {
		delete(a.cursors, b)
	}
	// Closing detaches live file marks, leaving their last positions.
	a.buffers.CloseAll()
	if a.store != nil {
		errs.Add(a.buffers.Filemarks().Save(a.store))
		if a.ownsStore {
			errs.Add(a.store.Close())
		}
	}
	errs.Add(a.lua.Close())
	a.booted = false
	if err := errs.AsError(); err != nil {
		return NewOperationError("shutdown", "", err)
	}
	return nil
}

// Execute parses and runs one Ex command line. Command errors are shown
// through the notifier at once; parse errors are queued and shown by the next
// RunPending. Both are returned. ErrQuit is returned for :quit.
func (a *App) Execute(line string) error {
	ev, err := a.parser.ParseForExecution(line)
	if err != nil {
		return err
	}
	return a.dispatch(ev)
}

// Inspect parses line without side effects.
func (a *App) Inspect(line string) *excmd.Event {
	return a.parser.ParseForInspection(line)
}

// RunPending runs notifications queued for later delivery and returns how
// many ran.
func (a *App) RunPending() int {
	return a.queue.Drain()
}

// Later returns the notifier whose deliveries wait for RunPending.
func (a *App) Later() notify.Notifier { return a.later }

// dispatch runs ev and shows its error.
func (a *App) dispatch(ev *excmd.Event) error {
	err := a.run(ev)
	if err != nil && !errors.Is(err, ErrQuit) {
		a.out.Message(err.Error())
	}
	return err
}

// run executes ev. An event without a command moves the cursor to Line2.
func (a *App) run(ev *excmd.Event) error {
	if ev.Name == "" {
		if ev.AddrCount > 0 {
			a.jump(ev.Line2)
		}
		return nil
	}
	a.log.WithField("cmd", ev.Name).Debug("range %d,%d (%d addresses)", ev.Line1, ev.Line2, ev.AddrCount)
	return ev.Execute()
}

// Message shows msg to the user.
func (a *App) Message(msg string) {
	a.out.Message(msg)
}

// Beep signals the user.
func (a *App) Beep() {
	a.out.Beep()
}
