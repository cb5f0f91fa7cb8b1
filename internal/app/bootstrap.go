package app

import (
	"github.com/mitchellh/go-homedir"

	"github.com/dshills/vicore/internal/config"
	"github.com/dshills/vicore/internal/engine/buffer"
	"github.com/dshills/vicore/internal/engine/search"
	"github.com/dshills/vicore/internal/input/excmd"
	"github.com/dshills/vicore/internal/input/exparse"
	"github.com/dshills/vicore/internal/input/history"
	"github.com/dshills/vicore/internal/logging"
	"github.com/dshills/vicore/internal/plugin/lua"
	"github.com/dshills/vicore/internal/prefs"
)

// bootstrap creates the components in dependency order.
func (a *App) bootstrap(log *logging.Logger, opts Options) error {
	cfg := a.cfg

	// 1. Buffers and file marks
	a.buffers = buffer.NewList(nil, log, buffer.WithTabWidth(cfg.Editor.TabStop))
	scratch := buffer.NewBuffer(buffer.WithTabWidth(cfg.Editor.TabStop), buffer.WithLogger(log))
	a.buffers.Add(scratch)
	a.buffers.SetCurrent(scratch)

	// 2. Search
	a.patterns = search.NewPatterns()
	a.patterns.SetIgnoreCase(cfg.Editor.IgnoreCase)
	if err := a.rebuildMatcher(); err != nil {
		return NewOperationError("init", "matcher", err)
	}

	// 3. Histories
	hopts := []history.Option{history.WithNotifier(a.later), history.WithLogger(log)}
	a.colon = history.New(history.Colon, cfg.History.Colon, hopts...)
	a.searches = history.New(history.Search, cfg.History.Search, hopts...)

	// 4. Commands and parser
	a.reg = excmd.NewRegistry()
	if err := a.registerBuiltins(); err != nil {
		return NewOperationError("init", "commands", err)
	}
	popts := []exparse.Option{
		exparse.WithNotifier(a.later),
		exparse.WithLogger(log),
		exparse.WithConfirmer(opts.Confirmer),
	}
	if opts.PathEnv != nil {
		popts = append(popts, exparse.WithPathEnv(*opts.PathEnv))
	}
	a.parser = exparse.New(a.reg, a, popts...)

	// 5. Lua
	timeout, err := cfg.LuaTimeout()
	if err != nil {
		return NewOperationError("init", "lua", err)
	}
	a.lua = lua.NewState(lua.WithExecutionTimeout(timeout), lua.WithLogger(log))
	a.ex = lua.NewEx(a.lua, a.reg, a, log)
	return nil
}

// rebuildMatcher applies the matchpairs and cpoptions settings.
func (a *App) rebuildMatcher() error {
	pairs, err := search.ParsePairs(a.cfg.Editor.MatchPairs)
	if err != nil {
		return err
	}
	a.matcher = search.NewMatcher(matchOptions(pairs, a.cfg.Editor.CpOptions))
	return nil
}

func matchOptions(pairs []search.Pair, cpo string) search.Options {
	opts := search.Options{Pairs: pairs}
	for _, c := range cpo {
		switch c {
		case '%':
			opts.CpoMatch = true
		case 'M':
			opts.CpoMatchBSL = true
		}
	}
	return opts
}

func openStore(pc config.PrefsConfig) (prefs.Store, error) {
	return prefs.Open(pc.Backend, expandHome(pc.Path))
}

func expandHome(path string) string {
	p, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return p
}
