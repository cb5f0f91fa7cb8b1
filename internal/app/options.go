package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/vicore/internal/config"
	"github.com/dshills/vicore/internal/input/excmd"
)

type optionKind uint8

const (
	boolOption optionKind = iota
	numberOption
	stringOption
)

// option is one :set option. ref returns a pointer into the config: *bool,
// *int or *string depending on kind. apply pushes a changed value to the
// components that cache it.
type option struct {
	name, short string
	kind        optionKind
	ref         func(c *config.Config) any
	apply       func(a *App) error
}

var options = []option{
	{"cpoptions", "cpo", stringOption, func(c *config.Config) any { return &c.Editor.CpOptions }, (*App).rebuildMatcher},
	{"expandtab", "et", boolOption, func(c *config.Config) any { return &c.Editor.ExpandTab }, nil},
	{"history", "hi", numberOption, func(c *config.Config) any { return &c.History.Colon }, (*App).applyHistory},
	{"ignorecase", "ic", boolOption, func(c *config.Config) any { return &c.Editor.IgnoreCase }, (*App).applyIgnoreCase},
	{"matchpairs", "mps", stringOption, func(c *config.Config) any { return &c.Editor.MatchPairs }, (*App).rebuildMatcher},
	{"selection", "sel", stringOption, func(c *config.Config) any { return &c.Editor.Selection }, nil},
	{"shell", "sh", stringOption, func(c *config.Config) any { return &c.Editor.Shell }, nil},
	{"shiftwidth", "sw", numberOption, func(c *config.Config) any { return &c.Editor.ShiftWidth }, nil},
	{"tabstop", "ts", numberOption, func(c *config.Config) any { return &c.Editor.TabStop }, (*App).applyTabStop},
	{"wrapscan", "ws", boolOption, func(c *config.Config) any { return &c.Editor.WrapScan }, nil},
}

func lookupOption(name string) *option {
	for i := range options {
		if options[i].name == name || options[i].short == name {
			return &options[i]
		}
	}
	return nil
}

// cmdSet implements :se[t] {option}... Each argument is one of
// "opt", "noopt", "invopt", "opt!", "opt?", "opt&", "opt=val", "opt+=val"
// and "opt-=val". Without arguments, or with "all", every option is shown.
func (a *App) cmdSet(ev *excmd.Event) error {
	if len(ev.Args) == 0 || (len(ev.Args) == 1 && ev.Args[0] == "all") {
		for i := range options {
			a.out.Message(a.showOption(&options[i]))
		}
		return nil
	}
	for _, arg := range ev.Args {
		if err := a.setOption(arg); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) setOption(arg string) error {
	name, op, value := splitOptionArg(arg)

	opt := lookupOption(name)
	prefix := ""
	if opt == nil && op == "" {
		for _, p := range []string{"no", "inv"} {
			if rest, ok := strings.CutPrefix(name, p); ok {
				if o := lookupOption(rest); o != nil && o.kind == boolOption {
					opt, prefix = o, p
					break
				}
			}
		}
	}
	if opt == nil {
		return commandError(ErrUnknownOption, arg)
	}

	if op == "?" || (op == "" && prefix == "" && opt.kind != boolOption) {
		a.out.Message(a.showOption(opt))
		return nil
	}

	old := a.snapshotOption(opt)
	if err := a.assignOption(opt, prefix, op, value, arg); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		a.restoreOption(opt, old)
		return commandError(ErrInvalidArgument, arg)
	}
	if opt.apply != nil {
		if err := opt.apply(a); err != nil {
			a.restoreOption(opt, old)
			return commandError(ErrInvalidArgument, arg)
		}
	}
	a.log.WithField("option", opt.name).Debug("set to %s", a.formatOption(opt))
	return nil
}

// splitOptionArg splits "name+=value" into its parts. op is one of "", "!",
// "?", "&", "=", "+=", "-=" and "^=".
func splitOptionArg(arg string) (name, op, value string) {
	i := strings.IndexAny(arg, "=:!?&+-^")
	if i < 0 {
		return arg, "", ""
	}
	name, rest := arg[:i], arg[i:]
	switch {
	case rest[0] == '=' || rest[0] == ':':
		return name, "=", rest[1:]
	case len(rest) >= 2 && rest[1] == '=' && strings.ContainsRune("+-^", rune(rest[0])):
		return name, rest[:2], rest[2:]
	case len(rest) == 1 && strings.ContainsRune("!?&", rune(rest[0])):
		return name, rest, ""
	}
	return arg, "", ""
}

func (a *App) assignOption(opt *option, prefix, op, value, arg string) error {
	switch ref := opt.ref(a.cfg).(type) {
	case *bool:
		switch {
		case op == "&":
			*ref = *opt.ref(config.Default()).(*bool)
		case op == "!" || prefix == "inv":
			*ref = !*ref
		case op != "":
			return commandError(ErrInvalidArgument, arg)
		default:
			*ref = prefix == ""
		}
	case *int:
		if op == "&" {
			*ref = *opt.ref(config.Default()).(*int)
			return nil
		}
		if op == "" || op == "!" || prefix != "" {
			return commandError(ErrInvalidArgument, arg)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return commandError(ErrNumberRequired, arg)
		}
		switch op {
		case "=":
			*ref = n
		case "+=":
			*ref += n
		case "-=":
			*ref -= n
		case "^=":
			*ref *= n
		}
	case *string:
		switch op {
		case "&":
			*ref = *opt.ref(config.Default()).(*string)
		case "=":
			*ref = value
		case "+=":
			*ref = joinFlags(*ref, value, opt)
		case "-=":
			*ref = removeFlags(*ref, value, opt)
		case "^=":
			*ref = joinFlags(value, *ref, opt)
		default:
			return commandError(ErrInvalidArgument, arg)
		}
	}
	return nil
}

// Comma separated options (matchpairs) join with commas; flag lists
// (cpoptions) are plain strings.
func joinFlags(a, b string, opt *option) string {
	if opt.name == "matchpairs" && a != "" && b != "" {
		return a + "," + b
	}
	return a + b
}

func removeFlags(s, remove string, opt *option) string {
	if opt.name != "matchpairs" {
		return strings.ReplaceAll(s, remove, "")
	}
	var kept []string
	for _, item := range strings.Split(s, ",") {
		if item != remove {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, ",")
}

func (a *App) snapshotOption(opt *option) any {
	switch ref := opt.ref(a.cfg).(type) {
	case *bool:
		return *ref
	case *int:
		return *ref
	case *string:
		return *ref
	}
	return nil
}

func (a *App) restoreOption(opt *option, v any) {
	switch ref := opt.ref(a.cfg).(type) {
	case *bool:
		*ref = v.(bool)
	case *int:
		*ref = v.(int)
	case *string:
		*ref = v.(string)
	}
}

func (a *App) formatOption(opt *option) string {
	switch ref := opt.ref(a.cfg).(type) {
	case *bool:
		return strconv.FormatBool(*ref)
	case *int:
		return strconv.Itoa(*ref)
	case *string:
		return *ref
	}
	return ""
}

func (a *App) showOption(opt *option) string {
	switch ref := opt.ref(a.cfg).(type) {
	case *bool:
		if *ref {
			return "  " + opt.name
		}
		return "no" + opt.name
	default:
		return fmt.Sprintf("  %s=%s", opt.name, a.formatOption(opt))
	}
}

func (a *App) applyTabStop() error {
	for _, b := range a.buffers.Buffers() {
		b.SetTabWidth(a.cfg.Editor.TabStop)
	}
	return nil
}

func (a *App) applyIgnoreCase() error {
	a.patterns.SetIgnoreCase(a.cfg.Editor.IgnoreCase)
	return nil
}

func (a *App) applyHistory() error {
	a.colon.SetMax(a.cfg.History.Colon)
	return nil
}
