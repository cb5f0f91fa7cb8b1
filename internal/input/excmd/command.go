package excmd

import (
	"fmt"
	"strings"
)

// Flags describe what a command accepts.
type Flags uint16

const (
	// NoArgs rejects trailing arguments.
	NoArgs Flags = 1 << iota
	// NoParse passes the argument text verbatim as a single argument.
	NoParse
	// Range accepts a line range.
	Range
	// Bang accepts a trailing '!'.
	Bang
	// XFile expands %, # and ! in the arguments before execution.
	XFile
	// ComplFn asks the command-line UI to complete file names.
	ComplFn
	// ZeroLine accepts line 0 in the range.
	ZeroLine
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{NoArgs, "NO_ARGS"},
	{NoParse, "NO_PARSE"},
	{Range, "RANGE"},
	{Bang, "BANG"},
	{XFile, "XFILE"},
	{ComplFn, "COMPL_FN"},
	{ZeroLine, "ZERO_LINE"},
}

// Has reports whether all of other are set.
func (f Flags) Has(other Flags) bool { return f&other == other }

// String returns the set flags joined by '|'.
func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// ParseFlags parses names joined by '|' or ',' as printed by String.
// Names are case-insensitive; "0" and "" mean no flags.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		name := strings.ToUpper(strings.TrimSpace(part))
		if name == "" || name == "0" {
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: unknown flag %q", ErrInvalidArgument, part)
		}
	}
	return f, nil
}

// Handler executes a parsed command.
type Handler func(ev *Event) error

// Item is a registered command. Items are immutable once registered.
type Item struct {
	Abbrev  string
	Name    string
	Handler Handler
	Flags   Flags
	// Source names the registrant, e.g. "builtin" or "lua:init.lua".
	Source string
}

// Event is the result of parsing one command line.
type Event struct {
	// Line1 and Line2 are the resolved range. Both are the cursor line when
	// no address was given.
	Line1, Line2 int
	// AddrCount is the number of addresses given; '%' counts as one.
	AddrCount int

	// Name is the full command name, or the typed name when unresolved.
	Name string
	// Typed is the command name as typed, without '!'.
	Typed string
	Bang  bool

	// CommandLine is the raw line that was parsed.
	CommandLine string
	// ArgString is the text after the command name.
	ArgString string
	// Expanded is ArgString after file name expansion.
	Expanded string
	Args     []string

	// Item is the registry entry; nil when the name did not resolve.
	Item *Item
	// Err is set by inspection parsing when the line would fail to execute.
	Err error
}

// Resolved reports whether the command name matched a registered command.
func (e *Event) Resolved() bool { return e.Item != nil }

// HasRange reports whether any address was given.
func (e *Event) HasRange() bool { return e.AddrCount > 0 }

// Arg returns argument i, or "".
func (e *Event) Arg(i int) string {
	if i < 0 || i >= len(e.Args) {
		return ""
	}
	return e.Args[i]
}

// Execute runs the event's handler.
func (e *Event) Execute() error {
	if e.Item == nil || e.Item.Handler == nil {
		return &RegistrationError{Name: e.Name, Reason: "no handler", Err: ErrInvalidArgument}
	}
	return e.Item.Handler(e)
}
