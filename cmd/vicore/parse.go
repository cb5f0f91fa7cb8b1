package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/vicore/internal/input/excmd"
	"github.com/dshills/vicore/internal/input/exparse"
)

// parsed is the printable form of an inspected command line.
type parsed struct {
	Line      string   `yaml:"line"`
	Command   string   `yaml:"command,omitempty"`
	Typed     string   `yaml:"typed,omitempty"`
	Resolved  bool     `yaml:"resolved"`
	Bang      bool     `yaml:"bang,omitempty"`
	Range     [2]int   `yaml:"range,flow"`
	Addresses int      `yaml:"addresses"`
	Flags     string   `yaml:"flags,omitempty"`
	Source    string   `yaml:"source,omitempty"`
	Arg       string   `yaml:"arg,omitempty"`
	Expanded  string   `yaml:"expanded,omitempty"`
	Args      []string `yaml:"args,omitempty"`
	Error     string   `yaml:"error,omitempty"`
	Code      string   `yaml:"code,omitempty"`
}

func newParsed(ev *excmd.Event) parsed {
	p := parsed{
		Line:      ev.CommandLine,
		Command:   ev.Name,
		Typed:     ev.Typed,
		Resolved:  ev.Resolved(),
		Bang:      ev.Bang,
		Range:     [2]int{ev.Line1, ev.Line2},
		Addresses: ev.AddrCount,
		Arg:       ev.ArgString,
		Args:      ev.Args,
	}
	if ev.Expanded != ev.ArgString {
		p.Expanded = ev.Expanded
	}
	if ev.Item != nil {
		p.Flags = ev.Item.Flags.String()
		p.Source = ev.Item.Source
	}
	if ev.Err != nil {
		p.Error = ev.Err.Error()
		var pe *exparse.ParseError
		if errors.As(ev.Err, &pe) {
			p.Code = pe.Code
		}
	}
	return p
}

func newParseCmd(g *globals) *cobra.Command {
	var (
		files []string
		line  int
	)
	cmd := &cobra.Command{
		Use:   "parse <command-line>...",
		Short: "Show how command lines parse, without running them",
		Long: `parse resolves the range, command name and arguments of each command
line and prints the result as YAML. Nothing is executed; errors a line
would raise are reported in its "error" field.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := g.openApp(cmd, files, nil)
			if err != nil {
				return err
			}
			defer closeApp(a, log)
			if line > 0 {
				a.SetCursor(line, 0)
			}

			out := make([]parsed, 0, len(args))
			for _, s := range args {
				out = append(out, newParsed(a.Inspect(s)))
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "load a file first (repeatable)")
	cmd.Flags().IntVarP(&line, "line", "l", 0, "cursor line to resolve '.' against")
	return cmd
}
