package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/vicore/internal/app"
	"github.com/dshills/vicore/internal/config"
	"github.com/dshills/vicore/internal/input/cmdline"
	"github.com/dshills/vicore/internal/input/exparse"
	"github.com/dshills/vicore/internal/input/history"
	"github.com/dshills/vicore/internal/logging"
)

// errCommandsFailed is returned when at least one command line failed. The
// failures themselves have already been shown.
var errCommandsFailed = errors.New("commands failed")

// globals holds the persistent flags.
type globals struct {
	configPath string
	logLevel   string
	noEnv      bool
}

// exFlags holds the flags of the root command.
type exFlags struct {
	commands []string
	keys     string
	yes      bool
}

func newRootCmd(version string) *cobra.Command {
	g := &globals{}
	ex := &exFlags{}
	root := &cobra.Command{
		Use:   "vicore [files...]",
		Short: "A line-oriented vi command interpreter",
		Long: `vicore runs Ex command lines against a set of buffers.

Commands come from --command, from --keys in vi key notation, or one per
line from standard input. Files named on the command line are loaded first;
the first becomes the current buffer.`,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEx(cmd, g, ex, args)
		},
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "",
		"config file (default: $XDG_CONFIG_HOME/vicore/config.toml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "",
		"log level: debug, info, warn or error (overrides the config)")
	root.PersistentFlags().BoolVar(&g.noEnv, "no-env", false,
		"ignore VICORE_* environment overrides")

	root.Flags().StringArrayVarP(&ex.commands, "command", "e", nil,
		"run an Ex command line (repeatable)")
	root.Flags().StringVarP(&ex.keys, "keys", "k", "",
		"type keys into the command line, e.g. '5d<CR>'")
	root.Flags().BoolVarP(&ex.yes, "yes", "y", false,
		"answer yes when asked to swap a backwards range")

	root.AddCommand(newParseCmd(g))
	root.AddCommand(newMatchCmd(g))
	root.AddCommand(newConfigCmd(g))
	return root
}

// loadConfig reads the config file named by --config, or the default one.
func (g *globals) loadConfig() (*config.Config, error) {
	path := g.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	var opts []config.Option
	if g.noEnv {
		opts = append(opts, config.WithoutEnv())
	}
	cfg, err := config.Load(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// logger builds the process logger. --log-level wins over the config.
func (g *globals) logger(cfg *config.Config, w io.Writer) *logging.Logger {
	lc := logging.DefaultConfig()
	lc.Output = w
	lc.Level = logging.ParseLevel(cfg.Logging.Level)
	if g.logLevel != "" {
		lc.Level = logging.ParseLevel(g.logLevel)
	}
	return logging.New(lc)
}

// openApp loads the configuration and boots an App on files.
func (g *globals) openApp(cmd *cobra.Command, files []string, confirm exparse.Confirmer) (*app.App, *logging.Logger, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := g.logger(cfg, cmd.ErrOrStderr())
	a, err := app.New(app.Options{
		Config:    cfg,
		Logger:    log,
		Notifier:  newConsole(cmd.OutOrStdout(), log),
		Confirmer: confirm,
		Files:     files,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := a.Boot(); err != nil {
		return nil, nil, err
	}
	return a, log, nil
}

// closeApp shuts a down, logging what could not be saved.
func closeApp(a *app.App, log *logging.Logger) {
	if err := a.Shutdown(); err != nil {
		log.Warn("%v", err)
	}
}

func runEx(cmd *cobra.Command, g *globals, ex *exFlags, files []string) error {
	var confirm exparse.Confirmer
	if ex.yes {
		confirm = exparse.AlwaysYes
	}
	a, log, err := g.openApp(cmd, files, confirm)
	if err != nil {
		return err
	}
	defer closeApp(a, log)

	line := cmdline.New(':', a.History(history.Colon))
	var lines []string
	for _, c := range ex.commands {
		lines = append(lines, accept(line, c))
	}
	if ex.keys != "" {
		strokes, err := cmdline.ParseKeys(ex.keys)
		if err != nil {
			return err
		}
		lines = append(lines, line.FeedAll(strokes)...)
	}
	if len(ex.commands) == 0 && ex.keys == "" {
		scanned, err := readLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
		for _, s := range scanned {
			lines = append(lines, accept(line, s))
		}
	}

	failed := 0
	for _, l := range lines {
		err := a.Execute(l)
		a.RunPending()
		if errors.Is(err, app.ErrQuit) {
			break
		}
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d", errCommandsFailed, failed)
	}
	return nil
}

// accept enters text on the command line as if typed and returns the
// accepted line, so it is recorded in the colon history.
func accept(line *cmdline.Line, text string) string {
	line.SetText(strings.TrimRight(text, "\r"))
	_, s := line.Feed(cmdline.Stroke{Key: cmdline.KeyEnter})
	return s
}
