package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/vicore/internal/config/loader"
	"github.com/dshills/vicore/internal/engine/search"
	"github.com/dshills/vicore/internal/prefs"
)

// Config holds every setting.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	History HistoryConfig `toml:"history"`
	Prefs   PrefsConfig   `toml:"prefs"`
	Logging LoggingConfig `toml:"logging"`
	Lua     LuaConfig     `toml:"lua"`
}

// EditorConfig holds the buffer and command options.
type EditorConfig struct {
	TabStop    int  `toml:"tabstop"`
	ShiftWidth int  `toml:"shiftwidth"`
	ExpandTab  bool `toml:"expandtab"`
	// Selection is "inclusive" or "exclusive".
	Selection  string `toml:"selection"`
	MatchPairs string `toml:"matchpairs"`
	// CpOptions flags: '%' disables quote and comment awareness in bracket
	// matching, 'M' ignores backslashes before brackets.
	CpOptions  string `toml:"cpoptions"`
	WrapScan   bool   `toml:"wrapscan"`
	IgnoreCase bool   `toml:"ignorecase"`
	Shell      string `toml:"shell"`
}

// HistoryConfig holds the history sizes.
type HistoryConfig struct {
	Colon  int `toml:"colon"`
	Search int `toml:"search"`
}

// PrefsConfig selects where histories and file marks persist.
type PrefsConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// LuaConfig holds script settings.
type LuaConfig struct {
	// Init is a script sourced at startup. Empty means none.
	Init string `toml:"init"`
	// Timeout bounds one script execution, e.g. "5s". Zero disables it.
	Timeout string `toml:"timeout"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabStop:    8,
			ShiftWidth: 8,
			Selection:  "inclusive",
			MatchPairs: search.DefaultPairs,
			WrapScan:   true,
			Shell:      "/bin/sh",
		},
		History: HistoryConfig{Colon: 100, Search: 100},
		Prefs:   PrefsConfig{Backend: prefs.BackendMemory},
		Logging: LoggingConfig{Level: "info"},
		Lua:     LuaConfig{Timeout: "5s"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/vicore/config.toml, falling back to
// ~/.config/vicore/config.toml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vicore", "config.toml")
	}
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "vicore", "config.toml")
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs      loader.FileSystem
	env     loader.Loader
	noEnv   bool
	environ []string
}

// WithFileSystem reads the file and its includes through fsys.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) { o.fs = fsys }
}

// WithEnviron reads overrides from env, in os.Environ form, instead of the
// process environment.
func WithEnviron(env []string) Option {
	return func(o *options) { o.environ = env }
}

// WithoutEnv ignores environment overrides.
func WithoutEnv() Option {
	return func(o *options) { o.noEnv = true }
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. A missing file is not an error; an
// empty path skips the file.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS()}
	for _, opt := range opts {
		opt(&o)
	}

	merged := make(map[string]any)
	if path != "" {
		p, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("config path %s: %w", path, err)
		}
		file, err := loader.NewTOMLLoaderWithFS(o.fs, p).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.Overlay(merged, file)
	}

	if !o.noEnv {
		env := loader.NewEnvLoader(loader.DefaultEnvPrefix)
		if o.environ != nil {
			env = loader.NewEnvLoaderFrom(loader.DefaultEnvPrefix, o.environ)
		}
		vars, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("environment: %w", err)
		}
		merged = loader.Overlay(merged, vars)
	}

	cfg := Default()
	if err := cfg.apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply decodes a merged settings map over c.
func (c *Config) apply(m map[string]any) error {
	if len(m) == 0 {
		return nil
	}
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			keys := make([]string, 0, len(strict.Errors))
			for _, e := range strict.Errors {
				keys = append(keys, strings.Join(e.Key(), "."))
			}
			slices.Sort(keys)
			return &UnknownKeyError{Keys: keys}
		}
		return fmt.Errorf("decode settings: %w", err)
	}
	return nil
}

// Validate reports every unusable setting.
func (c *Config) Validate() error {
	var errs []error
	bad := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if c.Editor.TabStop <= 0 {
		bad("editor.tabstop", "must be positive", c.Editor.TabStop)
	}
	if c.Editor.ShiftWidth <= 0 {
		bad("editor.shiftwidth", "must be positive", c.Editor.ShiftWidth)
	}
	if c.Editor.Selection != "inclusive" && c.Editor.Selection != "exclusive" {
		bad("editor.selection", `must be "inclusive" or "exclusive"`, c.Editor.Selection)
	}
	if _, err := search.ParsePairs(c.Editor.MatchPairs); err != nil {
		bad("editor.matchpairs", err.Error(), c.Editor.MatchPairs)
	}
	if strings.Trim(c.Editor.CpOptions, "%M") != "" {
		bad("editor.cpoptions", "only '%' and 'M' are supported", c.Editor.CpOptions)
	}
	if c.Editor.Shell == "" {
		bad("editor.shell", "must not be empty", c.Editor.Shell)
	}
	if c.History.Colon <= 0 {
		bad("history.colon", "must be positive", c.History.Colon)
	}
	if c.History.Search <= 0 {
		bad("history.search", "must be positive", c.History.Search)
	}
	switch c.Prefs.Backend {
	case prefs.BackendMemory:
	case prefs.BackendYAML, prefs.BackendSQLite:
		if c.Prefs.Path == "" {
			bad("prefs.path", "required for the "+c.Prefs.Backend+" backend", c.Prefs.Path)
		}
	default:
		bad("prefs.backend", `must be "memory", "yaml" or "sqlite"`, c.Prefs.Backend)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		bad("logging.level", "unknown level", c.Logging.Level)
	}
	if _, err := c.LuaTimeout(); err != nil {
		bad("lua.timeout", err.Error(), c.Lua.Timeout)
	}
	return errors.Join(errs...)
}

// LuaTimeout parses Lua.Timeout. Empty means no limit.
func (c *Config) LuaTimeout() (time.Duration, error) {
	if c.Lua.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Lua.Timeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration")
	}
	return d, nil
}

// Inclusive reports whether visual selections include their last character.
func (c *Config) Inclusive() bool {
	return c.Editor.Selection != "exclusive"
}

// TOML encodes the settings as a config file would hold them.
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}
