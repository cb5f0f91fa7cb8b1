// Package config loads editor settings.
//
// Settings come from three places, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, normally ~/.config/vicore/config.toml, plus any files it
//     names under "@include"
//  3. VICORE_* environment variables, e.g. VICORE_EDITOR_TABSTOP=4 or
//     VICORE_LOG_LEVEL=debug
//
// The raw layers are read by the loader sub-package, merged as maps and
// then decoded into a Config. Unknown keys are rejected so that a typo in
// the file is reported instead of ignored.
//
// Example file:
//
//	[editor]
//	tabstop = 4
//	matchpairs = "(:),{:},[:],<:>"
//
//	[prefs]
//	backend = "sqlite"
//	path = "~/.local/state/vicore/prefs.db"
package config
