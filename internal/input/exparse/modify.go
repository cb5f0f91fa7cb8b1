package exparse

import (
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
)

// PathEnv holds the directories path modifiers are relative to.
type PathEnv struct {
	Home string
	Cwd  string
}

// CurrentPathEnv returns the user's home and the working directory.
func CurrentPathEnv() PathEnv {
	home, _ := homedir.Dir()
	cwd, _ := os.Getwd()
	return PathEnv{Home: home, Cwd: cwd}
}

// ModifyPath applies the file name modifiers at the start of mods to fname.
// It returns the result and how many bytes of mods were consumed.
//
// Modifiers are applied in this order regardless of how they are written:
// :p, then any of :. and :~, then :h (repeatable), :t, then :e and :r
// (repeatable, each walking one more extension).
func ModifyPath(fname, mods string, env PathEnv) (string, int) {
	used := 0
	next := func() byte {
		if used+1 < len(mods) && mods[used] == ':' {
			return mods[used+1]
		}
		return 0
	}

	full := false
	if next() == 'p' {
		used += 2
		fname = env.fullName(fname)
		full = true
	}

	for c := next(); c == '.' || c == '~'; c = next() {
		used += 2
		p := fname
		if !full {
			if c == '.' && strings.HasPrefix(fname, "~") {
				p = env.expandHome(fname)
			} else {
				p = env.fullName(fname)
			}
		}
		full = false
		if c == '.' {
			if rel, ok := env.relative(p); ok {
				fname = rel
			}
		} else if rel, ok := env.homeRelative(p); ok {
			fname = rel
		}
	}

	// The result is fname[start:end]; tail is where the last component
	// of the current head begins.
	start, end := 0, len(fname)
	tail := tailIndex(fname)

	for next() == 'h' {
		used += 2
		head := pastHead(fname)
		for tail > head && fname[tail-1] == '/' {
			tail--
		}
		end = tail
		if end == 0 {
			fname, start, end, tail = ".", 0, 1, 0
			continue
		}
		for tail > head && fname[tail-1] != '/' {
			tail--
		}
	}

	if next() == 't' {
		used += 2
		start = tail
	}

	for c := next(); c == 'e' || c == 'r'; c = next() {
		used += 2
		var dot int
		if c == 'e' && start > tail {
			dot = start - 2
		} else {
			dot = end - 1
		}
		for ; dot > tail; dot-- {
			if fname[dot] == '.' {
				break
			}
		}
		if c == 'e' {
			if dot > tail {
				start = dot + 1
			} else if start <= tail {
				end = start
			}
		} else if dot > tail {
			end = dot
		}
	}
	return fname[start:end], used
}

func (env PathEnv) expandHome(fname string) string {
	if fname == "~" {
		return env.Home
	}
	if strings.HasPrefix(fname, "~/") && env.Home != "" {
		return filepath.Join(env.Home, fname[2:])
	}
	return fname
}

// fullName makes fname absolute. Directories get a trailing slash.
func (env PathEnv) fullName(fname string) string {
	fname = env.expandHome(fname)
	if !filepath.IsAbs(fname) {
		fname = filepath.Join(env.Cwd, fname)
	}
	fname = filepath.Clean(fname)
	if fi, err := os.Stat(fname); err == nil && fi.IsDir() && !strings.HasSuffix(fname, "/") {
		fname += "/"
	}
	return fname
}

func (env PathEnv) relative(p string) (string, bool) {
	dir := env.Cwd
	switch {
	case dir == "":
		return "", false
	case dir == "/":
		return p[1:], strings.HasPrefix(p, "/")
	case strings.HasPrefix(p, dir) && len(p) > len(dir) && p[len(dir)] == '/':
		return p[len(dir)+1:], true
	}
	return "", false
}

func (env PathEnv) homeRelative(p string) (string, bool) {
	home := strings.TrimSuffix(env.Home, "/")
	switch {
	case home == "":
		return "", false
	case p == home:
		return "~", true
	case strings.HasPrefix(p, home+"/"):
		return "~" + p[len(home):], true
	}
	return "", false
}

// pastHead skips the leading separators.
func pastHead(fname string) int {
	i := 0
	for i < len(fname) && fname[i] == '/' {
		i++
	}
	return i
}

// tailIndex returns where the last path component starts.
func tailIndex(fname string) int {
	head := pastHead(fname)
	if i := strings.LastIndexByte(fname[head:], '/'); i >= 0 {
		return head + i + 1
	}
	return head
}
