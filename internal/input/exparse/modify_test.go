package exparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModifyPath(t *testing.T) {
	env := PathEnv{Home: "/home/user", Cwd: "/home/user/project"}
	const long = "/home/user/project/file.tar.gz"

	tests := []struct {
		fname, mods string
		want        string
		used        int
	}{
		{long, ":t", "file.tar.gz", 2},
		{long, ":t:e", "gz", 4},
		{long, ":t:r:r", "file", 6},
		{long, ":e:e", "tar.gz", 4},
		{long, ":e:e:e", "tar.gz", 6},
		{long, ":r:e", "tar", 4},
		{long, ":h", "/home/user/project", 2},
		{long, ":h:t", "project", 4},
		{long, ":~", "~/project/file.tar.gz", 2},
		{long, ":.", "file.tar.gz", 2},
		{long, ":~:h", "~/project", 4},
		{"/a/b/c", ":h", "/a/b", 2},
		{"/a/b/c", ":h:h", "/a", 4},
		{"/a/b/c", ":h:h:h", "/", 6},
		{"c", ":h", ".", 2},
		{"c", ":h:h", ".", 4},
		{"src/main.go", ":p", "/home/user/project/src/main.go", 2},
		{"src/main.go", ":p:h", "/home/user/project/src", 4},
		{"src/main.go", ":~", "~/project/src/main.go", 2},
		{"~/notes.md", ":.", "~/notes.md", 2},
		{"/etc/hosts", ":.", "/etc/hosts", 2},
		{"/etc/hosts", ":~", "/etc/hosts", 2},
		{".bashrc", ":e", "", 2},
		{".bashrc", ":r", ".bashrc", 2},
		{"README", ":e", "", 2},
		{"dir.d/file", ":e", "", 2},
		{"main.go", "", "main.go", 0},
		{"main.go", ":x", "main.go", 0},
		{"main.go", ":r.bak", "main", 2},
		{"main.go", ":t:t", "main.go", 2},
	}
	for _, tt := range tests {
		t.Run(tt.fname+tt.mods, func(t *testing.T) {
			got, used := ModifyPath(tt.fname, tt.mods, env)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.used, used)
		})
	}
}

func TestModifyPathEmptyNameWithFullHead(t *testing.T) {
	dir := t.TempDir()
	got, used := ModifyPath("", ":p:h", PathEnv{Cwd: dir})
	require.Equal(t, dir, got)
	require.Equal(t, 4, used)
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in   string
		want FileSelector
		n    int
	}{
		{"%", FileSelector{Kind: FileCurrent}, 1},
		{"%:p", FileSelector{Kind: FileCurrent}, 1},
		{"#", FileSelector{Kind: FileAlternate}, 1},
		{"#12:t", FileSelector{Kind: FileNumber, N: 12}, 3},
		{"#-3", FileSelector{Kind: FileRecent, N: 3}, 3},
		{"#-x", FileSelector{Kind: FileAlternate}, 1},
	}
	for _, tt := range tests {
		sel, n := parseSelector(tt.in)
		require.Equal(t, tt.want, sel, tt.in)
		require.Equal(t, tt.n, n, tt.in)
		require.NotEmpty(t, sel.String())
	}
}

func TestSplitArgs(t *testing.T) {
	require.Nil(t, splitArgs("   "))
	require.Equal(t, []string{"a", "b"}, splitArgs("  a \t b "))
	require.Equal(t, []string{"a b"}, splitArgs(`a\ b`))
	require.Equal(t, []string{`a\b`}, splitArgs(`a\b`))
}
