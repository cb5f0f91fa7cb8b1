package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs the CLI with a config file that does not exist, so the
// built-in defaults apply.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd("test")
	root.SetArgs(append(args, "--config="+filepath.Join(t.TempDir(), "none.toml"), "--no-env"))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func tempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExCommands(t *testing.T) {
	path := tempFile(t, "a\nb\nc\n")
	out, err := execute(t, "", "-e", "2d", "-e", "w", path)
	require.NoError(t, err)
	require.Equal(t, "a\nc\n", readBack(t, path))
	require.Contains(t, out, fmt.Sprintf("%q 2L written", path))
}

func TestExStdinStopsAtQuit(t *testing.T) {
	path := tempFile(t, "a\nb\nc\nd\n")
	_, err := execute(t, "1d\nw\nq\n1d\nw\n", path)
	require.NoError(t, err)
	require.Equal(t, "b\nc\nd\n", readBack(t, path))
}

func TestExKeys(t *testing.T) {
	path := tempFile(t, "a\nb\nc\n")
	_, err := execute(t, "", "--keys", "1d<CR><Up><CR>w<CR>", path)
	require.NoError(t, err)
	require.Equal(t, "c\n", readBack(t, path), "<Up> recalls the previous line")

	_, err = execute(t, "", "--keys", "<F13>", path)
	require.Error(t, err)
}

func TestExBackwardsRange(t *testing.T) {
	path := tempFile(t, "a\nb\nc\nd\n")
	_, err := execute(t, "", "-e", "3,1d", "-e", "w", path)
	require.ErrorIs(t, err, errCommandsFailed, "declined without --yes")
	require.Equal(t, "a\nb\nc\nd\n", readBack(t, path))

	_, err = execute(t, "", "--yes", "-e", "3,1d", "-e", "w", path)
	require.NoError(t, err)
	require.Equal(t, "d\n", readBack(t, path))
}

func TestExFailure(t *testing.T) {
	out, err := execute(t, "", "-e", "bogus", "-e", "p")
	require.ErrorIs(t, err, errCommandsFailed)
	require.Contains(t, out, "E492")
}

func TestParse(t *testing.T) {
	path := tempFile(t, "1\n2\n3\n")
	out, err := execute(t, "", "parse", "--file", path, "--line", "2", "1,.d", "bogus", ".,$s/x/y/")
	require.NoError(t, err)

	var got []parsed
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)

	require.Equal(t, "delete", got[0].Command)
	require.True(t, got[0].Resolved)
	require.Equal(t, [2]int{1, 2}, got[0].Range)
	require.Equal(t, 2, got[0].Addresses)
	require.Equal(t, "builtin", got[0].Source)

	require.False(t, got[1].Resolved)
	require.Equal(t, "E492", got[1].Code)

	require.Equal(t, "substitute", got[2].Command)
	require.Equal(t, [2]int{2, 3}, got[2].Range)
	require.Equal(t, "/x/y/", got[2].Arg)
}

func TestMatch(t *testing.T) {
	path := tempFile(t, "if (a[1]) {\n}\n")
	out, err := execute(t, "", "match", path, "1", "4")
	require.NoError(t, err)
	require.Equal(t, "1:9\n", out)

	out, err = execute(t, "", "match", path, "1", "11")
	require.NoError(t, err)
	require.Equal(t, "2:1\n", out)

	out, err = execute(t, "", "match", "--bracket", "(", path, "1", "7")
	require.NoError(t, err)
	require.Equal(t, "1:4\n", out)

	_, err = execute(t, "", "match", tempFile(t, "plain\n"), "1", "1")
	require.ErrorIs(t, err, errNoMatch)

	_, err = execute(t, "", "match", "--bracket", "x", path, "1", "1")
	require.Error(t, err)
}

func TestMatchPair(t *testing.T) {
	path := tempFile(t, "if x\n  if y\n  else\n  endif\nelse\nendif\n")
	out, err := execute(t, "", "match", `--pair=\bif\b,\belse\b,\bendif\b`, path, "1")
	require.NoError(t, err)
	require.Equal(t, "5:1\n", out)

	out, err = execute(t, "", "match", `--pair=\bif\b,,\bendif\b`, "--flags=b", path, "6")
	require.NoError(t, err)
	require.Equal(t, "1:1\n", out)

	_, err = execute(t, "", "match", "--pair=a,b", path, "1")
	require.Error(t, err)
}

func TestConfigCmd(t *testing.T) {
	out, err := execute(t, "", "config")
	require.NoError(t, err)
	require.Contains(t, out, "[editor]")
	require.Contains(t, out, "tabstop = 8")
}
