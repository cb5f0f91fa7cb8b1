package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/vicore/internal/input/history"
)

func TestSetBoolean(t *testing.T) {
	a := newTestApp(t, "")
	ed := &a.Config().Editor

	require.NoError(t, a.Execute("set et"))
	require.True(t, ed.ExpandTab)
	require.NoError(t, a.Execute("set noexpandtab"))
	require.False(t, ed.ExpandTab)
	require.NoError(t, a.Execute("set invet"))
	require.True(t, ed.ExpandTab)
	require.NoError(t, a.Execute("set et!"))
	require.False(t, ed.ExpandTab)
	require.NoError(t, a.Execute("set ws&"))
	require.True(t, ed.WrapScan)

	require.ErrorIs(t, a.Execute("set et=1"), ErrInvalidArgument)
}

func TestSetNumber(t *testing.T) {
	a := newTestApp(t, "x")
	ed := &a.Config().Editor

	require.NoError(t, a.Execute("set ts=4 sw=2"))
	require.Equal(t, 4, ed.TabStop)
	require.Equal(t, 2, ed.ShiftWidth)
	require.Equal(t, 4, a.Current().TabWidth(), "buffers follow tabstop")

	require.NoError(t, a.Execute("set sw+=2"))
	require.Equal(t, 4, ed.ShiftWidth)
	require.NoError(t, a.Execute("set sw-=1"))
	require.Equal(t, 3, ed.ShiftWidth)
	require.NoError(t, a.Execute("set sw^=2"))
	require.Equal(t, 6, ed.ShiftWidth)
	require.NoError(t, a.Execute("set ts&"))
	require.Equal(t, 8, ed.TabStop)

	require.ErrorIs(t, a.Execute("set ts=x"), ErrNumberRequired)
	require.ErrorIs(t, a.Execute("set ts=0"), ErrInvalidArgument)
	require.Equal(t, 8, ed.TabStop, "rejected values are rolled back")
	require.ErrorIs(t, a.Execute("set nots"), ErrUnknownOption)
}

func TestSetString(t *testing.T) {
	a := newTestApp(t, "")
	ed := &a.Config().Editor

	require.NoError(t, a.Execute("set sel=exclusive"))
	require.False(t, a.Config().Inclusive())
	require.ErrorIs(t, a.Execute("set sel=sideways"), ErrInvalidArgument)
	require.Equal(t, "exclusive", ed.Selection)

	require.NoError(t, a.Execute("set mps+=<:>"))
	require.Equal(t, "(:),{:},[:],<:>", ed.MatchPairs)
	require.NoError(t, a.Execute("set mps-=(:)"))
	require.Equal(t, "{:},[:],<:>", ed.MatchPairs)
	require.ErrorIs(t, a.Execute("set mps=<>"), ErrInvalidArgument)

	require.NoError(t, a.Execute("set cpo+=%"))
	require.Equal(t, "%", ed.CpOptions)
	require.NoError(t, a.Execute("set cpo-=%"))
	require.Equal(t, "", ed.CpOptions)
	require.ErrorIs(t, a.Execute("set cpo=x"), ErrInvalidArgument)

	require.NoError(t, a.Execute(`set sh=/bin/bash`))
	require.Equal(t, "/bin/bash", ed.Shell)
}

func TestSetMatchPairsChangesMatcher(t *testing.T) {
	a := newTestApp(t, "<a>")
	_, ok, err := a.MatchPair()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, a.Execute("set mps+=<:>"))
	a.SetCursor(1, 0)
	m, ok, err := a.MatchPair()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, m.Pos.Column())
}

func TestSetIgnoreCase(t *testing.T) {
	a := newTestApp(t, "x\nFOO")
	require.Error(t, a.Execute("/foo/"))
	require.NoError(t, a.Execute("set ic"))
	require.NoError(t, a.Execute("/foo/"))
	require.Equal(t, 2, a.CursorLine())
}

func TestSetHistory(t *testing.T) {
	a := newTestApp(t, "")
	h := a.History(history.Colon)
	for _, s := range []string{"a", "b", "c"} {
		h.Push(s)
	}
	require.NoError(t, a.Execute("set hi=2"))
	require.Equal(t, 2, h.Max())
	require.Equal(t, 2, h.Len())
}

func TestSetShow(t *testing.T) {
	a := newTestApp(t, "")
	require.NoError(t, a.Execute("set ts?"))
	require.Equal(t, "  tabstop=8", a.rec.Last())
	require.NoError(t, a.Execute("set sw"))
	require.Equal(t, "  shiftwidth=8", a.rec.Last())
	require.NoError(t, a.Execute("set et?"))
	require.Equal(t, "noexpandtab", a.rec.Last())

	a.rec.Reset()
	require.NoError(t, a.Execute("set"))
	require.Len(t, a.rec.Messages, len(options))
	require.Equal(t, "  cpoptions=", a.rec.Messages[0])

	require.ErrorIs(t, a.Execute("set bogus"), ErrUnknownOption)
}

func TestSplitOptionArg(t *testing.T) {
	tests := []struct {
		arg, name, op, value string
	}{
		{"ts", "ts", "", ""},
		{"ts=4", "ts", "=", "4"},
		{"ts:4", "ts", "=", "4"},
		{"sw+=2", "sw", "+=", "2"},
		{"cpo-=%", "cpo", "-=", "%"},
		{"et!", "et", "!", ""},
		{"et?", "et", "?", ""},
		{"et&", "et", "&", ""},
		{"sh=/bin/sh", "sh", "=", "/bin/sh"},
	}
	for _, tt := range tests {
		name, op, value := splitOptionArg(tt.arg)
		require.Equal(t, tt.name, name, tt.arg)
		require.Equal(t, tt.op, op, tt.arg)
		require.Equal(t, tt.value, value, tt.arg)
	}
}
