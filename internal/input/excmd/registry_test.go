package excmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func nop(*Event) error { return nil }

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("s", "substitute", nop, Range))

	tests := []struct {
		name    string
		abbrev  string
		full    string
		handler Handler
		err     error
	}{
		{"duplicate abbreviation", "s", "set", nop, ErrNameConflict},
		{"duplicate name", "sub", "substitute", nop, ErrNameConflict},
		{"not a prefix", "x", "write", nop, ErrInvalidArgument},
		{"empty abbreviation", "", "write", nop, ErrInvalidArgument},
		{"empty name", "w", "", nop, ErrInvalidArgument},
		{"nil handler", "w", "write", nil, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.abbrev, tt.full, tt.handler, 0)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.err), "got %v", err)
			require.True(t, errors.Is(err, ErrInvalidArgument))

			var regErr *RegistrationError
			require.True(t, errors.As(err, &regErr))
			require.Equal(t, 1, r.Len(), "failed registration mutated the table")
		})
	}
}

func TestLookupAbbreviationOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("se", "set", nop, 0))
	require.NoError(t, r.Register("s", "substitute", nop, Range))

	tests := map[string]string{
		"s":          "substitute",
		"su":         "substitute",
		"substitute": "substitute",
		"se":         "set",
		"set":        "set",
	}
	for input, want := range tests {
		it, ok := r.Lookup(input)
		require.True(t, ok, input)
		require.Equal(t, want, it.Name, input)
	}

	for _, input := range []string{"", "x", "substitutes", "sets", "sx"} {
		_, ok := r.Lookup(input)
		require.False(t, ok, input)
	}
}

func TestLookupShortAbbreviationShadows(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("del", "delete", nop, 0))
	require.NoError(t, r.Register("d", "delmarks", nop, 0))

	// "del" is accepted by both; "d" sorts first and wins.
	it, ok := r.Lookup("del")
	require.True(t, ok)
	require.Equal(t, "delmarks", it.Name)

	it, ok = r.Lookup("dele")
	require.True(t, ok)
	require.Equal(t, "delete", it.Name)
}

func TestDeregister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("w", "write", nop, 0))
	require.NoError(t, r.RegisterItem(Item{Abbrev: "Hi", Name: "Hi", Handler: nop, Source: "lua:a.lua"}))
	require.NoError(t, r.RegisterItem(Item{Abbrev: "Bye", Name: "Bye", Handler: nop, Source: "lua:a.lua"}))

	require.True(t, r.Deregister("w"))
	require.False(t, r.Deregister("w"))
	_, ok := r.Lookup("write")
	require.False(t, ok)
	require.NoError(t, r.Register("w", "write", nop, 0), "name should be free again")

	require.Equal(t, 2, r.DeregisterBySource("lua:a.lua"))
	require.Equal(t, 1, r.Len())
}

func TestHasExactCommandAndComplete(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("b", "buffer", nop, 0))
	require.NoError(t, r.Register("bn", "bnext", nop, 0))
	require.NoError(t, r.Register("diffg", "diffget", nop, 0))
	require.NoError(t, r.Register("diff2", "diff2", nop, 0))

	require.True(t, r.HasExactCommand("diff2"))
	require.False(t, r.HasExactCommand("diff"))
	require.False(t, r.HasExactCommand("buf"))

	require.Equal(t, []string{"bnext", "buffer"}, r.Complete("b"))
	require.Equal(t, []string{"diff2", "diffget"}, r.Complete("diff"))
	require.Empty(t, r.Complete("z"))
}

func TestFlagsString(t *testing.T) {
	require.Equal(t, "RANGE|BANG", (Range | Bang).String())
	require.Equal(t, "0", Flags(0).String())
	require.True(t, (Range | XFile).Has(XFile))
	require.False(t, Range.Has(Range|Bang))

	for _, f := range []Flags{0, Range, Range | Bang | XFile, NoArgs | ZeroLine | ComplFn | NoParse} {
		got, err := ParseFlags(f.String())
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	got, err := ParseFlags("range, bang")
	require.NoError(t, err)
	require.Equal(t, Range|Bang, got)

	_, err = ParseFlags("RANGE|FAST")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEventExecute(t *testing.T) {
	called := false
	it := &Item{Abbrev: "p", Name: "print", Handler: func(ev *Event) error {
		called = ev.Line1 == 2
		return nil
	}}
	ev := &Event{Line1: 2, Line2: 2, AddrCount: 1, Item: it, Args: []string{"x"}}
	require.NoError(t, ev.Execute())
	require.True(t, called)
	require.True(t, ev.Resolved())
	require.True(t, ev.HasRange())
	require.Equal(t, "x", ev.Arg(0))
	require.Equal(t, "", ev.Arg(3))

	require.Error(t, (&Event{Name: "zz"}).Execute())
}

func TestRegistryInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry()
		n := rapid.IntRange(1, 40).Draw(t, "n")
		for i := 0; i < n; i++ {
			name := rapid.StringMatching(`[a-e]{1,6}`).Draw(t, "name")
			cut := rapid.IntRange(1, len(name)).Draw(t, "cut")
			abbrev := name[:cut]
			if rapid.IntRange(0, 9).Draw(t, "bad") == 0 {
				abbrev = "z" + abbrev
			}
			before := r.Len()
			if err := r.Register(abbrev, name, nop, 0); err != nil {
				if r.Len() != before {
					t.Fatalf("rejected registration changed the table")
				}
			}
		}

		items := r.Items()
		seenAbbrev := map[string]bool{}
		seenName := map[string]bool{}
		for i, it := range items {
			if !strings.HasPrefix(it.Name, it.Abbrev) {
				t.Fatalf("%q is not a prefix of %q", it.Abbrev, it.Name)
			}
			if seenAbbrev[it.Abbrev] || seenName[it.Name] {
				t.Fatalf("duplicate entry %q/%q", it.Abbrev, it.Name)
			}
			seenAbbrev[it.Abbrev], seenName[it.Name] = true, true
			if i > 0 && items[i-1].Abbrev >= it.Abbrev {
				t.Fatalf("entries out of order: %q >= %q", items[i-1].Abbrev, it.Abbrev)
			}
			// Every registered name resolves to some entry that accepts it.
			got, ok := r.Lookup(it.Name)
			if !ok || !strings.HasPrefix(it.Name, got.Abbrev) || !strings.HasPrefix(got.Name, it.Name) {
				t.Fatalf("lookup of %q failed", it.Name)
			}
		}
	})
}
