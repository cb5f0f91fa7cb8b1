package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/vicore/internal/app"
	"github.com/dshills/vicore/internal/engine/search"
)

var errNoMatch = errors.New("no match")

func newMatchCmd(g *globals) *cobra.Command {
	var (
		pair    string
		flags   string
		stop    int
		bracket string
	)
	cmd := &cobra.Command{
		Use:   "match <file> <line> [col]",
		Short: "Find the partner of a bracket or keyword pair",
		Long: `match loads file, puts the cursor at line and col and prints the
position of the match as line:col (both counted from 1).

Without flags it does what % does: brackets from 'matchpairs', C comments
and #if/#else/#endif. --bracket looks for the unmatched bracket around the
cursor, as [( does. --pair takes start,middle,end patterns (middle may be
empty) and searches for the partner the way searchpair() does.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("line: %w", err)
			}
			col := 1
			if len(args) == 3 {
				if col, err = strconv.Atoi(args[2]); err != nil {
					return fmt.Errorf("col: %w", err)
				}
			}

			a, log, err := g.openApp(cmd, args[:1], nil)
			if err != nil {
				return err
			}
			defer closeApp(a, log)
			a.SetCursor(line, col-1)

			found, err := findMatch(a, pair, bracket, flags, stop)
			if err != nil {
				return err
			}
			if !found {
				return errNoMatch
			}
			p := a.Cursor()
			fmt.Fprintf(cmd.OutOrStdout(), "%d:%d\n", p.Line(), p.Column()+1)
			return nil
		},
	}
	cmd.Flags().StringVar(&pair, "pair", "", "start,middle,end patterns for a pair search")
	cmd.Flags().StringVar(&flags, "flags", "", "pair search flags (b, W, r, m, c)")
	cmd.Flags().IntVar(&stop, "stop", 0, "line where a pair search gives up")
	cmd.Flags().StringVar(&bracket, "bracket", "", "find the unmatched ( [ { ) ] or } around the cursor")
	return cmd
}

func findMatch(a *app.App, pair, bracket, flags string, stop int) (bool, error) {
	switch {
	case pair != "":
		parts := strings.SplitN(pair, ",", 3)
		if len(parts) != 3 {
			return false, fmt.Errorf("--pair wants start,middle,end: %q", pair)
		}
		res, err := a.SearchPair(parts[0], parts[1], parts[2], strings.ReplaceAll(flags, "n", ""), stop)
		return res.Pos != nil, err
	case bracket != "":
		r := []rune(bracket)
		if len(r) != 1 || !strings.ContainsRune("([{)]}", r[0]) {
			return false, fmt.Errorf("--bracket wants one of ( [ { ) ] }: %q", bracket)
		}
		_, ok, err := a.FindBracket(r[0], search.Flags(0))
		return ok, err
	default:
		_, ok, err := a.MatchPair()
		return ok, err
	}
}
