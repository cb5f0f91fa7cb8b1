package search

import (
	"fmt"
	"strings"
)

// Pair is one open/close entry of the matchpairs option.
type Pair struct {
	Open  rune
	Close rune
}

// DefaultPairs is the default matchpairs value.
const DefaultPairs = "(:),{:},[:]"

// ParsePairs parses a matchpairs value such as "(:),{:},[:]".
func ParsePairs(s string) ([]Pair, error) {
	if s == "" {
		return nil, nil
	}
	var pairs []Pair
	for _, item := range strings.Split(s, ",") {
		r := []rune(item)
		if len(r) != 3 || r[1] != ':' || r[0] == r[2] {
			return nil, fmt.Errorf("%w: %q", ErrBadMatchPairs, item)
		}
		pairs = append(pairs, Pair{Open: r[0], Close: r[2]})
	}
	return pairs, nil
}

// lookup resolves c against the pairs. With switchit false, c is the bracket
// under the cursor and the partner is searched for. With switchit true, c is
// an explicitly requested bracket and the search looks for an unmatched c,
// so the roles are reversed: [( searches backward for an unmatched '('.
func lookup(pairs []Pair, c rune, switchit bool) (initc, findc rune, backwards bool) {
	for _, p := range pairs {
		switch c {
		case p.Open:
			if switchit {
				return p.Close, p.Open, true
			}
			return p.Open, p.Close, false
		case p.Close:
			if switchit {
				return p.Open, p.Close, false
			}
			return p.Close, p.Open, true
		}
	}
	return c, 0, false
}
