package search

import (
	"fmt"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/dshills/vicore/internal/engine/buffer"
)

const (
	patternExpiration = 10 * time.Minute
	patternCleanup    = 30 * time.Minute

	// DefaultMatchTimeout bounds a single regular expression match.
	DefaultMatchTimeout = 2 * time.Second
)

// Patterns compiles and caches search patterns and remembers the last one
// used.
type Patterns struct {
	cache      *gocache.Cache
	timeout    time.Duration
	mu         sync.Mutex
	ignoreCase bool
	last       string
}

// NewPatterns creates an empty pattern cache.
func NewPatterns() *Patterns {
	return &Patterns{
		cache:   gocache.New(patternExpiration, patternCleanup),
		timeout: DefaultMatchTimeout,
	}
}

// SetIgnoreCase selects case-insensitive compilation for later patterns.
func (p *Patterns) SetIgnoreCase(v bool) {
	p.mu.Lock()
	p.ignoreCase = v
	p.mu.Unlock()
}

// Compile compiles pat, reusing a cached expression when possible.
// Patterns are multi-line: ^ and $ match at line boundaries.
func (p *Patterns) Compile(pat string) (*regexp2.Regexp, error) {
	p.mu.Lock()
	opts := regexp2.RegexOptions(regexp2.Multiline)
	if p.ignoreCase {
		opts |= regexp2.IgnoreCase
	}
	p.mu.Unlock()

	key := fmt.Sprintf("%d:%s", opts, pat)
	if v, found := p.cache.Get(key); found {
		if re, ok := v.(*regexp2.Regexp); ok {
			return re, nil
		}
	}
	re, err := regexp2.Compile(pat, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pat, err)
	}
	re.MatchTimeout = p.timeout
	p.cache.Set(key, re, gocache.DefaultExpiration)
	return re, nil
}

// Resolve returns pat, or the last pattern when pat is empty, and records
// the result as the last pattern.
func (p *Patterns) Resolve(pat string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pat == "" {
		if p.last == "" {
			return "", ErrNoPreviousPattern
		}
		return p.last, nil
	}
	p.last = pat
	return pat, nil
}

// Last returns the last pattern used.
func (p *Patterns) Last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// SearchLine returns the first line after from (or, backward, the last line
// before from) that contains a match for pat. An empty pat reuses the last
// pattern. With wrap the search continues from the other end of the buffer.
func (p *Patterns) SearchLine(b *buffer.Buffer, pat string, from int, backward, wrap bool) (int, error) {
	pat, err := p.Resolve(pat)
	if err != nil {
		return 0, err
	}
	re, err := p.Compile(pat)
	if err != nil {
		return 0, err
	}

	text := b.Runes()
	first, last, hit := 0, 0, 0
	m, err := re.FindRunesMatch(text)
	for m != nil && err == nil {
		line := b.LineOfOffset(m.Index)
		if first == 0 {
			first = line
		}
		last = line
		if !backward && line > from {
			return line, nil
		}
		if backward && line < from {
			hit = line
		}
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return 0, err
	}
	switch {
	case hit != 0:
		return hit, nil
	case wrap && !backward && first != 0:
		return first, nil
	case wrap && backward && last != 0:
		return last, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrPatternNotFound, pat)
}

// find returns the next match of re from offset cur. A forward search needs
// a match after cur and a backward one a match before it; accept also
// allows a match at cur.
func find(re *regexp2.Regexp, text []rune, cur int, backward, accept, wrap bool) (*regexp2.Match, error) {
	if !backward {
		start := cur + 1
		if accept {
			start = cur
		}
		if start <= len(text) {
			m, err := re.FindRunesMatchStartingAt(text, start)
			if err != nil || m != nil {
				return m, err
			}
		}
		if !wrap {
			return nil, nil
		}
		return re.FindRunesMatch(text)
	}

	var before, lastm *regexp2.Match
	m, err := re.FindRunesMatch(text)
	for m != nil && err == nil {
		if m.Index < cur || (accept && m.Index == cur) {
			before = m
		}
		lastm = m
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return nil, err
	}
	if before != nil || !wrap {
		return before, nil
	}
	return lastm, nil
}
