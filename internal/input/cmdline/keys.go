package cmdline

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidKey reports an unknown <...> key name.
var ErrInvalidKey = errors.New("invalid key specification")

// Key identifies a command-line keystroke.
type Key uint8

const (
	// KeyRune inserts Stroke.Rune.
	KeyRune Key = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	// KeyClearLine deletes everything before the cursor (CTRL-U).
	KeyClearLine
	// KeyDeleteWord deletes the word before the cursor (CTRL-W).
	KeyDeleteWord
)

// Stroke is one keystroke.
type Stroke struct {
	Key  Key
	Rune rune
}

// RuneStroke returns a stroke inserting r.
func RuneStroke(r rune) Stroke { return Stroke{Key: KeyRune, Rune: r} }

var keyNames = map[string]Stroke{
	"cr":     {Key: KeyEnter},
	"enter":  {Key: KeyEnter},
	"return": {Key: KeyEnter},
	"esc":    {Key: KeyEscape},
	"c-c":    {Key: KeyEscape},
	"bs":     {Key: KeyBackspace},
	"c-h":    {Key: KeyBackspace},
	"del":    {Key: KeyDelete},
	"left":   {Key: KeyLeft},
	"right":  {Key: KeyRight},
	"home":   {Key: KeyHome},
	"c-b":    {Key: KeyHome},
	"end":    {Key: KeyEnd},
	"c-e":    {Key: KeyEnd},
	"up":     {Key: KeyUp},
	"c-p":    {Key: KeyUp},
	"down":   {Key: KeyDown},
	"c-n":    {Key: KeyDown},
	"c-u":    {Key: KeyClearLine},
	"c-w":    {Key: KeyDeleteWord},
	"lt":     {Key: KeyRune, Rune: '<'},
	"space":  {Key: KeyRune, Rune: ' '},
	"tab":    {Key: KeyRune, Rune: '\t'},
	"bar":    {Key: KeyRune, Rune: '|'},
	"bslash": {Key: KeyRune, Rune: '\\'},
}

// ParseKeys converts vim key notation such as ":5d<CR>" into strokes. A '<'
// that does not start a key name is taken literally; use <lt> to be sure.
func ParseKeys(s string) ([]Stroke, error) {
	var out []Stroke
	for i := 0; i < len(s); {
		if s[i] == '<' {
			if end := strings.IndexByte(s[i:], '>'); end > 1 {
				name := strings.ToLower(s[i+1 : i+end])
				if st, ok := keyNames[name]; ok {
					out = append(out, st)
					i += end + 1
					continue
				}
				if isKeyName(name) {
					return nil, fmt.Errorf("%w: <%s>", ErrInvalidKey, s[i+1:i+end])
				}
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		out = append(out, RuneStroke(r))
		i += size
	}
	return out, nil
}

// isKeyName reports whether name looks like a key name rather than text.
func isKeyName(name string) bool {
	for _, c := range name {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
			return false
		}
	}
	return true
}
