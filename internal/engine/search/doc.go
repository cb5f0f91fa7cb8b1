// Package search locates matching brackets and pattern matches in a buffer.
//
// The bracket matcher (FindMatchLimit) finds the partner of a paren, brace,
// C comment delimiter or #if/#else/#endif directive. It is quote aware: in
// lines with an even number of double quotes, brackets inside strings are
// ignored unless the search started inside a string, and character literals
// such as '(' or '\'' are skipped as a whole. The scan is an explicit state
// machine with one mode per kind of target:
//
//   - modeBrace: character-by-character with nesting and quote tracking
//   - modeComment: looks for the other end of a /* */ comment, no nesting
//   - modeHash: walks whole lines counting #if against #endif
//
// Pattern searches use github.com/dlclark/regexp2 with Perl/.NET syntax.
// Compiled expressions are cached in a Patterns value. SearchPair finds the
// partner of a start/middle/end keyword triple the way matchit-style motions
// need, and SearchLine resolves /pat/ and ?pat? line addresses.
package search
