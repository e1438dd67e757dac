// Package normalize holds the text normalization shared by the statement
// parser, the rule engine, the dedup hasher and the AI cache keys. All four
// consumers MUST see the exact same normalized form: the dedup key and the
// cache key are both derived from it, so any drift between call sites would
// silently break idempotent re-import and cache hits.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Description normalizes a raw statement description for matching and
// hashing: trim, uppercase, strip diacritics, collapse whitespace, and drop
// punctuation except '*', '-' and '/'. Uppercasing is load-bearing: rule
// expressions are uppercased before comparison so case never affects a match.
func Description(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))

	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			lastSpace = true
		case r == '*' || r == '-' || r == '/' || r == '_' ||
			unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			// Anything else becomes a space so "PIX:JOAO" still splits
			// into matchable tokens.
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}
