// Package match holds the text primitives shared by the keyword scorer,
// the language detector and the relevance ranker.
//
// Every comparison is done on folded text: NFC-normalized, then lower-cased
// with Unicode rules. Callers fold both sides once and reuse the result.
package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s in the canonical form used for matching.
// A cases.Caser keeps state, so a fresh one is built per call.
func Fold(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// IsWordRune reports whether r belongs to a word: letters, digits and underscore.
// Non-spacing marks are not word runes, so a vowelled Arabic word (اللهُ) still
// ends on a boundary after its base letters.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Words counts non-overlapping occurrences of phrase in text that start and end
// on a word boundary. Multi-word phrases match literally, spaces included.
// Both arguments must already be folded.
func Words(text, phrase string) int {
	if phrase == "" {
		return 0
	}

	n := 0
	for i := 0; i <= len(text)-len(phrase); {
		j := strings.Index(text[i:], phrase)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(phrase)
		if isBoundary(text, start) && isBoundary(text, end) {
			n++
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		i = start + size
	}
	return n
}

// ContainsWord reports whether phrase occurs in text on word boundaries.
func ContainsWord(text, phrase string) bool {
	return Words(text, phrase) > 0
}

// Substrings counts non-overlapping literal occurrences of sub in text.
// An empty sub never matches.
func Substrings(text, sub string) int {
	if sub == "" {
		return 0
	}
	return strings.Count(text, sub)
}

// isBoundary mirrors a regex \b: exactly one side of position i is a word rune.
func isBoundary(s string, i int) bool {
	var before, after bool
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = IsWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = IsWordRune(r)
	}
	return before != after
}
