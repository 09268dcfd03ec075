// Package language identifies which keyword list applies to a text.
package language

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/heptuple/internal/domain/match"
)

// Language is a supported keyword language.
type Language string

// Supported languages.
const (
	Arabic  Language = "ar"
	French  Language = "fr"
	English Language = "en"
)

// Default is returned when nothing else can be inferred. It is also the
// fallback keyword list.
const Default = French

// arabicRatioThreshold is the share of Arabic-block runes above which a text is Arabic.
const arabicRatioThreshold = 0.3

// englishStopwords are probed with word boundaries on the folded text.
var englishStopwords = []string{"the", "and", "or", "in", "on", "at"}

// All returns the supported languages.
func All() []Language {
	return []Language{Arabic, French, English}
}

// IsValid reports whether l is supported.
func (l Language) IsValid() bool {
	return l == Arabic || l == French || l == English
}

// Parse validates a language code.
func Parse(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return l, nil
}

// Detect picks the language of text. Texts whose non-whitespace runes are
// more than 30% in the Arabic block (U+0600..U+06FF) are Arabic; otherwise a
// common English function word makes it English; everything else is French.
func Detect(text string) Language {
	var arabic, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if r >= 0x0600 && r <= 0x06FF {
			arabic++
		}
	}
	if total == 0 {
		return Default
	}

	if float64(arabic)/float64(total) > arabicRatioThreshold {
		return Arabic
	}

	folded := match.Fold(text)
	for _, w := range englishStopwords {
		if match.ContainsWord(folded, w) {
			return English
		}
	}
	return French
}
