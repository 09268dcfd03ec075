package analysis

import (
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	"github.com/kailas-cloud/heptuple/internal/domain/keyword"
	"github.com/kailas-cloud/heptuple/internal/domain/language"
	"github.com/kailas-cloud/heptuple/internal/domain/match"
)

// keywordWeight is the raw score added per keyword occurrence.
const keywordWeight = 10

// RawScores are the pre-normalization keyword scores, one per dimension.
type RawScores [dimension.Count]float64

// Score counts keyword occurrences per dimension using the list for lang.
// Matching is case-insensitive and bounded on whole words or phrases.
func Score(text string, lang language.Language, table *keyword.Table) RawScores {
	var raw RawScores
	folded := match.Fold(text)
	for _, d := range dimension.All() {
		for _, kw := range table.Keywords(d, lang) {
			raw[d.Index()] += float64(match.Words(folded, kw) * keywordWeight)
		}
	}
	return raw
}
