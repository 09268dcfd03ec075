// Package search ranks corpus records against a free-text query.
package search

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/corpus"
	"github.com/kailas-cloud/heptuple/internal/domain/match"
)

// MaxScore caps a relevance score.
const MaxScore = 10.0

// FieldWeight pairs a record field with a score weight.
type FieldWeight struct {
	Field  string
	Weight float64
}

// Scheme is the relevance configuration of one corpus.
type Scheme struct {
	// Weighted fields add occurrences × weight.
	Weighted []FieldWeight
	// Bonuses add their weight once when the query occurs in the field.
	Bonuses []FieldWeight
	// Highlight lists the fields echoed back when they contain the query.
	Highlight []string
}

var schemes = map[corpus.Corpus]Scheme{
	corpus.Verses: {
		Weighted:  []FieldWeight{{corpus.FieldArabic, 2.0}, {corpus.FieldFrench, 1.5}},
		Bonuses:   []FieldWeight{{corpus.FieldArabic, 1.0}, {corpus.FieldFrench, 0.5}},
		Highlight: []string{corpus.FieldArabic, corpus.FieldFrench},
	},
	corpus.Hadiths: {
		Weighted:  []FieldWeight{{corpus.FieldFrench, 2.0}, {corpus.FieldArabic, 1.5}},
		Bonuses:   []FieldWeight{{corpus.FieldNarrator, 1.0}, {corpus.FieldCollection, 0.5}},
		Highlight: []string{corpus.FieldFrench, corpus.FieldArabic},
	},
	corpus.Fiqh: {
		Weighted: []FieldWeight{
			{corpus.FieldRuling, 2.0}, {corpus.FieldQuestion, 1.5}, {corpus.FieldTopic, 1.0},
		},
		Highlight: []string{corpus.FieldRuling, corpus.FieldQuestion},
	},
}

// SchemeFor returns the relevance scheme of c.
func SchemeFor(c corpus.Corpus) (Scheme, error) {
	s, ok := schemes[c]
	if !ok {
		return Scheme{}, fmt.Errorf("%w: %q", domain.ErrUnknownCorpus, c)
	}
	return s, nil
}

// Score computes the relevance of r for query, in [0, MaxScore].
// Matching is a case-insensitive literal substring count; the query is not tokenized.
func (s Scheme) Score(query string, r *corpus.Record) float64 {
	q := match.Fold(query)
	if q == "" {
		return 0
	}

	var score float64
	for _, fw := range s.Weighted {
		text := r.Field(fw.Field)
		if text == "" {
			continue
		}
		score += float64(match.Substrings(match.Fold(text), q)) * fw.Weight
	}
	for _, fw := range s.Bonuses {
		text := r.Field(fw.Field)
		if text != "" && strings.Contains(match.Fold(text), q) {
			score += fw.Weight
		}
	}
	return min(score, MaxScore)
}

// Highlights returns, per highlight field, the whole field text when it
// contains the trimmed query verbatim (case-sensitive), otherwise an empty list.
func (s Scheme) Highlights(query string, r *corpus.Record) map[string][]string {
	q := strings.TrimSpace(query)
	out := make(map[string][]string, len(s.Highlight))
	for _, f := range s.Highlight {
		out[f] = []string{}
		text := r.Field(f)
		if q != "" && text != "" && strings.Contains(text, q) {
			out[f] = append(out[f], text)
		}
	}
	return out
}
