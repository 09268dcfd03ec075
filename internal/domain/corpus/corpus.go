// Package corpus describes the searchable text collections and their records.
package corpus

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/heptuple/internal/domain"
)

// Corpus names a searchable collection.
type Corpus string

// Known corpora.
const (
	Verses  Corpus = "verses"
	Hadiths Corpus = "hadiths"
	Fiqh    Corpus = "fiqh"
)

// Record field names.
const (
	FieldArabic     = "arabic"
	FieldFrench     = "french"
	FieldNarrator   = "narrator"
	FieldCollection = "collection"
	FieldRuling     = "ruling"
	FieldQuestion   = "question"
	FieldTopic      = "topic"
)

var lookupFields = map[Corpus][]string{
	Verses:  {FieldArabic, FieldFrench},
	Hadiths: {FieldArabic, FieldFrench, FieldNarrator, FieldCollection},
	Fiqh:    {FieldTopic, FieldQuestion, FieldRuling},
}

// All returns every corpus in universal-search order.
func All() []Corpus {
	return []Corpus{Verses, Hadiths, Fiqh}
}

// IsValid reports whether c is a known corpus.
func (c Corpus) IsValid() bool {
	_, ok := lookupFields[c]
	return ok
}

// Parse validates a corpus name.
func Parse(s string) (Corpus, error) {
	c := Corpus(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCorpus, s)
	}
	return c, nil
}

// LookupFields returns the fields a substring lookup inspects for c.
func (c Corpus) LookupFields() []string {
	return lookupFields[c]
}

// Record is one stored item: named text fields plus opaque metadata that
// ranking never looks at.
type Record struct {
	ID     string
	Corpus Corpus
	Fields map[string]string
	Meta   map[string]string
}

// Field returns the text of a field, empty when absent.
func (r *Record) Field(name string) string {
	return r.Fields[name]
}

// Validate checks the record can be stored.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: record id is required", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(r.ID, ":*?[]") {
		return fmt.Errorf("%w: record id %q contains reserved characters", domain.ErrInvalidInput, r.ID)
	}
	if !r.Corpus.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCorpus, r.Corpus)
	}
	for _, f := range r.Corpus.LookupFields() {
		if strings.TrimSpace(r.Fields[f]) != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: record has no text in %v", domain.ErrInvalidInput, r.Corpus.LookupFields())
}
