// Package keyword holds the curated keyword taxonomy: one keyword list per
// dimension and language.
package keyword

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	"github.com/kailas-cloud/heptuple/internal/domain/language"
	"github.com/kailas-cloud/heptuple/internal/domain/match"
)

// Entries is the raw (dimension, language) -> keywords mapping a Table is built from.
type Entries map[dimension.Dimension]map[language.Language][]string

// Table is an immutable, validated keyword taxonomy. Keywords are stored folded.
// A Table is safe for concurrent use.
type Table struct {
	lists [dimension.Count]map[language.Language][]string
}

// New validates entries and builds a Table. Every dimension needs a non-empty
// French list, since French is the fallback for missing languages.
func New(entries Entries) (*Table, error) {
	t := &Table{}
	for d, byLang := range entries {
		if !d.IsValid() {
			return nil, fmt.Errorf("%w: unknown dimension %d", domain.ErrMalformedKeywordTable, int(d))
		}
		lists := make(map[language.Language][]string, len(byLang))
		for lang, words := range byLang {
			if !lang.IsValid() {
				return nil, fmt.Errorf("%w: dimension %s: unsupported language %q",
					domain.ErrMalformedKeywordTable, d.Slug(), lang)
			}
			folded := make([]string, 0, len(words))
			for _, w := range words {
				f := match.Fold(strings.TrimSpace(w))
				if f == "" {
					return nil, fmt.Errorf("%w: dimension %s/%s: empty keyword",
						domain.ErrMalformedKeywordTable, d.Slug(), lang)
				}
				folded = append(folded, f)
			}
			lists[lang] = folded
		}
		t.lists[d.Index()] = lists
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustNew is New that panics on a malformed table.
func MustNew(entries Entries) *Table {
	t, err := New(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate checks that every dimension can resolve a keyword list.
func (t *Table) Validate() error {
	for _, d := range dimension.All() {
		if len(t.lists[d.Index()][language.Default]) == 0 {
			return fmt.Errorf("%w: dimension %s has no %s keywords",
				domain.ErrMalformedKeywordTable, d.Slug(), language.Default)
		}
	}
	return nil
}

// Keywords returns the folded keyword list for d in lang, falling back to
// French when lang has no list. The returned slice must not be modified.
func (t *Table) Keywords(d dimension.Dimension, lang language.Language) []string {
	if !d.IsValid() {
		return nil
	}
	lists := t.lists[d.Index()]
	if words, ok := lists[lang]; ok && len(words) > 0 {
		return words
	}
	return lists[language.Default]
}

// Has reports whether d has its own list for lang (no fallback).
func (t *Table) Has(d dimension.Dimension, lang language.Language) bool {
	if !d.IsValid() {
		return false
	}
	return len(t.lists[d.Index()][lang]) > 0
}

// fileFormat is the YAML layout: dimension slug or id -> language -> keywords.
type fileFormat map[string]map[string][]string

// Load reads a taxonomy from a YAML file.
//
//	mysteries:
//	  ar: [غيب, سر]
//	  fr: [mystère, secret]
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read keyword table %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML taxonomy.
func Parse(data []byte) (*Table, error) {
	var raw fileFormat
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %w", domain.ErrMalformedKeywordTable, err)
	}

	entries := make(Entries, len(raw))
	for key, byLang := range raw {
		d, err := dimension.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedKeywordTable, err)
		}
		lists := make(map[language.Language][]string, len(byLang))
		for code, words := range byLang {
			lang, err := language.Parse(code)
			if err != nil {
				return nil, fmt.Errorf("%w: dimension %s: %w", domain.ErrMalformedKeywordTable, d.Slug(), err)
			}
			lists[lang] = words
		}
		entries[d] = lists
	}
	return New(entries)
}
