package keyword

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	"github.com/kailas-cloud/heptuple/internal/domain/language"
)

func minimalEntries() Entries {
	e := Entries{}
	for _, d := range dimension.All() {
		e[d] = map[language.Language][]string{language.French: {d.Slug()}}
	}
	return e
}

func TestDefault_IsValid(t *testing.T) {
	tbl := Default()
	if err := tbl.Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
	for _, d := range dimension.All() {
		for _, lang := range language.All() {
			if !tbl.Has(d, lang) {
				t.Errorf("default table missing %s/%s", d.Slug(), lang)
			}
			if got := len(tbl.Keywords(d, lang)); got != 5 {
				t.Errorf("%s/%s: expected 5 keywords, got %d", d.Slug(), lang, got)
			}
		}
	}
}

func TestKeywords_FoldedAndOrdered(t *testing.T) {
	tbl := MustNew(Entries{
		dimension.Mysteries:   {language.French: {"Mystère", "  SECRET "}},
		dimension.Creation:    {language.French: {"ciel"}},
		dimension.Attributes:  {language.French: {"sage"}},
		dimension.Eschatology: {language.French: {"enfer"}},
		dimension.Oneness:     {language.French: {"dieu"}},
		dimension.Guidance:    {language.French: {"bien"}},
		dimension.Misguidance: {language.French: {"mal"}},
	})
	got := tbl.Keywords(dimension.Mysteries, language.French)
	if len(got) != 2 || got[0] != "mystère" || got[1] != "secret" {
		t.Errorf("unexpected keywords: %q", got)
	}
}

func TestKeywords_FallsBackToFrench(t *testing.T) {
	e := minimalEntries()
	e[dimension.Guidance][language.English] = []string{"guidance"}
	tbl := MustNew(e)

	if got := tbl.Keywords(dimension.Guidance, language.English); len(got) != 1 || got[0] != "guidance" {
		t.Errorf("expected english list, got %q", got)
	}
	got := tbl.Keywords(dimension.Creation, language.Arabic)
	if len(got) != 1 || got[0] != "creation" {
		t.Errorf("expected french fallback, got %q", got)
	}
	if tbl.Has(dimension.Creation, language.Arabic) {
		t.Error("Has must not report fallback lists")
	}
	if tbl.Keywords(dimension.Dimension(0), language.French) != nil {
		t.Error("invalid dimension should return nil")
	}
}

func TestNew_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Entries)
	}{
		{"missing dimension", func(e Entries) { delete(e, dimension.Oneness) }},
		{"no french list", func(e Entries) {
			e[dimension.Oneness] = map[language.Language][]string{language.English: {"god"}}
		}},
		{"empty french list", func(e Entries) { e[dimension.Oneness][language.French] = nil }},
		{"empty keyword", func(e Entries) { e[dimension.Oneness][language.French] = []string{"dieu", "  "} }},
		{"unknown language", func(e Entries) { e[dimension.Oneness]["de"] = []string{"gott"} }},
		{"unknown dimension", func(e Entries) {
			e[dimension.Dimension(8)] = map[language.Language][]string{language.French: {"x"}}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := minimalEntries()
			tc.mutate(e)
			_, err := New(e)
			if !errors.Is(err, domain.ErrMalformedKeywordTable) {
				t.Fatalf("expected ErrMalformedKeywordTable, got %v", err)
			}
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustNew(Entries{})
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`
mysteries: {fr: [mystère], en: [mystery]}
creation: {fr: [création]}
"3": {fr: [sage]}
eschatology: {fr: [enfer]}
oneness: {fr: [dieu], ar: [الله]}
guidance: {fr: [chemin droit]}
misguidance: {fr: [mal]}
`)
	tbl, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tbl.Keywords(dimension.Attributes, language.French); len(got) != 1 || got[0] != "sage" {
		t.Errorf("numeric dimension key not parsed: %q", got)
	}
	if got := tbl.Keywords(dimension.Oneness, language.Arabic); len(got) != 1 || got[0] != "الله" {
		t.Errorf("arabic list not parsed: %q", got)
	}
	if got := tbl.Keywords(dimension.Guidance, language.French); got[0] != "chemin droit" {
		t.Errorf("phrase keyword not preserved: %q", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":          "mysteries: [unclosed",
		"unknown dimension": "tawhid: {fr: [dieu]}",
		"unknown language":  "mysteries: {de: [geheimnis]}",
		"incomplete":        "mysteries: {fr: [secret]}",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data)); !errors.Is(err, domain.ErrMalformedKeywordTable) {
				t.Fatalf("expected ErrMalformedKeywordTable, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	content := ""
	for _, d := range dimension.All() {
		content += d.Slug() + ":\n  fr: [" + d.Slug() + "]\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tbl.Keywords(dimension.Misguidance, language.English); got[0] != "misguidance" {
		t.Errorf("unexpected keywords: %q", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
