// Package analysis turns raw text into a seven-dimension profile: language
// detection, keyword scoring, normalization and confidence estimation.
package analysis

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	"github.com/kailas-cloud/heptuple/internal/domain/keyword"
	"github.com/kailas-cloud/heptuple/internal/domain/language"
	"github.com/kailas-cloud/heptuple/internal/domain/profile"
)

// MethodKeywordBased names the scoring method in analysis details.
const MethodKeywordBased = "keyword_based"

// Options toggles the optional parts of a Result.
type Options struct {
	IncludeConfidence bool
	IncludeDetails    bool
}

// Details describes the analyzed input.
type Details struct {
	Language   language.Language
	TextLength int
	WordCount  int
	Method     string
}

// Result is the outcome of one analysis. It is never mutated after return.
type Result struct {
	Profile      profile.Vector
	Confidence   []float64 // nil unless requested
	Dominant     dimension.Dimension
	IntensityMax int
	Language     language.Language
	Duration     time.Duration
	Version      string
	Details      *Details // nil unless requested
}

// MeanConfidence returns the averaged confidence, false when confidence was not computed.
func (r *Result) MeanConfidence() (float64, bool) {
	if r.Confidence == nil {
		return 0, false
	}
	return MeanConfidence(r.Confidence), true
}

// Analyzer is the pure scoring pipeline over an immutable keyword table.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	table   *keyword.Table
	version string
	now     func() time.Time
}

// NewAnalyzer creates an analyzer. A nil table selects the built-in taxonomy;
// an empty version selects domain.ModelVersion.
func NewAnalyzer(table *keyword.Table, version string) *Analyzer {
	if table == nil {
		table = keyword.Default()
	}
	if version == "" {
		version = domain.ModelVersion
	}
	return &Analyzer{table: table, version: version, now: time.Now}
}

// Table returns the keyword table in use.
func (a *Analyzer) Table() *keyword.Table { return a.table }

// Version returns the model version tag stamped on results.
func (a *Analyzer) Version() string { return a.version }

// Analyze scores text. Text that is empty after trimming is rejected.
func (a *Analyzer) Analyze(text string, opts Options) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%w: text is empty", domain.ErrInvalidInput)
	}

	start := a.now()

	lang := language.Detect(text)
	v := Normalize(Score(text, lang, a.table))

	res := Result{
		Profile:      v,
		Dominant:     v.Dominant(),
		IntensityMax: v.IntensityMax(),
		Language:     lang,
		Version:      a.version,
	}
	if opts.IncludeConfidence {
		res.Confidence = Confidence(text, v)
	}
	if opts.IncludeDetails {
		res.Details = &Details{
			Language:   lang,
			TextLength: utf8.RuneCountInString(text),
			WordCount:  len(strings.Fields(text)),
			Method:     MethodKeywordBased,
		}
	}
	res.Duration = a.now().Sub(start)
	return res, nil
}
