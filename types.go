package heptuple

import (
	"time"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	"github.com/kailas-cloud/heptuple/internal/domain/profile"
	analysisuc "github.com/kailas-cloud/heptuple/internal/usecase/analysis"
	compareuc "github.com/kailas-cloud/heptuple/internal/usecase/compare"
	searchuc "github.com/kailas-cloud/heptuple/internal/usecase/search"
)

// Errors returned by the client. Test with errors.Is.
var (
	ErrInvalidInput          = domain.ErrInvalidInput
	ErrNotFound              = domain.ErrNotFound
	ErrUnknownCorpus         = domain.ErrUnknownCorpus
	ErrMalformedKeywordTable = domain.ErrMalformedKeywordTable
)

// Dimension is one of the seven profile axes, numbered 1..7.
type Dimension int

// The seven dimensions in canonical order.
const (
	Mysteries Dimension = iota + 1
	Creation
	Attributes
	Eschatology
	Oneness
	Guidance
	Misguidance
)

// String returns the display name.
func (d Dimension) String() string { return dimension.Dimension(d).String() }

// Slug returns the stable lower-case identifier.
func (d Dimension) Slug() string { return dimension.Dimension(d).Slug() }

// Description returns the catalog description.
func (d Dimension) Description() string { return dimension.Dimension(d).Description() }

// Scores holds one 0..100 score per dimension in canonical order.
type Scores [dimension.Count]int

// Of returns the score of d; 0 for an invalid dimension.
func (s Scores) Of(d Dimension) int {
	return profile.Vector(s).Score(dimension.Dimension(d))
}

// Details describes the analyzed text.
type Details struct {
	Language   string
	TextLength int
	WordCount  int
	Method     string
}

// Analysis is the profile of one text.
type Analysis struct {
	Scores         Scores
	Confidence     []float64 // nil unless WithConfidence
	MeanConfidence float64
	Dominant       Dimension
	IntensityMax   int
	Language       string
	Details        *Details // nil unless WithDetails
	Duration       time.Duration
	Version        string
}

// Profile is a stored, named profile.
type Profile struct {
	ID     int64
	Name   string
	Scores Scores
}

// Dominant returns the highest-scoring dimension, first on ties.
func (p Profile) Dominant() Dimension {
	return Dimension(profile.Vector(p.Scores).Dominant())
}

// DimensionStat is the spread of one dimension across compared profiles.
type DimensionStat struct {
	Dimension Dimension
	Average   float64
	Variance  float64
}

// Comparison is the result of comparing profiles.
type Comparison struct {
	Profiles      []Profile
	Similarity    [][]float64
	Stats         []DimensionStat
	MinSimilarity float64
	MaxSimilarity float64
	Insights      []string
}

// Corpus names a searchable collection.
type Corpus string

// Known corpora.
const (
	Verses  Corpus = "verses"
	Hadiths Corpus = "hadiths"
	Fiqh    Corpus = "fiqh"
)

// Record is a corpus entry. Fields are ranked; Meta is stored as is.
type Record struct {
	ID     string
	Fields map[string]string
	Meta   map[string]string
}

// Hit is a ranked record.
type Hit struct {
	Record     Record
	Score      float64
	Highlights map[string][]string
}

func fromInternalAnalysis(r *analysisuc.Result) Analysis {
	a := Analysis{
		Scores:       Scores(r.Profile),
		Confidence:   r.Confidence,
		Dominant:     Dimension(r.Dominant),
		IntensityMax: r.IntensityMax,
		Language:     string(r.Language),
		Duration:     r.Duration,
		Version:      r.Version,
	}
	if mean, ok := r.MeanConfidence(); ok {
		a.MeanConfidence = mean
	}
	if d := r.Details; d != nil {
		a.Details = &Details{
			Language:   string(d.Language),
			TextLength: d.TextLength,
			WordCount:  d.WordCount,
			Method:     d.Method,
		}
	}
	return a
}

func toInternalProfile(p Profile) (profile.Named, error) {
	v, err := profile.New(p.Scores[:])
	if err != nil {
		return profile.Named{}, err //nolint:wrapcheck // domain validation error
	}
	return profile.Named{ID: p.ID, Name: p.Name, Profile: v}, nil
}

func fromInternalProfile(p profile.Named) Profile {
	return Profile{ID: p.ID, Name: p.Name, Scores: Scores(p.Profile)}
}

func fromInternalComparison(r *compareuc.Result) *Comparison {
	c := &Comparison{
		Profiles:      make([]Profile, len(r.Profiles)),
		Similarity:    r.Similarity,
		Stats:         make([]DimensionStat, len(r.Stats)),
		MinSimilarity: r.Range.Min,
		MaxSimilarity: r.Range.Max,
		Insights:      r.Insights,
	}
	for i, p := range r.Profiles {
		c.Profiles[i] = fromInternalProfile(p)
	}
	for i, s := range r.Stats {
		c.Stats[i] = DimensionStat{Dimension: Dimension(s.Dimension), Average: s.Average, Variance: s.Variance}
	}
	return c
}

func fromInternalHits(hits []searchuc.Hit) []Hit {
	out := make([]Hit, len(hits))
	for i, h := range hits {
		out[i] = Hit{
			Record:     Record{ID: h.Record.ID, Fields: h.Record.Fields, Meta: h.Record.Meta},
			Score:      h.Score,
			Highlights: h.Highlights,
		}
	}
	return out
}

func toInternalFocus(focus []Dimension) []dimension.Dimension {
	out := make([]dimension.Dimension, len(focus))
	for i, d := range focus {
		out[i] = dimension.Dimension(d)
	}
	return out
}
