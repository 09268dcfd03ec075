package analysiscache

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	"github.com/kailas-cloud/heptuple/internal/domain/language"
	"github.com/kailas-cloud/heptuple/internal/domain/profile"
	"github.com/kailas-cloud/heptuple/internal/usecase/analysis"
)

// resultDTO is the cached JSON form of analysis.Result.
type resultDTO struct {
	Profile      []int       `json:"profile"`
	Confidence   []float64   `json:"confidence,omitempty"`
	Dominant     int         `json:"dominant"`
	IntensityMax int         `json:"intensity_max"`
	Language     string      `json:"language"`
	DurationNS   int64       `json:"duration_ns"`
	Version      string      `json:"version"`
	Details      *detailsDTO `json:"details,omitempty"`
}

type detailsDTO struct {
	Language   string `json:"language"`
	TextLength int    `json:"text_length"`
	WordCount  int    `json:"word_count"`
	Method     string `json:"method"`
}

func toDTO(r analysis.Result) resultDTO {
	dto := resultDTO{
		Profile:      r.Profile.Slice(),
		Confidence:   r.Confidence,
		Dominant:     r.Dominant.ID(),
		IntensityMax: r.IntensityMax,
		Language:     string(r.Language),
		DurationNS:   r.Duration.Nanoseconds(),
		Version:      r.Version,
	}
	if r.Details != nil {
		dto.Details = &detailsDTO{
			Language:   string(r.Details.Language),
			TextLength: r.Details.TextLength,
			WordCount:  r.Details.WordCount,
			Method:     r.Details.Method,
		}
	}
	return dto
}

func fromDTO(dto resultDTO) (analysis.Result, error) {
	v, err := profile.New(dto.Profile)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("cached profile: %w", err)
	}
	dom := dimension.Dimension(dto.Dominant)
	if !dom.IsValid() {
		return analysis.Result{}, fmt.Errorf("cached dominant %d out of range", dto.Dominant)
	}
	lang, err := language.Parse(dto.Language)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("cached language: %w", err)
	}

	r := analysis.Result{
		Profile:      v,
		Confidence:   dto.Confidence,
		Dominant:     dom,
		IntensityMax: dto.IntensityMax,
		Language:     lang,
		Duration:     time.Duration(dto.DurationNS),
		Version:      dto.Version,
	}
	if dto.Details != nil {
		r.Details = &analysis.Details{
			Language:   language.Language(dto.Details.Language),
			TextLength: dto.Details.TextLength,
			WordCount:  dto.Details.WordCount,
			Method:     dto.Details.Method,
		}
	}
	return r, nil
}
