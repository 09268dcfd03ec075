package chi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/corpus"
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	"github.com/kailas-cloud/heptuple/internal/domain/profile"
	analysisuc "github.com/kailas-cloud/heptuple/internal/usecase/analysis"
	compareuc "github.com/kailas-cloud/heptuple/internal/usecase/compare"
	searchuc "github.com/kailas-cloud/heptuple/internal/usecase/search"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeNotFound         ErrorCode = "not_found"
	CodeUnknownCorpus    ErrorCode = "unknown_corpus"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// --- analysis ---

// AnalyzeRequest is the body of POST /api/v2/analyze.
type AnalyzeRequest struct {
	Text              string `json:"text"`
	IncludeConfidence *bool  `json:"include_confidence,omitempty"` // default true
	IncludeDetails    bool   `json:"include_details,omitempty"`
}

func (r AnalyzeRequest) options() analysisuc.Options {
	return analysisOptions(r.IncludeConfidence, r.IncludeDetails)
}

// BatchAnalyzeRequest is the body of POST /api/v2/analyze/batch.
type BatchAnalyzeRequest struct {
	Texts             []string `json:"texts"`
	IncludeConfidence *bool    `json:"include_confidence,omitempty"`
	IncludeDetails    bool     `json:"include_details,omitempty"`
}

func analysisOptions(confidence *bool, details bool) analysisuc.Options {
	return analysisuc.Options{
		IncludeConfidence: confidence == nil || *confidence,
		IncludeDetails:    details,
	}
}

// DimensionRef names a dimension in responses.
type DimensionRef struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func dimensionRef(d dimension.Dimension) DimensionRef {
	return DimensionRef{ID: d.ID(), Slug: d.Slug(), Name: d.String()}
}

// AnalysisDetails is the optional details block.
type AnalysisDetails struct {
	Language   string `json:"language"`
	TextLength int    `json:"text_length"`
	WordCount  int    `json:"word_count"`
	Method     string `json:"analysis_method"`
}

// AnalyzeResponse is one analysis result.
type AnalyzeResponse struct {
	Profile          map[string]int   `json:"profile"`
	Scores           []int            `json:"scores"`
	ConfidenceScores []float64        `json:"confidence_scores,omitempty"`
	ConfidenceScore  *float64         `json:"confidence_score,omitempty"`
	Dominant         DimensionRef     `json:"dominant_dimension"`
	IntensityMax     int              `json:"intensity_max"`
	Language         string           `json:"language"`
	Details          *AnalysisDetails `json:"details,omitempty"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
	Version          string           `json:"version"`
}

// BatchAnalyzeResponse is the body returned by POST /api/v2/analyze/batch.
type BatchAnalyzeResponse struct {
	Items []AnalyzeResponse `json:"items"`
	Total int               `json:"total"`
}

func analysisToResponse(res *analysisuc.Result) AnalyzeResponse {
	resp := AnalyzeResponse{
		Profile:          profileMap(res.Profile),
		Scores:           res.Profile.Slice(),
		ConfidenceScores: res.Confidence,
		Dominant:         dimensionRef(res.Dominant),
		IntensityMax:     res.IntensityMax,
		Language:         string(res.Language),
		ProcessingTimeMs: res.Duration.Milliseconds(),
		Version:          res.Version,
	}
	if mean, ok := res.MeanConfidence(); ok {
		resp.ConfidenceScore = &mean
	}
	if d := res.Details; d != nil {
		resp.Details = &AnalysisDetails{
			Language:   string(d.Language),
			TextLength: d.TextLength,
			WordCount:  d.WordCount,
			Method:     d.Method,
		}
	}
	return resp
}

// profileMap keys scores by dimension slug.
func profileMap(v profile.Vector) map[string]int {
	m := make(map[string]int, len(v))
	for _, d := range dimension.All() {
		m[d.Slug()] = v.Score(d)
	}
	return m
}

// --- profiles & comparison ---

// ProfileRequest is a named profile, stored or compared inline.
type ProfileRequest struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Scores []int  `json:"scores"`
}

func (p ProfileRequest) toDomain() (profile.Named, error) {
	v, err := profile.New(p.Scores)
	if err != nil {
		return profile.Named{}, fmt.Errorf("profile %d: %w", p.ID, err)
	}
	return profile.Named{ID: p.ID, Name: p.Name, Profile: v}, nil
}

// ProfileResponse is a stored profile.
type ProfileResponse struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Scores   []int          `json:"scores"`
	Profile  map[string]int `json:"profile"`
	Dominant DimensionRef   `json:"dominant_dimension"`
}

func profileToResponse(p profile.Named) ProfileResponse {
	return ProfileResponse{
		ID:       p.ID,
		Name:     p.Name,
		Scores:   p.Profile.Slice(),
		Profile:  profileMap(p.Profile),
		Dominant: dimensionRef(p.Profile.Dominant()),
	}
}

// CompareRequest compares stored profiles by id or inline profiles. Exactly
// one of IDs or Profiles is set.
type CompareRequest struct {
	IDs             []int64          `json:"ids,omitempty"`
	Profiles        []ProfileRequest `json:"profiles,omitempty"`
	DimensionsFocus []string         `json:"dimensions_focus,omitempty"`
}

func (r CompareRequest) options() (compareuc.Options, error) {
	var opts compareuc.Options
	for _, s := range r.DimensionsFocus {
		d, err := dimension.Parse(s)
		if err != nil {
			return opts, fmt.Errorf("%w: dimensions_focus: %w", domain.ErrInvalidInput, err)
		}
		opts.Focus = append(opts.Focus, d)
	}
	return opts, nil
}

// SimilarityRange is the min/max similarity over distinct pairs.
type SimilarityRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// CompareStatistics aggregates the compared profiles.
type CompareStatistics struct {
	TotalProfiles   int                `json:"total_profiles"`
	Averages        map[string]float64 `json:"averages"`
	Variances       map[string]float64 `json:"variances"`
	SimilarityRange SimilarityRange    `json:"similarity_range"`
}

// CompareResponse is the body returned by POST /api/v2/compare.
type CompareResponse struct {
	Profiles         []ProfileResponse `json:"profiles"`
	SimilarityMatrix [][]float64       `json:"similarity_matrix"`
	Statistics       CompareStatistics `json:"statistics"`
	Insights         []string          `json:"insights"`
}

func compareToResponse(res *compareuc.Result) CompareResponse {
	profiles := make([]ProfileResponse, len(res.Profiles))
	for i, p := range res.Profiles {
		profiles[i] = profileToResponse(p)
	}

	stats := CompareStatistics{
		TotalProfiles:   len(res.Profiles),
		Averages:        make(map[string]float64, len(res.Stats)),
		Variances:       make(map[string]float64, len(res.Stats)),
		SimilarityRange: SimilarityRange{Min: res.Range.Min, Max: res.Range.Max},
	}
	for _, st := range res.Stats {
		stats.Averages[st.Dimension.Slug()] = st.Average
		stats.Variances[st.Dimension.Slug()] = st.Variance
	}

	insights := res.Insights
	if insights == nil {
		insights = []string{}
	}

	return CompareResponse{
		Profiles:         profiles,
		SimilarityMatrix: res.Similarity,
		Statistics:       stats,
		Insights:         insights,
	}
}

// --- search & corpus ---

// SearchHit is one ranked record.
type SearchHit struct {
	ID         string              `json:"id"`
	Corpus     string              `json:"corpus"`
	Fields     map[string]string   `json:"fields"`
	Meta       map[string]string   `json:"meta,omitempty"`
	Score      float64             `json:"score"`
	Highlights map[string][]string `json:"highlights"`
}

// SearchResponse is the body returned by GET /api/v2/search/{corpus}.
type SearchResponse struct {
	Query string      `json:"query"`
	Items []SearchHit `json:"items"`
	Total int         `json:"total"`
}

func hitsToResponse(hits []searchuc.Hit) []SearchHit {
	out := make([]SearchHit, len(hits))
	for i, h := range hits {
		out[i] = SearchHit{
			ID:         h.Record.ID,
			Corpus:     string(h.Record.Corpus),
			Fields:     h.Record.Fields,
			Meta:       h.Record.Meta,
			Score:      h.Score,
			Highlights: h.Highlights,
		}
	}
	return out
}

// UniversalSearchRequest is the body of POST /api/v2/search/universal.
type UniversalSearchRequest struct {
	Query   string   `json:"query"`
	Corpora []string `json:"corpora,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

func (r UniversalSearchRequest) corpora() ([]corpus.Corpus, error) {
	out := make([]corpus.Corpus, 0, len(r.Corpora))
	for _, s := range r.Corpora {
		c, err := corpus.Parse(s)
		if err != nil {
			return nil, err //nolint:wrapcheck // already a domain sentinel
		}
		out = append(out, c)
	}
	return out, nil
}

// UniversalSearchResponse groups hits by corpus.
type UniversalSearchResponse struct {
	Query        string                 `json:"query"`
	Results      map[string][]SearchHit `json:"results"`
	TotalResults int                    `json:"total_results"`
}

// RecordRequest is the body of POST /api/v2/corpus/{corpus}.
type RecordRequest struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// --- catalog ---

// DimensionInfo is one entry of the dimension catalog.
type DimensionInfo struct {
	ID             int                 `json:"id"`
	Slug           string              `json:"slug"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	VerseNumber    int                 `json:"verse_number"`
	SampleKeywords map[string][]string `json:"sample_keywords"`
}

// DimensionsResponse is the body returned by GET /api/v2/dimensions.
type DimensionsResponse struct {
	Dimensions []DimensionInfo `json:"dimensions"`
	Version    string          `json:"version"`
}

// --- feedback ---

// FeedbackRequest is the body of POST /api/v2/feedback.
type FeedbackRequest struct {
	Text      string `json:"text,omitempty"`
	Predicted []int  `json:"predicted"`
	Correct   []int  `json:"correct"`
	Notes     string `json:"notes,omitempty"`
}

// FeedbackResponse acknowledges a feedback submission.
type FeedbackResponse struct {
	FeedbackID string    `json:"feedback_id"`
	ErrorScore float64   `json:"error_score"`
	ReceivedAt time.Time `json:"received_at"`
}

// --- health ---

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
}

// parseProfileID parses the {id} URL parameter.
func parseProfileID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: profile id must be a positive integer, got %q", domain.ErrInvalidInput, s)
	}
	return id, nil
}
