// Package chi exposes the analysis, comparison and search use cases over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/corpus"
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	"github.com/kailas-cloud/heptuple/internal/domain/language"
	"github.com/kailas-cloud/heptuple/internal/domain/profile"
	analysisuc "github.com/kailas-cloud/heptuple/internal/usecase/analysis"
	compareuc "github.com/kailas-cloud/heptuple/internal/usecase/compare"
	feedbackuc "github.com/kailas-cloud/heptuple/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/heptuple/internal/usecase/health"
	searchuc "github.com/kailas-cloud/heptuple/internal/usecase/search"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v2"

const (
	maxBodyBytes   = 1 << 20
	sampleKeywords = 3
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	analysis      *analysisuc.Service
	compare       *compareuc.Service
	search        *searchuc.Service
	feedback      *feedbackuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	analysis *analysisuc.Service,
	compare *compareuc.Service,
	search *searchuc.Service,
	feedback *feedbackuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		analysis: analysis,
		compare:  compare,
		search:   search,
		feedback: feedback,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownCorpus, http.StatusBadRequest, CodeUnknownCorpus, true),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed, true),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound, false),
	}
	return s
}

// Mount registers all routes on r. Middlewares must already be attached to r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route(APIPrefix, func(r chi.Router) {
		r.Post("/analyze", s.Analyze)
		r.Post("/analyze/batch", s.AnalyzeBatch)
		r.Post("/compare", s.Compare)
		r.Post("/profiles", s.SaveProfile)
		r.Get("/profiles/{id}", s.GetProfile)
		r.Get("/search/{corpus}", s.Search)
		r.Post("/search/universal", s.UniversalSearch)
		r.Post("/corpus/{corpus}", s.StoreRecord)
		r.Get("/dimensions", s.Dimensions)
		r.Post("/feedback", s.Feedback)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// Analyze handles POST /api/v2/analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.analysis.Analyze(r.Context(), cleanText(req.Text), req.options())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analysisToResponse(&res))
}

// AnalyzeBatch handles POST /api/v2/analyze/batch.
func (s *Server) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchAnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	texts := make([]string, len(req.Texts))
	for i, t := range req.Texts {
		texts[i] = cleanText(t)
	}

	results, err := s.analysis.AnalyzeBatch(r.Context(), texts, analysisOptions(req.IncludeConfidence, req.IncludeDetails))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]AnalyzeResponse, len(results))
	for i := range results {
		items[i] = analysisToResponse(&results[i])
	}
	writeJSON(w, http.StatusOK, BatchAnalyzeResponse{Items: items, Total: len(items)})
}

// Compare handles POST /api/v2/compare.
func (s *Server) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.IDs) > 0 && len(req.Profiles) > 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "use either ids or profiles, not both")
		return
	}

	opts, err := req.options()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var res *compareuc.Result
	if len(req.Profiles) > 0 {
		profiles := make([]profile.Named, len(req.Profiles))
		for i, p := range req.Profiles {
			if profiles[i], err = p.toDomain(); err != nil {
				s.handleDomainError(w, err)
				return
			}
		}
		res, err = s.compare.Compare(r.Context(), profiles, opts)
	} else {
		res, err = s.compare.CompareByID(r.Context(), req.IDs, opts)
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, compareToResponse(res))
}

// SaveProfile handles POST /api/v2/profiles.
func (s *Server) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := req.toDomain()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if err := s.compare.Save(r.Context(), p); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", APIPrefix+"/profiles/"+strconv.FormatInt(p.ID, 10))
	writeJSON(w, http.StatusCreated, profileToResponse(p))
}

// GetProfile handles GET /api/v2/profiles/{id}.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseProfileID(chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	p, err := s.compare.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// Search handles GET /api/v2/search/{corpus}?q=&limit=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	c, err := corpus.Parse(chi.URLParam(r, "corpus"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	query := r.URL.Query().Get("q")
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	hits, err := s.search.Search(r.Context(), c, query, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := hitsToResponse(hits)
	writeJSON(w, http.StatusOK, SearchResponse{Query: query, Items: items, Total: len(items)})
}

// UniversalSearch handles POST /api/v2/search/universal.
func (s *Server) UniversalSearch(w http.ResponseWriter, r *http.Request) {
	var req UniversalSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	corpora, err := req.corpora()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.search.Universal(r.Context(), req.Query, corpora, req.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := make(map[string][]SearchHit, len(res.Hits))
	for c, hits := range res.Hits {
		results[string(c)] = hitsToResponse(hits)
	}
	writeJSON(w, http.StatusOK, UniversalSearchResponse{
		Query:        req.Query,
		Results:      results,
		TotalResults: res.Total,
	})
}

// StoreRecord handles POST /api/v2/corpus/{corpus}.
func (s *Server) StoreRecord(w http.ResponseWriter, r *http.Request) {
	c, err := corpus.Parse(chi.URLParam(r, "corpus"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var req RecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rec := corpus.Record{ID: req.ID, Corpus: c, Fields: req.Fields, Meta: req.Meta}
	if err := s.search.Store(r.Context(), rec); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, SearchHit{
		ID:     rec.ID,
		Corpus: string(rec.Corpus),
		Fields: rec.Fields,
		Meta:   rec.Meta,
	})
}

// Dimensions handles GET /api/v2/dimensions.
func (s *Server) Dimensions(w http.ResponseWriter, _ *http.Request) {
	table := s.analysis.Analyzer().Table()

	dims := make([]DimensionInfo, 0, dimension.Count)
	for _, d := range dimension.All() {
		samples := make(map[string][]string, len(language.All()))
		for _, l := range language.All() {
			if !table.Has(d, l) {
				continue
			}
			kws := table.Keywords(d, l)
			samples[string(l)] = append([]string(nil), kws[:min(sampleKeywords, len(kws))]...)
		}
		dims = append(dims, DimensionInfo{
			ID:             d.ID(),
			Slug:           d.Slug(),
			Name:           d.String(),
			Description:    d.Description(),
			VerseNumber:    d.ID(),
			SampleKeywords: samples,
		})
	}

	writeJSON(w, http.StatusOK, DimensionsResponse{
		Dimensions: dims,
		Version:    s.analysis.Analyzer().Version(),
	})
}

// Feedback handles POST /api/v2/feedback.
func (s *Server) Feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	receipt, err := s.feedback.Submit(r.Context(), feedbackuc.Submission{
		Text:      cleanText(req.Text),
		Predicted: req.Predicted,
		Correct:   req.Correct,
		Notes:     req.Notes,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FeedbackResponse{
		FeedbackID: receipt.ID,
		ErrorScore: receipt.ErrorScore,
		ReceivedAt: receipt.At,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		Version:   report.Version,
		Timestamp: report.Timestamp,
	})
}

var textCleaner = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "")

// cleanText drops markup-significant characters and surrounding whitespace.
func cleanText(s string) string {
	return strings.TrimSpace(textCleaner.Replace(s))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Detailed handlers expose the full error chain, others only the sentinel text.
func sentinelHandler(sentinel error, status int, code ErrorCode, detailed bool) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if detailed {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Debug("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
