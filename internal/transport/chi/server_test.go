package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/corpus"
	"github.com/kailas-cloud/heptuple/internal/domain/profile"
	analysisuc "github.com/kailas-cloud/heptuple/internal/usecase/analysis"
	compareuc "github.com/kailas-cloud/heptuple/internal/usecase/compare"
	feedbackuc "github.com/kailas-cloud/heptuple/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/heptuple/internal/usecase/health"
	searchuc "github.com/kailas-cloud/heptuple/internal/usecase/search"
)

// --- Fakes ---

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[int64]profile.Named
}

func (f *fakeProfiles) Get(_ context.Context, id int64) (profile.Named, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return profile.Named{}, fmt.Errorf("profile %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (f *fakeProfiles) Put(_ context.Context, p profile.Named) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.ID] = p
	return nil
}

type fakeRecords struct {
	mu      sync.Mutex
	records []corpus.Record
	findErr error
}

func (f *fakeRecords) FindContaining(_ context.Context, c corpus.Corpus, query string, limit int) ([]corpus.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []corpus.Record
	for _, r := range f.records {
		if r.Corpus != c || len(out) == limit {
			continue
		}
		for _, field := range c.LookupFields() {
			if strings.Contains(strings.ToLower(r.Field(field)), strings.ToLower(query)) {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRecords) Put(_ context.Context, r corpus.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, r)
	return nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

// --- Harness ---

type testEnv struct {
	router   http.Handler
	profiles *fakeProfiles
	records  *fakeRecords
}

func newTestEnv(t *testing.T, pingErr error) *testEnv {
	t.Helper()

	profiles := &fakeProfiles{profiles: map[int64]profile.Named{}}
	records := &fakeRecords{}
	analyzer := analysisuc.NewAnalyzer(nil, "")

	srv := NewServer(
		analysisuc.New(analyzer),
		compareuc.New(profiles),
		searchuc.New(records),
		feedbackuc.New(),
		healthuc.New(fakePinger{err: pingErr}, analyzer.Table(), "test"),
		zap.NewNop(),
	)
	r := chi.NewRouter()
	srv.Mount(r)

	return &testEnv{router: r, profiles: profiles, records: records}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code ErrorCode) ErrorResponse {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	errResp := decode[ErrorResponse](t, rr)
	if errResp.Code != code {
		t.Errorf("code: got %s, want %s", errResp.Code, code)
	}
	return errResp
}

// --- Analysis ---

func TestAnalyze_English(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, "POST", "/api/v2/analyze", AnalyzeRequest{
		Text: "The mystery of creation: God created the heavens and the earth.",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[AnalyzeResponse](t, rr)

	want := []int{33, 100, 0, 0, 33, 0, 0}
	for i, s := range want {
		if resp.Scores[i] != s {
			t.Fatalf("scores: got %v, want %v", resp.Scores, want)
		}
	}
	if resp.Profile["creation"] != 100 {
		t.Errorf("profile map: got %v", resp.Profile)
	}
	if resp.Dominant.ID != 2 || resp.Dominant.Slug != "creation" {
		t.Errorf("dominant: got %+v", resp.Dominant)
	}
	if resp.IntensityMax != 100 {
		t.Errorf("intensity_max: got %d", resp.IntensityMax)
	}
	if resp.Language != "en" {
		t.Errorf("language: got %s", resp.Language)
	}
	if len(resp.ConfidenceScores) != 7 || resp.ConfidenceScore == nil {
		t.Errorf("confidence included by default, got %v / %v", resp.ConfidenceScores, resp.ConfidenceScore)
	}
	if resp.Details != nil {
		t.Error("details must be omitted unless requested")
	}
}

func TestAnalyze_OptionalBlocks(t *testing.T) {
	env := newTestEnv(t, nil)
	off := false

	rr := env.do(t, "POST", "/api/v2/analyze", AnalyzeRequest{
		Text:              "Le paradis et la lumière",
		IncludeConfidence: &off,
		IncludeDetails:    true,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	raw := decode[map[string]json.RawMessage](t, rr)

	if _, ok := raw["confidence_scores"]; ok {
		t.Error("confidence_scores must be omitted")
	}
	if _, ok := raw["confidence_score"]; ok {
		t.Error("confidence_score must be omitted")
	}
	var details AnalysisDetails
	if err := json.Unmarshal(raw["details"], &details); err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Method != analysisuc.MethodKeywordBased || details.WordCount != 5 || details.Language != "fr" {
		t.Errorf("details: got %+v", details)
	}
}

func TestAnalyze_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("only markup characters", func(t *testing.T) {
		rr := env.do(t, "POST", "/api/v2/analyze", AnalyzeRequest{Text: ` <>"' `})
		expectError(t, rr, http.StatusBadRequest, CodeValidationFailed)
	})

	t.Run("too long", func(t *testing.T) {
		rr := env.do(t, "POST", "/api/v2/analyze", AnalyzeRequest{Text: strings.Repeat("a", 10001)})
		expectError(t, rr, http.StatusBadRequest, CodeValidationFailed)
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := env.do(t, "POST", "/api/v2/analyze", `{"text":`)
		expectError(t, rr, http.StatusBadRequest, CodeBadRequest)
	})
}

func TestAnalyzeBatch_OrderPreserved(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, "POST", "/api/v2/analyze/batch", BatchAnalyzeRequest{Texts: []string{
		"The mystery of creation: God created the heavens and the earth.",
		"بسم الله الرحمن الرحيم",
		"xyz qwerty",
	}})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[BatchAnalyzeResponse](t, rr)

	if resp.Total != 3 {
		t.Fatalf("total: got %d", resp.Total)
	}
	for i, lang := range []string{"en", "ar", "fr"} {
		if resp.Items[i].Language != lang {
			t.Errorf("item %d: language %s, want %s", i, resp.Items[i].Language, lang)
		}
	}
}

func TestAnalyzeBatch_InvalidItemFailsBatch(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, "POST", "/api/v2/analyze/batch", BatchAnalyzeRequest{Texts: []string{"ok text", "<>"}})
	errResp := expectError(t, rr, http.StatusBadRequest, CodeValidationFailed)
	if !strings.Contains(errResp.Message, "text 1") {
		t.Errorf("message should name the failing item, got %q", errResp.Message)
	}
}

// --- Profiles & comparison ---

func TestProfiles_SaveAndGet(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, "POST", "/api/v2/profiles", ProfileRequest{
		ID: 1, Name: "Al-Fatiha", Scores: []int{10, 20, 90, 30, 80, 70, 10},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("save: got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/api/v2/profiles/1" {
		t.Errorf("location: got %q", loc)
	}

	rr = env.do(t, "GET", "/api/v2/profiles/1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: got %d", rr.Code)
	}
	resp := decode[ProfileResponse](t, rr)
	if resp.Name != "Al-Fatiha" || resp.Dominant.Slug != "attributes" {
		t.Errorf("got %+v", resp)
	}
}

func TestProfiles_Errors(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   ErrorCode
	}{
		{"missing profile", "GET", "/api/v2/profiles/42", nil, http.StatusNotFound, CodeNotFound},
		{"non-numeric id", "GET", "/api/v2/profiles/abc", nil, http.StatusBadRequest, CodeValidationFailed},
		{"short score list", "POST", "/api/v2/profiles",
			ProfileRequest{ID: 1, Scores: []int{1, 2}}, http.StatusBadRequest, CodeValidationFailed},
		{"score out of range", "POST", "/api/v2/profiles",
			ProfileRequest{ID: 1, Scores: []int{0, 0, 0, 0, 0, 0, 101}}, http.StatusBadRequest, CodeValidationFailed},
		{"zero id", "POST", "/api/v2/profiles",
			ProfileRequest{Scores: []int{0, 0, 0, 0, 0, 0, 1}}, http.StatusBadRequest, CodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, tt.method, tt.path, tt.body)
			expectError(t, rr, tt.status, tt.code)
		})
	}
}

func TestCompare_Inline(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, "POST", "/api/v2/compare", CompareRequest{
		Profiles: []ProfileRequest{
			{ID: 1, Name: "a", Scores: []int{100, 0, 0, 0, 0, 0, 0}},
			{ID: 2, Name: "b", Scores: []int{100, 0, 0, 0, 0, 0, 0}},
		},
		DimensionsFocus: []string{"mysteries", "7"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[CompareResponse](t, rr)

	if resp.Statistics.TotalProfiles != 2 {
		t.Errorf("total_profiles: got %d", resp.Statistics.TotalProfiles)
	}
	if len(resp.SimilarityMatrix) != 2 || resp.SimilarityMatrix[0][0] != 1 || resp.SimilarityMatrix[0][1] != 1 {
		t.Errorf("matrix: got %v", resp.SimilarityMatrix)
	}
	if len(resp.Statistics.Averages) != 2 || resp.Statistics.Averages["mysteries"] != 100 {
		t.Errorf("focused averages: got %v", resp.Statistics.Averages)
	}
	if len(resp.Insights) == 0 {
		t.Error("expected insights")
	}
}

func TestCompare_ByID(t *testing.T) {
	env := newTestEnv(t, nil)
	env.profiles.profiles[1] = profile.Named{ID: 1, Name: "a", Profile: profile.Vector{100, 0, 0, 0, 0, 0, 0}}
	env.profiles.profiles[2] = profile.Named{ID: 2, Name: "b", Profile: profile.Vector{0, 100, 0, 0, 0, 0, 0}}

	rr := env.do(t, "POST", "/api/v2/compare", CompareRequest{IDs: []int64{1, 2}})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[CompareResponse](t, rr)
	if resp.SimilarityMatrix[0][1] != 0 {
		t.Errorf("orthogonal profiles: got %v", resp.SimilarityMatrix[0][1])
	}

	rr = env.do(t, "POST", "/api/v2/compare", CompareRequest{IDs: []int64{1, 99}})
	expectError(t, rr, http.StatusNotFound, CodeNotFound)
}

func TestCompare_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	scores := []int{0, 0, 0, 0, 0, 0, 0}

	tests := []struct {
		name string
		req  CompareRequest
	}{
		{"single id", CompareRequest{IDs: []int64{1}}},
		{"nothing", CompareRequest{}},
		{"both forms", CompareRequest{IDs: []int64{1, 2}, Profiles: []ProfileRequest{{ID: 1, Scores: scores}}}},
		{"unknown focus", CompareRequest{IDs: []int64{1, 2}, DimensionsFocus: []string{"nine"}}},
		{"too many ids", CompareRequest{IDs: []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, "POST", "/api/v2/compare", tt.req)
			expectError(t, rr, http.StatusBadRequest, CodeValidationFailed)
		})
	}
}

// --- Search ---

func TestSearch_StoreAndRank(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, "POST", "/api/v2/corpus/verses", RecordRequest{
		ID:     "24-35",
		Fields: map[string]string{corpus.FieldFrench: "Dieu est la lumière des cieux et de la terre"},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("store: got %d: %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, "GET", "/api/v2/search/verses?q="+url.QueryEscape("lumière")+"&limit=5", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("search: got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[SearchResponse](t, rr)
	if resp.Total != 1 || resp.Items[0].ID != "24-35" {
		t.Fatalf("got %+v", resp)
	}
	if resp.Items[0].Score != 2.0 {
		t.Errorf("score: got %v, want 2.0", resp.Items[0].Score)
	}
	if got := resp.Items[0].Highlights[corpus.FieldFrench]; len(got) != 1 {
		t.Errorf("highlights: got %v", resp.Items[0].Highlights)
	}
}

func TestSearch_Errors(t *testing.T) {
	env := newTestEnv(t, nil)

	expectError(t, env.do(t, "GET", "/api/v2/search/poems?q=x", nil), http.StatusBadRequest, CodeUnknownCorpus)
	expectError(t, env.do(t, "GET", "/api/v2/search/verses?q=", nil), http.StatusBadRequest, CodeValidationFailed)
	expectError(t, env.do(t, "GET", "/api/v2/search/verses?q=x&limit=-1", nil), http.StatusBadRequest, CodeValidationFailed)
	expectError(t, env.do(t, "POST", "/api/v2/corpus/verses", RecordRequest{ID: "1"}),
		http.StatusBadRequest, CodeValidationFailed)
}

func TestSearch_StorageFailureIsInternal(t *testing.T) {
	env := newTestEnv(t, nil)
	env.records.findErr = errors.New("connection reset by peer")

	rr := env.do(t, "GET", "/api/v2/search/fiqh?q="+url.QueryEscape("prière"), nil)
	errResp := expectError(t, rr, http.StatusInternalServerError, CodeInternalError)
	if errResp.Message != "internal error" {
		t.Errorf("internal details leaked: %q", errResp.Message)
	}
}

func TestUniversalSearch(t *testing.T) {
	env := newTestEnv(t, nil)
	env.records.records = []corpus.Record{
		{ID: "1", Corpus: corpus.Verses, Fields: map[string]string{corpus.FieldFrench: "la prière"}},
		{ID: "2", Corpus: corpus.Hadiths, Fields: map[string]string{corpus.FieldFrench: "la prière en groupe"}},
		{ID: "3", Corpus: corpus.Fiqh, Fields: map[string]string{corpus.FieldQuestion: "la prière du voyageur"}},
	}

	rr := env.do(t, "POST", "/api/v2/search/universal", UniversalSearchRequest{Query: "prière"})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[UniversalSearchResponse](t, rr)
	if resp.TotalResults != 3 || len(resp.Results) != 3 {
		t.Errorf("got %+v", resp)
	}

	rr = env.do(t, "POST", "/api/v2/search/universal", UniversalSearchRequest{Query: "prière", Corpora: []string{"fiqh"}})
	resp = decode[UniversalSearchResponse](t, rr)
	if resp.TotalResults != 1 || len(resp.Results["fiqh"]) != 1 {
		t.Errorf("restricted: got %+v", resp)
	}

	rr = env.do(t, "POST", "/api/v2/search/universal", UniversalSearchRequest{Query: "x", Corpora: []string{"poems"}})
	expectError(t, rr, http.StatusBadRequest, CodeUnknownCorpus)
}

// --- Catalog, feedback, ops ---

func TestDimensions(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, "GET", "/api/v2/dimensions", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	resp := decode[DimensionsResponse](t, rr)

	if len(resp.Dimensions) != 7 {
		t.Fatalf("got %d dimensions", len(resp.Dimensions))
	}
	for i, d := range resp.Dimensions {
		if d.ID != i+1 || d.VerseNumber != d.ID {
			t.Errorf("dimension %d: got id %d verse %d", i, d.ID, d.VerseNumber)
		}
		fr := d.SampleKeywords["fr"]
		if len(fr) == 0 || len(fr) > sampleKeywords {
			t.Errorf("%s: french samples %v", d.Slug, fr)
		}
	}
	if resp.Version == "" {
		t.Error("expected model version")
	}
}

func TestFeedback(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, "POST", "/api/v2/feedback", FeedbackRequest{
		Text:      "texte",
		Predicted: []int{100, 0},
		Correct:   []int{0, 0},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[FeedbackResponse](t, rr)
	if resp.ErrorScore != 0.5 {
		t.Errorf("error_score: got %v, want 0.5", resp.ErrorScore)
	}
	if len(resp.FeedbackID) != 8 {
		t.Errorf("feedback_id: got %q", resp.FeedbackID)
	}

	rr = env.do(t, "POST", "/api/v2/feedback", FeedbackRequest{Predicted: []int{1}})
	expectError(t, rr, http.StatusBadRequest, CodeValidationFailed)
}

func TestHealthCheck(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		rr := newTestEnv(t, nil).do(t, "GET", "/health", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d", rr.Code)
		}
		resp := decode[HealthResponse](t, rr)
		if resp.Status != "ok" || resp.Checks["database"] != "ok" || resp.Checks["taxonomy"] != "ok" {
			t.Errorf("got %+v", resp)
		}
	})

	t.Run("degraded", func(t *testing.T) {
		rr := newTestEnv(t, errors.New("down")).do(t, "GET", "/health", nil)
		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("got %d", rr.Code)
		}
		resp := decode[HealthResponse](t, rr)
		if resp.Status != "degraded" || resp.Checks["database"] != "error" {
			t.Errorf("got %+v", resp)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	rr := newTestEnv(t, nil).do(t, "GET", "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("got %d", rr.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, nil)
	expectError(t, env.do(t, "GET", "/api/v2/nope", nil), http.StatusNotFound, CodeNotFound)
	rr := env.do(t, "DELETE", "/api/v2/analyze", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("got %d, want 405", rr.Code)
	}
}

func TestCleanText(t *testing.T) {
	tests := map[string]string{
		`  <b>lumière</b> `:   "blumière/b",
		`"citation" d'amour`: "citation damour",
		"":                   "",
	}
	for in, want := range tests {
		if got := cleanText(in); got != want {
			t.Errorf("cleanText(%q) = %q, want %q", in, got, want)
		}
	}
}
