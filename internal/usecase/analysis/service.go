package analysis

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/heptuple/internal/domain"
	logpkg "github.com/kailas-cloud/heptuple/internal/logger"
	"github.com/kailas-cloud/heptuple/internal/metrics"
)

// Service limits.
const (
	DefaultMaxTextLength    = 10000
	DefaultBatchConcurrency = 4
	MaxBatchSize            = 100
)

// Cache stores finished analyses by key. Implementations swallow their own
// failures: a broken cache degrades to recomputation, never to an error.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool)
	Put(ctx context.Context, key string, r Result)
}

// Service wraps the Analyzer with input limits, caching, metrics and batching.
type Service struct {
	analyzer         *Analyzer
	cache            Cache
	maxTextLength    int
	batchConcurrency int
}

// New creates an analysis service.
func New(analyzer *Analyzer) *Service {
	return &Service{
		analyzer:         analyzer,
		maxTextLength:    DefaultMaxTextLength,
		batchConcurrency: DefaultBatchConcurrency,
	}
}

// WithCache enables result caching.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// WithMaxTextLength configures the maximum text length in characters.
func (s *Service) WithMaxTextLength(n int) *Service {
	if n > 0 {
		s.maxTextLength = n
	}
	return s
}

// WithBatchConcurrency configures how many batch items are analyzed at once.
func (s *Service) WithBatchConcurrency(n int) *Service {
	if n > 0 {
		s.batchConcurrency = n
	}
	return s
}

// Analyzer returns the underlying pure analyzer.
func (s *Service) Analyzer() *Analyzer { return s.analyzer }

// Analyze validates text, serves it from cache when possible, and otherwise
// runs the analyzer.
func (s *Service) Analyze(ctx context.Context, text string, opts Options) (Result, error) {
	if err := s.validate(text); err != nil {
		return Result{}, err
	}

	log := logpkg.FromContext(ctx)
	key := CacheKey(text, opts)

	if s.cache != nil {
		if res, ok := s.cache.Get(ctx, key); ok {
			metrics.AnalysisCacheTotal.WithLabelValues("hit").Inc()
			log.Debug("Analysis served from cache", zap.String("key", key))
			return res, nil
		}
		metrics.AnalysisCacheTotal.WithLabelValues("miss").Inc()
	}

	res, err := s.analyzer.Analyze(text, opts)
	if err != nil {
		return Result{}, fmt.Errorf("analyze: %w", err)
	}

	metrics.AnalysisTotal.WithLabelValues(string(res.Language), res.Dominant.Slug()).Inc()
	metrics.AnalysisDuration.WithLabelValues(string(res.Language)).Observe(res.Duration.Seconds())

	log.Debug("Analysis completed",
		zap.String("language", string(res.Language)),
		zap.Int("dominant", res.Dominant.ID()),
		zap.Int("intensity_max", res.IntensityMax),
		zap.Duration("duration", res.Duration),
	)

	if s.cache != nil {
		s.cache.Put(ctx, key, res)
	}
	return res, nil
}

// AnalyzeBatch analyzes texts concurrently and returns results in input order.
// Any invalid text fails the whole batch before work starts.
func (s *Service) AnalyzeBatch(ctx context.Context, texts []string, opts Options) ([]Result, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: batch is empty", domain.ErrInvalidInput)
	}
	if len(texts) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch too large (max %d texts)", domain.ErrInvalidInput, MaxBatchSize)
	}
	for i, t := range texts {
		if err := s.validate(t); err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
	}

	results := make([]Result, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, t := range texts {
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err //nolint:wrapcheck // context cancellation
			}
			res, err := s.Analyze(logpkg.With(gctx, zap.Int("batch_index", i)), t, opts)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped per item
	}
	return results, nil
}

func (s *Service) validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text is empty", domain.ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(text); n > s.maxTextLength {
		return fmt.Errorf("%w: text too long (%d chars, max %d)", domain.ErrInvalidInput, n, s.maxTextLength)
	}
	return nil
}
