package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/corpus"
	logpkg "github.com/kailas-cloud/heptuple/internal/logger"
	"github.com/kailas-cloud/heptuple/internal/metrics"
)

// Default result limits.
const (
	DefaultLimit = 20
	DefaultMax   = 100
)

// CandidateFinder returns records of a corpus whose lookup fields contain query.
type CandidateFinder interface {
	FindContaining(ctx context.Context, c corpus.Corpus, query string, limit int) ([]corpus.Record, error)
}

// RecordStore finds and stores corpus records.
type RecordStore interface {
	CandidateFinder
	Put(ctx context.Context, r corpus.Record) error
}

// UniversalResult groups ranked hits by corpus.
type UniversalResult struct {
	Hits  map[corpus.Corpus][]Hit
	Total int
}

// Service runs corpus lookups and ranks the candidates.
type Service struct {
	store        RecordStore
	defaultLimit int
	maxLimit     int
}

// New creates a search service.
func New(store RecordStore) *Service {
	return &Service{store: store, defaultLimit: DefaultLimit, maxLimit: DefaultMax}
}

// WithLimits configures the default and maximum result limits.
func (s *Service) WithLimits(defaultLimit, maxLimit int) *Service {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	return s
}

// Search ranks records of one corpus against query.
func (s *Service) Search(ctx context.Context, c corpus.Corpus, query string, limit int) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	return s.search(ctx, c, query, s.clampLimit(limit))
}

// Universal searches several corpora at once. Each corpus gets a third of the
// limit, at least one. No corpora means all of them.
func (s *Service) Universal(ctx context.Context, query string, corpora []corpus.Corpus, limit int) (*UniversalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if len(corpora) == 0 {
		corpora = corpus.All()
	}
	for _, c := range corpora {
		if !c.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCorpus, c)
		}
	}
	perCorpus := max(s.clampLimit(limit)/3, 1)

	var mu sync.Mutex
	res := &UniversalResult{Hits: make(map[corpus.Corpus][]Hit, len(corpora))}
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range corpora {
		c := c
		g.Go(func() error {
			hits, err := s.search(gctx, c, query, perCorpus)
			if err != nil {
				return err
			}
			mu.Lock()
			res.Hits[c] = hits
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // wrapped per corpus
	}
	for _, hits := range res.Hits {
		res.Total += len(hits)
	}
	return res, nil
}

// Store validates and persists a record.
func (s *Service) Store(ctx context.Context, r corpus.Record) error {
	if err := r.Validate(); err != nil {
		return err //nolint:wrapcheck // domain error
	}
	if err := s.store.Put(ctx, r); err != nil {
		return fmt.Errorf("store %s record %s: %w", r.Corpus, r.ID, err)
	}
	return nil
}

func (s *Service) search(ctx context.Context, c corpus.Corpus, query string, limit int) ([]Hit, error) {
	scheme, err := SchemeFor(c)
	if err != nil {
		return nil, err
	}
	records, err := s.store.FindContaining(ctx, c, query, limit)
	if err != nil {
		return nil, fmt.Errorf("find %s candidates: %w", c, err)
	}

	hits := Rank(query, scheme, records)
	metrics.SearchResultsTotal.WithLabelValues(string(c)).Add(float64(len(hits)))
	logpkg.FromContext(ctx).Debug("Corpus searched",
		zap.String("corpus", string(c)),
		zap.Int("candidates", len(records)),
		zap.Int("limit", limit),
	)
	return hits, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	return min(limit, s.maxLimit)
}
