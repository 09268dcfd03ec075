// Package heptuple embeds the heptuple text-profile engine: keyword analysis
// of a text into seven dimension scores, comparison of stored profiles and
// ranked search over the verse, hadith and fiqh corpora, backed by Redis or
// Valkey.
package heptuple

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/heptuple/internal/db"
	dbRedis "github.com/kailas-cloud/heptuple/internal/db/redis"
	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/corpus"
	"github.com/kailas-cloud/heptuple/internal/domain/keyword"
	"github.com/kailas-cloud/heptuple/internal/repository/analysiscache"
	corpusrepo "github.com/kailas-cloud/heptuple/internal/repository/corpus"
	profilerepo "github.com/kailas-cloud/heptuple/internal/repository/profile"
	analysisuc "github.com/kailas-cloud/heptuple/internal/usecase/analysis"
	compareuc "github.com/kailas-cloud/heptuple/internal/usecase/compare"
	searchuc "github.com/kailas-cloud/heptuple/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the heptuple SDK entry point.
type Client struct {
	store       db.Store
	analysisSvc *analysisuc.Service
	compareSvc  *compareuc.Service
	searchSvc   *searchuc.Service
}

// New creates a Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: domain.KeyPrefix}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("heptuple: database address required (use WithValkey or WithRedis)")
	}

	table, err := cfg.keywordTable()
	if err != nil {
		return nil, fmt.Errorf("heptuple: %w", err)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("heptuple: database not ready: %w", err)
	}

	return wireClient(store, table, cfg), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("heptuple: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("heptuple: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, table *keyword.Table, cfg *clientConfig) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	analysisSvc := analysisuc.New(analysisuc.NewAnalyzer(table, cfg.modelVersion)).
		WithMaxTextLength(cfg.maxTextLength)
	if cfg.cacheTTL > 0 {
		analysisSvc.WithCache(analysiscache.New(store, cfg.keyPrefix, cfg.cacheTTL, logger))
	}

	return &Client{
		store:       store,
		analysisSvc: analysisSvc,
		compareSvc:  compareuc.New(profilerepo.New(store, cfg.keyPrefix)),
		searchSvc:   searchuc.New(corpusrepo.New(store, cfg.keyPrefix)),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Analyze computes the profile of text.
func (c *Client) Analyze(ctx context.Context, text string, opts ...AnalyzeOption) (Analysis, error) {
	res, err := c.analysisSvc.Analyze(ctx, text, analyzeOptions(opts))
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}
	return fromInternalAnalysis(&res), nil
}

// AnalyzeBatch analyzes up to 100 texts. Results keep the input order; one
// invalid text fails the whole batch.
func (c *Client) AnalyzeBatch(ctx context.Context, texts []string, opts ...AnalyzeOption) ([]Analysis, error) {
	results, err := c.analysisSvc.AnalyzeBatch(ctx, texts, analyzeOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("analyze batch: %w", err)
	}
	out := make([]Analysis, len(results))
	for i := range results {
		out[i] = fromInternalAnalysis(&results[i])
	}
	return out, nil
}

// Profiles returns the stored-profile service.
func (c *Client) Profiles() *ProfileService {
	return &ProfileService{svc: c.compareSvc}
}

// Corpus returns the record service for one corpus.
func (c *Client) Corpus(name Corpus) *CorpusService {
	return &CorpusService{corpus: corpus.Corpus(name), svc: c.searchSvc}
}

// SearchAll searches several corpora at once; none means all of them.
func (c *Client) SearchAll(ctx context.Context, query string, limit int, corpora ...Corpus) (map[Corpus][]Hit, error) {
	internal := make([]corpus.Corpus, len(corpora))
	for i, name := range corpora {
		internal[i] = corpus.Corpus(name)
	}

	res, err := c.searchSvc.Universal(ctx, query, internal, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := make(map[Corpus][]Hit, len(res.Hits))
	for name, hits := range res.Hits {
		out[Corpus(name)] = fromInternalHits(hits)
	}
	return out, nil
}
