package heptuple

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/heptuple/internal/domain/corpus"
	searchuc "github.com/kailas-cloud/heptuple/internal/usecase/search"
)

// CorpusService stores and searches the records of a single corpus.
type CorpusService struct {
	corpus corpus.Corpus
	svc    *searchuc.Service
}

// Store validates and saves a record.
func (s *CorpusService) Store(ctx context.Context, r Record) error {
	rec := corpus.Record{ID: r.ID, Corpus: s.corpus, Fields: r.Fields, Meta: r.Meta}
	if err := s.svc.Store(ctx, rec); err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	return nil
}

// Search returns records matching query, best first. limit <= 0 uses the default.
func (s *CorpusService) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	hits, err := s.svc.Search(ctx, s.corpus, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.corpus, err)
	}
	return fromInternalHits(hits), nil
}
