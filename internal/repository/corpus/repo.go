// Package corpus stores corpus records as hashes and serves substring lookups
// over them.
package corpus

import (
	"context"
	"fmt"
	"sort"
	"strings"

	domcorpus "github.com/kailas-cloud/heptuple/internal/domain/corpus"
	"github.com/kailas-cloud/heptuple/internal/domain/match"
)

// Hash field prefixes separating text fields from metadata.
const (
	fieldPrefix = "f:"
	metaPrefix  = "m:"
)

// fetchBatch is how many hashes are loaded per round-trip during lookup.
const fetchBatch = 200

// store is the consumer interface for corpus records (ISP).
type store interface {
	HReplace(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/search.RecordStore.
type Repo struct {
	store  store
	prefix string
}

// New creates a corpus repository. keyPrefix namespaces every key.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix + "corpus:"}
}

// Put stores a record, replacing every field of a previous version.
func (r *Repo) Put(ctx context.Context, rec domcorpus.Record) error {
	if err := r.store.HReplace(ctx, r.key(rec.Corpus, rec.ID), toHash(rec)); err != nil {
		return fmt.Errorf("replace %s record %s: %w", rec.Corpus, rec.ID, err)
	}
	return nil
}

// FindContaining returns up to limit records of c whose lookup fields contain
// query, case-insensitively, in key order.
func (r *Repo) FindContaining(
	ctx context.Context, c domcorpus.Corpus, query string, limit int,
) ([]domcorpus.Record, error) {
	q := match.Fold(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil, nil
	}

	prefix := r.corpusPrefix(c)
	keys, err := r.store.Scan(ctx, prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c, err)
	}
	sort.Strings(keys)

	var out []domcorpus.Record
	for start := 0; start < len(keys) && len(out) < limit; start += fetchBatch {
		end := min(start+fetchBatch, len(keys))
		hashes, err := r.store.HGetAllMulti(ctx, keys[start:end])
		if err != nil {
			return nil, fmt.Errorf("load %s records: %w", c, err)
		}
		for i, h := range hashes {
			if len(h) == 0 {
				continue // expired or deleted between SCAN and HGETALL
			}
			rec := fromHash(c, strings.TrimPrefix(keys[start+i], prefix), h)
			if !containsQuery(&rec, q) {
				continue
			}
			out = append(out, rec)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func containsQuery(rec *domcorpus.Record, foldedQuery string) bool {
	for _, f := range rec.Corpus.LookupFields() {
		if text := rec.Field(f); text != "" && strings.Contains(match.Fold(text), foldedQuery) {
			return true
		}
	}
	return false
}

func (r *Repo) corpusPrefix(c domcorpus.Corpus) string {
	return r.prefix + string(c) + ":"
}

func (r *Repo) key(c domcorpus.Corpus, id string) string {
	return r.corpusPrefix(c) + id
}

func toHash(rec domcorpus.Record) map[string]string {
	m := make(map[string]string, len(rec.Fields)+len(rec.Meta))
	for k, v := range rec.Fields {
		m[fieldPrefix+k] = v
	}
	for k, v := range rec.Meta {
		m[metaPrefix+k] = v
	}
	return m
}

func fromHash(c domcorpus.Corpus, id string, h map[string]string) domcorpus.Record {
	rec := domcorpus.Record{
		ID:     id,
		Corpus: c,
		Fields: make(map[string]string),
		Meta:   make(map[string]string),
	}
	for k, v := range h {
		switch {
		case strings.HasPrefix(k, fieldPrefix):
			rec.Fields[strings.TrimPrefix(k, fieldPrefix)] = v
		case strings.HasPrefix(k, metaPrefix):
			rec.Meta[strings.TrimPrefix(k, metaPrefix)] = v
		}
	}
	return rec
}
