package search

import (
	"sort"

	"github.com/kailas-cloud/heptuple/internal/domain/corpus"
)

// Hit is a ranked record.
type Hit struct {
	Record     corpus.Record
	Score      float64
	Highlights map[string][]string
}

// Rank scores every record and orders them by descending score. Equal scores
// keep their input order.
func Rank(query string, s Scheme, records []corpus.Record) []Hit {
	hits := make([]Hit, len(records))
	for i := range records {
		hits[i] = Hit{
			Record:     records[i],
			Score:      s.Score(query, &records[i]),
			Highlights: s.Highlights(query, &records[i]),
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits
}
