package analysiscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/heptuple/internal/db"
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	"github.com/kailas-cloud/heptuple/internal/domain/language"
	"github.com/kailas-cloud/heptuple/internal/domain/profile"
	"github.com/kailas-cloud/heptuple/internal/usecase/analysis"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	setKeys []string
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setKeys = append(m.setKeys, key)
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func sampleResult() analysis.Result {
	return analysis.Result{
		Profile:      profile.Vector{33, 100, 0, 0, 33, 0, 0},
		Confidence:   []float64{0.2, 0.53, 0.03, 0.03, 0.2, 0.03, 0.03},
		Dominant:     dimension.Creation,
		IntensityMax: 100,
		Language:     language.English,
		Duration:     150 * time.Microsecond,
		Version:      "1.0.0",
		Details: &analysis.Details{
			Language:   language.English,
			TextLength: 64,
			WordCount:  11,
			Method:     analysis.MethodKeywordBased,
		},
	}
}

func TestCache_RoundTrip(t *testing.T) {
	ms := newMockKVStore()
	c := New(ms, "heptuple:", 0, zap.NewNop())
	ctx := context.Background()

	if _, ok := c.Get(ctx, "abc:11"); ok {
		t.Fatal("expected miss on empty cache")
	}

	want := sampleResult()
	c.Put(ctx, "abc:11", want)

	if len(ms.setKeys) != 1 || ms.setKeys[0] != "heptuple:analysis:abc:11" {
		t.Fatalf("unexpected keys: %v", ms.setKeys)
	}
	if ms.ttls["heptuple:analysis:abc:11"] != DefaultTTL {
		t.Errorf("expected default ttl, got %v", ms.ttls["heptuple:analysis:abc:11"])
	}

	got, ok := c.Get(ctx, "abc:11")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Profile != want.Profile || got.Dominant != want.Dominant || got.Language != want.Language {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.Duration != want.Duration || got.Version != want.Version {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if got.Details == nil || *got.Details != *want.Details {
		t.Errorf("details mismatch: %+v", got.Details)
	}
	if len(got.Confidence) != dimension.Count {
		t.Errorf("expected %d confidences, got %d", dimension.Count, len(got.Confidence))
	}
}

func TestCache_NoOptionalParts(t *testing.T) {
	ms := newMockKVStore()
	c := New(ms, "p:", time.Minute, zap.NewNop())

	r := sampleResult()
	r.Confidence = nil
	r.Details = nil
	c.Put(context.Background(), "k", r)

	got, ok := c.Get(context.Background(), "k")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Confidence != nil || got.Details != nil {
		t.Errorf("expected no optional parts, got %+v", got)
	}
	if ms.ttls["p:analysis:k"] != time.Minute {
		t.Errorf("unexpected ttl %v", ms.ttls["p:analysis:k"])
	}
}

func TestCache_StoreErrorsAreMisses(t *testing.T) {
	ms := newMockKVStore()
	ms.getErr = errors.New("connection refused")
	ms.setErr = errors.New("connection refused")
	c := New(ms, "p:", 0, zap.NewNop())

	c.Put(context.Background(), "k", sampleResult()) // must not panic
	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Fatal("expected miss on store error")
	}
}

func TestCache_CorruptEntry(t *testing.T) {
	tests := map[string]string{
		"not json":       "{",
		"short profile":  `{"profile":[1,2],"dominant":1,"language":"fr"}`,
		"bad dominant":   `{"profile":[0,0,0,0,0,0,0],"dominant":9,"language":"fr"}`,
		"bad language":   `{"profile":[0,0,0,0,0,0,0],"dominant":1,"language":"de"}`,
		"score too high": `{"profile":[0,0,0,0,0,0,101],"dominant":7,"language":"fr"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			ms := newMockKVStore()
			ms.data["p:analysis:k"] = []byte(raw)
			c := New(ms, "p:", 0, zap.NewNop())
			if _, ok := c.Get(context.Background(), "k"); ok {
				t.Fatal("expected miss on corrupt entry")
			}
		})
	}
}
