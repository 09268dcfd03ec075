// Package analysiscache stores finished analyses in the KV store.
package analysiscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/heptuple/internal/db"
	"github.com/kailas-cloud/heptuple/internal/usecase/analysis"
)

// DefaultTTL is how long a cached analysis lives.
const DefaultTTL = 2 * time.Hour

// store is the consumer interface for the analysis cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache implements analysis.Cache. Store failures are logged and treated as misses.
type Cache struct {
	store  store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

var _ analysis.Cache = (*Cache)(nil)

// New creates an analysis cache. keyPrefix namespaces every key; ttl <= 0 selects DefaultTTL.
func New(s store, keyPrefix string, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: s, prefix: keyPrefix + "analysis:", ttl: ttl, logger: logger}
}

// Get returns a cached result.
func (c *Cache) Get(ctx context.Context, key string) (analysis.Result, bool) {
	data, err := c.store.Get(ctx, c.prefix+key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Analysis cache read failed", zap.String("key", key), zap.Error(err))
		}
		return analysis.Result{}, false
	}

	var dto resultDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		c.logger.Warn("Analysis cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return analysis.Result{}, false
	}
	r, err := fromDTO(dto)
	if err != nil {
		c.logger.Warn("Analysis cache entry is invalid", zap.String("key", key), zap.Error(err))
		return analysis.Result{}, false
	}
	return r, true
}

// Put stores a result. Failures are logged.
func (c *Cache) Put(ctx context.Context, key string, r analysis.Result) {
	data, err := json.Marshal(toDTO(r))
	if err != nil {
		c.logger.Warn("Analysis cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, c.prefix+key, data, c.ttl); err != nil {
		c.logger.Warn("Analysis cache write failed", zap.String("key", key), zap.Error(err))
	}
}
