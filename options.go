package heptuple

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/heptuple/internal/domain/keyword"
	analysisuc "github.com/kailas-cloud/heptuple/internal/usecase/analysis"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver        string
	addrs         []string
	password      string
	keyPrefix     string
	keywordsFile  string
	modelVersion  string
	cacheTTL      time.Duration
	maxTextLength int
	logger        *zap.Logger
}

// WithValkey connects to a Valkey server.
func WithValkey(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithRedis connects to a Redis server.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithKeyPrefix namespaces every key the client writes. Default "heptuple:".
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithKeywordsFile replaces the built-in keyword taxonomy with a YAML file.
func WithKeywordsFile(path string) Option {
	return func(c *clientConfig) {
		c.keywordsFile = path
	}
}

// WithModelVersion sets the version tag reported with every analysis.
func WithModelVersion(v string) Option {
	return func(c *clientConfig) {
		c.modelVersion = v
	}
}

// WithCache caches analyses in the database for ttl. Disabled by default.
func WithCache(ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.cacheTTL = ttl
	}
}

// WithMaxTextLength caps the analyzed text length in characters.
func WithMaxTextLength(n int) Option {
	return func(c *clientConfig) {
		c.maxTextLength = n
	}
}

// WithLogger sets the logger used for cache warnings.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

func (c *clientConfig) keywordTable() (*keyword.Table, error) {
	if c.keywordsFile == "" {
		return keyword.Default(), nil
	}
	t, err := keyword.Load(c.keywordsFile)
	if err != nil {
		return nil, fmt.Errorf("keywords: %w", err)
	}
	return t, nil
}

// AnalyzeOption adds optional blocks to an Analysis.
type AnalyzeOption func(*analysisuc.Options)

// WithConfidence adds per-dimension confidence scores.
func WithConfidence() AnalyzeOption {
	return func(o *analysisuc.Options) {
		o.IncludeConfidence = true
	}
}

// WithDetails adds language, length and word count.
func WithDetails() AnalyzeOption {
	return func(o *analysisuc.Options) {
		o.IncludeDetails = true
	}
}

func analyzeOptions(opts []AnalyzeOption) analysisuc.Options {
	var o analysisuc.Options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
