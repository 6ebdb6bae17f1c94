// Package analysiscache caches text-analysis results so repeated
// descriptions of the same dish skip the provider call.
package analysiscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dishscout/dishscout/internal/db"
	"github.com/dishscout/dishscout/internal/domain"
	"github.com/dishscout/dishscout/internal/domain/dish"
)

var cacheKeyPrefix = domain.KeyPrefix + "analysis:text:"

// store is the consumer interface for the analysis cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// cachedDescriptor is the stored JSON form of an analysis result.
type cachedDescriptor struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Description string   `json:"description"`
}

// CachedAnalyzer caches text analysis results in a key-value store.
// Image analysis passes through uncached: photos rarely repeat
// byte-for-byte, so caching them only burns memory.
type CachedAnalyzer struct {
	inner      domain.Analyzer
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Analyzer,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedAnalyzer {
	return &CachedAnalyzer{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// AnalyzeText returns a cached descriptor or calls the inner analyzer.
func (c *CachedAnalyzer) AnalyzeText(ctx context.Context, text string) (dish.Descriptor, error) {
	key := c.cacheKey(text)

	if d, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return d, nil
	}

	c.incCache("miss")

	result, err := c.inner.AnalyzeText(ctx, text)
	if err != nil {
		return dish.Descriptor{}, fmt.Errorf("analyze text: %w", err)
	}

	c.putToCache(ctx, key, result)
	return result, nil
}

// AnalyzeImage delegates to the inner analyzer without caching.
func (c *CachedAnalyzer) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (dish.Descriptor, error) {
	return c.inner.AnalyzeImage(ctx, image, mimeType)
}

func (c *CachedAnalyzer) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedAnalyzer) cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedAnalyzer) getFromCache(ctx context.Context, key string) (dish.Descriptor, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached analysis", zap.String("key", key), zap.Error(err))
		}
		return dish.Descriptor{}, false
	}

	var dto cachedDescriptor
	if err := json.Unmarshal(data, &dto); err != nil {
		c.logger.Warn("Failed to parse cached analysis", zap.String("key", key), zap.Error(err))
		return dish.Descriptor{}, false
	}

	d, err := dish.New(dto.Name, dto.Ingredients, dto.Description, nil)
	if err != nil {
		c.logger.Warn("Cached analysis no longer valid", zap.String("key", key), zap.Error(err))
		return dish.Descriptor{}, false
	}
	return d, true
}

func (c *CachedAnalyzer) putToCache(ctx context.Context, key string, d dish.Descriptor) {
	data, err := json.Marshal(cachedDescriptor{
		Name:        d.Name(),
		Ingredients: d.Ingredients(),
		Description: d.Description(),
	})
	if err != nil {
		c.logger.Warn("Failed to marshal analysis for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache analysis", zap.String("key", key), zap.Error(err))
	}
}
