package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"sentient110/models"
)

// RedisCache is a ResultCache backed by Redis. Expiry is server-side,
// so Get on a stale key is a plain miss. Any Redis error is treated as
// a miss rather than surfaced.
type RedisCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewRedisCache creates a Redis-backed result cache.
func NewRedisCache(redis *RedisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{
		redis: redis,
		ttl:   ttl,
	}
}

func resultKey(ticker string) string {
	return fmt.Sprintf("analysis:result:%s", ticker)
}

// Get retrieves a cached analysis result for a ticker.
func (c *RedisCache) Get(ctx context.Context, ticker string) (*models.AnalysisResult, bool) {
	if c.redis == nil {
		return nil, false
	}

	var result models.AnalysisResult
	if err := c.redis.Get(ctx, resultKey(ticker), &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Set caches an analysis result for a ticker with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, ticker string, result *models.AnalysisResult) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Set(ctx, resultKey(ticker), result, c.ttl); err != nil {
		log.Printf("Failed to cache analysis for %s: %v", ticker, err)
	}
}
