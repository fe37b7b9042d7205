// Package cache stores the most recent analysis result per ticker with
// a fixed time-to-live.
package cache

import (
	"context"
	"sync"
	"time"

	"sentient110/models"
)

// DefaultTTL is the result cache time-to-live.
const DefaultTTL = 600 * time.Second

// ResultCache maps a ticker to its most recent analysis result.
// An expired entry is treated as absent; Set unconditionally
// overwrites and resets the TTL.
type ResultCache interface {
	Get(ctx context.Context, ticker string) (*models.AnalysisResult, bool)
	Set(ctx context.Context, ticker string, result *models.AnalysisResult)
}

type memoryEntry struct {
	data      *models.AnalysisResult
	expiresAt time.Time
}

// MemoryCache is the in-process ResultCache used when Redis is not
// configured. Expiry is lazy: entries are never swept, a stale entry
// is simply not returned and gets overwritten on the next Set.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates an in-memory cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached result for a ticker, or false when the entry
// is absent or expired.
func (c *MemoryCache) Get(_ context.Context, ticker string) (*models.AnalysisResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[ticker]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

// Set stores the result, overwriting any existing entry and resetting
// the TTL from now.
func (c *MemoryCache) Set(_ context.Context, ticker string, result *models.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[ticker] = memoryEntry{
		data:      result,
		expiresAt: c.now().Add(c.ttl),
	}
}
