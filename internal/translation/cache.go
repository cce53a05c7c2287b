package translation

import (
	"context"
	"sync"
	"time"
)

// Cache stores translation results by request key
type Cache interface {
	// Get returns a cached result. Misses and backend errors both report false.
	Get(ctx context.Context, key string) (Result, bool)

	// Set stores a result
	Set(ctx context.Context, key string, res Result) error
}

type cacheEntry struct {
	result    Result
	timestamp time.Time
}

// MemoryCache is a process-local cache with optional TTL
type MemoryCache struct {
	entries map[string]cacheEntry
	mu      sync.RWMutex
	ttl     time.Duration
}

// NewMemoryCache creates an in-memory cache. A ttl <= 0 never expires entries.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl < 0 {
		ttl = 0
	}
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get retrieves a result, dropping it if expired
func (c *MemoryCache) Get(_ context.Context, key string) (Result, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return Result{}, false
	}

	if c.ttl > 0 && time.Since(entry.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return Result{}, false
	}

	return entry.result, true
}

// Set stores a result
func (c *MemoryCache) Set(_ context.Context, key string, res Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{result: res, timestamp: time.Now()}
	return nil
}

// Len returns the number of entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

var _ Cache = (*MemoryCache)(nil)
