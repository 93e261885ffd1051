package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/groupcache/lru"

	"github.com/TFMV/codescope/types"
)

// Key identifies an analysis input. Filename takes part because it selects
// the language.
type Key uint64

// KeyFor hashes a filename and source text into a cache key.
func KeyFor(filename, code string) Key {
	d := xxhash.New()
	_, _ = d.WriteString(filename)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(code)
	return Key(d.Sum64())
}

// ResultCache caches analysis results. Results are shared between callers
// and must be treated as read-only.
type ResultCache struct {
	cache *lru.Cache
	// lru.Cache reorders entries on Get, so reads take the full lock too.
	mu sync.Mutex

	hits, misses uint64
}

// NewResultCache creates a cache holding at most size results.
func NewResultCache(size int) *ResultCache {
	return &ResultCache{
		cache: lru.New(size),
	}
}

// Get returns the cached result for key, if available.
func (c *ResultCache) Get(key Key) (*types.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if val, ok := c.cache.Get(key); ok {
		c.hits++
		return val.(*types.AnalysisResult), true
	}
	c.misses++
	return nil, false
}

// Put stores a result under key.
func (c *ResultCache) Put(key Key, result *types.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key, result)
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Stats returns the hit and miss counters.
func (c *ResultCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear clears the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Clear()
}
