package store

import (
	"sync"
	"time"

	"panic-buying/internal/simulate"
)

// DefaultCacheEntries caps a cache built with a non-positive size.
const DefaultCacheEntries = 64

// CacheEntry is one cached result.
type CacheEntry struct {
	Result    *simulate.Result
	ExpiresAt time.Time
	seq       uint64
}

// ResultCache keeps recently produced results in memory so series can be
// fetched without a round trip to the run store. Results are immutable, so
// entries are shared without copying.
// At most maxEntries results are held; inserting past that evicts the
// oldest entry.
type ResultCache struct {
	mu         sync.RWMutex
	store      map[string]*CacheEntry
	ttl        time.Duration
	maxEntries int
	seq        uint64
	now        func() time.Time
}

// NewResultCache returns nil when ttl <= 0; a nil cache is a valid no-op.
// maxEntries <= 0 selects DefaultCacheEntries.
func NewResultCache(ttl time.Duration, maxEntries int) *ResultCache {
	if ttl <= 0 {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &ResultCache{
		store:      make(map[string]*CacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Len reports the number of held entries, expired ones included.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Get retrieves a cached result if available and not expired
func (c *ResultCache) Get(key string) (*simulate.Result, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Result, true
}

// Set stores a result in the cache
func (c *ResultCache) Set(key string, r *simulate.Result) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists {
		for len(c.store) >= c.maxEntries {
			c.evictOldest()
		}
	}
	c.seq++
	c.store[key] = &CacheEntry{
		Result:    r,
		ExpiresAt: c.now().Add(c.ttl),
		seq:       c.seq,
	}
}

// evictOldest drops the least recently set entry. Caller holds c.mu.
func (c *ResultCache) evictOldest() {
	var (
		oldestKey string
		oldest    *CacheEntry
	)
	for key, entry := range c.store {
		if oldest == nil || entry.seq < oldest.seq {
			oldestKey, oldest = key, entry
		}
	}
	if oldest != nil {
		delete(c.store, oldestKey)
	}
}

// Clear removes all entries from the cache
func (c *ResultCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// Prune removes expired entries and returns how many were dropped.
func (c *ResultCache) Prune() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	dropped := 0
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
			dropped++
		}
	}
	return dropped
}

// StartJanitor prunes every interval until stop is closed.
func (c *ResultCache) StartJanitor(interval time.Duration, stop <-chan struct{}) {
	if c == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Prune()
			case <-stop:
				return
			}
		}
	}()
}
