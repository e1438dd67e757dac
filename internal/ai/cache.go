package ai

import (
	"sync"
	"time"

	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/normalize"
)

// cacheEntry represents a cached classification suggestion.
type cacheEntry struct {
	expiry time.Time
	result model.ClassificationResult
}

// suggestionCache provides thread-safe caching of AI suggestions keyed by
// normalized description and transaction kind. Identical descriptions recur
// constantly in statements (subscriptions, salaries, the same supermarket),
// so every hit is an API call not made.
type suggestionCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// newSuggestionCache creates a new cache with the specified TTL.
func newSuggestionCache(ttl time.Duration) *suggestionCache {
	if ttl == 0 {
		ttl = 15 * time.Minute // Default TTL
	}

	cache := &suggestionCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

// cacheKey collapses casing, accents and spacing so equivalent descriptions
// share one entry. The kind is part of the key: a deposit and a charge with
// the same text are different classification problems.
func cacheKey(description string, kind model.TransactionKind) string {
	return normalize.Description(description) + "|" + string(kind)
}

// get retrieves a suggestion if present and not expired.
func (c *suggestionCache) get(key string) (model.ClassificationResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiry) {
		return model.ClassificationResult{}, false
	}

	return entry.result, true
}

// set stores a suggestion in the cache.
func (c *suggestionCache) set(key string, result model.ClassificationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		result: result,
		expiry: time.Now().Add(c.ttl),
	}
}

// cleanupLoop periodically removes expired entries.
func (c *suggestionCache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// size returns the number of entries in the cache.
func (c *suggestionCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *suggestionCache) Close() {
	close(c.stopCh)
}
