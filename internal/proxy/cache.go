package proxy

import (
	"sync"
	"time"

	"github.com/relicscan/relic-data/internal/market"
)

// responseCache holds the last successful upstream response per slug.
// Entries are returned only while now < expiry; an expired entry is
// treated as absent, never served stale.
type responseCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	orders []market.Order
	expiry time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *responseCache) get(slug string) ([]market.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[slug]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiry) {
		delete(c.entries, slug)
		return nil, false
	}
	return e.orders, true
}

func (c *responseCache) set(slug string, orders []market.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[slug] = cacheEntry{orders: orders, expiry: c.now().Add(c.ttl)}
}
