// Package market resolves current prices for holdings.
package market

import (
	"sync"
	"time"

	"github.com/aristath/stockwise/internal/domain"
)

type cacheEntry struct {
	storedAt time.Time
	quote    domain.Quote
}

// Cache is a concurrency-safe map of the latest quote per symbol.
// Entries are overwritten on every fetch and never evicted.
type Cache struct {
	entries map[string]cacheEntry
	mu      sync.RWMutex
}

// NewCache creates an empty price cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached quote for symbol and when it was stored
func (c *Cache) Get(symbol string) (domain.Quote, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[symbol]
	return e.quote, e.storedAt, ok
}

// Put stores q, stamped with storedAt
func (c *Cache) Put(q domain.Quote, storedAt time.Time) {
	c.mu.Lock()
	c.entries[q.Symbol] = cacheEntry{quote: q, storedAt: storedAt}
	c.mu.Unlock()
}

// Len returns the number of cached symbols
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
