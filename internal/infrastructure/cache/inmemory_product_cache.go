package cache

import (
	"context"
	"sync"
	"time"

	"github.com/retailpos/backend/internal/domain/catalog"
)

type productEntry struct {
	product   catalog.Product
	expiresAt time.Time
}

// InMemoryProductCache is a process-local product cache for single
// instance deployments and tests. Entries expire lazily on read.
type InMemoryProductCache struct {
	mu      sync.RWMutex
	entries map[string]productEntry
	ttl     time.Duration
}

// NewInMemoryProductCache creates an in-memory product cache
func NewInMemoryProductCache(ttl time.Duration) *InMemoryProductCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &InMemoryProductCache{
		entries: make(map[string]productEntry),
		ttl:     ttl,
	}
}

// Get returns the cached product for a lookup key, if present
func (c *InMemoryProductCache) Get(_ context.Context, key string) (*catalog.Product, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	product := entry.product
	return &product, true
}

// Set stores a product under a lookup key
func (c *InMemoryProductCache) Set(_ context.Context, key string, product *catalog.Product) {
	if product == nil {
		return
	}
	c.mu.Lock()
	c.entries[key] = productEntry{
		product:   *product,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Invalidate drops cache entries after a catalog update
func (c *InMemoryProductCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}
