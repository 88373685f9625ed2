package cache

import (
	"sync"
	"time"

	"github.com/mineralwatch/api/internal/models"
)

// PortfolioCache is an in-memory TTL cache for resolved tenant portfolios.
// It is best effort: a miss or expired entry simply sends the caller back to
// the stores, and entries are evicted lazily on read.
type PortfolioCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]portfolioEntry

	// now is swappable in tests.
	now func() time.Time
}

type portfolioEntry struct {
	properties []models.Property
	expiresAt  time.Time
}

// NewPortfolioCache creates a cache whose entries live for ttl.
func NewPortfolioCache(ttl time.Duration) *PortfolioCache {
	return &PortfolioCache{
		ttl:     ttl,
		entries: make(map[string]portfolioEntry),
		now:     time.Now,
	}
}

// Get returns the cached portfolio for the tenant key, if present and fresh.
func (c *PortfolioCache) Get(key string) ([]models.Property, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if current, still := c.entries[key]; still && c.now().After(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.properties, true
}

// Set stores the portfolio under the tenant key, replacing any prior entry.
func (c *PortfolioCache) Set(key string, properties []models.Property) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = portfolioEntry{
		properties: properties,
		expiresAt:  c.now().Add(c.ttl),
	}
}

// Len reports the number of entries currently held, including expired ones
// that have not yet been evicted.
func (c *PortfolioCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
