package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
)

// Ensure EmbeddingCache implements the interface.
var _ driven.EmbeddingCache = (*EmbeddingCache)(nil)

type cacheEntry struct {
	vector  []float32
	expires time.Time // zero means never
}

// EmbeddingCache is an in-memory implementation of driven.EmbeddingCache.
// Expired entries are dropped lazily on read.
type EmbeddingCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewEmbeddingCache creates a new in-memory embedding cache.
func NewEmbeddingCache() *EmbeddingCache {
	return &EmbeddingCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns a copy of the cached vector for key.
func (c *EmbeddingCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	out := make([]float32, len(e.vector))
	copy(out, e.vector)
	return out, true, nil
}

// Put stores a copy of vector under key.
func (c *EmbeddingCache) Put(_ context.Context, key string, vector []float32, ttl time.Duration) error {
	e := cacheEntry{vector: make([]float32, len(vector))}
	copy(e.vector, vector)
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
	return nil
}

// Clear removes every entry.
func (c *EmbeddingCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (c *EmbeddingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close releases resources.
func (c *EmbeddingCache) Close() error {
	return nil
}
