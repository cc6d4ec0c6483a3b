package driven

import (
	"context"
	"time"
)

// EmbeddingCache memoises embedding vectors by a content-derived key.
// Keys are opaque to the cache; the embedding gateway derives them from the
// model name and the element text, so changed text never hits a stale entry.
type EmbeddingCache interface {
	// Get returns the cached vector for key. Expired entries are misses.
	Get(ctx context.Context, key string) ([]float32, bool, error)

	// Put stores a vector under key for ttl. A zero ttl never expires.
	Put(ctx context.Context, key string, vector []float32, ttl time.Duration) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
