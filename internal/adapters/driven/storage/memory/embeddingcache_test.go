package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCache_PutGet(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache()

	require.NoError(t, cache.Put(ctx, "emb:a", []float32{0.1, 0.2}, time.Hour))

	v, ok, err := cache.Get(ctx, "emb:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2}, v)

	_, ok, err = cache.Get(ctx, "emb:b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmbeddingCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache()
	in := []float32{1, 2}
	_ = cache.Put(ctx, "k", in, 0)
	in[0] = 99

	v, _, _ := cache.Get(ctx, "k")
	v[1] = 42

	again, _, _ := cache.Get(ctx, "k")
	assert.Equal(t, []float32{1, 2}, again)
}

func TestEmbeddingCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewEmbeddingCache()
	cache.now = func() time.Time { return now }

	_ = cache.Put(ctx, "short", []float32{1}, time.Minute)
	_ = cache.Put(ctx, "forever", []float32{2}, 0)

	now = now.Add(59 * time.Second)
	_, ok, _ := cache.Get(ctx, "short")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = cache.Get(ctx, "short")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())

	now = now.Add(24 * time.Hour)
	_, ok, _ = cache.Get(ctx, "forever")
	assert.True(t, ok)
}

func TestEmbeddingCache_Clear(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache()
	_ = cache.Put(ctx, "a", []float32{1}, 0)
	_ = cache.Put(ctx, "b", []float32{1}, 0)

	require.NoError(t, cache.Clear(ctx))

	assert.Equal(t, 0, cache.Len())
	assert.NoError(t, cache.Close())
}
