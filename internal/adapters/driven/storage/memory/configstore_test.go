package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("embedding.model", "snowflake-arctic-embed2"))
	require.NoError(t, store.Set("embedding.model", "nomic-embed-text"))

	val, ok := store.Get("embedding.model")
	assert.True(t, ok)
	assert.Equal(t, "nomic-embed-text", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("llm.model", "gemma3:12b")
	_ = store.Set("gateway.concurrency", 8)
	_ = store.Set("cache.ttl_seconds", int64(3600))
	_ = store.Set("thresholds.topic_drift", 0.35)
	_ = store.Set("debug", true)
	_ = store.Set("formats", []any{"html", "markdown", 3})

	assert.Equal(t, "gemma3:12b", store.GetString("llm.model"))
	assert.Equal(t, 8, store.GetInt("gateway.concurrency"))
	assert.Equal(t, 3600, store.GetInt("cache.ttl_seconds"))
	assert.Equal(t, 0, store.GetInt("thresholds.topic_drift"))
	assert.InDelta(t, 0.35, store.GetFloat("thresholds.topic_drift"), 1e-9)
	assert.InDelta(t, 8.0, store.GetFloat("gateway.concurrency"), 1e-9)
	assert.True(t, store.GetBool("debug"))
	assert.Equal(t, []string{"html", "markdown"}, store.GetStringSlice("formats"))
}

func TestConfigStore_WrongTypesReturnZero(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("n", "not a number")
	_ = store.Set("s", 42)

	assert.Zero(t, store.GetInt("n"))
	assert.Zero(t, store.GetFloat("n"))
	assert.Empty(t, store.GetString("s"))
	assert.False(t, store.GetBool("s"))
	assert.Nil(t, store.GetStringSlice("s"))
	assert.Nil(t, store.GetFloatSlice("s"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_GetFloatSlice(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("thresholds.h2", []float64{0.4, 0.5, 0.7, 0.8})
	_ = store.Set("thresholds.title_h1", []any{int64(0), 0.8, 0.9, 1})
	_ = store.Set("thresholds.bad", []any{0.1, "x"})

	assert.Equal(t, []float64{0.4, 0.5, 0.7, 0.8}, store.GetFloatSlice("thresholds.h2"))
	assert.Equal(t, []float64{0, 0.8, 0.9, 1}, store.GetFloatSlice("thresholds.title_h1"))
	assert.Nil(t, store.GetFloatSlice("thresholds.bad"))
	assert.Nil(t, store.GetFloatSlice("missing"))

	// The returned slice is a copy.
	got := store.GetFloatSlice("thresholds.h2")
	got[0] = 9
	assert.InDelta(t, 0.4, store.GetFloatSlice("thresholds.h2")[0], 1e-9)
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrent(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			_ = store.Set(key, i)
			_ = store.GetInt(key)
		}()
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key-%d", i)))
	}
}
