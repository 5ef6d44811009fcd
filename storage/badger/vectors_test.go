package badger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/poiesic/staffer/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorCacheBasics(t *testing.T) {
	cache, backend, err := NewMemoryVectorCache()
	require.NoError(t, err)
	defer func() {
		cache.Close()
		backend.Close()
	}()

	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		vec, ok, err := cache.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, vec)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, "abc", []float32{0.6, 0.8}))
		vec, ok, err := cache.Get(ctx, "abc")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []float32{0.6, 0.8}, vec)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, "abc", []float32{1, 0}))
		vec, _, err := cache.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 0}, vec)
	})

	t.Run("len", func(t *testing.T) {
		n, err := cache.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := cache.Get(ctx, "")
		assert.ErrorIs(t, err, storage.ErrInvalidKey)
		assert.ErrorIs(t, cache.Put(ctx, "", nil), storage.ErrInvalidKey)
	})
}

func TestVectorCacheConcurrentWrites(t *testing.T) {
	cache, backend, err := NewMemoryVectorCache()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, cache.Put(ctx, fmt.Sprintf("k%d", i), []float32{float32(i)}))
		}(i)
	}
	wg.Wait()

	n, err := cache.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
}

func TestOpenVectorCache_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cache, err := OpenVectorCache(dir)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, "h", []float32{0.25}))
	require.NoError(t, cache.Close())

	reopened, err := OpenVectorCache(dir)
	require.NoError(t, err)
	defer reopened.Close()

	vec, ok, err := reopened.Get(ctx, "h")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{0.25}, vec)
}
