package index

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/staffer/ai/hashing"
	"github.com/poiesic/staffer/ai/mock"
	"github.com/poiesic/staffer/core"
	"github.com/poiesic/staffer/roster"
	"github.com/poiesic/staffer/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfiles() []core.Profile {
	return []core.Profile{
		{Id: 1, Name: "Alice", Skills: []string{"Python", "Django"}, ExperienceYears: 5, Projects: []string{"Healthcare Dashboard"}, Availability: "available"},
		{Id: 2, Name: "Bob", Skills: []string{"Go", "Kubernetes"}, ExperienceYears: 3, Projects: []string{"Payments Gateway"}, Availability: "busy"},
		{Id: 3, Name: "Carol", Skills: []string{"Python", "TensorFlow"}, ExperienceYears: 7, Projects: []string{"Medical Imaging"}, Availability: "on_notice"},
	}
}

func testStore(t *testing.T, profiles []core.Profile) *roster.Store {
	t.Helper()
	store, err := roster.New(profiles)
	require.NoError(t, err)
	return store
}

func newTestIndexer(t *testing.T, embedder *mock.MockEmbedder, opts ...Option) *Indexer {
	t.Helper()
	opts = append([]Option{WithRetry(1, time.Millisecond)}, opts...)
	idx, err := NewIndexer(embedder, opts...)
	require.NoError(t, err)
	t.Cleanup(idx.Release)
	return idx
}

func TestNewIndexer(t *testing.T) {
	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewIndexer(nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := NewIndexer(mock.NewMockEmbedder(), WithBatchSize(0))
		assert.ErrorIs(t, err, ErrInvalidBatchSize)

		_, err = NewIndexer(mock.NewMockEmbedder(), WithRetry(0, time.Millisecond))
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("pool size zero defaults to 1", func(t *testing.T) {
		idx, err := NewIndexer(mock.NewMockEmbedder(), WithPoolSize(0))
		require.NoError(t, err)
		defer idx.Release()
		assert.Equal(t, 1, idx.pool.Cap())
	})
}

func TestIndexerUninitialized(t *testing.T) {
	idx := newTestIndexer(t, mock.NewMockEmbedder())
	ctx := context.Background()

	_, err := idx.Current()
	assert.ErrorIs(t, err, core.ErrUninitialized)
	_, err = idx.Query(ctx, "python", 3)
	assert.ErrorIs(t, err, core.ErrUninitialized)
	_, err = idx.QuerySubset(ctx, "python", []core.ID{1}, 3)
	assert.ErrorIs(t, err, core.ErrUninitialized)

	var snap *Snapshot
	_, err = snap.Search([]float32{1}, 1)
	assert.ErrorIs(t, err, core.ErrUninitialized)
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("aligns documents and vectors with profiles", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		idx := newTestIndexer(t, embedder, WithBatchSize(2))
		snap, err := idx.Build(ctx, testStore(t, testProfiles()))
		require.NoError(t, err)

		assert.Equal(t, 3, snap.Len())
		assert.Equal(t, mock.DefaultDimensions, snap.Dimensions())
		doc, ok := snap.Document(2)
		require.True(t, ok)
		assert.Equal(t, CanonicalDocument(testProfiles()[1]), doc)
		assert.Equal(t, 2, embedder.CallCount(), "3 documents in batches of 2")
		assert.Equal(t, 3, embedder.TextCount())

		current, err := idx.Current()
		require.NoError(t, err)
		assert.Same(t, snap, current)
	})

	t.Run("self similarity is one", func(t *testing.T) {
		idx := newTestIndexer(t, mock.NewMockEmbedder())
		_, err := idx.Build(ctx, testStore(t, testProfiles()))
		require.NoError(t, err)

		for _, p := range testProfiles() {
			matches, err := idx.Query(ctx, CanonicalDocument(p), 1)
			require.NoError(t, err)
			require.Len(t, matches, 1)
			assert.Equal(t, p.Id, matches[0].Profile.Id)
			assert.InDelta(t, 1.0, matches[0].Score, 1e-5)
		}
	})

	t.Run("empty roster", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		idx := newTestIndexer(t, embedder)
		snap, err := idx.Build(ctx, testStore(t, nil))
		require.NoError(t, err)
		assert.Equal(t, 0, snap.Len())
		assert.Equal(t, 0, embedder.CallCount())

		matches, err := idx.Query(ctx, "anything", 3)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("nil store", func(t *testing.T) {
		idx := newTestIndexer(t, mock.NewMockEmbedder())
		_, err := idx.Build(ctx, nil)
		assert.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("embedder failure keeps previous snapshot", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		idx := newTestIndexer(t, embedder)
		first, err := idx.Build(ctx, testStore(t, testProfiles()))
		require.NoError(t, err)

		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("embedding service down")
		}
		_, err = idx.Build(ctx, testStore(t, testProfiles()[:1]))
		require.Error(t, err)

		current, err := idx.Current()
		require.NoError(t, err)
		assert.Same(t, first, current)
	})

	t.Run("count mismatch", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1}}, nil
		}
		idx := newTestIndexer(t, embedder)
		_, err := idx.Build(ctx, testStore(t, testProfiles()))
		assert.ErrorIs(t, err, ErrEmbeddingCount)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		var mu sync.Mutex
		dim := 2
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			mu.Lock()
			defer mu.Unlock()
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = make([]float32, dim)
				out[i][0] = 1
				dim++
			}
			return out, nil
		}
		idx := newTestIndexer(t, embedder)
		_, err := idx.Build(ctx, testStore(t, testProfiles()))
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		var mu sync.Mutex
		failures := 1
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			mu.Lock()
			defer mu.Unlock()
			if failures > 0 {
				failures--
				return nil, errors.New("transient")
			}
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{1, float32(i)}
			}
			return out, nil
		}
		idx := newTestIndexer(t, embedder, WithRetry(3, time.Millisecond))
		snap, err := idx.Build(ctx, testStore(t, testProfiles()))
		require.NoError(t, err)
		assert.Equal(t, 3, snap.Len())
	})

	t.Run("reports progress", func(t *testing.T) {
		var buf bytes.Buffer
		idx := newTestIndexer(t, mock.NewMockEmbedder(), WithProgress(&buf), WithBatchSize(1))
		_, err := idx.Build(ctx, testStore(t, testProfiles()))
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "3/3")
	})
}

func TestBuildWithCache(t *testing.T) {
	ctx := context.Background()
	cache, backend, err := badger.NewMemoryVectorCache()
	require.NoError(t, err)
	defer backend.Close()

	embedder := mock.NewMockEmbedder()
	idx := newTestIndexer(t, embedder, WithCache(cache, "test-model"))

	first, err := idx.Build(ctx, testStore(t, testProfiles()))
	require.NoError(t, err)
	assert.Equal(t, 3, embedder.TextCount())

	n, err := cache.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	t.Run("unchanged documents are not re-embedded", func(t *testing.T) {
		embedder.Reset()
		second, err := idx.Build(ctx, testStore(t, testProfiles()))
		require.NoError(t, err)
		assert.Equal(t, 0, embedder.CallCount())
		assert.NotSame(t, first, second)

		vec := first.vectors[0]
		matches, err := second.Search(vec, 1)
		require.NoError(t, err)
		assert.Equal(t, core.ID(1), matches[0].Profile.Id)
	})

	t.Run("changed profile embeds only itself", func(t *testing.T) {
		embedder.Reset()
		profiles := testProfiles()
		profiles[2].Notes = "Now leads the imaging team"
		_, err := idx.Build(ctx, testStore(t, profiles))
		require.NoError(t, err)
		assert.Equal(t, 1, embedder.TextCount())
	})
}

func TestQueryRanking(t *testing.T) {
	ctx := context.Background()
	embedder := hashing.NewEmbedder(0)
	idx, err := NewIndexer(embedder)
	require.NoError(t, err)
	defer idx.Release()

	_, err = idx.Build(ctx, testStore(t, testProfiles()))
	require.NoError(t, err)

	t.Run("descending scores", func(t *testing.T) {
		matches, err := idx.Query(ctx, "Python TensorFlow Medical Imaging", 3)
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, core.ID(3), matches[0].Profile.Id)
		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
		}
	})

	t.Run("topK bounds", func(t *testing.T) {
		matches, err := idx.Query(ctx, "python", 0)
		require.NoError(t, err)
		assert.Empty(t, matches)

		matches, err = idx.Query(ctx, "python", 10)
		require.NoError(t, err)
		assert.Len(t, matches, 3)
	})

	t.Run("subset never leaves the ids", func(t *testing.T) {
		matches, err := idx.QuerySubset(ctx, "Python TensorFlow", []core.ID{1, 2, 99}, 3)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		for _, m := range matches {
			assert.NotEqual(t, core.ID(3), m.Profile.Id)
		}
		assert.Equal(t, core.ID(1), matches[0].Profile.Id)
	})

	t.Run("empty subset", func(t *testing.T) {
		matches, err := idx.QuerySubset(ctx, "python", nil, 3)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}
