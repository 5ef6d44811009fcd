// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/staffer/ai"
	"github.com/poiesic/staffer/core"
	"github.com/poiesic/staffer/roster"
	"github.com/poiesic/staffer/storage"
)

const (
	defaultBatchSize   = 32
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// Indexer builds snapshots and answers semantic queries against the current one.
type Indexer struct {
	embedder    ai.Embedder
	cache       storage.VectorCache
	cacheModel  string
	pool        *ants.Pool
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	progress    io.Writer
	current     atomic.Pointer[Snapshot]
	logger      *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithBatchSize sets how many documents are sent to the embedder per call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(i *Indexer) error {
		if size <= 0 {
			return ErrInvalidBatchSize
		}
		i.batchSize = size
		return nil
	}
}

// WithPoolSize sets the number of concurrent embedding workers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(i *Indexer) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if i.pool != nil {
			i.pool.Release()
		}
		i.pool = pool
		return nil
	}
}

// WithRetry sets the per-batch retry policy.
// Default is 3 attempts starting at 500ms.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(i *Indexer) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		i.maxAttempts = maxAttempts
		i.baseDelay = baseDelay
		return nil
	}
}

// WithProgress writes build progress to w.
func WithProgress(w io.Writer) Option {
	return func(i *Indexer) error {
		i.progress = w
		return nil
	}
}

// WithCache consults cache before embedding. model namespaces the cache
// keys so vectors from different embedding models never mix.
func WithCache(cache storage.VectorCache, model string) Option {
	return func(i *Indexer) error {
		i.cache = cache
		i.cacheModel = model
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// NewIndexer creates an Indexer with no snapshot.
// Call Release when done to stop the worker pool.
func NewIndexer(embedder ai.Embedder, opts ...Option) (*Indexer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	i := &Indexer{
		embedder:    embedder,
		batchSize:   defaultBatchSize,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			i.Release()
			return nil, err
		}
	}

	if i.pool == nil {
		poolSize := max(runtime.NumCPU()/2, 1)
		pool, err := ants.NewPool(poolSize)
		if err != nil {
			return nil, err
		}
		i.pool = pool
	}

	i.logger = i.logger.With("component", "indexer")
	return i, nil
}

// Release stops the worker pool. The Indexer must not be built again afterwards;
// the current snapshot stays queryable.
func (i *Indexer) Release() {
	if i.pool != nil {
		i.pool.Release()
	}
}

// Current returns the published snapshot.
func (i *Indexer) Current() (*Snapshot, error) {
	snap := i.current.Load()
	if snap == nil {
		return nil, core.ErrUninitialized
	}
	return snap, nil
}

// EmbedQuery embeds free text for comparison against the snapshot vectors.
func (i *Indexer) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := RetryWithBackoff(ctx, i.logger, func() error {
		var err error
		vec, err = i.embedder.EmbedText(ctx, text)
		return err
	}, i.maxAttempts, i.baseDelay)
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// Query embeds text and returns the topK most similar profiles.
func (i *Indexer) Query(ctx context.Context, text string, topK int) ([]Match, error) {
	snap, err := i.Current()
	if err != nil {
		return nil, err
	}
	if topK <= 0 || snap.Len() == 0 {
		return []Match{}, nil
	}
	vec, err := i.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	return snap.Search(vec, topK)
}

// QuerySubset is Query restricted to ids.
func (i *Indexer) QuerySubset(ctx context.Context, text string, ids []core.ID, topK int) ([]Match, error) {
	snap, err := i.Current()
	if err != nil {
		return nil, err
	}
	if topK <= 0 || len(ids) == 0 {
		return []Match{}, nil
	}
	vec, err := i.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	return snap.SearchSubset(vec, ids, topK)
}

// Build embeds every profile in store and publishes the resulting snapshot.
// On error the previous snapshot stays current.
func (i *Indexer) Build(ctx context.Context, store *roster.Store) (*Snapshot, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	profiles, err := store.All()
	if err != nil {
		return nil, err
	}

	documents := make([]string, len(profiles))
	for n, p := range profiles {
		documents[n] = CanonicalDocument(p)
	}

	var tracker *ProgressTracker
	if i.progress != nil {
		tracker = NewProgressTracker(i.progress, len(profiles), i.batchSize)
		tracker.Start()
		defer tracker.Finish()
	}

	vectors := make([][]float32, len(profiles))
	pending, err := i.loadCached(ctx, documents, vectors, tracker)
	if err != nil {
		return nil, err
	}

	i.logger.Info("building index", "profiles", len(profiles), "cached", len(profiles)-len(pending))
	start := time.Now()

	if err := i.embedPending(ctx, documents, pending, vectors, tracker); err != nil {
		i.logger.Error("index build failed", "err", err)
		return nil, err
	}

	if err := checkDimensions(vectors); err != nil {
		return nil, err
	}

	snap := newSnapshot(store, profiles, documents, vectors)
	i.current.Store(snap)
	i.logger.Info("index published", "profiles", snap.Len(), "dimensions", snap.Dimensions(), "elapsed", time.Since(start))
	return snap, nil
}

// loadCached fills vectors from the cache and returns the positions still to embed.
func (i *Indexer) loadCached(ctx context.Context, documents []string, vectors [][]float32, tracker *ProgressTracker) ([]int, error) {
	pending := make([]int, 0, len(documents))
	for n, doc := range documents {
		if i.cache == nil {
			pending = append(pending, n)
			continue
		}
		vec, ok, err := i.cache.Get(ctx, i.cacheKey(doc))
		if err != nil {
			return nil, fmt.Errorf("reading vector cache: %w", err)
		}
		if !ok {
			pending = append(pending, n)
			continue
		}
		vectors[n] = vec
		if tracker != nil {
			tracker.Cached(1)
		}
	}
	return pending, nil
}

// embedPending embeds documents at pending positions in batches on the pool.
// Each task writes only its own positions of vectors.
func (i *Indexer) embedPending(ctx context.Context, documents []string, pending []int, vectors [][]float32, tracker *ProgressTracker) error {
	if len(pending) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for start := 0; start < len(pending); start += i.batchSize {
		batch := pending[start:min(start+i.batchSize, len(pending))]

		wg.Add(1)
		err := i.pool.Submit(func() {
			defer wg.Done()
			if err := i.embedBatch(ctx, documents, batch, vectors); err != nil {
				fail(err)
				return
			}
			if tracker != nil {
				tracker.Increment(len(batch))
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}

	wg.Wait()
	return firstErr
}

func (i *Indexer) embedBatch(ctx context.Context, documents []string, batch []int, vectors [][]float32) error {
	texts := make([]string, len(batch))
	for n, pos := range batch {
		texts[n] = documents[pos]
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, i.logger, func() error {
		var err error
		embeddings, err = i.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if len(embeddings) != len(texts) {
			return fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingCount, len(texts), len(embeddings))
		}
		return nil
	}, i.maxAttempts, i.baseDelay)
	if err != nil {
		return err
	}

	for n, pos := range batch {
		vec := NormalizeVector(embeddings[n])
		vectors[pos] = vec
		if i.cache == nil {
			continue
		}
		if err := i.cache.Put(ctx, i.cacheKey(texts[n]), vec); err != nil {
			i.logger.Warn("failed to cache vector", "err", err)
		}
	}
	return nil
}

func (i *Indexer) cacheKey(document string) string {
	return core.HashContent(i.cacheModel, document)
}

func checkDimensions(vectors [][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	want := len(vectors[0])
	for n, vec := range vectors {
		if len(vec) != want {
			return fmt.Errorf("%w: profile %d has %d, expected %d", ErrDimensionMismatch, n, len(vec), want)
		}
	}
	return nil
}
