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


package staffer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/poiesic/staffer/ai"
	"github.com/poiesic/staffer/ai/openai"
	"github.com/poiesic/staffer/compose"
	"github.com/poiesic/staffer/core"
	"github.com/poiesic/staffer/index"
	"github.com/poiesic/staffer/roster"
	"github.com/poiesic/staffer/search"
	"github.com/poiesic/staffer/storage"
	"github.com/poiesic/staffer/storage/badger"
)

// DefaultTopK is the candidate count used when a caller passes zero.
const DefaultTopK = 3

// ErrRosterPathRequired is returned by Reload when the engine has no roster file.
var ErrRosterPathRequired = errors.New("roster path required")

// Response is the result of Ask.
type Response struct {
	Answer     string                 `json:"answer"`
	Source     compose.Source         `json:"source"`
	Candidates []core.RankedCandidate `json:"candidates"`
}

// Engine wires the roster, index, ranker and composer together.
type Engine struct {
	rosterPath  string
	provider    ai.AIProvider
	cache       storage.VectorCache
	indexer     *index.Indexer
	ranker      *search.Ranker
	composer    *compose.Composer
	defaultTopK int
	reloadMu    sync.Mutex
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig    *ai.Config
	provider    ai.AIProvider
	cacheDir    string
	cache       storage.VectorCache
	defaultTopK int
	batchSize   int
	poolSize    int
	progress    io.Writer
	logger      *slog.Logger
}

// WithAIConfig sets the embedding and generator configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a ready AI provider, bypassing WithAIConfig.
// The engine closes it on Close.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithCacheDir persists embeddings in a Badger database at dir.
func WithCacheDir(dir string) EngineOption {
	return func(o *engineOptions) {
		o.cacheDir = dir
	}
}

// WithVectorCache uses cache for embeddings. The caller keeps ownership.
func WithVectorCache(cache storage.VectorCache) EngineOption {
	return func(o *engineOptions) {
		o.cache = cache
	}
}

// WithDefaultTopK sets the candidate count used when Ask is passed zero.
func WithDefaultTopK(k int) EngineOption {
	return func(o *engineOptions) {
		o.defaultTopK = k
	}
}

// WithBatchSize sets the embedding batch size.
func WithBatchSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.batchSize = size
	}
}

// WithPoolSize sets the number of concurrent embedding workers.
func WithPoolSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.poolSize = size
	}
}

// WithProgress writes index build progress to w.
func WithProgress(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine constructs an Engine for the roster at rosterPath without loading it.
// Queries return core.ErrUninitialized until Reload or Index succeeds.
// rosterPath may be empty when profiles are supplied through Index.
func NewEngine(rosterPath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:    ai.DefaultConfig(),
		defaultTopK: DefaultTopK,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.defaultTopK <= 0 {
		options.defaultTopK = DefaultTopK
	}

	e := &Engine{
		rosterPath:  rosterPath,
		defaultTopK: options.defaultTopK,
		logger:      options.logger.With("component", "engine"),
	}

	if err := e.init(options); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) init(options *engineOptions) error {
	provider := options.provider
	if provider == nil {
		p, err := openai.NewProvider(options.aiConfig)
		if err != nil {
			return err
		}
		provider = p
	}
	e.provider = provider

	cache := options.cache
	if cache == nil && options.cacheDir != "" {
		c, err := badger.OpenVectorCache(options.cacheDir)
		if err != nil {
			return err
		}
		// owned by the engine, closed in Close
		e.cache = c
		cache = c
	}

	indexOpts := []index.Option{index.WithLogger(options.logger)}
	if cache != nil {
		indexOpts = append(indexOpts, index.WithCache(cache, cacheNamespace(provider.Embedder())))
	}
	if options.batchSize > 0 {
		indexOpts = append(indexOpts, index.WithBatchSize(options.batchSize))
	}
	if options.poolSize > 0 {
		indexOpts = append(indexOpts, index.WithPoolSize(options.poolSize))
	}
	if options.progress != nil {
		indexOpts = append(indexOpts, index.WithProgress(options.progress))
	}

	indexer, err := index.NewIndexer(provider.Embedder(), indexOpts...)
	if err != nil {
		return err
	}
	e.indexer = indexer

	ranker, err := search.NewRanker(indexer, search.WithLogger(options.logger))
	if err != nil {
		return err
	}
	e.ranker = ranker

	composerOpts := []compose.Option{
		compose.WithGenerator(provider.Generator()),
		compose.WithLogger(options.logger),
	}
	if options.aiConfig != nil && options.aiConfig.GeneratorTimeout > 0 {
		composerOpts = append(composerOpts, compose.WithTimeout(options.aiConfig.GeneratorTimeout))
	}
	composer, err := compose.NewComposer(composerOpts...)
	if err != nil {
		return err
	}
	e.composer = composer
	return nil
}

// cacheNamespace keys cached vectors by the embedder actually in use, so a
// cache directory shared across providers never mixes their vectors.
func cacheNamespace(embedder ai.Embedder) string {
	if id, ok := embedder.(ai.ModelIdentifier); ok {
		return id.ModelID()
	}
	return fmt.Sprintf("%T", embedder)
}

// Open constructs an Engine and loads the roster at rosterPath.
func Open(ctx context.Context, rosterPath string, opts ...EngineOption) (*Engine, error) {
	e, err := NewEngine(rosterPath, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := e.Reload(ctx); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Reload reads the roster file again and publishes a fresh index.
// On failure the previous index keeps serving. Returns the profile count.
func (e *Engine) Reload(ctx context.Context) (int, error) {
	if e.rosterPath == "" {
		return 0, ErrRosterPathRequired
	}
	store, err := roster.Load(e.rosterPath)
	if err != nil {
		e.logger.Error("error loading roster", "path", e.rosterPath, "err", err)
		return 0, err
	}
	if err := e.Index(ctx, store); err != nil {
		return 0, err
	}
	return store.Len(), nil
}

// Index builds and publishes an index over store.
// Concurrent calls are serialized.
func (e *Engine) Index(ctx context.Context, store *roster.Store) error {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	_, err := e.indexer.Build(ctx, store)
	return err
}

// Retrieve returns up to topK ranked candidates for query.
// topK of zero uses the default; negative yields no candidates.
func (e *Engine) Retrieve(ctx context.Context, query string, topK int) ([]core.RankedCandidate, error) {
	if topK == 0 {
		topK = e.defaultTopK
	}
	return e.ranker.Retrieve(ctx, query, topK)
}

// Ask retrieves candidates for query and composes an answer.
// Generator problems never surface as errors; the template answer is used instead.
func (e *Engine) Ask(ctx context.Context, query string, topK int) (*Response, error) {
	candidates, err := e.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	answer := e.composer.ComposeAnswer(ctx, query, candidates)
	return &Response{
		Answer:     answer.Text,
		Source:     answer.Source,
		Candidates: candidates,
	}, nil
}

// Search filters the indexed roster by attributes. A profile passes the
// skill condition when it matches any of skills.
func (e *Engine) Search(skills []string, f roster.Filter) ([]core.Profile, error) {
	snap, err := e.indexer.Current()
	if err != nil {
		return nil, err
	}
	return snap.Store().FilterBySkills(skills, f)
}

// Ready reports whether an index has been published.
func (e *Engine) Ready() bool {
	_, err := e.indexer.Current()
	return err == nil
}

// Size returns the number of indexed profiles, or zero before the first build.
func (e *Engine) Size() int {
	snap, err := e.indexer.Current()
	if err != nil {
		return 0
	}
	return snap.Len()
}

// Close releases the worker pool, the owned cache and the AI provider.
func (e *Engine) Close() error {
	var errs []error

	if e.indexer != nil {
		e.indexer.Release()
	}
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.logger.Error("error closing vector cache", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
