package index

import "errors"

var (
	// ErrEmbedderRequired is returned when NewIndexer is called without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrStoreRequired is returned when Build is called with a nil roster store.
	ErrStoreRequired = errors.New("roster store is required")

	// ErrDimensionMismatch indicates the embedder returned vectors of differing length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingCount indicates the embedder returned a different number of vectors than texts.
	ErrEmbeddingCount = errors.New("embedding result count mismatch")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidBatchSize is returned when the batch size is <= 0.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")
)
