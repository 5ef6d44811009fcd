package storage

import "context"

// VectorCache stores embedding vectors keyed by content hash.
// Implementations must be thread-safe and support concurrent access.
type VectorCache interface {
	// Get returns the vector stored under key.
	// The boolean is false when the key is absent; that is not an error.
	Get(ctx context.Context, key string) ([]float32, bool, error)

	// Put stores vec under key, replacing any previous value.
	Put(ctx context.Context, key string, vec []float32) error

	// Len returns the number of cached vectors.
	Len(ctx context.Context) (int, error)

	// Close releases resources held by the cache.
	Close() error
}
