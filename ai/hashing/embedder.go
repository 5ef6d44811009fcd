package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/poiesic/staffer/ai"
	"github.com/poiesic/staffer/text"
)

// DefaultDimensions is the bucket count used by the provider.
const DefaultDimensions = 512

// Embedder hashes normalized tokens into a fixed-size vector.
// It holds no mutable state and is safe for concurrent use.
type Embedder struct {
	dim int
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder returns an embedder producing vectors of length dim.
// Non-positive dim falls back to DefaultDimensions.
func NewEmbedder(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &Embedder{dim: dim}
}

// Dimensions returns the vector length.
func (e *Embedder) Dimensions() int {
	return e.dim
}

// ModelID identifies the hashing scheme and width.
func (e *Embedder) ModelID() string {
	return fmt.Sprintf("hashing/%d", e.dim)
}

// EmbedText embeds a single text. Text without tokens yields the zero vector.
func (e *Embedder) EmbedText(ctx context.Context, s string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(s), nil
}

// EmbedTexts embeds texts in order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, s := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(s)
	}
	return out, nil
}

func (e *Embedder) embed(s string) []float32 {
	vector := make([]float32, e.dim)
	for _, tok := range text.Tokens(s) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vector[h.Sum32()%uint32(e.dim)]++
	}

	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vector
	}
	norm := float32(math.Sqrt(sum))
	for i := range vector {
		vector[i] /= norm
	}
	return vector
}
