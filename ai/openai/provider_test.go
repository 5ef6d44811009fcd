package openai

import (
	"context"
	"testing"

	"github.com/poiesic/staffer/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("hashing embedder without generator", func(t *testing.T) {
		p, err := NewProvider(ai.NewConfig(ai.WithEmbeddingProvider(ai.ProviderHashing)))
		require.NoError(t, err)
		defer p.Close()

		assert.Nil(t, p.Generator())
		v, err := p.Embedder().EmbedText(context.Background(), "golang")
		require.NoError(t, err)
		assert.NotEmpty(t, v)
	})

	t.Run("generator enabled", func(t *testing.T) {
		p, err := NewProvider(ai.NewConfig(
			ai.WithEmbeddingProvider(ai.ProviderHashing),
			ai.WithGeneratorEnabled(true),
		))
		require.NoError(t, err)
		assert.NotNil(t, p.Generator())
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewProvider(ai.NewConfig(ai.WithEmbeddingModel("")))
		assert.Error(t, err)
	})
}
