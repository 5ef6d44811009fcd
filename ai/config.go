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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Embedding providers understood by the engine.
const (
	// ProviderOpenAI talks to an OpenAI-compatible embeddings API (OpenAI, Ollama, vLLM, ...).
	ProviderOpenAI = "openai"

	// ProviderHashing embeds text locally by feature hashing. It needs no service.
	ProviderHashing = "hashing"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingProvider selects the embedding implementation.
	// One of ProviderOpenAI or ProviderHashing.
	EmbeddingProvider string

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "nomic-embed-text", "text-embedding-3-small"
	EmbeddingModel string

	// GeneratorEnabled turns on prose generation through the external generator.
	// When false the answer composer always uses its template.
	GeneratorEnabled bool

	// GeneratorHost is the base URL for the text generation API.
	GeneratorHost string

	// GeneratorModel is the model identifier used for answer generation.
	// Example: "mistral", "gpt-4o-mini"
	GeneratorModel string

	// GeneratorTimeout bounds a single generation call.
	// Default: 30s
	GeneratorTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingProvider sets the embedding implementation.
func WithEmbeddingProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingProvider = provider
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithGeneratorHost sets the generator service host URL.
func WithGeneratorHost(host string) ConfigOption {
	return func(c *Config) {
		c.GeneratorHost = host
	}
}

// WithHost sets both embedding and generator hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.GeneratorHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGeneratorModel sets the generator model identifier.
func WithGeneratorModel(model string) ConfigOption {
	return func(c *Config) {
		c.GeneratorModel = model
	}
}

// WithGeneratorEnabled enables or disables the external generator.
func WithGeneratorEnabled(enabled bool) ConfigOption {
	return func(c *Config) {
		c.GeneratorEnabled = enabled
	}
}

// WithGeneratorTimeout sets the per-call generator timeout.
func WithGeneratorTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.GeneratorTimeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for a local Ollama server.
// The generator is disabled by default.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingHost:     defaultHost,
		EmbeddingModel:    "nomic-embed-text",
		GeneratorEnabled:  false,
		GeneratorHost:     defaultHost,
		GeneratorModel:    "mistral",
		GeneratorTimeout:  30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	    WithGeneratorEnabled(true),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.EmbeddingProvider = strings.ToLower(strings.TrimSpace(c.EmbeddingProvider))
	if c.EmbeddingProvider == "" {
		c.EmbeddingProvider = ProviderOpenAI
	}
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.GeneratorHost = normalizeHost(c.GeneratorHost)
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.EmbeddingProvider {
	case ProviderOpenAI:
		if c.EmbeddingHost == "" {
			return errors.New("ai config: EmbeddingHost is required")
		}
	case ProviderHashing:
	default:
		return errors.New("ai config: EmbeddingProvider must be one of openai, hashing")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}

	if c.GeneratorEnabled {
		if c.GeneratorHost == "" {
			return errors.New("ai config: GeneratorHost is required when the generator is enabled")
		}
		if c.GeneratorModel == "" {
			return errors.New("ai config: GeneratorModel is required when the generator is enabled")
		}
	}
	if c.GeneratorTimeout <= 0 {
		return errors.New("ai config: GeneratorTimeout must be positive")
	}
	return nil
}
