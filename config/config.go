package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/poiesic/staffer/ai"
	"gopkg.in/yaml.v3"
)

// File is the on-disk staffer configuration.
// Values may reference environment variables as $NAME or ${NAME}.
type File struct {
	Roster    string    `yaml:"roster"`
	Address   string    `yaml:"address"`
	TopK      int       `yaml:"top_k"`
	CacheDir  string    `yaml:"cache_dir,omitempty"`
	LogLevel  string    `yaml:"log_level,omitempty"`
	Embedding Embedding `yaml:"embedding"`
	Generator Generator `yaml:"generator"`
}

// Embedding configures the embedding service and index build.
type Embedding struct {
	Provider  string `yaml:"provider"`
	Host      string `yaml:"host"`
	Model     string `yaml:"model"`
	BatchSize int    `yaml:"batch_size,omitempty"`
	Workers   int    `yaml:"workers,omitempty"`
}

// Generator configures the optional answer-writing model.
type Generator struct {
	Enabled bool          `yaml:"enabled"`
	Host    string        `yaml:"host,omitempty"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	aiDefaults := ai.DefaultConfig()
	return &File{
		Roster:   "data/employees.json",
		Address:  ":8000",
		TopK:     3,
		LogLevel: "info",
		Embedding: Embedding{
			Provider:  aiDefaults.EmbeddingProvider,
			Host:      aiDefaults.EmbeddingHost,
			Model:     aiDefaults.EmbeddingModel,
			BatchSize: 32,
		},
		Generator: Generator{
			Enabled: aiDefaults.GeneratorEnabled,
			Host:    aiDefaults.GeneratorHost,
			Model:   aiDefaults.GeneratorModel,
			Timeout: aiDefaults.GeneratorTimeout,
		},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	file := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Validate checks values that have no usable fallback.
func (f *File) Validate() error {
	if f.Roster == "" {
		return errors.New("roster is required")
	}
	if f.TopK <= 0 {
		return errors.New("top_k must be positive")
	}
	if f.Embedding.BatchSize < 0 {
		return errors.New("embedding.batch_size cannot be negative")
	}
	if f.Embedding.Workers < 0 {
		return errors.New("embedding.workers cannot be negative")
	}
	return f.AIConfig().Validate()
}

// AIConfig converts the embedding and generator sections to an ai.Config.
// The generator host defaults to the embedding host.
func (f *File) AIConfig() *ai.Config {
	generatorHost := f.Generator.Host
	if generatorHost == "" {
		generatorHost = f.Embedding.Host
	}

	config := ai.NewConfig(
		ai.WithEmbeddingProvider(f.Embedding.Provider),
		ai.WithEmbeddingHost(f.Embedding.Host),
		ai.WithEmbeddingModel(f.Embedding.Model),
		ai.WithGeneratorEnabled(f.Generator.Enabled),
		ai.WithGeneratorHost(generatorHost),
		ai.WithGeneratorModel(f.Generator.Model),
		ai.WithGeneratorTimeout(f.Generator.Timeout),
	)
	config.Normalize()
	return config
}
