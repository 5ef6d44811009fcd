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


package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/staffer/ai"
	"github.com/poiesic/staffer/core"
)

const defaultTimeout = 30 * time.Second

// Source identifies which path produced an answer.
type Source string

const (
	SourceGenerator Source = "generator"
	SourceTemplate  Source = "template"
)

// Answer is a composed reply and where it came from.
type Answer struct {
	Text   string `json:"answer"`
	Source Source `json:"source"`
}

// Generation is the outcome of one generator call.
// Err is nil exactly when Text holds a usable reply.
type Generation struct {
	Text string
	Err  error
}

// Composer writes answers for ranked candidates.
type Composer struct {
	generator ai.Generator
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer) error

// WithGenerator enables model-written answers. A nil generator leaves them disabled.
func WithGenerator(generator ai.Generator) Option {
	return func(c *Composer) error {
		c.generator = generator
		return nil
	}
}

// WithTimeout bounds each generator call.
// Default is 30s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Composer) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		c.timeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewComposer creates a Composer. Without WithGenerator every answer uses the template.
func NewComposer(opts ...Option) (*Composer, error) {
	c := &Composer{
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.logger = c.logger.With("component", "composer")
	return c, nil
}

// Compose returns the answer text for query and candidates.
func (c *Composer) Compose(ctx context.Context, query string, candidates []core.RankedCandidate) string {
	return c.ComposeAnswer(ctx, query, candidates).Text
}

// ComposeAnswer is Compose that also reports which path produced the text.
func (c *Composer) ComposeAnswer(ctx context.Context, query string, candidates []core.RankedCandidate) Answer {
	gen := c.Generate(ctx, query, candidates)
	if gen.Err == nil {
		return Answer{Text: gen.Text, Source: SourceGenerator}
	}

	if !errors.Is(gen.Err, ErrGeneratorDisabled) {
		c.logger.Warn("generator failed, falling back to template", "err", gen.Err)
	}
	return Answer{Text: Template(query, candidates), Source: SourceTemplate}
}

// Generate asks the generator for an answer within the configured timeout.
func (c *Composer) Generate(ctx context.Context, query string, candidates []core.RankedCandidate) Generation {
	if c.generator == nil {
		return Generation{Err: ErrGeneratorDisabled}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.generator.Generate(ctx, BuildPrompt(query, candidates))
	if err != nil {
		return Generation{Err: fmt.Errorf("%w: %w", core.ErrGeneratorUnavailable, err)}
	}
	if err := ctx.Err(); err != nil {
		return Generation{Err: fmt.Errorf("%w: %w", core.ErrGeneratorUnavailable, err)}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Generation{Err: fmt.Errorf("%w: %w", core.ErrGeneratorUnavailable, ErrEmptyResponse)}
	}
	return Generation{Text: text}
}
