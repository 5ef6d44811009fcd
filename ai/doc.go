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


// Package ai provides abstractions for the AI services used by staffer.
//
// This package defines interfaces for text embeddings and text generation.
// The ranking engine depends on these abstractions rather than on concrete
// clients, so embedding backends can be swapped and the generator can be
// absent without changing any ranking code.
//
// # Interfaces
//
//   - Embedder: Generates vector embeddings from text
//   - Generator: Produces prose from a prompt (optional)
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs (OpenAI, Ollama, vLLM) via langchaingo
//   - ai/hashing: Local feature-hashing embedder with no external service
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types. Test utility constructors (mock.NewMockEmbedder,
// mock.NewMockGenerator) return CONCRETE types so tests can inject behavior
// and assert on call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithGeneratorEnabled(true))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "Python developer")
//	if gen := provider.Generator(); gen != nil {
//	    text, err := gen.Generate(ctx, "Recommend a candidate")
//	}
package ai
