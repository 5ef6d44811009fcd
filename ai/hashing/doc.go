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


// Package hashing provides a local, dependency-free ai.Embedder.
//
// Text is normalized and tokenized, each token is hashed into one of a
// fixed number of buckets, and the resulting count vector is scaled to unit
// length. Texts that share vocabulary therefore have positive cosine
// similarity, which is enough to rank profiles without a model server.
// Identical texts always produce identical vectors.
package hashing
