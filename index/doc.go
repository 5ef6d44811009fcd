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


// Package index builds and queries the semantic index over a roster.
//
// Each profile is rendered to a canonical document, embedded, and stored
// positionally aligned with its profile in an immutable Snapshot. The
// Indexer publishes snapshots through an atomic pointer, so a rebuild never
// disturbs queries already running against the previous snapshot.
//
// # Building
//
//	idx, err := index.NewIndexer(embedder,
//	    index.WithBatchSize(32),
//	    index.WithCache(cache, "nomic-embed-text"),
//	)
//	snap, err := idx.Build(ctx, store)
//
// Embedding runs in batches on a worker pool. Each batch is retried with
// exponential backoff. When a storage.VectorCache is configured, documents
// whose content hash is already cached are not sent to the embedder.
//
// # Querying
//
//	matches, err := idx.Query(ctx, "python healthcare", 3)
//
// Results are ordered by cosine similarity, highest first; equal scores
// keep roster order.
package index
