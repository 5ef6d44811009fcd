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


// Package storage provides the persistence abstraction for staffer.
//
// The only persisted state is the embedding cache: vectors keyed by a
// content hash of the embedding model and the canonical profile document.
// A warm cache lets the index be rebuilt after a restart or a roster reload
// without calling the embedding service for unchanged profiles.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to keep callers decoupled from the
// backend:
//
//	cache, err := badger.NewVectorCache(backend)  // returns storage.VectorCache
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/var/lib/staffer/cache", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	cache, err := badger.NewVectorCache(backend)
//
// Use in tests with in-memory storage:
//
//	cache, backend, err := badger.NewMemoryVectorCache()
//
// # Thread Safety
//
// All implementations must be thread-safe; the index builder reads and writes
// the cache from a worker pool.
package storage
