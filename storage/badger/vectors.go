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


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/staffer/storage"
)

// VectorCache implements storage.VectorCache for BadgerDB.
type VectorCache struct {
	backend *Backend
	owned   bool
}

var _ storage.VectorCache = (*VectorCache)(nil)

// NewVectorCache creates a vector cache on an open backend.
// The caller keeps ownership of backend and must close it separately.
func NewVectorCache(backend *Backend) (storage.VectorCache, error) {
	return newVectorCache(backend, false)
}

// OpenVectorCache opens a backend at path and returns a cache that closes
// the backend when it is closed.
func OpenVectorCache(path string) (storage.VectorCache, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newVectorCache(backend, true)
}

func newVectorCache(backend *Backend, owned bool) (*VectorCache, error) {
	if backend == nil {
		return nil, errors.New("badger: backend is required")
	}
	return &VectorCache{backend: backend, owned: owned}, nil
}

// Get returns the vector stored under key.
func (c *VectorCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	if key == "" {
		return nil, false, storage.ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var vec []float32
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			vec, err = storage.UnmarshalVector(val)
			return err
		})
	}, false)

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// Put stores vec under key.
func (c *VectorCache) Put(ctx context.Context, key string, vec []float32) error {
	if key == "" {
		return storage.ErrInvalidKey
	}
	return c.backend.WithTransaction(ctx, func(ctx context.Context, tx *badger.Txn) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return tx.Set(makeVectorKey(key), storage.MarshalVector(vec))
	})
}

// Len counts cached vectors.
func (c *VectorCache) Len(ctx context.Context) (int, error) {
	count := 0
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// Close releases the backend if the cache opened it.
func (c *VectorCache) Close() error {
	if c.owned {
		return c.backend.Close()
	}
	return nil
}
