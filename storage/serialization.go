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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MarshalVector serializes a vector as a varint length followed by
// fixed-width float32 values.
func MarshalVector(vec []float32) []byte {
	size := varint.Int.Size(len(vec))
	for _, v := range vec {
		size += raw.Float32.Size(v)
	}

	buf := make([]byte, size)
	n := varint.Int.Marshal(len(vec), buf)
	for _, v := range vec {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	return buf
}

// UnmarshalVector deserializes a vector written by MarshalVector.
func UnmarshalVector(data []byte) ([]float32, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrSerializationFailed, length)
	}
	// 4 bytes per element; reject before allocating. Divide rather than
	// multiply so a corrupt length cannot overflow.
	if length > (len(data)-n)/4 {
		return nil, fmt.Errorf("%w: want %d values, have %d bytes", ErrTruncatedData, length, len(data)-n)
	}

	vec := make([]float32, length)
	for i := range vec {
		v, m, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		vec[i] = v
		n += m
	}
	return vec, nil
}
