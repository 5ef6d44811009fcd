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


// Package roster holds the in-memory employee roster and its attribute filters.
//
// A Store is immutable once constructed: it is safe for concurrent readers
// without locking. Load and Parse read the roster document
//
//	{ "employees": [ {"id": 1, "name": "...", "skills": [...], ...}, ... ] }
//
// and fail with core.ErrNotFound or core.ErrMalformed. A nil Store reports
// core.ErrUninitialized from every accessor.
package roster
