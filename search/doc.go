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


// Package search provides hybrid lexical and semantic ranking of profiles.
//
// The Ranker implements a two-stage retrieval:
//   - Constraints are extracted from the query against the roster vocabulary
//     and used as a hard lexical filter over profiles
//   - Survivors are ranked by cosine similarity to the query embedding
//
// When the filter leaves nobody, ranking falls back to the full roster so a
// query never comes back empty merely because it over-constrained itself.
package search
