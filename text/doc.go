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


// Package text provides deterministic text canonicalization for token-level matching.
//
// Normalize lower-cases its input, replaces every rune that is neither a
// letter, a digit nor whitespace with a space, and collapses whitespace runs
// to a single space. It is a pure function and idempotent, so punctuation
// and casing never cause false negatives when comparing tokens.
package text
