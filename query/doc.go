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


// Package query turns a free-text staffing request into structured constraints.
//
// Extraction is vocabulary driven: only values that already occur in the
// roster can become constraints. A value is required when it appears as a
// substring of the lower-cased query, so "python" in the vocabulary matches
// a query mentioning "Python developers".
package query
