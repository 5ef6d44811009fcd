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


// Package config loads the staffer YAML configuration file.
//
// A minimal file only names the roster; every other key has a default:
//
//	roster: data/employees.json
//	address: ":8000"
//	top_k: 3
//	cache_dir: /var/lib/staffer/cache
//	embedding:
//	  provider: openai
//	  host: http://localhost:11434
//	  model: nomic-embed-text
//	generator:
//	  enabled: true
//	  model: mistral
//	  timeout: 30s
//
// Command-line flags and STAFFER_* environment variables override file values.
package config
