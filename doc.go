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


// Package staffer answers staffing questions over an employee roster.
//
// An Engine loads a JSON roster, indexes every profile with an embedding
// model, and answers free-text requests such as "Python developers who
// worked on healthcare projects" with ranked candidates and a written
// recommendation.
//
//	engine, err := staffer.Open(ctx, "data/employees.json",
//	    staffer.WithAIConfig(ai.NewConfig(ai.WithHost("http://localhost:11434"))),
//	    staffer.WithCacheDir("/var/lib/staffer/cache"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	resp, err := engine.Ask(ctx, "Who can lead a Kubernetes migration?", 3)
//
// Reload rebuilds the index from the roster file and swaps it in atomically;
// queries in flight finish against the previous index.
package staffer
