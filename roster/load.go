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


package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/poiesic/staffer/core"
)

// document mirrors the roster file. Pointers distinguish absent from zero.
type document struct {
	Employees *[]employee `json:"employees"`
}

type employee struct {
	Id              *int64   `json:"id"`
	Name            string   `json:"name"`
	Role            *string  `json:"role"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	Projects        []string `json:"projects"`
	Availability    string   `json:"availability"`
	Notes           *string  `json:"notes"`
}

// Load reads and validates the roster document at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, path)
		}
		return nil, err
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes and validates a roster document.
func Parse(r io.Reader) (*Store, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMalformed, err)
	}
	if doc.Employees == nil {
		return nil, fmt.Errorf("%w: missing employees", core.ErrMalformed)
	}

	profiles := make([]core.Profile, 0, len(*doc.Employees))
	for i, e := range *doc.Employees {
		if e.Id == nil {
			return nil, fmt.Errorf("%w: employee %d has no id", core.ErrMalformed, i)
		}
		p := core.Profile{
			Id:              core.ID(*e.Id),
			Name:            e.Name,
			Skills:          e.Skills,
			ExperienceYears: e.ExperienceYears,
			Projects:        e.Projects,
			Availability:    e.Availability,
		}
		if e.Role != nil {
			p.Role = *e.Role
		}
		if e.Notes != nil {
			p.Notes = *e.Notes
		}
		profiles = append(profiles, p)
	}

	return New(profiles)
}
