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


package core

import "fmt"

// ValidateProfile validates a Profile according to domain rules.
//
// Validation rules:
//   - ExperienceYears must not be negative
//
// NOT validated (absent values are allowed):
//   - Name, Role, Notes, Availability
//   - Skills and Projects (may be empty)
func ValidateProfile(profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}

	if profile.ExperienceYears < 0 {
		return fmt.Errorf("%w: id %d: %w", ErrInvalidProfile, profile.Id, ErrNegativeExperience)
	}

	return nil
}

// ValidateRoster validates every profile and checks that IDs are unique.
func ValidateRoster(profiles []Profile) error {
	seen := make(map[ID]struct{}, len(profiles))
	for i := range profiles {
		if err := ValidateProfile(&profiles[i]); err != nil {
			return err
		}
		if _, ok := seen[profiles[i].Id]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, profiles[i].Id)
		}
		seen[profiles[i].Id] = struct{}{}
	}
	return nil
}
