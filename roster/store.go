package roster

import (
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/staffer/core"
)

// Store is an immutable, in-memory view over a validated roster.
// The zero value is uninitialized; use New or Load.
type Store struct {
	profiles []core.Profile
	vocab    Vocabulary
	ready    bool
}

// Vocabulary lists the distinct lower-cased values observed across a roster.
// Each slice is sorted and contains no empty strings.
type Vocabulary struct {
	Skills         []string
	Projects       []string // project names and notes
	Availabilities []string
}

// Filter selects profiles by attribute. Zero-valued fields are ignored.
type Filter struct {
	Skill         string // case-insensitive substring of any skill
	MinExperience *int   // ExperienceYears >= MinExperience
	Project       string // case-insensitive substring of any project
	Availability  string // case-insensitive exact match
}

// New validates profiles and returns a Store owning a copy of them.
func New(profiles []core.Profile) (*Store, error) {
	if err := core.ValidateRoster(profiles); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMalformed, err)
	}

	owned := slices.Clone(profiles)
	return &Store{
		profiles: owned,
		vocab:    buildVocabulary(owned),
		ready:    true,
	}, nil
}

// Len returns the number of profiles, or zero for an uninitialized Store.
func (s *Store) Len() int {
	if !s.initialized() {
		return 0
	}
	return len(s.profiles)
}

// All returns every profile in roster order.
func (s *Store) All() ([]core.Profile, error) {
	if !s.initialized() {
		return nil, core.ErrUninitialized
	}
	return slices.Clone(s.profiles), nil
}

// Vocabulary returns the distinct skills, projects and availabilities in the roster.
func (s *Store) Vocabulary() (Vocabulary, error) {
	if !s.initialized() {
		return Vocabulary{}, core.ErrUninitialized
	}
	return s.vocab, nil
}

// FilterByAttributes returns the profiles matching every non-empty field of f,
// in roster order.
func (s *Store) FilterByAttributes(f Filter) ([]core.Profile, error) {
	if !s.initialized() {
		return nil, core.ErrUninitialized
	}

	results := make([]core.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if f.Matches(p) {
			results = append(results, p)
		}
	}
	return results, nil
}

// FilterBySkills is FilterByAttributes where the skill condition accepts any of
// skills. f.Skill is ignored; with no skills only the other fields apply.
func (s *Store) FilterBySkills(skills []string, f Filter) ([]core.Profile, error) {
	if !s.initialized() {
		return nil, core.ErrUninitialized
	}

	f.Skill = ""
	results := make([]core.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if !f.Matches(p) {
			continue
		}
		if len(skills) > 0 && !slices.ContainsFunc(skills, func(skill string) bool {
			return anyContains(p.Skills, strings.ToLower(skill))
		}) {
			continue
		}
		results = append(results, p)
	}
	return results, nil
}

func (s *Store) initialized() bool {
	return s != nil && s.ready
}

// Matches reports whether p satisfies every non-empty field of f.
func (f Filter) Matches(p core.Profile) bool {
	if f.Skill != "" && !anyContains(p.Skills, strings.ToLower(f.Skill)) {
		return false
	}
	if f.MinExperience != nil && p.ExperienceYears < *f.MinExperience {
		return false
	}
	if f.Project != "" && !anyContains(p.Projects, strings.ToLower(f.Project)) {
		return false
	}
	if f.Availability != "" && !strings.EqualFold(p.Availability, f.Availability) {
		return false
	}
	return true
}

// anyContains reports whether any value, lower-cased, contains needle.
func anyContains(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func buildVocabulary(profiles []core.Profile) Vocabulary {
	skills := make(map[string]struct{})
	projects := make(map[string]struct{})
	availabilities := make(map[string]struct{})

	add := func(set map[string]struct{}, v string) {
		v = strings.ToLower(v)
		if strings.TrimSpace(v) == "" {
			return
		}
		set[v] = struct{}{}
	}

	for _, p := range profiles {
		for _, skill := range p.Skills {
			add(skills, skill)
		}
		for _, project := range p.Projects {
			add(projects, project)
		}
		add(projects, p.Notes)
		add(availabilities, p.Availability)
	}

	return Vocabulary{
		Skills:         sortedKeys(skills),
		Projects:       sortedKeys(projects),
		Availabilities: sortedKeys(availabilities),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SplitSkills splits a comma, pipe or semicolon separated skill list.
// The first separator present wins; blank entries are dropped.
func SplitSkills(s string) []string {
	for _, sep := range []string{",", "|", ";"} {
		if strings.Contains(s, sep) {
			parts := strings.Split(s, sep)
			out := make([]string, 0, len(parts))
			for _, part := range parts {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
			return out
		}
	}
	if s = strings.TrimSpace(s); s != "" {
		return []string{s}
	}
	return []string{}
}
