package index

import (
	"cmp"
	"slices"

	"github.com/poiesic/staffer/core"
	"github.com/poiesic/staffer/roster"
)

// Match is one scored profile from a semantic lookup.
type Match struct {
	Profile  core.Profile
	Score    float32
	Position int // roster position, used to break score ties
}

// Snapshot is an immutable index over one roster.
// profiles, documents and vectors are positionally aligned.
type Snapshot struct {
	store     *roster.Store
	profiles  []core.Profile
	documents []string
	vectors   [][]float32
	positions map[core.ID]int
	dims      int
}

func newSnapshot(store *roster.Store, profiles []core.Profile, documents []string, vectors [][]float32) *Snapshot {
	positions := make(map[core.ID]int, len(profiles))
	for i, p := range profiles {
		positions[p.Id] = i
	}
	dims := 0
	if len(vectors) > 0 {
		dims = len(vectors[0])
	}
	return &Snapshot{
		store:     store,
		profiles:  profiles,
		documents: documents,
		vectors:   vectors,
		positions: positions,
		dims:      dims,
	}
}

// Store returns the roster the snapshot was built from.
func (s *Snapshot) Store() *roster.Store {
	if s == nil {
		return nil
	}
	return s.store
}

// Len returns the number of indexed profiles.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.profiles)
}

// Dimensions returns the vector length shared by every indexed profile.
func (s *Snapshot) Dimensions() int {
	if s == nil {
		return 0
	}
	return s.dims
}

// Document returns the canonical document indexed for id.
func (s *Snapshot) Document(id core.ID) (string, bool) {
	if s == nil {
		return "", false
	}
	pos, ok := s.positions[id]
	if !ok {
		return "", false
	}
	return s.documents[pos], true
}

// Search scores every profile against vec and returns the topK best.
func (s *Snapshot) Search(vec []float32, topK int) ([]Match, error) {
	if s == nil {
		return nil, core.ErrUninitialized
	}
	positions := make([]int, len(s.profiles))
	for i := range positions {
		positions[i] = i
	}
	return s.rank(vec, positions, topK), nil
}

// SearchSubset is Search restricted to ids. Unknown and repeated ids are ignored.
func (s *Snapshot) SearchSubset(vec []float32, ids []core.ID, topK int) ([]Match, error) {
	if s == nil {
		return nil, core.ErrUninitialized
	}
	positions := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		pos, ok := s.positions[id]
		if !ok {
			continue
		}
		if _, dup := seen[pos]; dup {
			continue
		}
		seen[pos] = struct{}{}
		positions = append(positions, pos)
	}
	slices.Sort(positions)
	return s.rank(vec, positions, topK), nil
}

// rank scores positions (ascending) and keeps the topK, ties by position.
func (s *Snapshot) rank(vec []float32, positions []int, topK int) []Match {
	if topK <= 0 || len(positions) == 0 {
		return []Match{}
	}

	matches := make([]Match, len(positions))
	for i, pos := range positions {
		matches[i] = Match{
			Profile:  s.profiles[pos],
			Score:    Cosine(vec, s.vectors[pos]),
			Position: pos,
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}
