package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// ID is the stable key of a Profile within a roster.
type ID int64

// HashContent returns a hex-encoded BLAKE2b-256 digest of the given parts.
// Parts are separated by a NUL byte so that ("ab", "c") and ("a", "bc") differ.
func HashContent(parts ...string) string {
	h, _ := blake2b.New(32, nil)
	for i, part := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Profile is one employee record from the roster.
// Every field except Id may be empty; empty fields are treated as absent.
type Profile struct {
	Id              ID       `json:"id"`
	Name            string   `json:"name"`
	Role            string   `json:"role,omitempty"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	Projects        []string `json:"projects"`
	Availability    string   `json:"availability"`
	Notes           string   `json:"notes,omitempty"`
}

// RankedCandidate pairs a Profile with its relevance score for one query.
// Higher scores are more relevant; cosine scores fall within [-1, 1].
type RankedCandidate struct {
	Profile Profile `json:"employee"`
	Score   float32 `json:"score"`
}
