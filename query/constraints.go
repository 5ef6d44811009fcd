package query

import (
	"strings"

	"github.com/poiesic/staffer/roster"
)

// Constraints are the roster values a query explicitly mentions.
// Each slice holds lower-cased vocabulary entries in vocabulary order.
type Constraints struct {
	Skills         []string
	Projects       []string // project names and notes
	Availabilities []string
}

// Empty reports whether no constraint was found.
func (c Constraints) Empty() bool {
	return len(c.Skills) == 0 && len(c.Projects) == 0 && len(c.Availabilities) == 0
}

// ExtractConstraints finds every vocabulary entry contained in q.
// Matching is case-insensitive substring containment; short entries can
// therefore match inside longer words.
func ExtractConstraints(q string, vocab roster.Vocabulary) Constraints {
	lowered := strings.ToLower(q)
	return Constraints{
		Skills:         contained(lowered, vocab.Skills),
		Projects:       contained(lowered, vocab.Projects),
		Availabilities: contained(lowered, vocab.Availabilities),
	}
}

func contained(q string, values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" && strings.Contains(q, v) {
			out = append(out, v)
		}
	}
	return out
}
