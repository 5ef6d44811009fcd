package search

import (
	"github.com/poiesic/staffer/core"
	"github.com/poiesic/staffer/query"
)

// Monitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type Monitor interface {
	Start(query string, topK int)
	AfterConstraintExtraction(constraints query.Constraints)
	AfterLexicalFilter(ids []core.ID)
	Fallback()
	Finish(results []core.RankedCandidate)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                         {}
func (n *noopMonitor) AfterConstraintExtraction(_ query.Constraints) {}
func (n *noopMonitor) AfterLexicalFilter(_ []core.ID)                {}
func (n *noopMonitor) Fallback()                                     {}
func (n *noopMonitor) Finish(_ []core.RankedCandidate)               {}
