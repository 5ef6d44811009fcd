package search

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/staffer/core"
	"github.com/poiesic/staffer/index"
	"github.com/poiesic/staffer/query"
	"github.com/poiesic/staffer/text"
)

// Ranker retrieves the best candidates for a free-text query.
type Ranker struct {
	indexer *index.Indexer
	logger  *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRanker creates a ranker over the snapshots published by indexer.
func NewRanker(indexer *index.Indexer, opts ...Option) (*Ranker, error) {
	if indexer == nil {
		return nil, ErrIndexerRequired
	}

	r := &Ranker{
		indexer: indexer,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	r.logger = r.logger.With("component", "ranker")
	return r, nil
}

// Retrieve returns up to topK candidates for q, best first.
func (r *Ranker) Retrieve(ctx context.Context, q string, topK int) ([]core.RankedCandidate, error) {
	return r.RetrieveWithMonitor(ctx, q, topK, nil)
}

// RetrieveWithMonitor is Retrieve with callbacks at each stage.
// All stages observe the same snapshot even if a rebuild completes meanwhile.
func (r *Ranker) RetrieveWithMonitor(ctx context.Context, q string, topK int, monitor Monitor) ([]core.RankedCandidate, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(q, topK)

	snap, err := r.indexer.Current()
	if err != nil {
		return nil, err
	}

	if topK <= 0 || snap.Len() == 0 {
		results := []core.RankedCandidate{}
		monitor.Finish(results)
		return results, nil
	}

	store := snap.Store()
	vocab, err := store.Vocabulary()
	if err != nil {
		return nil, err
	}
	constraints := query.ExtractConstraints(q, vocab)
	monitor.AfterConstraintExtraction(constraints)

	profiles, err := store.All()
	if err != nil {
		return nil, err
	}
	ids := LexicalFilter(q, constraints, profiles)
	monitor.AfterLexicalFilter(ids)

	vec, err := r.indexer.EmbedQuery(ctx, q)
	if err != nil {
		r.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}

	var matches []index.Match
	if len(ids) > 0 {
		matches, err = snap.SearchSubset(vec, ids, topK)
	} else {
		monitor.Fallback()
		matches, err = snap.Search(vec, topK)
	}
	if err != nil {
		return nil, err
	}

	results := make([]core.RankedCandidate, len(matches))
	for i, m := range matches {
		results[i] = core.RankedCandidate{Profile: m.Profile, Score: m.Score}
	}

	r.logger.Debug("retrieved candidates",
		"constraints", !constraints.Empty(),
		"filtered", len(ids),
		"fallback", len(ids) == 0,
		"results", len(results))
	monitor.Finish(results)
	return results, nil
}

// LexicalFilter returns the ids, in roster order, of profiles satisfying c.
// With no constraints every profile passes.
func LexicalFilter(q string, c query.Constraints, profiles []core.Profile) []core.ID {
	var queryTokens map[string]struct{}
	if len(c.Projects) > 0 {
		queryTokens = text.TokenSet(q)
	}

	skills := make([]string, len(c.Skills))
	for i, s := range c.Skills {
		skills[i] = text.Normalize(s)
	}

	ids := make([]core.ID, 0, len(profiles))
	for _, p := range profiles {
		if len(skills) > 0 && !hasSkill(p, skills) {
			continue
		}
		if len(c.Projects) > 0 && !text.Intersects(queryTokens, projectTokens(p)) {
			continue
		}
		if len(c.Availabilities) > 0 && !slices.Contains(c.Availabilities, strings.ToLower(p.Availability)) {
			continue
		}
		ids = append(ids, p.Id)
	}
	return ids
}

// hasSkill reports whether any normalized skill of p equals a required one.
func hasSkill(p core.Profile, required []string) bool {
	for _, skill := range p.Skills {
		if slices.Contains(required, text.Normalize(skill)) {
			return true
		}
	}
	return false
}

func projectTokens(p core.Profile) map[string]struct{} {
	parts := append(slices.Clone(p.Projects), p.Notes)
	return text.TokenSet(strings.Join(parts, " "))
}
