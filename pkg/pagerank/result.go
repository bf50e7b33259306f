package pagerank

import (
	"slices"

	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/rank"
)

// Result is an immutable snapshot of the ranks computed by an Engine.
type Result struct {
	Ranks      Generation
	Topics     []uint32 // nil for the global PageRank
	Iterations int
	Converged  bool
	Distance   float64
}

// Global() returns the first (and for the global PageRank, only) rank vector.
func (r *Result) Global() rank.Vector {
	if len(r.Ranks) == 0 {
		return nil
	}
	return r.Ranks[0]
}

// Topic() returns the rank vector of topicID.
func (r *Result) Topic(topicID uint32) (rank.Vector, error) {
	i := slices.Index(r.Topics, topicID)
	if i == -1 {
		return nil, models.ErrTopicNotFound
	}
	return r.Ranks[i], nil
}

// Snapshot() converts the result into the format used by a models.RankStore.
func (r *Result) Snapshot() *models.RankSnapshot {
	vectors := make([][]float64, len(r.Ranks))
	for i, vec := range r.Ranks {
		vectors[i] = slices.Clone(vec)
	}

	return &models.RankSnapshot{
		Topics:     slices.Clone(r.Topics),
		Vectors:    vectors,
		Iterations: r.Iterations,
		Converged:  r.Converged,
	}
}

// FromSnapshot() converts a stored snapshot back into a result.
func FromSnapshot(snap *models.RankSnapshot) (*Result, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	ranks := make(Generation, len(snap.Vectors))
	for i, vec := range snap.Vectors {
		ranks[i] = slices.Clone(vec)
	}

	return &Result{
		Ranks:      ranks,
		Topics:     slices.Clone(snap.Topics),
		Iterations: snap.Iterations,
		Converged:  snap.Converged,
	}, nil
}
