/*
The models package defines the fundamental structures, interfaces and error
codes shared by the packages of this project.

RankStore:
The RankStore interface abstracts the persistence of solver results, so that
the engines can be run without relying on a particular database.

GraphSource:
The GraphSource interface abstracts where the edges of a graph come from
(an edge-list file, a Redis database, a test fixture).
*/
package models

import (
	"context"
)

// Edge is a directed link between two 1-indexed node IDs.
type Edge struct {
	From uint32
	To   uint32
}

// RankSnapshot is an immutable copy of the ranks computed by a run, one
// vector per topic. The global PageRank has a single vector and no topics.
type RankSnapshot struct {
	Topics     []uint32
	Vectors    [][]float64
	Iterations int
	Converged  bool
}

// Validate() returns an error if the snapshot is empty or inconsistent.
func (s *RankSnapshot) Validate() error {
	if s == nil {
		return ErrNilSnapshot
	}

	if len(s.Vectors) == 0 {
		return ErrEmptySnapshot
	}

	if len(s.Topics) > 0 && len(s.Topics) != len(s.Vectors) {
		return ErrInconsistentSnapshot
	}

	dim := len(s.Vectors[0])
	for _, vec := range s.Vectors {
		if len(vec) != dim {
			return ErrInconsistentSnapshot
		}
	}

	return nil
}

// The GraphSource interface abstracts the origin of the edges of a graph.
type GraphSource interface {
	// Dimension() returns the number of nodes of the stored graph.
	Dimension(ctx context.Context) (int, error)

	// Edges() calls fn for each edge; it stops and returns the first error returned by fn.
	Edges(ctx context.Context, fn func(e Edge) error) error
}

// The RankStore interface abstracts the persistence of computed ranks.
type RankStore interface {
	// SaveRanks() stores the snapshot under the given name, overwriting previous ones.
	SaveRanks(ctx context.Context, name string, snap *RankSnapshot) error

	// LoadRanks() retrieves the snapshot stored under the given name.
	LoadRanks(ctx context.Context, name string) (*RankSnapshot, error)
}
