package graph

import (
	"context"
	"fmt"

	"github.com/vertex-lab/linkrank/pkg/models"
)

// FromSource() builds the graph stored in the source, applying the
// out-of-range policy of the options to every edge.
func FromSource(ctx context.Context, src models.GraphSource, opts ...Option) (*Graph, error) {
	dim, err := src.Dimension(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the dimension: %w", err)
	}

	b, err := NewBuilder(dim, opts...)
	if err != nil {
		return nil, err
	}

	if err := src.Edges(ctx, func(e Edge) error { return b.AddEdge(e.From, e.To) }); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// sliceSource is a models.GraphSource backed by an in-memory edge list.
type sliceSource struct {
	dim   int
	edges []Edge
}

// NewSliceSource() returns a models.GraphSource that yields the specified edges.
func NewSliceSource(dim int, edges []Edge) models.GraphSource {
	return &sliceSource{dim: dim, edges: edges}
}

func (s *sliceSource) Dimension(ctx context.Context) (int, error) {
	return s.dim, nil
}

func (s *sliceSource) Edges(ctx context.Context, fn func(e Edge) error) error {
	for _, e := range s.edges {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}
