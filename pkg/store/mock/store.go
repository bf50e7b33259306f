// The mock package defines an in-memory Store with the same behavior as the
// one in redistore, used in tests and when Redis is not available.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/pagerank"
)

// Store fulfills the models.RankStore and models.GraphSource interfaces in memory.
type Store struct {
	mu    sync.RWMutex
	graph *graph.Graph
	ranks map[string]*models.RankSnapshot
}

// NewStore() returns an empty Store.
func NewStore() *Store {
	return &Store{ranks: make(map[string]*models.RankSnapshot)}
}

// SaveGraph() stores the graph, replacing the one previously stored.
func (s *Store) SaveGraph(ctx context.Context, g *graph.Graph) error {
	if g == nil {
		return models.ErrNilGraph
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = g
	return nil
}

// Dimension() returns the number of nodes of the stored graph.
func (s *Store) Dimension(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.graph == nil {
		return 0, models.ErrGraphNotFound
	}
	return s.graph.Dimension(), nil
}

// Edges() calls fn for each edge of the stored graph, ordered by source and then by destination.
func (s *Store) Edges(ctx context.Context, fn func(e models.Edge) error) error {
	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		return models.ErrGraphNotFound
	}

	for _, e := range g.Edges() {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// LoadGraph() returns the stored graph.
func (s *Store) LoadGraph(ctx context.Context, opts ...graph.Option) (*graph.Graph, error) {
	return graph.FromSource(ctx, s, opts...)
}

// SaveRanks() stores a copy of the snapshot under the given name.
func (s *Store) SaveRanks(ctx context.Context, name string, snap *models.RankSnapshot) error {
	if name == "" {
		return fmt.Errorf("%w: empty ranks name", models.ErrConfiguration)
	}

	// the conversion deep copies the snapshot
	result, err := pagerank.FromSnapshot(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranks[name] = result.Snapshot()
	return nil
}

// LoadRanks() returns a copy of the snapshot stored under the given name.
func (s *Store) LoadRanks(ctx context.Context, name string) (*models.RankSnapshot, error) {
	s.mu.RLock()
	snap, exists := s.ranks[name]
	s.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", models.ErrRanksNotFound, name)
	}

	result, err := pagerank.FromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return result.Snapshot(), nil
}
