package redistore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/utils/redisutils"
)

// GraphFields are the fields of the graph hash. This struct is used for serialize and deserialize.
type GraphFields struct {
	Dimension int `redis:"dimension"`
	Edges     int `redis:"edges"`
}

// SaveGraph() stores the graph, replacing the one previously stored.
func (s *Store) SaveGraph(ctx context.Context, g *graph.Graph) error {
	if err := s.Validate(); err != nil {
		return err
	}

	if g == nil {
		return models.ErrNilGraph
	}

	if err := s.deleteGraph(ctx); err != nil {
		return err
	}

	for lo := 1; lo <= g.Dimension(); lo += batchSize {
		hi := min(lo+batchSize-1, g.Dimension())

		pipe := s.client.Pipeline()
		for ID := lo; ID <= hi; ID++ {
			nodeID := uint32(ID)
			if follows := g.OutLinks(nodeID); len(follows) > 0 {
				pipe.SAdd(ctx, KeyFollows(nodeID), redisutils.FormatIDs(follows))
			}
			if followers := g.InLinks(nodeID); len(followers) > 0 {
				pipe.SAdd(ctx, KeyFollowers(nodeID), redisutils.FormatIDs(followers))
			}
		}

		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to store nodes [%d, %d]: %w", lo, hi, err)
		}
	}

	// the hash is written last, so that a partially written graph is never found
	fields := GraphFields{Dimension: g.Dimension(), Edges: g.EdgeCount()}
	return s.client.HSet(ctx, KeyGraph, fields).Err()
}

// deleteGraph() removes the stored graph, if any.
func (s *Store) deleteGraph(ctx context.Context) error {
	dim, err := s.Dimension(ctx)
	if errors.Is(err, models.ErrGraphNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.client.Del(ctx, KeyGraph).Err(); err != nil {
		return err
	}

	for lo := 1; lo <= dim; lo += batchSize {
		hi := min(lo+batchSize-1, dim)

		keys := make([]string, 0, 2*(hi-lo+1))
		for ID := lo; ID <= hi; ID++ {
			keys = append(keys, KeyFollows(uint32(ID)), KeyFollowers(uint32(ID)))
		}

		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Dimension() returns the number of nodes of the stored graph.
func (s *Store) Dimension(ctx context.Context) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	strDim, err := s.client.HGet(ctx, KeyGraph, KeyDimension).Result()
	if errors.Is(err, redis.Nil) {
		return 0, models.ErrGraphNotFound
	}
	if err != nil {
		return 0, err
	}

	return redisutils.ParseInt(strDim)
}

// Edges() calls fn for each edge of the stored graph, ordered by source and then by destination.
func (s *Store) Edges(ctx context.Context, fn func(e models.Edge) error) error {
	dim, err := s.Dimension(ctx)
	if err != nil {
		return err
	}

	for lo := 1; lo <= dim; lo += batchSize {
		hi := min(lo+batchSize-1, dim)

		pipe := s.client.Pipeline()
		cmds := make([]*redis.StringSliceCmd, 0, hi-lo+1)
		for ID := lo; ID <= hi; ID++ {
			cmds = append(cmds, pipe.SMembers(ctx, KeyFollows(uint32(ID))))
		}

		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to fetch nodes [%d, %d]: %w", lo, hi, err)
		}

		for i, cmd := range cmds {
			follows, err := redisutils.ParseIDs(cmd.Val())
			if err != nil {
				return err
			}
			slices.Sort(follows)

			from := uint32(lo + i)
			for _, to := range follows {
				if err := fn(models.Edge{From: from, To: to}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// LoadGraph() returns the stored graph.
func (s *Store) LoadGraph(ctx context.Context, opts ...graph.Option) (*graph.Graph, error) {
	return graph.FromSource(ctx, s, opts...)
}
