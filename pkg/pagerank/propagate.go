package pagerank

import (
	"sync"

	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/rank"
)

/*
propagate() writes into next one power-iteration update of curr:

	next[v] = base + weight * (D / N + sum_{u --> v} curr[u] / outDegree(u))

where D is the rank held by the dangling nodes in curr. The sum iterates the
predecessors of each destination v (transposed adjacency), and each term is
normalized by the out-degree of its source u.

With workers > 1 the destinations are split in contiguous ranges, one per
goroutine, so that every entry of next has exactly one writer. The result
does not depend on the number of workers.
*/
func propagate(g *graph.Graph, curr, next rank.Vector, base, weight float64, workers int) {
	N := g.Dimension()

	danglingMass := 0.0
	for _, nodeID := range g.Dangling() {
		danglingMass += curr[nodeID-1]
	}
	share := base + weight*danglingMass/float64(N)

	// the rank each node sends along each of its out-links
	outflow := make([]float64, N)
	for i := range outflow {
		if deg := g.OutDegree(uint32(i + 1)); deg > 0 {
			outflow[i] = curr[i] / float64(deg)
		}
	}

	update := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			sum := 0.0
			for _, from := range g.InLinks(uint32(i + 1)) {
				sum += outflow[from-1]
			}
			next[i] = share + weight*sum
		}
	}

	if workers <= 1 || N < 2*workers {
		update(0, N)
		return
	}

	var wg sync.WaitGroup
	chunk := (N + workers - 1) / workers
	for lo := 0; lo < N; lo += chunk {
		hi := min(lo+chunk, N)

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			update(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
