package pagerank

import (
	"fmt"
	"math"

	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/rank"
)

// Global is the PageRank with uniform teleportation. With probability damping
// the random surfer follows an out-link, otherwise it jumps to a node chosen
// uniformly at random. The rank of dangling nodes is spread over every node.
type Global struct {
	graph   *graph.Graph
	damping float64
	policy  rank.Policy
	workers int
}

// NewGlobal() returns an Engine that computes the global PageRank of g.
// The damping must be in (0, 1]; a damping of 1 disables teleportation.
func NewGlobal(g *graph.Graph, damping float64, policy rank.Policy, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: %w", models.ErrConfiguration, models.ErrNilGraph)
	}

	if math.IsNaN(damping) || damping <= 0 || damping > 1 {
		return nil, fmt.Errorf("%w: damping must be in (0, 1], got %v", models.ErrConfiguration, damping)
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	config, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	stepper := &Global{
		graph:   g,
		damping: damping,
		policy:  policy,
		workers: config.Workers,
	}

	config.Log.Info("global pagerank on %v: damping %v, policy %v", g, damping, policy)
	return newEngine(stepper, nil, policy, config), nil
}

// Damping() returns the probability of following an out-link.
func (p *Global) Damping() float64 {
	return p.damping
}

// Initial() returns the uniform vector.
func (p *Global) Initial() Generation {
	return Generation{rank.Uniform(p.graph.Dimension())}
}

// Step() computes next = (1-d)/N + d * (M^T * curr + D/N).
func (p *Global) Step(curr, next Generation) {
	N := float64(p.graph.Dimension())
	propagate(p.graph, curr[0], next[0], (1-p.damping)/N, p.damping, p.workers)
}

// HasConverged() applies the convergence policy to the two vectors.
func (p *Global) HasConverged(prev, curr Generation) bool {
	if prev == nil {
		return false
	}
	return p.policy.HasConverged(prev[0], curr[0])
}
