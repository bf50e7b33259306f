/*
The pagerank package computes the stationary rank distribution of a graph by
power iteration. Two algorithms are provided:

  - Global: the classic PageRank with uniform teleportation.
  - TopicSensitive: one PageRank per topic, whose teleportation is biased
    towards the documents of that topic.

Both are Steppers, and an Engine drives any Stepper until convergence.

# REFERENCES

[1] L. Page, S. Brin, R. Motwani, T. Winograd; "The PageRank Citation Ranking: Bringing Order to the Web"
URL: http://ilpubs.stanford.edu:8090/422/

[2] T. Haveliwala; "Topic-Sensitive PageRank"
URL: https://dl.acm.org/doi/10.1145/511446.511513
*/
package pagerank

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/rank"
	"github.com/vertex-lab/linkrank/pkg/utils/counter"
)

// Generation holds the rank vectors computed by one iteration, one per topic.
type Generation []rank.Vector

// Clone() returns a deep copy of the generation.
func (g Generation) Clone() Generation {
	if g == nil {
		return nil
	}

	clone := make(Generation, len(g))
	for i, vec := range g {
		clone[i] = vec.Clone()
	}
	return clone
}

// Stepper is a single power-iteration algorithm.
type Stepper interface {
	// Initial() returns the generation the iteration starts from.
	Initial() Generation

	// Step() computes the generation following curr and writes it into next,
	// which has the same shape as curr. Every entry of next is overwritten.
	Step(curr, next Generation)

	// HasConverged() returns whether the iteration can stop. prev is nil before
	// the first iteration.
	HasConverged(prev, curr Generation) bool
}

// State is the lifecycle stage of an Engine.
type State int32

const (
	Uninitialized State = iota
	Iterating
	Converged
	Exhausted // reached the maximum number of iterations without converging
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Engine drives a Stepper, keeping the current and the previous generation.
// The two generations are swapped after each iteration, and the buffer of the
// older one is reused for the next. Ranks are only handed out as copies.
//
// Run and Step must be called from a single goroutine; State, Iterations and
// Distance can be read concurrently.
type Engine struct {
	stepper Stepper
	topics  []uint32
	policy  rank.Policy
	config  Config

	current  Generation
	previous Generation

	state      atomic.Int32
	iterations *xsync.Counter
	distance   *counter.Float
}

func newEngine(stepper Stepper, topics []uint32, policy rank.Policy, config Config) *Engine {
	return &Engine{
		stepper:    stepper,
		topics:     topics,
		policy:     policy,
		config:     config,
		iterations: xsync.NewCounter(),
		distance:   counter.NewFloat(0),
	}
}

// State() returns the current lifecycle stage.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Iterations() returns the number of completed iterations.
func (e *Engine) Iterations() int {
	return int(e.iterations.Value())
}

// Distance() returns the distance between the last two generations, measured
// with the norm of the policy (the maximum across topics).
func (e *Engine) Distance() float64 {
	return e.distance.Load()
}

// Topics() returns the topic of each vector of the generation, nil for the global PageRank.
func (e *Engine) Topics() []uint32 {
	return slices.Clone(e.topics)
}

// Ranks() returns a copy of the current generation, nil before the first iteration.
func (e *Engine) Ranks() Generation {
	return e.current.Clone()
}

// Step() performs exactly one iteration.
// It returns models.ErrEngineDone if the engine already converged or was exhausted.
func (e *Engine) Step() error {
	switch e.State() {
	case Converged, Exhausted:
		return models.ErrEngineDone

	case Uninitialized:
		e.current = e.stepper.Initial()
		e.state.Store(int32(Iterating))
	}

	next := e.previous
	if next == nil {
		next = make(Generation, len(e.current))
		for i, vec := range e.current {
			next[i] = make(rank.Vector, len(vec))
		}
	}

	e.stepper.Step(e.current, next)
	e.previous, e.current = e.current, next
	e.iterations.Inc()
	e.distance.Store(maxDistance(e.previous, e.current, e.policy.Norm))

	if e.stepper.HasConverged(e.previous, e.current) {
		e.state.Store(int32(Converged))
	}
	return nil
}

// Run() iterates until convergence or until the maximum number of iterations.
//
// In the latter case Run returns the last computed ranks together with an
// error wrapping models.ErrDidNotConverge; the ranks are still valid.
// The context is checked between iterations.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if e.State() == Exhausted {
		return e.Result(), models.ErrEngineDone
	}

	for e.State() != Converged {
		if e.Iterations() >= e.config.MaxIterations {
			e.state.Store(int32(Exhausted))
			e.config.Log.Warn("no convergence after %d iterations: distance %g, policy %v",
				e.Iterations(), e.Distance(), e.policy)

			return e.Result(), fmt.Errorf("%w: %d iterations, distance %g",
				models.ErrDidNotConverge, e.Iterations(), e.Distance())
		}

		select {
		case <-ctx.Done():
			return e.Result(), ctx.Err()
		default:
		}

		start := time.Now()
		if err := e.Step(); err != nil {
			return e.Result(), err
		}

		e.config.Log.Info("iteration %d: distance %g (%v)", e.Iterations(), e.Distance(), time.Since(start))
	}

	e.config.Log.Info("converged after %d iterations", e.Iterations())
	return e.Result(), nil
}

// Result() returns a snapshot of the engine.
func (e *Engine) Result() *Result {
	return &Result{
		Ranks:      e.Ranks(),
		Topics:     e.Topics(),
		Iterations: e.Iterations(),
		Converged:  e.State() == Converged,
		Distance:   e.Distance(),
	}
}

// maxDistance() returns the largest distance between corresponding vectors.
func maxDistance(prev, curr Generation, norm rank.Norm) float64 {
	largest := 0.0
	for i := range curr {
		if d := prev[i].Distance(curr[i], norm); d > largest {
			largest = d
		}
	}
	return largest
}
