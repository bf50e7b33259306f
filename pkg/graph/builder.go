package graph

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vertex-lab/linkrank/pkg/models"
)

// OutOfRange is the policy applied to edges that reference a node outside [1, N].
type OutOfRange int

const (
	// Reject fails the edge with an error wrapping models.ErrMalformedInput.
	Reject OutOfRange = iota

	// Clamp moves the node ID to the closest valid ID (0 becomes 1, anything above N becomes N).
	Clamp
)

func (p OutOfRange) String() string {
	switch p {
	case Reject:
		return "reject"
	case Clamp:
		return "clamp"
	default:
		return fmt.Sprintf("OutOfRange(%d)", int(p))
	}
}

// ParseOutOfRange() parses "reject" or "clamp".
func ParseOutOfRange(s string) (OutOfRange, error) {
	switch s {
	case "reject", "":
		return Reject, nil
	case "clamp":
		return Clamp, nil
	default:
		return Reject, fmt.Errorf("%w: unknown out-of-range policy %q", models.ErrConfiguration, s)
	}
}

type Option func(*Builder)

// WithOutOfRange() sets the policy for edges referencing nodes outside [1, N].
func WithOutOfRange(p OutOfRange) Option {
	return func(b *Builder) {
		b.policy = p
	}
}

// Builder accumulates edges and produces an immutable Graph.
// A Builder is not safe for concurrent use.
type Builder struct {
	dim     int
	policy  OutOfRange
	follows []NodeSet
	edges   int
}

// NewBuilder() returns a builder for a graph with dim nodes.
func NewBuilder(dim int, opts ...Option) (*Builder, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", models.ErrConfiguration, dim)
	}

	b := &Builder{
		dim:     dim,
		follows: make([]NodeSet, dim),
	}

	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// AddEdge() adds the directed edge from --> to. Duplicated edges are added only once.
func (b *Builder) AddEdge(from, to uint32) error {
	var err error
	if from, err = b.check(from); err != nil {
		return fmt.Errorf("edge (%d, %d): %w", from, to, err)
	}
	if to, err = b.check(to); err != nil {
		return fmt.Errorf("edge (%d, %d): %w", from, to, err)
	}

	succ := b.follows[from-1]
	if succ == nil {
		succ = mapset.NewThreadUnsafeSet[uint32]()
		b.follows[from-1] = succ
	}

	if succ.Add(to) {
		b.edges++
	}
	return nil
}

// check() applies the out-of-range policy to nodeID.
func (b *Builder) check(nodeID uint32) (uint32, error) {
	if nodeID >= 1 && int(nodeID) <= b.dim {
		return nodeID, nil
	}

	if b.policy == Clamp {
		if nodeID < 1 {
			return 1, nil
		}
		return uint32(b.dim), nil
	}

	return nodeID, fmt.Errorf("%w: %w: node %d not in [1, %d]",
		models.ErrMalformedInput, models.ErrNodeOutOfRange, nodeID, b.dim)
}

// Build() returns the graph with the edges added so far. The builder can
// keep being used afterwards without affecting the returned graph.
func (b *Builder) Build() *Graph {
	follows := make([][]uint32, b.dim)
	followers := make([][]uint32, b.dim)
	inDegree := make([]int, b.dim)

	for i, succ := range b.follows {
		if succ == nil {
			continue
		}

		follows[i] = succ.ToSlice()
		slices.Sort(follows[i])
		for _, to := range follows[i] {
			inDegree[to-1]++
		}
	}

	for i, deg := range inDegree {
		if deg > 0 {
			followers[i] = make([]uint32, 0, deg)
		}
	}

	// iterating sources in ascending order leaves every predecessor list sorted
	for i, succ := range follows {
		for _, to := range succ {
			followers[to-1] = append(followers[to-1], uint32(i+1))
		}
	}

	return assemble(b.dim, follows, followers, b.edges)
}
