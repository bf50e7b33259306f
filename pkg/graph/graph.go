// The graph package defines the immutable sparse directed graph the PageRank
// engines iterate over. Each node keeps its successors (forward adjacency) and
// its predecessors (transposed adjacency); node IDs are 1-indexed.
package graph

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vertex-lab/linkrank/pkg/models"
)

type Edge = models.Edge

// NodeSet is a set of node IDs.
type NodeSet = mapset.Set[uint32]

// Graph is an immutable directed graph with N nodes, numbered 1..N.
// It is safe for concurrent use once built.
type Graph struct {
	dim int

	// adjacency lists indexed by nodeID - 1, sorted and without duplicates
	follows   [][]uint32
	followers [][]uint32

	// nodes with no successors, in ascending order
	dangling []uint32
	edges    int
}

// New() returns the graph with the specified dimension and edges.
func New(dim int, edges []Edge, opts ...Option) (*Graph, error) {
	b, err := NewBuilder(dim, opts...)
	if err != nil {
		return nil, err
	}

	for _, e := range edges {
		if err := b.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}

// Dimension() returns the number of nodes N.
func (g *Graph) Dimension() int {
	return g.dim
}

// EdgeCount() returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Contains() returns whether nodeID is in [1, N].
func (g *Graph) Contains(nodeID uint32) bool {
	return nodeID >= 1 && int(nodeID) <= g.dim
}

// OutDegree() returns the number of successors of nodeID, 0 if dangling.
func (g *Graph) OutDegree(nodeID uint32) int {
	return len(g.follows[nodeID-1])
}

// IsDangling() returns whether nodeID has no outgoing edges.
func (g *Graph) IsDangling(nodeID uint32) bool {
	return len(g.follows[nodeID-1]) == 0
}

// Dangling() returns the dangling nodes in ascending order without copying.
// The returned slice is shared and must not be modified.
func (g *Graph) Dangling() []uint32 {
	return g.dangling
}

// Successors() returns a new set with the successors of nodeID.
func (g *Graph) Successors(nodeID uint32) NodeSet {
	return mapset.NewThreadUnsafeSet(g.follows[nodeID-1]...)
}

// Predecessors() returns a new set with the predecessors of nodeID.
func (g *Graph) Predecessors(nodeID uint32) NodeSet {
	return mapset.NewThreadUnsafeSet(g.followers[nodeID-1]...)
}

// InLinks() returns the sorted predecessors of nodeID without copying.
// The returned slice is shared and must not be modified.
func (g *Graph) InLinks(nodeID uint32) []uint32 {
	return g.followers[nodeID-1]
}

// OutLinks() returns the sorted successors of nodeID without copying.
// The returned slice is shared and must not be modified.
func (g *Graph) OutLinks(nodeID uint32) []uint32 {
	return g.follows[nodeID-1]
}

// Edges() returns all the edges, sorted by source and then by destination.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for i, succ := range g.follows {
		for _, to := range succ {
			edges = append(edges, Edge{From: uint32(i + 1), To: to})
		}
	}
	return edges
}

// Transpose() returns the graph with every edge reversed.
func (g *Graph) Transpose() *Graph {
	return assemble(g.dim, g.followers, g.follows, g.edges)
}

// Equal() returns whether the two graphs have the same dimension and edges.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}

	if g.dim != other.dim || g.edges != other.edges {
		return false
	}

	for i := range g.follows {
		if !slices.Equal(g.follows[i], other.follows[i]) {
			return false
		}
	}
	return true
}

func (g *Graph) String() string {
	return fmt.Sprintf("Graph{nodes: %d, edges: %d, dangling: %d}", g.dim, g.edges, len(g.dangling))
}

// assemble() derives the dangling list of a graph from its adjacency lists.
func assemble(dim int, follows, followers [][]uint32, edges int) *Graph {
	g := &Graph{
		dim:       dim,
		follows:   follows,
		followers: followers,
		edges:     edges,
	}

	for i, succ := range follows {
		if len(succ) == 0 {
			g.dangling = append(g.dangling, uint32(i+1))
		}
	}
	return g
}
