package pagerank

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/rank"
)

const tolerance = 1e-9

// tight is the policy used to compare against the exact PageRank.
var tight = rank.Policy{Norm: rank.L1, Epsilon: 1e-13}

type fixture struct {
	name     string
	dim      int
	edges    []graph.Edge
	expected rank.Vector // global PageRank with damping 0.85
}

func fixtures() []fixture {
	return []fixture{
		{
			name:     "single node",
			dim:      1,
			expected: rank.Vector{1.0},
		},
		{
			name:     "dandlings",
			dim:      5,
			expected: rank.Vector{0.2, 0.2, 0.2, 0.2, 0.2},
		},
		{
			name:     "triangle",
			dim:      3,
			edges:    []graph.Edge{{From: 1, To: 2}, {From: 2, To: 3}, {From: 3, To: 1}},
			expected: rank.Vector{1.0 / 3, 1.0 / 3, 1.0 / 3},
		},
		{
			name:     "triangle plus one",
			dim:      4,
			edges:    []graph.Edge{{From: 1, To: 2}, {From: 1, To: 4}, {From: 2, To: 3}, {From: 3, To: 1}},
			expected: rank.Vector{0.3078534031413614, 0.21376215407629012, 0.2646222887060582, 0.21376215407629012},
		},
		{
			name:     "acyclic 1",
			dim:      5,
			edges:    []graph.Edge{{From: 1, To: 2}, {From: 1, To: 3}, {From: 3, To: 4}, {From: 4, To: 2}},
			expected: rank.Vector{0.11184665823156453, 0.3696042725423445, 0.15938148797997942, 0.247320923014547, 0.11184665823156453},
		},
		{
			name:     "acyclic 2",
			dim:      6,
			edges:    []graph.Edge{{From: 1, To: 2}, {From: 1, To: 3}, {From: 5, To: 4}, {From: 5, To: 6}},
			expected: rank.Vector{0.12987012987012989, 0.18506493506493504, 0.18506493506493504, 0.18506493506493504, 0.12987012987012989, 0.18506493506493504},
		},
		{
			name:     "acyclic 3",
			dim:      4,
			edges:    []graph.Edge{{From: 1, To: 2}, {From: 1, To: 3}, {From: 4, To: 2}, {From: 4, To: 3}},
			expected: rank.Vector{0.17543859649122803, 0.32456140350877194, 0.32456140350877194, 0.17543859649122803},
		},
		{
			name:     "acyclic 4",
			dim:      4,
			edges:    []graph.Edge{{From: 1, To: 2}, {From: 1, To: 3}, {From: 4, To: 2}},
			expected: rank.Vector{0.17543859649122803, 0.39912280701754393, 0.25, 0.17543859649122803},
		},
		{
			name:     "long cycle",
			dim:      50,
			edges:    cycle(50),
			expected: rank.Uniform(50),
		},
	}
}

// cycle() returns the edges 1 --> 2 --> ... --> n --> 1
func cycle(n int) []graph.Edge {
	edges := make([]graph.Edge, n)
	for i := 0; i < n; i++ {
		edges[i] = graph.Edge{From: uint32(i + 1), To: uint32((i+1)%n + 1)}
	}
	return edges
}

func mustGraph(t testing.TB, dim int, edges []graph.Edge) *graph.Graph {
	t.Helper()
	g, err := graph.New(dim, edges)
	if err != nil {
		t.Fatalf("graph.New(): expected nil, got %v", err)
	}
	return g
}

// randomGraph() returns a graph where each node has between 0 and maxDegree successors.
func randomGraph(dim, maxDegree int, rng *rand.Rand) *graph.Graph {
	b, _ := graph.NewBuilder(dim)
	for from := 1; from <= dim; from++ {
		degree := rng.Intn(maxDegree + 1)
		for i := 0; i < degree; i++ {
			to := rng.Intn(dim) + 1
			b.AddEdge(uint32(from), uint32(to))
		}
	}
	return b.Build()
}

func equalWithin(v1, v2 rank.Vector, tol float64) bool {
	if len(v1) != len(v2) {
		return false
	}
	for i := range v1 {
		if math.Abs(v1[i]-v2[i]) > tol {
			return false
		}
	}
	return true
}
