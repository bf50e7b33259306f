package input

import (
	"fmt"
	"os"

	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/topics"
)

// LoadGraph() returns the graph with the specified dimension and the links of the edge-list file.
func LoadGraph(path string, dim int, outOfRange graph.OutOfRange, opts ...Option) (*graph.Graph, error) {
	b, err := graph.NewBuilder(dim, graph.WithOutOfRange(outOfRange))
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open the edge list: %w", err)
	}
	defer file.Close()

	if _, err := ReadEdges(file, path, b, opts...); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// LoadMembership() returns the topic membership of the doc-topic file.
func LoadMembership(path string, opts ...Option) (*topics.Membership, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open the topic membership: %w", err)
	}
	defer file.Close()

	return ReadMembership(file, path, opts...)
}

// LoadDistribution() returns the topic distributions of the file.
func LoadDistribution(path string, opts ...Option) (topics.Distribution, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open the topic distribution: %w", err)
	}
	defer file.Close()

	return ReadDistribution(file, path, opts...)
}
