package main

import (
	"fmt"
	"io"

	"github.com/vertex-lab/linkrank/pkg/rank"
)

// Ranking is a list of top ranked documents.
type Ranking struct {
	Name  string      `toml:"name"`
	Items []rank.Item `toml:"items"`
}

// PrintRankings() prints each ranking as a header followed by one "position nodeID score" line per document.
func PrintRankings(w io.Writer, rankings ...Ranking) {
	for _, ranking := range rankings {
		fmt.Fprintf(w, "--- %s ---\n", ranking.Name)
		for i, item := range ranking.Items {
			fmt.Fprintf(w, "%4d %10d %.10f\n", i+1, item.NodeID, item.Score)
		}
	}
}
