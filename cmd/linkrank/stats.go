package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/vertex-lab/linkrank/pkg/pagerank"
)

// Progress is what DisplayStats shows of a running engine.
type Progress interface {
	State() pagerank.State
	Iterations() int
	Distance() float64
}

// DisplayStats() prints the progress of the engine every interval until the context is done.
func DisplayStats(ctx context.Context, w io.Writer, engine Progress, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	const statsLines = 7
	firstDisplay := true
	clearStats := func() {
		if !firstDisplay {
			// Move the cursor up by `statsLines` and clear those lines
			fmt.Fprintf(w, "\033[%dA", statsLines)
			fmt.Fprint(w, "\033[J")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			memStats := new(runtime.MemStats)
			runtime.ReadMemStats(memStats)

			clearStats()
			fmt.Fprintf(w, "\n--- Solver Stats ---\n")
			fmt.Fprintf(w, "State: %v\n", engine.State())
			fmt.Fprintf(w, "Iterations: %d (%v)\n", engine.Iterations(), time.Since(start).Round(time.Second))
			fmt.Fprintf(w, "Distance: %g\n", engine.Distance())
			fmt.Fprintf(w, "Memory Usage: %.2f MB\n", float64(memStats.Alloc)/(1024*1024))
			fmt.Fprintln(w, "--------------------")
			firstDisplay = false
		}
	}
}
