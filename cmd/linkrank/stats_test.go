package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vertex-lab/linkrank/pkg/pagerank"
)

type fakeProgress struct{}

func (fakeProgress) State() pagerank.State { return pagerank.Iterating }
func (fakeProgress) Iterations() int       { return 69 }
func (fakeProgress) Distance() float64     { return 0.001 }

func TestDisplayStats(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		DisplayStats(ctx, &buf, fakeProgress{}, 10*time.Millisecond)
	}()
	<-done

	out := buf.String()
	for _, expected := range []string{"State: iterating", "Iterations: 69", "Distance: 0.001"} {
		if !strings.Contains(out, expected) {
			t.Errorf("DisplayStats(): expected %q in %q", expected, out)
		}
	}
}
