package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vertex-lab/linkrank/pkg/utils/logger"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "edges.txt")
	ignored := filepath.Join(dir, "notes.txt")
	for _, path := range []string{watched, ignored} {
		if err := os.WriteFile(path, []byte("1 2\n"), 0644); err != nil {
			t.Fatalf("WriteFile(): expected nil, got %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, logger.Discard(), []string{watched}, 50*time.Millisecond, func(ctx context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	waitFor := func(expected int32) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for runs.Load() < expected {
			if time.Now().After(deadline) {
				t.Fatalf("Watch(): expected %d runs, got %d", expected, runs.Load())
			}
			time.Sleep(10 * time.Millisecond)
		}
	}

	// the first run doesn't wait for changes
	waitFor(1)

	// a burst of writes is collapsed into a single run
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(watched, []byte("1 2\n2 1\n"), 0644); err != nil {
			t.Fatalf("WriteFile(): expected nil, got %v", err)
		}
	}
	waitFor(2)

	// changes to other files of the directory are ignored
	if err := os.WriteFile(ignored, []byte("nothing\n"), 0644); err != nil {
		t.Fatalf("WriteFile(): expected nil, got %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	if got := runs.Load(); got != 2 {
		t.Errorf("Watch(): expected 2 runs, got %d", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch(): expected nil, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch(): did not return after the context was canceled")
	}
}
