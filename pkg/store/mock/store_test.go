package mock

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/models"
)

func TestGraph(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if _, err := store.LoadGraph(ctx); !errors.Is(err, models.ErrGraphNotFound) {
		t.Fatalf("LoadGraph(): expected %v, got %v", models.ErrGraphNotFound, err)
	}

	g, _ := graph.New(3, []graph.Edge{{From: 1, To: 2}, {From: 3, To: 2}})
	if err := store.SaveGraph(ctx, g); err != nil {
		t.Fatalf("SaveGraph(): expected nil, got %v", err)
	}

	loaded, err := store.LoadGraph(ctx)
	if err != nil {
		t.Fatalf("LoadGraph(): expected nil, got %v", err)
	}

	if !loaded.Equal(g) {
		t.Errorf("LoadGraph(): expected %v, got %v", g, loaded)
	}

	if err := store.SaveGraph(ctx, nil); !errors.Is(err, models.ErrNilGraph) {
		t.Errorf("SaveGraph(): expected %v, got %v", models.ErrNilGraph, err)
	}
}

func TestRanks(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	snap := &models.RankSnapshot{
		Topics:     []uint32{1, 2},
		Vectors:    [][]float64{{0.5, 0.5}, {0.1, 0.9}},
		Iterations: 7,
		Converged:  true,
	}

	if err := store.SaveRanks(ctx, "web", snap); err != nil {
		t.Fatalf("SaveRanks(): expected nil, got %v", err)
	}

	// modifying the original doesn't affect the stored copy
	snap.Vectors[0][0] = 69
	loaded, err := store.LoadRanks(ctx, "web")
	if err != nil {
		t.Fatalf("LoadRanks(): expected nil, got %v", err)
	}

	expected := [][]float64{{0.5, 0.5}, {0.1, 0.9}}
	if !reflect.DeepEqual(loaded.Vectors, expected) {
		t.Errorf("LoadRanks(): expected %v, got %v", expected, loaded.Vectors)
	}

	if _, err := store.LoadRanks(ctx, "missing"); !errors.Is(err, models.ErrRanksNotFound) {
		t.Errorf("LoadRanks(): expected %v, got %v", models.ErrRanksNotFound, err)
	}

	if err := store.SaveRanks(ctx, "web", nil); !errors.Is(err, models.ErrNilSnapshot) {
		t.Errorf("SaveRanks(): expected %v, got %v", models.ErrNilSnapshot, err)
	}
}
