package main

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/store/mock"
)

// writeFiles() writes the files in a temporary directory and returns their paths.
func writeFiles(t *testing.T, files map[string]string) map[string]string {
	t.Helper()
	dir := t.TempDir()
	paths := make(map[string]string, len(files))
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile(): expected nil, got %v", err)
		}
		paths[name] = path
	}
	paths["dir"] = dir
	return paths
}

// execute() runs linkrank with the arguments and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	root := NewRootCmd(viper.New())
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--env-file", ""))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

const trianglePlusOne = "# triangle plus one\n1 2\n1 4\n2 3\n3 1\n"

func TestGlobalCommand(t *testing.T) {
	paths := writeFiles(t, map[string]string{"edges.txt": trianglePlusOne})
	reportPath := filepath.Join(paths["dir"], "report.toml")

	out, err := execute(t, "global",
		"--edges", paths["edges.txt"],
		"--nodes", "4",
		"--epsilon", "1e-12",
		"--top", "2",
		"--report", reportPath,
	)
	if err != nil {
		t.Fatalf("global: expected nil, got %v", err)
	}

	if !strings.Contains(out, "--- global ---") || !strings.Contains(out, "   1          1 0.3078534031") {
		t.Errorf("global: unexpected output %q", out)
	}

	report, err := ReadReport(reportPath)
	if err != nil {
		t.Fatalf("ReadReport(): expected nil, got %v", err)
	}

	if report.Command != "global" || !report.Converged || report.Nodes != 4 || report.Edges != 4 || report.Dangling != 1 {
		t.Errorf("ReadReport(): unexpected report %+v", report)
	}

	if len(report.Rankings) != 1 || len(report.Rankings[0].Items) != 2 {
		t.Fatalf("ReadReport(): expected one ranking of two items, got %+v", report.Rankings)
	}

	// node 3 comes second, ahead of the tied nodes 2 and 4
	if top := report.Rankings[0].Items; top[0].NodeID != 1 || top[1].NodeID != 3 {
		t.Errorf("ReadReport(): expected top nodes 1 and 3, got %v", top)
	}

	if report.Parameters["damping"] != 0.85 {
		t.Errorf("ReadReport(): expected damping 0.85, got %v", report.Parameters)
	}
}

func TestGlobalCommandErrors(t *testing.T) {
	paths := writeFiles(t, map[string]string{"edges.txt": "1 2\n2 x\n"})

	t.Run("missing graph", func(t *testing.T) {
		_, err := execute(t, "global")
		if !errors.Is(err, models.ErrConfiguration) {
			t.Errorf("global: expected %v, got %v", models.ErrConfiguration, err)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := execute(t, "global", "--edges", paths["edges.txt"], "--nodes", "2")
		if !errors.Is(err, models.ErrMalformedInput) {
			t.Errorf("global: expected %v, got %v", models.ErrMalformedInput, err)
		}
	})

	t.Run("skip malformed input", func(t *testing.T) {
		_, err := execute(t, "global", "--edges", paths["edges.txt"], "--nodes", "2", "--input-policy", "skip")
		if err != nil {
			t.Errorf("global: expected nil, got %v", err)
		}
	})

	t.Run("invalid damping", func(t *testing.T) {
		_, err := execute(t, "global", "--edges", paths["edges.txt"], "--nodes", "2", "--damping", "0")
		if !errors.Is(err, models.ErrConfiguration) {
			t.Errorf("global: expected %v, got %v", models.ErrConfiguration, err)
		}
	})
}

func TestTopicAndBlendCommands(t *testing.T) {
	paths := writeFiles(t, map[string]string{
		"edges.txt":   trianglePlusOne,
		"topics.txt":  "1 2\n2 5\n3 5\n4 9\n",
		"distro.txt":  "7 1 2:0.5 9:0.5\n7 2 5:1\n",
		"missing.txt": "7 3 8:1\n",
	})
	common := []string{
		"--edges", paths["edges.txt"],
		"--nodes", "4",
		"--epsilon", "1e-12",
		"--top", "4",
		"--membership", paths["topics.txt"],
	}

	t.Run("topic", func(t *testing.T) {
		reportPath := filepath.Join(paths["dir"], "topic.toml")
		out, err := execute(t, append([]string{"topic", "--report", reportPath}, common...)...)
		if err != nil {
			t.Fatalf("topic: expected nil, got %v", err)
		}

		for _, header := range []string{"--- topic 2 ---", "--- topic 5 ---", "--- topic 9 ---"} {
			if !strings.Contains(out, header) {
				t.Errorf("topic: expected %q in %q", header, out)
			}
		}

		report, err := ReadReport(reportPath)
		if err != nil {
			t.Fatalf("ReadReport(): expected nil, got %v", err)
		}

		if math.Abs(report.Parameters["gamma"]-0.1) > 1e-12 {
			t.Errorf("ReadReport(): expected gamma 0.1, got %v", report.Parameters)
		}
	})

	t.Run("blend", func(t *testing.T) {
		reportPath := filepath.Join(paths["dir"], "blend.toml")
		args := append([]string{"blend", "--distribution", paths["distro.txt"], "--report", reportPath}, common...)
		if _, err := execute(t, args...); err != nil {
			t.Fatalf("blend: expected nil, got %v", err)
		}

		report, err := ReadReport(reportPath)
		if err != nil {
			t.Fatalf("ReadReport(): expected nil, got %v", err)
		}

		scores := make(map[string]map[uint32]float64)
		for _, ranking := range report.Rankings {
			scores[ranking.Name] = make(map[uint32]float64)
			for _, item := range ranking.Items {
				scores[ranking.Name][item.NodeID] = item.Score
			}
		}

		for nodeID := uint32(1); nodeID <= 4; nodeID++ {
			expected := 0.5*scores["topic 2"][nodeID] + 0.5*scores["topic 9"][nodeID]
			if got := scores["query 7-1"][nodeID]; math.Abs(got-expected) > 1e-12 {
				t.Errorf("node %d: expected %v, got %v", nodeID, expected, got)
			}

			if scores["query 7-2"][nodeID] != scores["topic 5"][nodeID] {
				t.Errorf("node %d: expected %v, got %v", nodeID, scores["topic 5"][nodeID], scores["query 7-2"][nodeID])
			}
		}
	})

	t.Run("blend, unknown topic", func(t *testing.T) {
		args := append([]string{"blend", "--distribution", paths["missing.txt"]}, common...)
		if _, err := execute(t, args...); !errors.Is(err, models.ErrTopicNotFound) {
			t.Errorf("blend: expected %v, got %v", models.ErrTopicNotFound, err)
		}
	})

	t.Run("blend, cached without redis", func(t *testing.T) {
		args := append([]string{"blend", "--cached", "--distribution", paths["distro.txt"]}, common...)
		if _, err := execute(t, args...); !errors.Is(err, models.ErrConfiguration) {
			t.Errorf("blend: expected %v, got %v", models.ErrConfiguration, err)
		}
	})

	t.Run("topic, gamma rounding", func(t *testing.T) {
		reportPath := filepath.Join(paths["dir"], "rounding.toml")
		args := append([]string{"topic", "--alpha", "0.9", "--beta", "0.100000000000001", "--report", reportPath}, common...)
		if _, err := execute(t, args...); err != nil {
			t.Fatalf("topic: expected nil, got %v", err)
		}

		report, err := ReadReport(reportPath)
		if err != nil {
			t.Fatalf("ReadReport(): expected nil, got %v", err)
		}

		if gamma := report.Parameters["gamma"]; gamma != 0 {
			t.Errorf("ReadReport(): expected gamma 0, got %v", gamma)
		}
	})

	t.Run("topic without membership", func(t *testing.T) {
		_, err := execute(t, "topic", "--edges", paths["edges.txt"], "--nodes", "4")
		if !errors.Is(err, models.ErrConfiguration) {
			t.Errorf("topic: expected %v, got %v", models.ErrConfiguration, err)
		}
	})
}

// useMemoryStore() makes the commands use the returned in-memory store instead of Redis.
func useMemoryStore(t *testing.T) *mock.Store {
	t.Helper()
	store := mock.NewStore()
	original := openStore

	openStore = func(ctx context.Context, addr string) (Store, func() error, error) {
		return store, func() error { return nil }, nil
	}

	t.Cleanup(func() { openStore = original })
	return store
}

func TestStoredRanks(t *testing.T) {
	store := useMemoryStore(t)
	paths := writeFiles(t, map[string]string{
		"edges.txt":  trianglePlusOne,
		"topics.txt": "1 2\n2 5\n3 5\n4 9\n",
		"distro.txt": "7 1 2:0.5 9:0.5\n",
	})

	redis := []string{"--redis", "localhost:6379", "--name", "web", "--epsilon", "1e-12"}

	args := append([]string{"topic",
		"--edges", paths["edges.txt"],
		"--nodes", "4",
		"--membership", paths["topics.txt"],
		"--save-graph",
	}, redis...)

	computed, err := execute(t, args...)
	if err != nil {
		t.Fatalf("topic: expected nil, got %v", err)
	}

	snap, err := store.LoadRanks(context.Background(), "web")
	if err != nil {
		t.Fatalf("LoadRanks(): expected nil, got %v", err)
	}

	if len(snap.Topics) != 3 || !snap.Converged {
		t.Errorf("LoadRanks(): unexpected snapshot %+v", snap)
	}

	dim, err := store.Dimension(context.Background())
	if err != nil || dim != 4 {
		t.Errorf("Dimension(): expected 4, got %d (%v)", dim, err)
	}

	t.Run("topic from the stored graph", func(t *testing.T) {
		args := append([]string{"topic", "--from-redis", "--membership", paths["topics.txt"]}, redis...)
		out, err := execute(t, args...)
		if err != nil {
			t.Fatalf("topic: expected nil, got %v", err)
		}

		if out != computed {
			t.Errorf("topic: expected %q, got %q", computed, out)
		}
	})

	t.Run("blend the stored ranks without a graph", func(t *testing.T) {
		args := append([]string{"blend", "--cached", "--distribution", paths["distro.txt"]}, redis...)
		out, err := execute(t, args...)
		if err != nil {
			t.Fatalf("blend: expected nil, got %v", err)
		}

		if !strings.Contains(out, "--- query 7-1 ---") {
			t.Errorf("blend: unexpected output %q", out)
		}
	})

	t.Run("blend global ranks", func(t *testing.T) {
		args := append([]string{"global", "--edges", paths["edges.txt"], "--nodes", "4", "--name", "global"}, redis[:2]...)
		if _, err := execute(t, args...); err != nil {
			t.Fatalf("global: expected nil, got %v", err)
		}

		args = []string{"blend", "--cached", "--distribution", paths["distro.txt"], "--redis", "localhost:6379", "--name", "global"}
		if _, err := execute(t, args...); !errors.Is(err, models.ErrTopicNotFound) {
			t.Errorf("blend: expected %v, got %v", models.ErrTopicNotFound, err)
		}
	})
}
