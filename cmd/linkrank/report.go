package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/pagerank"
	"github.com/vertex-lab/linkrank/pkg/rank"
)

// Report summarizes a run. It's written as TOML with --report.
type Report struct {
	Command    string             `toml:"command"`
	Started    time.Time          `toml:"started"`
	Elapsed    string             `toml:"elapsed"`
	Nodes      int                `toml:"nodes,omitempty"`
	Edges      int                `toml:"edges,omitempty"`
	Dangling   int                `toml:"dangling,omitempty"`
	Policy     string             `toml:"policy"`
	Iterations int                `toml:"iterations"`
	Converged  bool               `toml:"converged"`
	Distance   float64            `toml:"distance"`
	Parameters map[string]float64 `toml:"parameters,omitempty"`
	Rankings   []Ranking          `toml:"rankings"`
}

// NewReport() returns the report of a run on g, which can be nil if the ranks
// were not computed by this run.
func NewReport(command string, start time.Time, g *graph.Graph, result *pagerank.Result, policy rank.Policy) *Report {
	report := &Report{
		Command:    command,
		Started:    start.UTC().Truncate(time.Second),
		Elapsed:    time.Since(start).Round(time.Millisecond).String(),
		Policy:     policy.String(),
		Iterations: result.Iterations,
		Converged:  result.Converged,
		Distance:   result.Distance,
	}

	if g != nil {
		report.Nodes = g.Dimension()
		report.Edges = g.EdgeCount()
		report.Dangling = len(g.Dangling())
	}
	return report
}

// WriteReport() writes the report to the configured path, if any.
func (a *App) WriteReport(report *Report) error {
	if a.Config.Report == "" {
		return nil
	}

	if err := WriteReport(a.Config.Report, report); err != nil {
		return err
	}

	a.Log.Info("wrote the report to %s", a.Config.Report)
	return nil
}

// WriteReport() writes the report to path atomically: the content goes to a
// temporary file in the same directory, which is then renamed.
func WriteReport(path string, report *Report) error {
	data, err := toml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode the report: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create the report: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after the rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write the report: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write the report: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write the report: %w", err)
	}
	return nil
}

// ReadReport() reads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if err := toml.Unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("failed to decode the report: %w", err)
	}
	return report, nil
}
