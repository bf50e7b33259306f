package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vertex-lab/linkrank/pkg/pagerank"
)

func newGlobalCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "global",
		Short: "Compute the global PageRank",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().Float64("damping", pagerank.DefaultDamping, "probability of following an out-link")
	cmd.RunE = runApp(v, map[string]string{"solver.damping": "damping"}, func(a *App) (func(context.Context) error, []string) {
		return a.RunGlobal, nil
	})
	return cmd
}

// RunGlobal() computes, prints, reports and stores the global PageRank.
func (a *App) RunGlobal(ctx context.Context) error {
	start := time.Now()
	g, err := a.LoadGraph(ctx)
	if err != nil {
		return err
	}

	policy, err := a.Config.Policy()
	if err != nil {
		return err
	}

	engine, err := pagerank.NewGlobal(g, a.Config.Solver.Damping, policy, a.Config.EngineOptions(a.Log)...)
	if err != nil {
		return err
	}

	result, err := a.Solve(ctx, engine)
	if err != nil {
		return err
	}

	ranking := Ranking{Name: "global", Items: result.Global().Top(a.Config.Top)}
	PrintRankings(a.Out, ranking)

	report := NewReport("global", start, g, result, policy)
	report.Parameters = map[string]float64{"damping": a.Config.Solver.Damping}
	report.Rankings = []Ranking{ranking}

	if err := a.WriteReport(report); err != nil {
		return err
	}
	return a.Persist(ctx, result)
}
