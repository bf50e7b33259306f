package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vertex-lab/linkrank/pkg/input"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/pagerank"
	"github.com/vertex-lab/linkrank/pkg/utils/redisutils"
)

var topicBindings = map[string]string{
	"solver.alpha":      "alpha",
	"solver.beta":       "beta",
	"topics.membership": "membership",
}

// addTopicFlags() adds the flags of the topic-sensitive PageRank.
func addTopicFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("alpha", pagerank.DefaultAlpha, "probability of following an out-link")
	cmd.Flags().Float64("beta", pagerank.DefaultBeta, "probability of jumping to a random document")
	cmd.Flags().String("membership", "", "doc-topic file, one \"docID topicID\" pair per line")
}

func newTopicCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Compute the topic-sensitive PageRank, one vector per topic",
		Args:  cobra.NoArgs,
	}

	addTopicFlags(cmd)
	cmd.RunE = runApp(v, topicBindings, func(a *App) (func(context.Context) error, []string) {
		return a.RunTopic, []string{a.Config.Topics.Membership}
	})
	return cmd
}

// RunTopic() computes, prints, reports and stores the topic-sensitive PageRank.
func (a *App) RunTopic(ctx context.Context) error {
	_, report, err := a.SolveTopics(ctx, "topic")
	if err != nil {
		return err
	}

	PrintRankings(a.Out, report.Rankings...)
	return a.WriteReport(report)
}

// SolveTopics() computes and stores the topic-sensitive PageRank, returning
// the result and a report with the top ranked documents of each topic.
func (a *App) SolveTopics(ctx context.Context, command string) (*pagerank.Result, *Report, error) {
	start := time.Now()
	if a.Config.Topics.Membership == "" {
		return nil, nil, fmt.Errorf("%w: topics.membership is required", models.ErrConfiguration)
	}

	g, err := a.LoadGraph(ctx)
	if err != nil {
		return nil, nil, err
	}

	membership, err := input.LoadMembership(a.Config.Topics.Membership, a.Config.InputOptions(a.Log)...)
	if err != nil {
		return nil, nil, err
	}

	policy, err := a.Config.Policy()
	if err != nil {
		return nil, nil, err
	}

	engine, err := pagerank.NewTopicSensitive(g, membership, a.Config.Solver.Alpha, a.Config.Solver.Beta,
		policy, a.Config.EngineOptions(a.Log)...)
	if err != nil {
		return nil, nil, err
	}

	result, err := a.Solve(ctx, engine)
	if err != nil {
		return nil, nil, err
	}

	if err := a.Persist(ctx, result); err != nil {
		return nil, nil, err
	}

	alpha, beta := a.Config.Solver.Alpha, a.Config.Solver.Beta
	gamma, err := pagerank.Gamma(alpha, beta)
	if err != nil {
		return nil, nil, err
	}

	report := NewReport(command, start, g, result, policy)
	report.Parameters = map[string]float64{"alpha": alpha, "beta": beta, "gamma": gamma}

	for i, topicID := range result.Topics {
		report.Rankings = append(report.Rankings, Ranking{
			Name:  "topic " + redisutils.FormatID(topicID),
			Items: result.Ranks[i].Top(a.Config.Top),
		})
	}
	return result, report, nil
}
