package main

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vertex-lab/linkrank/pkg/input"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/pagerank"
)

func newBlendCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blend",
		Short: "Blend the topic-sensitive PageRank into query-specific ranks",
		Long: "blend weights the rank vector of each topic by the probability of the topic for a query,\n" +
			"read from the topic distribution file (\"userID queryID t1:p1 t2:p2 ...\" per line).",
		Args: cobra.NoArgs,
	}

	addTopicFlags(cmd)
	cmd.Flags().String("distribution", "", "topic distribution file")
	cmd.Flags().String("query", "", "blend only this query, identified as userID-queryID")
	cmd.Flags().Bool("cached", false, "use the topic ranks stored in Redis instead of computing them")

	bindings := maps.Clone(topicBindings)
	bindings["topics.distribution"] = "distribution"

	cmd.RunE = runApp(v, bindings, func(a *App) (func(context.Context) error, []string) {
		query, _ := cmd.Flags().GetString("query")
		cached, _ := cmd.Flags().GetBool("cached")

		task := func(ctx context.Context) error {
			return a.RunBlend(ctx, query, cached)
		}

		if cached {
			a.needGraph = false
			return task, []string{a.Config.Topics.Distribution}
		}
		return task, []string{a.Config.Topics.Membership, a.Config.Topics.Distribution}
	})
	return cmd
}

// RunBlend() blends the topic ranks for the query, or for every query of the
// distribution if query is empty. With cached, the topic ranks are loaded from Redis.
func (a *App) RunBlend(ctx context.Context, query string, cached bool) error {
	start := time.Now()
	if a.Config.Topics.Distribution == "" {
		return fmt.Errorf("%w: topics.distribution is required", models.ErrConfiguration)
	}

	dist, err := input.LoadDistribution(a.Config.Topics.Distribution, a.Config.InputOptions(a.Log)...)
	if err != nil {
		return err
	}

	var result *pagerank.Result
	var report *Report

	if cached {
		if result, err = a.LoadTopics(ctx); err != nil {
			return err
		}

		policy, _ := a.Config.Policy()
		report = NewReport("blend", start, nil, result, policy)
	} else {
		if result, report, err = a.SolveTopics(ctx, "blend"); err != nil {
			return err
		}
	}

	queries := dist.Queries()
	if query != "" {
		queries = []string{query}
	}

	rankings := make([]Ranking, 0, len(queries))
	for _, q := range queries {
		blended, err := dist.Blend(q, result.Topics, result.Ranks)
		if err != nil {
			return err
		}

		rankings = append(rankings, Ranking{Name: "query " + q, Items: blended.Top(a.Config.Top)})
	}

	PrintRankings(a.Out, rankings...)
	report.Rankings = append(report.Rankings, rankings...)
	return a.WriteReport(report)
}

// LoadTopics() returns the topic-sensitive ranks stored in Redis under the configured name.
func (a *App) LoadTopics(ctx context.Context) (*pagerank.Result, error) {
	if a.Store == nil {
		return nil, fmt.Errorf("%w: --cached requires redis.addr", models.ErrConfiguration)
	}

	snap, err := a.Store.LoadRanks(ctx, a.Config.Redis.Name)
	if err != nil {
		return nil, err
	}

	if len(snap.Topics) == 0 {
		return nil, fmt.Errorf("ranks %q are global: %w", a.Config.Redis.Name, models.ErrTopicNotFound)
	}
	return pagerank.FromSnapshot(snap)
}
