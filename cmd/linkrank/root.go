package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vertex-lab/linkrank/pkg/config"
)

// NewRootCmd() returns the linkrank command with all its subcommands, whose
// flags are bound to the keys of v.
func NewRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "linkrank",
		Short: "Link-analysis ranking of a document graph",
		Long: "linkrank computes the PageRank of a directed graph of documents by power iteration,\n" +
			"either globally or biased towards topics, and blends the topic ranks into query scores.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return readConfigFile(cmd, v)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ./linkrank.yaml or ./linkrank.toml)")
	flags.String("env-file", ".env", "file of environment variables loaded before the config")

	flags.String("edges", "", "edge list file, one \"from to\" pair per line")
	flags.Int("nodes", 0, "number of nodes of the graph")
	flags.String("out-of-range", "reject", "what to do with node IDs outside [1, nodes]: reject or clamp")
	flags.String("input-policy", "abort", "what to do with malformed input lines: abort or skip")

	flags.String("norm", "l1", "convergence norm: l1 or l2")
	flags.Float64("epsilon", 1e-6, "convergence threshold")
	flags.Int("max-iterations", 1000, "maximum number of iterations")
	flags.Int("workers", 1, "goroutines used by each iteration")

	flags.Int("top", 10, "number of top ranked documents printed")
	flags.String("report", "", "write a TOML run report to this file")
	flags.Bool("watch", false, "re-run whenever an input file changes")
	flags.Duration("debounce", 0, "quiet period before a change triggers a re-run (default 500ms)")
	flags.String("log-file", "", "append logs to this file instead of stderr")
	flags.Bool("stats", false, "display live solver stats")

	flags.String("redis", "", "address of the Redis server that stores ranks")
	flags.Bool("from-redis", false, "load the graph from Redis instead of the edge list")
	flags.Bool("save-graph", false, "store the graph in Redis")
	flags.String("name", "default", "name under which the ranks are stored in Redis")

	bind(v, flags, map[string]string{
		"graph.edges":           "edges",
		"graph.nodes":           "nodes",
		"graph.out_of_range":    "out-of-range",
		"input_policy":          "input-policy",
		"solver.norm":           "norm",
		"solver.epsilon":        "epsilon",
		"solver.max_iterations": "max-iterations",
		"solver.workers":        "workers",
		"top":                   "top",
		"report":                "report",
		"watch":                 "watch",
		"debounce":              "debounce",
		"log_file":              "log-file",
		"display_stats":         "stats",
		"redis.addr":            "redis",
		"redis.load_graph":      "from-redis",
		"redis.save_graph":      "save-graph",
		"redis.name":            "name",
	})

	root.AddCommand(
		newGlobalCmd(v),
		newTopicCmd(v),
		newBlendCmd(v),
	)
	return root
}

// bind() binds each viper key to the flag with the given name.
func bind(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", name, err))
		}
	}
}

// readConfigFile() reads the config file set with --config, or the default one
// if it exists. It's fine if no config file is found; the defaults are used.
func readConfigFile(cmd *cobra.Command, v *viper.Viper) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read the config file: %w", err)
		}
		return nil
	}

	v.SetConfigName("linkrank")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read the config file: %w", err)
		}
	}
	return nil
}

// loadConfig() returns the validated configuration.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(v, envFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
