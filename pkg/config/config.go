// The config package loads the configuration of linkrank from defaults,
// an optional config file, a .env file, LINKRANK_* environment variables
// and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/input"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/pagerank"
	"github.com/vertex-lab/linkrank/pkg/rank"
	"github.com/vertex-lab/linkrank/pkg/utils/logger"
)

const EnvPrefix = "LINKRANK"

// GraphConfig describes where the graph comes from.
type GraphConfig struct {
	Edges      string `mapstructure:"edges"`
	Nodes      int    `mapstructure:"nodes"`
	OutOfRange string `mapstructure:"out_of_range"`
}

// SolverConfig holds the parameters of the engines.
type SolverConfig struct {
	Damping       float64 `mapstructure:"damping"`
	Alpha         float64 `mapstructure:"alpha"`
	Beta          float64 `mapstructure:"beta"`
	Norm          string  `mapstructure:"norm"`
	Epsilon       float64 `mapstructure:"epsilon"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Workers       int     `mapstructure:"workers"`
}

type TopicsConfig struct {
	Membership   string `mapstructure:"membership"`
	Distribution string `mapstructure:"distribution"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	LoadGraph bool   `mapstructure:"load_graph"`
	SaveGraph bool   `mapstructure:"save_graph"`
	Name      string `mapstructure:"name"`
}

// Config holds all runtime configuration of linkrank.
type Config struct {
	Graph       GraphConfig   `mapstructure:"graph"`
	Solver      SolverConfig  `mapstructure:"solver"`
	Topics      TopicsConfig  `mapstructure:"topics"`
	Redis       RedisConfig   `mapstructure:"redis"`
	InputPolicy string        `mapstructure:"input_policy"`
	Top         int           `mapstructure:"top"`
	Report      string        `mapstructure:"report"`
	Watch       bool          `mapstructure:"watch"`
	Debounce    time.Duration `mapstructure:"debounce"`
	LogFile     string        `mapstructure:"log_file"`
	Stats       bool          `mapstructure:"display_stats"`
}

// SetDefaults() registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("graph.edges", "")
	v.SetDefault("graph.nodes", 0)
	v.SetDefault("graph.out_of_range", graph.Reject.String())

	v.SetDefault("solver.damping", pagerank.DefaultDamping)
	v.SetDefault("solver.alpha", pagerank.DefaultAlpha)
	v.SetDefault("solver.beta", pagerank.DefaultBeta)
	v.SetDefault("solver.norm", rank.DefaultNorm.String())
	v.SetDefault("solver.epsilon", rank.DefaultEpsilon)
	v.SetDefault("solver.max_iterations", pagerank.DefaultMaxIterations)
	v.SetDefault("solver.workers", 1)

	v.SetDefault("topics.membership", "")
	v.SetDefault("topics.distribution", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.load_graph", false)
	v.SetDefault("redis.save_graph", false)
	v.SetDefault("redis.name", "default")

	v.SetDefault("input_policy", input.Abort.String())
	v.SetDefault("top", 10)
	v.SetDefault("report", "")
	v.SetDefault("watch", false)
	v.SetDefault("debounce", 500*time.Millisecond)
	v.SetDefault("log_file", "")
	v.SetDefault("display_stats", false)
}

// Load() reads the configuration from v, after loading the variables of the
// .env file (if present) into the environment. Env variables are named
// LINKRANK_<KEY>, with dots replaced by underscores (e.g. LINKRANK_SOLVER_DAMPING).
func Load(v *viper.Viper, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrConfiguration, err)
	}
	return &config, nil
}

// Validate() returns every problem of the configuration, aggregated in a
// multierror. Each of them wraps models.ErrConfiguration.
// The graph source is checked separately by ValidateGraph().
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Redis.SaveGraph && c.Redis.Addr == "" {
		result = multierror.Append(result, fmt.Errorf("%w: redis.save_graph requires redis.addr", models.ErrConfiguration))
	}

	if _, err := graph.ParseOutOfRange(c.Graph.OutOfRange); err != nil {
		result = multierror.Append(result, err)
	}

	if math.IsNaN(c.Solver.Damping) || c.Solver.Damping <= 0 || c.Solver.Damping > 1 {
		result = multierror.Append(result, fmt.Errorf("%w: solver.damping must be in (0, 1], got %v", models.ErrConfiguration, c.Solver.Damping))
	}

	if _, err := pagerank.Gamma(c.Solver.Alpha, c.Solver.Beta); err != nil {
		result = multierror.Append(result, err)
	}

	if _, err := c.Policy(); err != nil {
		result = multierror.Append(result, err)
	}

	if c.Solver.MaxIterations < 1 {
		result = multierror.Append(result, fmt.Errorf("%w: solver.max_iterations must be positive, got %d", models.ErrConfiguration, c.Solver.MaxIterations))
	}

	if c.Solver.Workers < 1 {
		result = multierror.Append(result, fmt.Errorf("%w: solver.workers must be positive, got %d", models.ErrConfiguration, c.Solver.Workers))
	}

	if _, err := input.ParsePolicy(c.InputPolicy); err != nil {
		result = multierror.Append(result, err)
	}

	if c.Top < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: top must be non-negative, got %d", models.ErrConfiguration, c.Top))
	}

	if c.Watch && c.Debounce <= 0 {
		result = multierror.Append(result, fmt.Errorf("%w: debounce must be positive, got %v", models.ErrConfiguration, c.Debounce))
	}

	return result.ErrorOrNil()
}

// ValidateGraph() returns the problems of the graph source, which is the edge
// list (graph.edges and graph.nodes) or Redis when redis.load_graph is set.
func (c *Config) ValidateGraph() error {
	var result *multierror.Error

	if c.Redis.LoadGraph {
		if c.Redis.Addr == "" {
			result = multierror.Append(result, fmt.Errorf("%w: redis.load_graph requires redis.addr", models.ErrConfiguration))
		}
		return result.ErrorOrNil()
	}

	if c.Graph.Edges == "" {
		result = multierror.Append(result, fmt.Errorf("%w: graph.edges is required", models.ErrConfiguration))
	}

	if c.Graph.Nodes < 1 {
		result = multierror.Append(result, fmt.Errorf("%w: graph.nodes must be positive, got %d", models.ErrConfiguration, c.Graph.Nodes))
	}
	return result.ErrorOrNil()
}

// Policy() returns the convergence policy.
func (c *Config) Policy() (rank.Policy, error) {
	norm, err := rank.ParseNorm(c.Solver.Norm)
	if err != nil {
		return rank.Policy{}, err
	}

	policy := rank.Policy{Norm: norm, Epsilon: c.Solver.Epsilon}
	return policy, policy.Validate()
}

// OutOfRange() returns the policy for node IDs outside of the graph.
func (c *Config) OutOfRange() graph.OutOfRange {
	p, _ := graph.ParseOutOfRange(c.Graph.OutOfRange)
	return p
}

// InputOptions() returns the options of the input readers.
func (c *Config) InputOptions(log *logger.Aggregate) []input.Option {
	p, _ := input.ParsePolicy(c.InputPolicy)
	return []input.Option{input.WithPolicy(p), input.WithLogger(log)}
}

// EngineOptions() returns the options of the engines.
func (c *Config) EngineOptions(log *logger.Aggregate) []pagerank.Option {
	return []pagerank.Option{
		pagerank.WithMaxIterations(c.Solver.MaxIterations),
		pagerank.WithWorkers(c.Solver.Workers),
		pagerank.WithLogger(log),
	}
}
