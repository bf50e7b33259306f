package pagerank

import (
	"fmt"

	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/utils/logger"
)

const (
	DefaultDamping       = 0.85
	DefaultAlpha         = 0.75
	DefaultBeta          = 0.15
	DefaultMaxIterations = 1000
)

// Config holds the parameters of an Engine that don't depend on the algorithm.
type Config struct {
	// the safety bound on the number of iterations
	MaxIterations int

	// the number of goroutines that compute one iteration
	Workers int

	Log *logger.Aggregate
}

// NewConfig() returns a config with default parameters.
func NewConfig() Config {
	return Config{
		MaxIterations: DefaultMaxIterations,
		Workers:       1,
		Log:           logger.Discard(),
	}
}

// Validate() returns an error wrapping models.ErrConfiguration if the config is unusable.
func (c Config) Validate() error {
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", models.ErrConfiguration, c.MaxIterations)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", models.ErrConfiguration, c.Workers)
	}
	return nil
}

type Option func(*Config)

// WithMaxIterations() sets the maximum number of iterations.
func WithMaxIterations(n int) Option {
	return func(c *Config) {
		c.MaxIterations = n
	}
}

// WithWorkers() sets the number of goroutines used by each iteration.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithLogger() sets the logger; a nil logger prints nothing.
func WithLogger(l *logger.Aggregate) Option {
	return func(c *Config) {
		if l == nil {
			l = logger.Discard()
		}
		c.Log = l
	}
}

func newConfig(opts []Option) (Config, error) {
	config := NewConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return config, config.Validate()
}
