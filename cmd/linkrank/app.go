package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vertex-lab/linkrank/pkg/config"
	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/input"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/pagerank"
	"github.com/vertex-lab/linkrank/pkg/store/redistore"
	"github.com/vertex-lab/linkrank/pkg/utils/logger"
	"github.com/vertex-lab/linkrank/pkg/utils/redisutils"
)

// App holds what every subcommand needs to run.
type App struct {
	Config *config.Config
	Log    *logger.Aggregate
	Out    io.Writer
	Store  Store // nil if Redis is not configured

	// whether the task reads the graph, false for the cached blend
	needGraph bool
	closers   []func() error
}

// Store persists graphs and ranks. It is implemented by redistore.Store and mock.Store.
type Store interface {
	models.RankStore
	SaveGraph(ctx context.Context, g *graph.Graph) error
	LoadGraph(ctx context.Context, opts ...graph.Option) (*graph.Graph, error)
}

// openStore() connects to the Redis at addr. It returns the store and a function to close it.
var openStore = func(ctx context.Context, addr string) (Store, func() error, error) {
	cl := redisutils.SetupClient(addr)
	if err := redisutils.Ping(ctx, cl, 5*time.Second); err != nil {
		cl.Close()
		return nil, nil, err
	}

	store, err := redistore.NewStore(cl)
	if err != nil {
		cl.Close()
		return nil, nil, err
	}
	return store, cl.Close, nil
}

// newApp() loads the configuration and sets up the logger and the store.
func newApp(cmd *cobra.Command, v *viper.Viper) (*App, error) {
	cfg, err := loadConfig(cmd, v)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		Log:    logger.New(cmd.ErrOrStderr()),
		Out:    cmd.OutOrStdout(),

		needGraph: true,
	}

	if cfg.LogFile != "" {
		log, file, err := logger.Init(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open the log file: %w", err)
		}
		app.Log = log
		app.closers = append(app.closers, file.Close)
	}

	if cfg.Redis.Addr != "" {
		store, closeStore, err := openStore(cmd.Context(), cfg.Redis.Addr)
		if err != nil {
			app.Close()
			return nil, err
		}

		app.Store = store
		app.closers = append(app.closers, closeStore)
	}

	return app, nil
}

// Close() releases the resources of the app.
func (a *App) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, a.closers[i]())
	}
	a.closers = nil
	return err
}

// LoadGraph() returns the graph from the edge list or from Redis.
func (a *App) LoadGraph(ctx context.Context) (*graph.Graph, error) {
	start := time.Now()
	var g *graph.Graph
	var err error

	if a.Config.Redis.LoadGraph {
		g, err = a.Store.LoadGraph(ctx, graph.WithOutOfRange(a.Config.OutOfRange()))
		if err != nil {
			return nil, fmt.Errorf("failed to load the graph from Redis: %w", err)
		}
	} else {
		g, err = input.LoadGraph(a.Config.Graph.Edges, a.Config.Graph.Nodes,
			a.Config.OutOfRange(), a.Config.InputOptions(a.Log)...)
		if err != nil {
			return nil, err
		}
	}

	a.Log.Info("loaded %v (%d dangling) in %v", g, len(g.Dangling()), time.Since(start))

	if a.Config.Redis.SaveGraph && !a.Config.Redis.LoadGraph {
		if err := a.Store.SaveGraph(ctx, g); err != nil {
			return nil, fmt.Errorf("failed to store the graph in Redis: %w", err)
		}
		a.Log.Info("stored the graph in Redis")
	}
	return g, nil
}

// Solve() runs the engine to convergence, displaying live stats if configured.
// Not converging within the maximum number of iterations is logged, not returned.
func (a *App) Solve(ctx context.Context, engine *pagerank.Engine) (*pagerank.Result, error) {
	if a.Config.Stats {
		statsCtx, stop := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			DisplayStats(statsCtx, a.Out, engine, 2*time.Second)
		}()

		defer func() {
			stop()
			<-done
		}()
	}

	result, err := engine.Run(ctx)
	if errors.Is(err, models.ErrDidNotConverge) {
		a.Log.Warn("using the ranks of the last iteration: %v", err)
		return result, nil
	}
	return result, err
}

// Persist() stores the result in Redis under the configured name, if Redis is configured.
func (a *App) Persist(ctx context.Context, result *pagerank.Result) error {
	if a.Store == nil {
		return nil
	}

	if err := a.Store.SaveRanks(ctx, a.Config.Redis.Name, result.Snapshot()); err != nil {
		return err
	}

	a.Log.Info("stored the ranks in Redis as %q", a.Config.Redis.Name)
	return nil
}

// Inputs() returns the files the command depends on, watched with --watch.
func (a *App) Inputs(extra ...string) []string {
	var files []string
	if a.needGraph && !a.Config.Redis.LoadGraph {
		files = append(files, a.Config.Graph.Edges)
	}

	for _, file := range extra {
		if file != "" {
			files = append(files, file)
		}
	}
	return files
}

// Execute() runs the task once, or every time an input changes if --watch is set.
func (a *App) Execute(ctx context.Context, task func(ctx context.Context) error, extra ...string) error {
	if a.needGraph {
		if err := a.Config.ValidateGraph(); err != nil {
			return err
		}
	}

	if !a.Config.Watch {
		return task(ctx)
	}
	return Watch(ctx, a.Log, a.Inputs(extra...), a.Config.Debounce, task)
}

// runApp() returns the RunE of a subcommand that executes the task built by newTask.
func runApp(v *viper.Viper, bindings map[string]string, newTask func(a *App) (task func(ctx context.Context) error, extra []string)) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		bind(v, cmd.Flags(), bindings)

		app, err := newApp(cmd, v)
		if err != nil {
			return err
		}
		defer app.Close()

		task, extra := newTask(app)
		return app.Execute(cmd.Context(), task, extra...)
	}
}
