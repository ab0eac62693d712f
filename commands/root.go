// Package commands is the nbacorpus command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"nbacorpus/collector"
	"nbacorpus/config"
	"nbacorpus/db"
	"nbacorpus/identity"
	"nbacorpus/logger"
	"nbacorpus/metrics"
	"nbacorpus/nba"
	"nbacorpus/progress"
	"nbacorpus/roster"
	"nbacorpus/season"
	"nbacorpus/store"
	"nbacorpus/throttle"
)

// app is everything a command needs, built once the config is loaded.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	metrics   *metrics.Manager
	client    *nba.Client
	repo      store.Repository
	seasons   *season.Resolver
	collector *collector.Collector
	resolver  *identity.Resolver
	progress  bool
	clock     season.Clock
	sink      progress.Observer

	closers []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close", logger.Error(err))
		}
	}
	a.closers = nil
}

// observer returns the progress sink for one batch and a func to flush it.
func (a *app) observer(cmd *cobra.Command, title string) (progress.Observer, func()) {
	logObs := progress.NewLog(a.log.Named("progress"))
	if !a.progress {
		return progress.Multi(logObs, a.sink), func() {}
	}
	pretty := progress.NewPretty(cmd.ErrOrStderr(), title)
	return progress.Multi(logObs, pretty, a.sink), pretty.Stop
}

func (a *app) roster() ([]roster.Entity, error) {
	if a.cfg.RosterFile == "" {
		return roster.Default(), nil
	}
	return roster.Load(a.cfg.RosterFile)
}

func (a *app) setup(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load(ctx, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
		return err
	}
	a.log = logger.Named("nbacorpus")

	if cfg.MetricsEnabled {
		a.metrics = metrics.NewManager()
	}

	a.client, err = nba.NewClient(
		nba.WithBaseURL(cfg.BaseURL),
		nba.WithUserAgent(cfg.UserAgent),
		nba.WithLeagueID(cfg.LeagueID),
		nba.WithTimeout(cfg.HTTPTimeout),
		nba.WithPlayersTTL(cfg.PlayerCacheTTL),
		nba.WithMetrics(a.metrics),
		nba.WithLogger(a.log.Named("nba")),
	)
	if err != nil {
		return err
	}

	switch cfg.Store {
	case config.StoreSQLite:
		ds, err := db.Open(cfg.DatabaseFile)
		if err != nil {
			return err
		}
		a.repo = ds
		a.closers = append(a.closers, ds.Close)
	default:
		a.repo = store.NewFS(cfg.DataDir)
	}

	if a.clock == nil {
		a.clock = season.SystemClock
	}
	a.seasons = season.NewResolver(a.clock)

	fetcher := throttle.NewFetcher(throttle.NewIntervalGate(cfg.ThrottleInterval, a.metrics), a.log.Named("fetch"))
	a.collector = collector.New(a.client, fetcher, a.repo,
		collector.WithClock(a.clock),
		collector.WithLeagueID(cfg.LeagueID),
		collector.WithLogger(a.log.Named("collector")),
	)
	a.resolver = identity.NewResolver(identity.NewFileIndex(cfg.IdentityFile), a.client, a.log.Named("identity"), a.metrics)

	a.log.Debug(ctx, "configured",
		logger.String("store", cfg.Store),
		logger.String("data_dir", cfg.DataDir),
		logger.Duration("throttle_interval", cfg.ThrottleInterval),
	)
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "nbacorpus",
		Short:         "Collects NBA player game logs into season datasets and a training corpus.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().BoolVar(&a.progress, "progress", true, "draw progress bars on stderr")

	root.AddCommand(
		newPlayerCmd(a),
		newRecentCmd(a),
		newBuildCmd(a),
		newCorpusCmd(a),
		newDatasetsCmd(a),
		newResolveCmd(a),
		newServeCmd(a),
	)
	return root
}

// Run executes the command line and returns the process exit code. An
// interrupted run is not an error.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		fmt.Fprintln(stderr, "interrupted")
		return 0
	default:
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
}
