package commands

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	"nbacorpus/config"
	"nbacorpus/jobs"
	"nbacorpus/logger"
	"nbacorpus/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves stored datasets over HTTP and keeps the recent-games snapshot fresh.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var wg sync.WaitGroup
			defer wg.Wait()
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sched := jobs.NewScheduler(a.cfg.SnapshotInterval, a.log.Named("jobs"), jobs.RecentGames(a.collector, a.cfg.RecentDays))
			wg.Add(2)
			go func() {
				defer wg.Done()
				sched.Start(ctx)
			}()
			go func() {
				defer wg.Done()
				a.client.PlayerCacheJanitor(ctx, a.cfg.PlayerCacheTTL)
			}()

			a.log.Info(ctx, "serving datasets",
				logger.String("addr", a.cfg.Addr),
				logger.Duration("snapshot_interval", a.cfg.SnapshotInterval),
			)
			return server.New(a.repo, a.metrics, a.log.Named("http")).Start(ctx, a.cfg.Addr)
		},
	}
	d := config.New()
	cmd.Flags().String("addr", d.Addr, "listen address")
	cmd.Flags().Duration("snapshot-interval", d.SnapshotInterval, "recent-games refresh interval")
	return cmd
}
