package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"nbacorpus/progress"
	"nbacorpus/store"
)

func newRecentCmd(a *app) *cobra.Command {
	var (
		days  int
		limit int
	)
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Fetches every league game of the last few days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("days") {
				days = a.cfg.RecentDays
			}

			obs, stop := a.observer(cmd, "recent games")
			res := a.collector.Recent(ctx, days, progress.NewTracker(obs, 1))
			stop()
			if !res.OK() {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return res.Err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d games in the last %d days (cached as %s)\n", res.Rows.Len(), days, store.RecentGamesKey)
			if !res.Empty() {
				renderPreview(cmd.OutOrStdout(), res.Rows, limit)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "days to look back (default recent_days)")
	cmd.Flags().IntVar(&limit, "limit", 10, "rows to print; 0 prints all")
	return cmd
}
