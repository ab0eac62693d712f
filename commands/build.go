package commands

import (
	"fmt"

	pt "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"nbacorpus/corpus"
	"nbacorpus/progress"
	"nbacorpus/season"
	"nbacorpus/throttle"
)

func (a *app) builder(obs progress.Observer) *corpus.Builder {
	return corpus.NewBuilder(a.collector, a.repo,
		corpus.WithSeasons(a.seasons),
		corpus.WithEntityGate(throttle.NewPauseGate(a.cfg.EntityDelay, a.metrics)),
		corpus.WithObserver(obs),
		corpus.WithLogger(a.log.Named("builder")),
		corpus.WithMetrics(a.metrics),
	)
}

func newBuildCmd(a *app) *cobra.Command {
	var seasonFlag, typeFlag string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Builds and stores the season dataset for every roster player.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := season.ParseType(typeFlag)
			if err != nil {
				return err
			}
			players, err := a.roster()
			if err != nil {
				return err
			}

			obs, stop := a.observer(cmd, "season dataset")
			ds, err := a.builder(obs).Build(cmd.Context(), corpus.BuildOptions{Season: seasonFlag, SeasonType: st, Roster: players})
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s: %d rows from %d players stored as %s\n",
				ds.Season, ds.SeasonType, ds.Table.Len(), len(players)-len(ds.Skipped), ds.Key)
			if len(ds.Skipped) > 0 {
				t := newTable(out)
				t.AppendHeader(pt.Row{"Skipped player", "ID", "Reason"})
				for _, s := range ds.Skipped {
					t.AppendRow(pt.Row{s.Entity.DisplayName, s.Entity.ID, s.Reason})
				}
				t.Render()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&seasonFlag, "season", "", "season label such as 2024-25 (default current)")
	cmd.Flags().StringVar(&typeFlag, "season-type", season.RegularSeason.String(), "Regular Season, Playoffs or All")
	return cmd
}
