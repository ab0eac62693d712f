package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nbacorpus/collector"
	"nbacorpus/identity"
	"nbacorpus/progress"
	"nbacorpus/season"
	"nbacorpus/store"
)

const dayLayout = time.DateOnly

func newPlayerCmd(a *app) *cobra.Command {
	var (
		id         int
		seasonFlag string
		typeFlag   string
		from, to   string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "player [name]",
		Short: "Fetches one player's game log for a season and caches it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.Join(args, " ")
			if name == "" && id <= 0 {
				return errors.New("give a player name or --id")
			}
			st, err := season.ParseType(typeFlag)
			if err != nil {
				return err
			}
			s := seasonFlag
			if s == "" {
				s = a.seasons.Current()
			} else if !season.Valid(s) {
				return fmt.Errorf("%w: %q", season.ErrInvalidSeason, s)
			}
			rng, err := parseRange(from, to)
			if err != nil {
				return err
			}

			e, err := a.resolver.Resolve(ctx, identity.Query{Name: name, ID: id})
			if err != nil {
				return err
			}

			obs, stop := a.observer(cmd, e.String())
			tr := progress.NewTracker(obs, collector.StepsPerPlayer)
			res := a.collector.Player(ctx, collector.PlayerRequest{
				PlayerID:   e.ID,
				Season:     s,
				SeasonType: st,
				Range:      rng,
			}, tr)
			stop()
			if !res.OK() {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return res.Err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d games in %s %s (cached as %s)\n", e, res.Rows.Len(), s, st, store.PlayerKey(e.ID))
			if !res.Empty() {
				renderPreview(cmd.OutOrStdout(), res.Rows, limit)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&id, "id", 0, "player id; skips name lookup")
	f.StringVar(&seasonFlag, "season", "", "season label such as 2024-25 (default current)")
	f.StringVar(&typeFlag, "season-type", season.RegularSeason.String(), "Regular Season, Playoffs or All")
	f.StringVar(&from, "from", "", "first game date, YYYY-MM-DD")
	f.StringVar(&to, "to", "", "last game date, YYYY-MM-DD")
	f.IntVar(&limit, "limit", 10, "rows to print; 0 prints all")
	return cmd
}

func parseRange(from, to string) (*collector.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	var r collector.DateRange
	var err error
	if from != "" {
		if r.From, err = time.Parse(dayLayout, from); err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if r.To, err = time.Parse(dayLayout, to); err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return nil, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return &r, nil
}
