// Package corpus turns per-player game logs into season datasets and
// season datasets into a training corpus.
package corpus

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"nbacorpus/collector"
	"nbacorpus/logger"
	"nbacorpus/progress"
	"nbacorpus/roster"
	"nbacorpus/season"
	"nbacorpus/store"
	"nbacorpus/table"
	"nbacorpus/throttle"
)

// PlayerNameColumn is added to every row of a season dataset.
const PlayerNameColumn = "PLAYER_NAME"

// PlayerSource is what the builder needs from a collector.
type PlayerSource interface {
	Player(ctx context.Context, req collector.PlayerRequest, tr *progress.Tracker) throttle.Result
}

type BuildOptions struct {
	Season     string // current season when empty
	SeasonType season.Type
	Roster     []roster.Entity // roster.Default() when empty
}

// Skip records a player left out of a dataset and why.
type Skip struct {
	Entity roster.Entity
	Reason string
}

type Dataset struct {
	Season     string
	SeasonType season.Type
	Key        string
	Table      *table.Table
	Skipped    []Skip
}

type Builder struct {
	players PlayerSource
	repo    store.Repository
	options
}

func NewBuilder(players PlayerSource, repo store.Repository, opts ...Option) *Builder {
	b := &Builder{players: players, repo: repo, options: defaultOptions()}
	for _, opt := range opts {
		opt(&b.options)
	}
	return b
}

// Build fetches every roster player's game log for one season, in roster
// order, and stores the merged table under store.SeasonKey. Players that
// fail or come back empty are skipped. ErrNoData is returned when nobody
// produced rows.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (*Dataset, error) {
	s := opts.Season
	if s == "" {
		s = b.seasons.Current()
	}
	if !season.Valid(s) {
		return nil, fmt.Errorf("%w: %q", season.ErrInvalidSeason, s)
	}
	players := opts.Roster
	if len(players) == 0 {
		players = roster.Default()
	}

	ds := &Dataset{Season: s, SeasonType: opts.SeasonType, Key: store.SeasonKey(s, opts.SeasonType)}
	log := b.log.With(
		logger.String("run", uuid.NewString()),
		logger.String("season", s),
		logger.String("season_type", opts.SeasonType.String()),
	)
	log.Info(ctx, "building season dataset", logger.Int("players", len(players)))

	tr := progress.NewTracker(b.observer, len(players)*collector.StepsPerPlayer)
	var parts []*table.Table

	for i, e := range players {
		if i > 0 {
			if err := b.gate.Wait(ctx); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			log.Warn(ctx, "build interrupted", logger.Int("done", i))
			return nil, err
		}

		tr.Status(fmt.Sprintf("Fetching %s (%d/%d)", e.DisplayName, i+1, len(players)), progress.Info)
		res := b.players.Player(ctx, collector.PlayerRequest{
			PlayerID:   e.ID,
			Season:     s,
			SeasonType: opts.SeasonType,
		}, tr)
		tr.StepTo((i + 1) * collector.StepsPerPlayer)

		if !res.OK() || res.Empty() {
			// a fetch cut short by the interrupt is not a skip
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			reason := "no games returned"
			if !res.OK() {
				reason = res.Err.Error()
			}
			ds.Skipped = append(ds.Skipped, Skip{Entity: e, Reason: reason})
			b.metrics.Skipped("player")
			log.Warn(ctx, "skipping player", logger.Int("player_id", e.ID), logger.String("player", e.DisplayName), logger.String("reason", reason))
			tr.Status(fmt.Sprintf("Skipped %s: %s", e.DisplayName, reason), progress.Warning)
			continue
		}

		rows := res.Rows.Clone()
		rows.SetColumn(PlayerNameColumn, e.DisplayName)
		parts = append(parts, rows)
		tr.Status(fmt.Sprintf("Got %d games for %s", rows.Len(), e.DisplayName), progress.Success)
	}

	if len(parts) == 0 {
		log.Warn(ctx, "no player produced rows", logger.Int("skipped", len(ds.Skipped)))
		tr.Status(fmt.Sprintf("No data collected for %s", s), progress.Failure)
		return nil, fmt.Errorf("%w for %s %s", ErrNoData, s, opts.SeasonType)
	}

	ds.Table = table.Concat(parts...)
	if err := b.repo.Put(ctx, ds.Key, ds.Table); err != nil {
		return nil, fmt.Errorf("persist %s: %w", ds.Key, err)
	}
	b.metrics.RowsCollected(s, ds.Table.Len())

	log.Info(ctx, "season dataset stored",
		logger.String("key", ds.Key),
		logger.Int("rows", ds.Table.Len()),
		logger.Int("skipped", len(ds.Skipped)),
	)
	tr.Status(fmt.Sprintf("Saved %d rows for %s", ds.Table.Len(), s), progress.Success)
	return ds, nil
}
