package corpus

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"nbacorpus/logger"
	"nbacorpus/progress"
	"nbacorpus/roster"
	"nbacorpus/season"
	"nbacorpus/store"
	"nbacorpus/table"
)

// DatasetBuilder builds one season dataset. *Builder implements it.
type DatasetBuilder interface {
	Build(ctx context.Context, opts BuildOptions) (*Dataset, error)
}

type AssembleOptions struct {
	Seasons  []string // current and previous season when empty
	UseCache bool
	Roster   []roster.Entity
}

// SeasonSkip records a season left out of the corpus and why.
type SeasonSkip struct {
	Season string
	Reason string
}

type Corpus struct {
	Seasons []string
	Table   *table.Table
	Skipped []SeasonSkip
}

type Assembler struct {
	builder DatasetBuilder
	repo    store.Repository
	options
}

func NewAssembler(builder DatasetBuilder, repo store.Repository, opts ...Option) *Assembler {
	a := &Assembler{builder: builder, repo: repo, options: defaultOptions()}
	for _, opt := range opts {
		opt(&a.options)
	}
	return a
}

// Assemble concatenates the regular-season datasets of the given seasons.
// With UseCache a stored dataset is loaded instead of rebuilt. Seasons that
// yield nothing or fail to load are skipped.
func (a *Assembler) Assemble(ctx context.Context, opts AssembleOptions) (*Corpus, error) {
	seasons := opts.Seasons
	if len(seasons) == 0 {
		seasons = a.seasons.Recent()
	}

	log := a.log.With(logger.String("run", uuid.NewString()))
	log.Info(ctx, "assembling training corpus", logger.Any("seasons", seasons), logger.Any("use_cache", opts.UseCache))

	tr := progress.NewTracker(a.observer, len(seasons))
	c := &Corpus{}
	var parts []*table.Table

	for _, s := range seasons {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := a.season(ctx, log, s, opts)
		tr.Step()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			c.Skipped = append(c.Skipped, SeasonSkip{Season: s, Reason: err.Error()})
			a.metrics.Skipped("season")
			log.Warn(ctx, "skipping season", logger.String("season", s), logger.Error(err))
			tr.Status(fmt.Sprintf("Skipped %s: %v", s, err), progress.Warning)
			continue
		}
		c.Seasons = append(c.Seasons, s)
		parts = append(parts, t)
		tr.Status(fmt.Sprintf("Season %s: %d rows", s, t.Len()), progress.Success)
	}

	if len(parts) == 0 {
		tr.Status("Training corpus is empty", progress.Failure)
		return nil, ErrNoData
	}

	c.Table = table.Concat(parts...)
	log.Info(ctx, "training corpus assembled", logger.Int("rows", c.Table.Len()), logger.Int("seasons", len(c.Seasons)))
	return c, nil
}

func (a *Assembler) season(ctx context.Context, log logger.Logger, s string, opts AssembleOptions) (*table.Table, error) {
	key := store.SeasonKey(s, season.RegularSeason)

	if opts.UseCache {
		ok, err := a.repo.Exists(ctx, key)
		if err != nil {
			a.metrics.DatasetCache("error")
			return nil, err
		}
		if ok {
			t, err := a.repo.Get(ctx, key)
			if err != nil {
				a.metrics.DatasetCache("error")
				return nil, err
			}
			a.metrics.DatasetCache("hit")
			log.Info(ctx, "loaded cached season dataset", logger.String("key", key), logger.Int("rows", t.Len()))
			if t.Empty() {
				return nil, fmt.Errorf("%w for %s", ErrNoData, s)
			}
			return t, nil
		}
		a.metrics.DatasetCache("miss")
	}

	ds, err := a.builder.Build(ctx, BuildOptions{Season: s, SeasonType: season.RegularSeason, Roster: opts.Roster})
	if err != nil {
		return nil, err
	}
	if ds.Table.Empty() {
		return nil, fmt.Errorf("%w for %s", ErrNoData, s)
	}
	return ds.Table, nil
}
