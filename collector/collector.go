// Package collector fetches game logs from the stats API through the
// throttled fetcher and leaves a copy of each result in the store.
package collector

import (
	"context"
	"fmt"
	"time"

	"nbacorpus/logger"
	"nbacorpus/nba"
	"nbacorpus/progress"
	"nbacorpus/season"
	"nbacorpus/store"
	"nbacorpus/table"
	"nbacorpus/throttle"
)

// StepsPerPlayer is how many remote calls Player makes on success.
const StepsPerPlayer = 2

const DefaultRecentDays = 7

// Source is the slice of the stats API the collector needs.
type Source interface {
	CommonPlayerInfo(ctx context.Context, playerID int) (*table.Table, error)
	PlayerGameLog(ctx context.Context, q nba.GameLogQuery) (*table.Table, error)
	LeagueGameFinder(ctx context.Context, from, to time.Time, leagueID string) (*table.Table, error)
}

type DateRange struct {
	From time.Time
	To   time.Time
}

type PlayerRequest struct {
	PlayerID   int
	Season     string
	SeasonType season.Type
	Range      *DateRange
}

type Collector struct {
	source   Source
	fetch    *throttle.Fetcher
	repo     store.Repository
	clock    season.Clock
	leagueID string
	log      logger.Logger
}

func New(source Source, fetch *throttle.Fetcher, repo store.Repository, opts ...Option) *Collector {
	c := &Collector{
		source:   source,
		fetch:    fetch,
		repo:     repo,
		clock:    season.SystemClock,
		leagueID: nba.DefaultLeagueID,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetch == nil {
		c.fetch = throttle.NewFetcher(throttle.NoDelay, c.log)
	}
	return c
}

// Player fetches one player's game log for a season. The player info call
// comes first and must succeed. The log is cached under
// players/<id>_games on a best-effort basis.
func (c *Collector) Player(ctx context.Context, req PlayerRequest, tr *progress.Tracker) throttle.Result {
	id := req.PlayerID

	info := c.fetch.Do(ctx, tr, fmt.Sprintf("commonplayerinfo %d", id), func(ctx context.Context) (*table.Table, error) {
		return c.source.CommonPlayerInfo(ctx, id)
	})
	if !info.OK() {
		return info
	}

	q := nba.GameLogQuery{PlayerID: id, Season: req.Season, SeasonType: req.SeasonType}
	if req.Range != nil {
		q.DateFrom, q.DateTo = req.Range.From, req.Range.To
	}
	res := c.fetch.Do(ctx, tr, fmt.Sprintf("playergamelog %d %s %s", id, req.Season, req.SeasonType), func(ctx context.Context) (*table.Table, error) {
		return c.source.PlayerGameLog(ctx, q)
	})
	if !res.OK() {
		return res
	}

	c.save(ctx, store.PlayerKey(id), res.Rows)
	return res
}

// Recent fetches every league game from daysBack days ago through today and
// caches it under recent_games.
func (c *Collector) Recent(ctx context.Context, daysBack int, tr *progress.Tracker) throttle.Result {
	if daysBack <= 0 {
		daysBack = DefaultRecentDays
	}
	to := c.clock.Now()
	from := to.AddDate(0, 0, -daysBack)

	res := c.fetch.Do(ctx, tr, fmt.Sprintf("leaguegamefinder %s..%s", from.Format(time.DateOnly), to.Format(time.DateOnly)), func(ctx context.Context) (*table.Table, error) {
		return c.source.LeagueGameFinder(ctx, from, to, c.leagueID)
	})
	if !res.OK() {
		return res
	}
	c.save(ctx, store.RecentGamesKey, res.Rows)
	return res
}

func (c *Collector) save(ctx context.Context, key string, t *table.Table) {
	if c.repo == nil {
		return
	}
	if err := c.repo.Put(ctx, key, t); err != nil {
		c.log.Warn(ctx, "could not cache fetched rows", logger.String("key", key), logger.Error(err))
		return
	}
	c.log.Debug(ctx, "cached fetched rows", logger.String("key", key), logger.Int("rows", t.Len()))
}
