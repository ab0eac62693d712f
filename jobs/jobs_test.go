package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nbacorpus/collector"
	"nbacorpus/logger"
	"nbacorpus/nba"
	"nbacorpus/season"
	"nbacorpus/store"
	"nbacorpus/table"
)

func TestSchedulerRunsImmediatelyAndOnTicks(t *testing.T) {
	var n atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(10*time.Millisecond, nil, Job{Name: "count", Run: func(context.Context) error {
		if n.Add(1) >= 3 {
			cancel()
		}
		return nil
	}})

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	require.GreaterOrEqual(t, n.Load(), int32(3))
}

func TestWorkerSkipsWhileBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	w := NewWorker(Job{Name: "slow", Run: func(context.Context) error {
		close(started)
		<-release
		return nil
	}})

	go w.DoYourJob(context.Background(), logger.Nop())
	<-started

	require.False(t, w.IsIdle())
	require.False(t, w.DoYourJob(context.Background(), logger.Nop()))

	close(release)
	require.Eventually(t, w.IsIdle, time.Second, time.Millisecond)
	require.EqualValues(t, 1, w.Runs())
}

func TestWorkerSurvivesFailures(t *testing.T) {
	w := NewWorker(Job{Name: "boom", Run: func(context.Context) error { panic("boom") }})
	require.True(t, w.DoYourJob(context.Background(), logger.Nop()))

	w = NewWorker(Job{Name: "err", Run: func(context.Context) error { return errors.New("nope") }})
	require.True(t, w.DoYourJob(context.Background(), logger.Nop()))
	require.True(t, w.IsIdle())
}

type leagueSource struct{ calls int }

func (s *leagueSource) CommonPlayerInfo(context.Context, int) (*table.Table, error) {
	return nil, errors.New("unused")
}

func (s *leagueSource) PlayerGameLog(context.Context, nba.GameLogQuery) (*table.Table, error) {
	return nil, errors.New("unused")
}

func (s *leagueSource) LeagueGameFinder(context.Context, time.Time, time.Time, string) (*table.Table, error) {
	s.calls++
	t := table.New("GAME_ID", "MATCHUP")
	t.Append("0022400201", "LAL vs. GSW")
	return t, nil
}

func TestRecentGamesJob(t *testing.T) {
	ctx := context.Background()
	src := &leagueSource{}
	repo := store.NewFS(t.TempDir())
	c := collector.New(src, nil, repo, collector.WithClock(season.FixedClock(time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC))))

	job := RecentGames(c, 3)
	require.NoError(t, job.Run(ctx))
	require.Equal(t, 1, src.calls)

	got, err := repo.Get(ctx, store.RecentGamesKey)
	require.NoError(t, err)
	require.Equal(t, []string{"LAL vs. GSW"}, got.Column("MATCHUP"))
}
