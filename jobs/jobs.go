// Package jobs runs background refresh work on a fixed interval.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"nbacorpus/collector"
	"nbacorpus/logger"
)

// Job is one named unit of periodic work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// RecentGames refreshes the recent_games snapshot.
func RecentGames(c *collector.Collector, daysBack int) Job {
	return Job{
		Name: "recent_games",
		Run: func(ctx context.Context) error {
			return c.Recent(ctx, daysBack, nil).Err
		},
	}
}

// Worker runs one job and refuses to start it again while it is busy.
type Worker struct {
	Job  Job
	busy atomic.Bool
	runs atomic.Int64
}

func NewWorker(job Job) *Worker {
	return &Worker{Job: job}
}

func (w *Worker) IsIdle() bool { return !w.busy.Load() }

// Runs is the number of finished runs, failed ones included.
func (w *Worker) Runs() int64 { return w.runs.Load() }

// DoYourJob runs the job unless the previous run is still going.
func (w *Worker) DoYourJob(ctx context.Context, log logger.Logger) bool {
	if !w.busy.CompareAndSwap(false, true) {
		return false
	}
	defer func() {
		w.runs.Add(1)
		w.busy.Store(false)
	}()

	start := time.Now()
	err := w.safeRun(ctx)
	if err != nil {
		log.Warn(ctx, "job failed", logger.String("job", w.Job.Name), logger.Error(err), logger.Duration("took", time.Since(start)))
		return true
	}
	log.Info(ctx, "job finished", logger.String("job", w.Job.Name), logger.Duration("took", time.Since(start)))
	return true
}

func (w *Worker) safeRun(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.Job.Run(ctx)
}

type Scheduler struct {
	PollInterval time.Duration
	Workers      []*Worker
	log          logger.Logger
}

func NewScheduler(pollInterval time.Duration, log logger.Logger, jobs ...Job) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	s := &Scheduler{
		PollInterval: pollInterval,
		Workers:      make([]*Worker, 0, len(jobs)),
		log:          log,
	}
	for _, j := range jobs {
		s.Workers = append(s.Workers, NewWorker(j))
	}
	return s
}

// Start runs every job once, then again on each tick. A job still running
// from the previous tick is skipped. Start blocks until ctx is done and
// every started run has returned.
func (s *Scheduler) Start(ctx context.Context) {
	var wg sync.WaitGroup
	defer wg.Wait()

	dispatch := func() {
		for _, w := range s.Workers {
			if !w.IsIdle() {
				s.log.Debug(ctx, "job still running, skipping tick", logger.String("job", w.Job.Name))
				continue
			}
			w := w
			wg.Add(1)
			go func() {
				defer wg.Done()
				w.DoYourJob(ctx, s.log)
			}()
		}
	}

	dispatch()
	ticker := time.NewTicker(s.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dispatch()
		}
	}
}
