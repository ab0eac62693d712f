package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"nbacorpus/metrics"
)

// Gate spaces out remote calls. Wait blocks until the next call may go out.
type Gate interface {
	Wait(ctx context.Context) error
}

type noDelay struct{}

func (noDelay) Wait(ctx context.Context) error { return ctx.Err() }

// NoDelay never blocks. Tests use it to run batches instantly.
var NoDelay Gate = noDelay{}

// IntervalGate lets one call through per interval.
type IntervalGate struct {
	limiter *rate.Limiter
	metrics *metrics.Manager
}

// NewIntervalGate returns NoDelay for a non-positive interval. The bucket
// starts empty so the first call waits too.
func NewIntervalGate(interval time.Duration, m *metrics.Manager) Gate {
	if interval <= 0 {
		return NoDelay
	}
	l := rate.NewLimiter(rate.Every(interval), 1)
	l.Allow()
	return &IntervalGate{limiter: l, metrics: m}
}

func (g *IntervalGate) Wait(ctx context.Context) error {
	start := time.Now()
	err := g.limiter.Wait(ctx)
	g.metrics.ThrottleWait(time.Since(start))
	return err
}

// PauseGate sleeps the full interval on every call, however long the caller
// spent since the previous one.
type PauseGate struct {
	interval time.Duration
	metrics  *metrics.Manager
}

// NewPauseGate returns NoDelay for a non-positive interval.
func NewPauseGate(interval time.Duration, m *metrics.Manager) Gate {
	if interval <= 0 {
		return NoDelay
	}
	return &PauseGate{interval: interval, metrics: m}
}

func (g *PauseGate) Wait(ctx context.Context) error {
	start := time.Now()
	timer := time.NewTimer(g.interval)
	defer timer.Stop()
	defer func() { g.metrics.ThrottleWait(time.Since(start)) }()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
