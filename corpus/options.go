package corpus

import (
	"nbacorpus/logger"
	"nbacorpus/metrics"
	"nbacorpus/progress"
	"nbacorpus/season"
	"nbacorpus/throttle"
)

type options struct {
	seasons  *season.Resolver
	gate     throttle.Gate
	observer progress.Observer
	log      logger.Logger
	metrics  *metrics.Manager
}

func defaultOptions() options {
	return options{
		seasons:  season.NewResolver(nil),
		gate:     throttle.NoDelay,
		observer: progress.Nop,
		log:      logger.Nop(),
	}
}

type Option func(*options)

func WithSeasons(r *season.Resolver) Option {
	return func(o *options) {
		if r != nil {
			o.seasons = r
		}
	}
}

// WithEntityGate sets the delay applied between two players of a build.
func WithEntityGate(g throttle.Gate) Option {
	return func(o *options) {
		if g != nil {
			o.gate = g
		}
	}
}

func WithObserver(obs progress.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(o *options) { o.metrics = m }
}
