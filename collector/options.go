package collector

import (
	"nbacorpus/logger"
	"nbacorpus/season"
)

type Option func(*Collector)

func WithClock(clock season.Clock) Option {
	return func(c *Collector) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithLeagueID(id string) Option {
	return func(c *Collector) {
		if id != "" {
			c.leagueID = id
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.log = l
		}
	}
}
