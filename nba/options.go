package nba

import (
	"time"

	"nbacorpus/logger"
	"nbacorpus/metrics"
)

type options struct {
	baseURL    string
	userAgent  string
	leagueID   string
	timeout    time.Duration
	playersTTL time.Duration
	metrics    *metrics.Manager
	log        logger.Logger
}

func defaultOptions() options {
	return options{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		leagueID:   DefaultLeagueID,
		timeout:    30 * time.Second,
		playersTTL: 6 * time.Hour,
		log:        logger.Nop(),
	}
}

// Option configures a Client.
type Option func(*options)

func WithBaseURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.baseURL = u
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

func WithLeagueID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.leagueID = id
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithPlayersTTL bounds how long the all-players list is reused.
func WithPlayersTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.playersTTL = d
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
