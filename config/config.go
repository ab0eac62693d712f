// Package config holds process configuration and the layering that builds
// it from defaults, a YAML file, the environment and command-line flags.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"nbacorpus/nba"
)

const (
	StoreFS     = "fs"
	StoreSQLite = "sqlite"
)

type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir is the root of every cached artifact.
	DataDir string `koanf:"data_dir"`

	// Store picks the dataset backend: fs (CSV files) or sqlite.
	Store string `koanf:"store"`

	// DatabaseFile defaults to <data_dir>/nbacorpus.db.
	DatabaseFile string `koanf:"database_file"`

	// IdentityFile defaults to <data_dir>/players.json.
	IdentityFile string `koanf:"identity_file"`

	// RosterFile replaces the built-in roster when set.
	RosterFile string `koanf:"roster_file"`

	BaseURL     string        `koanf:"base_url"`
	LeagueID    string        `koanf:"league_id"`
	UserAgent   string        `koanf:"user_agent"`
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// ThrottleInterval is the pause after every remote call.
	ThrottleInterval time.Duration `koanf:"throttle_interval"`

	// EntityDelay is the extra pause between two players of a build.
	EntityDelay time.Duration `koanf:"entity_delay"`

	PlayerCacheTTL time.Duration `koanf:"player_cache_ttl"`

	RecentDays int `koanf:"recent_days"`

	Addr             string        `koanf:"addr"`
	SnapshotInterval time.Duration `koanf:"snapshot_interval"`
	MetricsEnabled   bool          `koanf:"metrics_enabled"`
}

func New() *Config {
	return &Config{
		LogLevel:         "info",
		DataDir:          "data",
		Store:            StoreFS,
		BaseURL:          nba.DefaultBaseURL,
		LeagueID:         nba.DefaultLeagueID,
		UserAgent:        nba.DefaultUserAgent,
		HTTPTimeout:      30 * time.Second,
		ThrottleInterval: time.Second,
		EntityDelay:      600 * time.Millisecond,
		PlayerCacheTTL:   6 * time.Hour,
		RecentDays:       7,
		Addr:             ":8080",
		SnapshotInterval: 30 * time.Minute,
		MetricsEnabled:   true,
	}
}

// resolvePaths fills the file locations that default to data_dir.
func (c *Config) resolvePaths() {
	if c.DatabaseFile == "" {
		c.DatabaseFile = filepath.Join(c.DataDir, "nbacorpus.db")
	}
	if c.IdentityFile == "" {
		c.IdentityFile = filepath.Join(c.DataDir, "players.json")
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.Store != StoreFS && c.Store != StoreSQLite {
		return fmt.Errorf("%w: store must be %q or %q, got %q", ErrInvalidConfig, StoreFS, StoreSQLite, c.Store)
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base_url %q", ErrInvalidConfig, c.BaseURL)
	}
	if c.LeagueID == "" {
		return fmt.Errorf("%w: league_id must not be empty", ErrInvalidConfig)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http_timeout must be positive", ErrInvalidConfig)
	}
	if c.ThrottleInterval < 0 || c.EntityDelay < 0 {
		return fmt.Errorf("%w: throttle_interval and entity_delay must not be negative", ErrInvalidConfig)
	}
	if c.PlayerCacheTTL <= 0 {
		return fmt.Errorf("%w: player_cache_ttl must be positive", ErrInvalidConfig)
	}
	if c.RecentDays <= 0 {
		return fmt.Errorf("%w: recent_days must be positive", ErrInvalidConfig)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.SnapshotInterval <= 0 {
		return fmt.Errorf("%w: snapshot_interval must be positive", ErrInvalidConfig)
	}
	return nil
}
