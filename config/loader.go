package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	flag "github.com/spf13/pflag"
)

const (
	envPrefix = "NBACORPUS_"
	envConfig = envPrefix + "CONFIG"

	// FlagConfig names the flag holding the YAML file path.
	FlagConfig = "config"
)

// RegisterFlags adds one flag per setting that is worth overriding per run.
// Flag names are the koanf keys with dashes.
func RegisterFlags(fs *flag.FlagSet) {
	d := New()
	fs.String(FlagConfig, "", "YAML config file (env "+envConfig+")")
	fs.String("log-level", d.LogLevel, "debug, info, warn or error")
	fs.String("data-dir", d.DataDir, "directory for cached datasets")
	fs.String("store", d.Store, "dataset store: fs or sqlite")
	fs.String("database-file", "", "sqlite file (default <data-dir>/nbacorpus.db)")
	fs.String("identity-file", "", "player identity index (default <data-dir>/players.json)")
	fs.String("roster-file", "", "JSON5 roster replacing the built-in one")
	fs.Duration("throttle-interval", d.ThrottleInterval, "pause after each remote call")
	fs.Duration("entity-delay", d.EntityDelay, "extra pause between players")
	fs.Duration("http-timeout", d.HTTPTimeout, "timeout of one remote call")
}

// Load layers, lowest precedence first:
//  1. defaults (New)
//  2. YAML file from --config or NBACORPUS_CONFIG
//  3. env (prefix NBACORPUS_)
//  4. flags set on the command line
func Load(_ context.Context, fs *flag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path := os.Getenv(envConfig)
	if fs != nil {
		if f := fs.Lookup(FlagConfig); f != nil && f.Changed {
			path = f.Value.String()
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// NBACORPUS_DATA_DIR -> data_dir
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if fs != nil {
		var setErr error
		fs.Visit(func(f *flag.Flag) {
			if f.Name == FlagConfig || setErr != nil {
				return
			}
			setErr = k.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
		})
		if setErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, setErr)
		}
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
