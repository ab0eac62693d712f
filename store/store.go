// Package store persists tables under slash-separated keys such as
// "comprehensive/2024-25_Regular_Season".
package store

import (
	"context"
	"fmt"
	"path"
	"strings"

	"nbacorpus/season"
	"nbacorpus/table"
)

// Repository is the cache behind every persisted artifact. Implementations
// do no locking; one writer per key at a time is assumed.
type Repository interface {
	Get(ctx context.Context, key string) (*table.Table, error)
	Put(ctx context.Context, key string, t *table.Table) error
	Exists(ctx context.Context, key string) (bool, error)
	Keys(ctx context.Context) ([]string, error)
}

const RecentGamesKey = "recent_games"

// SeasonKey names the dataset for one season and season type.
func SeasonKey(s string, t season.Type) string {
	return fmt.Sprintf("comprehensive/%s_%s", s, t.FileKey())
}

// PlayerKey names the per-player game log cache.
func PlayerKey(playerID int) string {
	return fmt.Sprintf("players/%d_games", playerID)
}

// ValidateKey rejects keys that could escape the store root.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if path.Clean(key) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
