package db

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"nbacorpus/logger"
	"nbacorpus/season"
	"nbacorpus/store"
	"nbacorpus/table"
)

func openTemp(t *testing.T) *DatasetStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "nbacorpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sample(pts ...string) *table.Table {
	t := table.New("Player_ID", "PTS", "PLAYER_NAME")
	for _, p := range pts {
		t.Append("203999", p, "Nikola Jokic")
	}
	return t
}

func TestDatasetStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	key := store.SeasonKey("2024-25", season.RegularSeason)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = s.Get(ctx, key)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Put(ctx, key, sample("29", "35", "")))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	if diff := cmp.Diff(sample("29", "35", ""), got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}

	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDatasetStoreReplace(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.Put(ctx, store.RecentGamesKey, sample("1", "2", "3")))
	require.NoError(t, s.Put(ctx, store.RecentGamesKey, sample("4")))

	got, err := s.Get(ctx, store.RecentGamesKey)
	require.NoError(t, err)
	require.Equal(t, []string{"4"}, got.Column("PTS"))
}

func TestDatasetStoreKeys(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)

	require.NoError(t, s.Put(ctx, store.PlayerKey(203999), sample("30")))
	require.NoError(t, s.Put(ctx, store.RecentGamesKey, sample("30")))

	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"players/203999_games", "recent_games"}, keys)
}

func TestDatasetStoreRejectsBadKeys(t *testing.T) {
	s := openTemp(t)
	require.ErrorIs(t, s.Put(context.Background(), "../escape", sample()), store.ErrInvalidKey)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nbacorpus.db")
	require.NoError(t, SetupDatabase(file))
	require.NoError(t, RunMigrations(file))
	require.NoError(t, RunMigrations(file))
}

func TestSetupDatabaseLogsCreation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logger.Init(&buf, "info"))
	t.Cleanup(func() { _ = logger.Init(io.Discard, "error") })

	file := filepath.Join(t.TempDir(), "data", "nbacorpus.db")
	require.NoError(t, SetupDatabase(file))
	require.FileExists(t, file)
	require.Contains(t, buf.String(), "database file not found")

	buf.Reset()
	require.NoError(t, SetupDatabase(file))
	require.Empty(t, buf.String())
}
