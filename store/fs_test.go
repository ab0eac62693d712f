package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"nbacorpus/season"
	"nbacorpus/table"
)

func sample() *table.Table {
	t := table.New("Player_ID", "GAME_DATE", "PTS", "PLAYER_NAME")
	t.Append("2544", "NOV 15, 2024", "27", "LeBron James")
	t.Append("2544", "NOV 17, 2024", "31", "LeBron James")
	return t
}

func TestKeys(t *testing.T) {
	require.Equal(t, "comprehensive/2024-25_Regular_Season", SeasonKey("2024-25", season.RegularSeason))
	require.Equal(t, "comprehensive/2023-24_Playoffs", SeasonKey("2023-24", season.Playoffs))
	require.Equal(t, "players/2544_games", PlayerKey(2544))
}

func TestValidateKey(t *testing.T) {
	for _, ok := range []string{"recent_games", "players/2544_games", SeasonKey("2024-25", season.All)} {
		require.NoError(t, ValidateKey(ok), ok)
	}
	for _, bad := range []string{"", "/etc/passwd", "../x", "a/../../b", "a//b", `a\b`, "./a"} {
		require.ErrorIs(t, ValidateKey(bad), ErrInvalidKey, bad)
	}
}

func TestFSRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewFS(t.TempDir())
	key := SeasonKey("2024-25", season.RegularSeason)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Put(ctx, key, sample()))
	require.FileExists(t, filepath.Join(s.Root(), "comprehensive", "2024-25_Regular_Season.csv"))

	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	if diff := cmp.Diff(sample(), got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestFSPutIsDeterministic(t *testing.T) {
	ctx := context.Background()
	s := NewFS(t.TempDir())

	require.NoError(t, s.Put(ctx, RecentGamesKey, sample()))
	first, err := os.ReadFile(s.Path(RecentGamesKey))
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, RecentGamesKey, sample()))
	second, err := os.ReadFile(s.Path(RecentGamesKey))
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestFSGetMissingAndMalformed(t *testing.T) {
	ctx := context.Background()
	s := NewFS(t.TempDir())

	_, err := s.Get(ctx, "players/1_games")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "players"), 0o755))
	require.NoError(t, os.WriteFile(s.Path("players/1_games"), []byte("A,B\n\"open,1\n"), 0o644))

	_, err = s.Get(ctx, "players/1_games")
	var failure *CacheReadFailure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, "players/1_games", failure.Key)
}

func TestFSKeys(t *testing.T) {
	ctx := context.Background()

	keys, err := NewFS(filepath.Join(t.TempDir(), "missing")).Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)

	s := NewFS(t.TempDir())
	for _, k := range []string{RecentGamesKey, PlayerKey(2544), SeasonKey("2024-25", season.RegularSeason)} {
		require.NoError(t, s.Put(ctx, k, sample()))
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "players.json"), []byte("{}"), 0o644))

	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"comprehensive/2024-25_Regular_Season", "players/2544_games", "recent_games"}, keys)
}
