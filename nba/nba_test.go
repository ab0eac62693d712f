package nba

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nbacorpus/logger"
	"nbacorpus/metrics"
	"nbacorpus/season"
)

type fakeStats struct {
	calls    atomic.Int32
	lastPath string
	lastQry  map[string]string
	payload  map[string]resultSet
	status   int
}

func (f *fakeStats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	f.lastPath = r.URL.Path
	f.lastQry = map[string]string{}
	for k := range r.URL.Query() {
		f.lastQry[k] = r.URL.Query().Get(k)
	}
	if r.Header.Get("Referer") != "https://www.nba.com/" {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	rs, ok := f.payload[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statsResp{ResultSets: []resultSet{rs}})
}

func newTestClient(t *testing.T, f *fakeStats, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c, err := NewClient(append([]Option{WithBaseURL(srv.URL), WithTimeout(5 * time.Second)}, opts...)...)
	require.NoError(t, err)
	return c
}

var allPlayers = resultSet{
	Name:    "CommonAllPlayers",
	Headers: []string{"PERSON_ID", "DISPLAY_LAST_COMMA_FIRST", "DISPLAY_FIRST_LAST", "ROSTERSTATUS"},
	RowSet: [][]interface{}{
		{2544.0, "James, LeBron", "LeBron James", 1.0},
		{1629029.0, "Dončić, Luka", "Luka Dončić", 1.0},
		{1628960.0, "James, Bronny", "Bronny James", 1.0},
		{76375.0, "James, Mike", "Mike James", 0.0},
		{nil, "Nobody", nil, 0.0},
	},
}

func TestPlayerGameLog(t *testing.T) {
	f := &fakeStats{payload: map[string]resultSet{
		"/playergamelog": {
			Name:    "PlayerGameLog",
			Headers: []string{"SEASON_ID", "Player_ID", "GAME_DATE", "PTS", "PLUS_MINUS", "VIDEO_AVAILABLE"},
			RowSet: [][]interface{}{
				{"22024", 2544.0, "NOV 15, 2024", 27.0, -3.5, true},
				{"22024", 2544.0, "NOV 13, 2024", nil, 12.0, false},
			},
		},
	}}
	c := newTestClient(t, f)

	got, err := c.PlayerGameLog(context.Background(), GameLogQuery{
		PlayerID:   2544,
		Season:     "2024-25",
		SeasonType: season.RegularSeason,
		DateFrom:   time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"SEASON_ID", "Player_ID", "GAME_DATE", "PTS", "PLUS_MINUS", "VIDEO_AVAILABLE"}, got.Columns)
	require.Equal(t, [][]string{
		{"22024", "2544", "NOV 15, 2024", "27", "-3.5", "true"},
		{"22024", "2544", "NOV 13, 2024", "", "12", "false"},
	}, got.Rows)

	require.Equal(t, "/playergamelog", f.lastPath)
	require.Equal(t, "2544", f.lastQry["PlayerID"])
	require.Equal(t, "Regular Season", f.lastQry["SeasonType"])
	require.Equal(t, "11/01/2024", f.lastQry["DateFrom"])
	require.Equal(t, "", f.lastQry["DateTo"])
	require.Equal(t, "00", f.lastQry["LeagueID"])
}

func TestLeagueGameFinder(t *testing.T) {
	f := &fakeStats{payload: map[string]resultSet{
		"/leaguegamefinder": {
			Name:    "LeagueGameFinderResults",
			Headers: []string{"GAME_ID", "MATCHUP"},
			RowSet:  [][]interface{}{{"0022400001", "BOS vs. NYK"}},
		},
	}}
	c := newTestClient(t, f)

	from := time.Date(2024, time.October, 22, 0, 0, 0, 0, time.UTC)
	got, err := c.LeagueGameFinder(context.Background(), from, from.AddDate(0, 0, 7), "")
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	require.Equal(t, "10/22/2024", f.lastQry["DateFrom"])
	require.Equal(t, "10/29/2024", f.lastQry["DateTo"])
	require.Equal(t, "T", f.lastQry["PlayerOrTeam"])
}

func TestMissingResultSet(t *testing.T) {
	f := &fakeStats{payload: map[string]resultSet{
		"/commonplayerinfo": {Name: "AvailableSeasons"},
	}}
	c := newTestClient(t, f)
	_, err := c.CommonPlayerInfo(context.Background(), 2544)
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestStatusError(t *testing.T) {
	m := metrics.NewManager()
	f := &fakeStats{status: http.StatusTooManyRequests}
	c := newTestClient(t, f, WithMetrics(m))

	_, err := c.CommonPlayerInfo(context.Background(), 2544)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr), err)
	require.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestSearchPlayers(t *testing.T) {
	f := &fakeStats{payload: map[string]resultSet{"/commonallplayers": allPlayers}}
	c := newTestClient(t, f)
	ctx := context.Background()

	hits, err := c.SearchPlayers(ctx, "lebron james")
	require.NoError(t, err)
	require.Equal(t, []Player{{ID: 2544, Name: "LeBron James", IsActive: true}}, hits)

	hits, err = c.SearchPlayers(ctx, "Luka Doncic")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, 1629029, hits[0].ID)

	hits, err = c.SearchPlayers(ctx, "James")
	require.NoError(t, err)
	require.Len(t, hits, 3)
	require.Equal(t, "Mike James", hits[0].Name, "shortest name is closest to the query")

	hits, err = c.SearchPlayers(ctx, "Michael Jordan")
	require.NoError(t, err)
	require.Empty(t, hits)

	require.EqualValues(t, 1, f.calls.Load(), "player list is cached between searches")
}

func TestPlayersCacheExpires(t *testing.T) {
	f := &fakeStats{payload: map[string]resultSet{"/commonallplayers": allPlayers}}
	c := newTestClient(t, f, WithPlayersTTL(time.Hour))
	now := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, err := c.CommonAllPlayers(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2024-25", f.lastQry["Season"])

	now = now.Add(2 * time.Hour)
	_, err = c.CommonAllPlayers(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, f.calls.Load())
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPlayerCacheJanitorLogs(t *testing.T) {
	f := &fakeStats{payload: map[string]resultSet{"/commonallplayers": allPlayers}}
	var out syncBuffer
	c := newTestClient(t, f, WithPlayersTTL(time.Hour), WithLogger(logger.New(&out, slog.LevelInfo)))
	fetched := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fetched }

	_, err := c.CommonAllPlayers(context.Background())
	require.NoError(t, err)

	c.now = func() time.Time { return fetched.Add(2 * time.Hour) }
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.PlayerCacheJanitor(ctx, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		c.playersMu.RLock()
		defer c.playersMu.RUnlock()
		return c.players == nil
	}, time.Second, 5*time.Millisecond)
	require.Contains(t, out.String(), "clearing cached players list")
}

func TestFoldName(t *testing.T) {
	require.Equal(t, "nikola jokic", foldName("  Nikola   Jokić "))
	require.Equal(t, "", foldName("   "))
}
