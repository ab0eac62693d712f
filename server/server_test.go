package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"nbacorpus/metrics"
	"nbacorpus/season"
	"nbacorpus/store"
	"nbacorpus/table"
)

func newTestServer(t *testing.T) (*Server, *store.FS) {
	t.Helper()
	repo := store.NewFS(t.TempDir())
	ctx := context.Background()

	ds := table.New("Player_ID", "PTS", "PLAYER_NAME")
	ds.Append("2544", "30", "LeBron James")
	require.NoError(t, repo.Put(ctx, store.SeasonKey("2024-25", season.RegularSeason), ds))

	recent := table.New("GAME_ID")
	recent.Append("0022400201")
	require.NoError(t, repo.Put(ctx, store.RecentGamesKey, recent))

	return New(repo, metrics.NewManager(metrics.WithNamespace("test")), nil), repo
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListDatasets(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/datasets")
	require.Equal(t, http.StatusOK, rec.Code)
	var out datasetList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, []string{"comprehensive/2024-25_Regular_Season", "recent_games"}, out.Keys)

	rec = get(t, s, "/datasets?prefix=comprehensive/")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, []string{"comprehensive/2024-25_Regular_Season"}, out.Keys)
}

func TestGetDataset(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/datasets/comprehensive/2024-25_Regular_Season.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "Player_ID,PTS,PLAYER_NAME\n2544,30,LeBron James\n", rec.Body.String())

	rec = get(t, s, "/datasets/recent_games")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "GAME_ID\n0022400201\n", rec.Body.String())
}

func TestGetDatasetErrors(t *testing.T) {
	s, repo := newTestServer(t)

	require.Equal(t, http.StatusNotFound, get(t, s, "/datasets/comprehensive/1999-00_Playoffs").Code)

	key := store.SeasonKey("2023-24", season.RegularSeason)
	require.NoError(t, repo.Put(context.Background(), key, table.New("A")))
	require.NoError(t, os.WriteFile(repo.Path(key), []byte("a,\"b\n"), 0o644))
	require.Equal(t, http.StatusInternalServerError, get(t, s, "/datasets/"+key).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")

	noMetrics := New(store.NewFS(t.TempDir()), nil, nil)
	require.Equal(t, http.StatusNotFound, get(t, noMetrics, "/metrics").Code)
}
