package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRemoteCall(t *testing.T) {
	m := NewManager(WithRegistry(prometheus.NewRegistry()))

	m.RemoteCall("playergamelog", 120*time.Millisecond, nil)
	m.RemoteCall("playergamelog", 80*time.Millisecond, errors.New("timeout"))

	require.Equal(t, 2.0, testutil.ToFloat64(m.remoteCalls.WithLabelValues("playergamelog")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.remoteFailures.WithLabelValues("playergamelog")))
}

func TestCounters(t *testing.T) {
	m := NewManager()

	m.DatasetCache("hit")
	m.DatasetCache("hit")
	m.IdentityResolved("local")
	m.Skipped("player")
	m.RowsCollected("2024-25", 82)
	m.ThrottleWait(time.Second)

	require.Equal(t, 2.0, testutil.ToFloat64(m.datasetCache.WithLabelValues("hit")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.identitySources.WithLabelValues("local")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.skipped.WithLabelValues("player")))
	require.Equal(t, 82.0, testutil.ToFloat64(m.rowsCollected.WithLabelValues("2024-25")))
}

func TestNilManager(t *testing.T) {
	var m *Manager
	m.RemoteCall("x", time.Second, nil)
	m.DatasetCache("miss")
	m.IdentityResolved("remote")
	m.Skipped("season")
	m.RowsCollected("2024-25", 1)
	m.ThrottleWait(time.Second)
	require.Nil(t, m.Registry())
}

func TestHandler(t *testing.T) {
	m := NewManager(WithNamespace("test"))
	m.Skipped("player")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `test_batch_skipped_total{kind="player"} 1`), string(body))
}
