package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/gungeon-sim/internal/replay"
	"github.com/annel0/gungeon-sim/internal/session"
	"github.com/annel0/gungeon-sim/internal/storage"
)

type fixture struct {
	server    *RestServer
	snapshots *SnapshotHolder
	scores    *storage.MemoryScoreRepo
	replayDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	f := &fixture{
		snapshots: NewSnapshotHolder(),
		scores:    storage.NewMemoryScoreRepo(),
		replayDir: t.TempDir(),
	}
	f.server = NewRestServer(Config{
		Snapshots: f.snapshots,
		Scores:    f.scores,
		ReplayDir: f.replayDir,
		Registry:  reg,
		Gatherer:  reg,
	})
	return f
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.get(t, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
}

func TestSessionSnapshot(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/session")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "до первого тика среза нет")

	cfg := session.DefaultConfig()
	cfg.Seed = 3
	s := session.New(cfg)
	s.Tick(1.0/60, session.Idle())
	f.snapshots.Store(s.Snapshot())

	rec = f.get(t, "/api/session")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap session.Snapshot
	decode(t, rec, &snap)
	assert.Equal(t, s.ID, snap.SessionID)
	assert.Equal(t, "spawn", snap.Phase)
	assert.Equal(t, 1, snap.Level)

	rec = f.get(t, "/api/session/objectives")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool                `json:"success"`
		Data    []session.Objective `json:"data"`
	}
	decode(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 4)
}

func TestScores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, f.scores.Save(ctx, storage.Score{SessionID: "low", Score: 10, CreatedAt: now}))
	require.NoError(t, f.scores.Save(ctx, storage.Score{SessionID: "high", Score: 900, CreatedAt: now}))

	rec := f.get(t, "/api/scores?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var top struct {
		Data []storage.Score `json:"data"`
	}
	decode(t, rec, &top)
	require.Len(t, top.Data, 1)
	assert.Equal(t, "high", top.Data[0].SessionID)

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/scores?limit=abc").Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/scores?limit=1000").Code)

	rec = f.get(t, "/api/scores/low")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"session_id":"low"`)

	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/scores/none").Code)
}

func TestReplayFrames(t *testing.T) {
	f := newFixture(t)

	cfg := session.DefaultConfig()
	cfg.Seed = 5
	s := session.New(cfg)
	rec, _, err := replay.Create(f.replayDir, s.ID)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		s.Tick(1.0/60, session.Idle())
		require.NoError(t, rec.Record(s.Snapshot()))
	}
	require.NoError(t, rec.Close())

	resp := f.get(t, "/api/replays/"+s.ID+"?from=3&limit=10")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data struct {
			Total  int            `json:"total"`
			From   int            `json:"from"`
			Frames []replay.Frame `json:"frames"`
		} `json:"data"`
	}
	decode(t, resp, &body)
	assert.Equal(t, 5, body.Data.Total)
	require.Len(t, body.Data.Frames, 2)
	assert.Equal(t, 3, body.Data.Frames[0].Index)

	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/replays/unknown").Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/replays/"+s.ID+"?limit=0").Code)
}

func TestServerInfoAndMetrics(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/server")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), Version)
	assert.Contains(t, rec.Body.String(), "goroutines")

	rec = f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "spectator_api_http_request_duration_seconds"),
		"метрики предыдущих запросов видны в /metrics")
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNoScoreRepo(t *testing.T) {
	reg := prometheus.NewRegistry()
	rs := NewRestServer(Config{Registry: reg, Gatherer: reg})

	rec := httptest.NewRecorder()
	rs.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	rs.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/replays/x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
