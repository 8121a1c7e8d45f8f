package app

import (
	"context"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/gungeon-sim/internal/config"
	"github.com/annel0/gungeon-sim/internal/replay"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Sim.Seed = 11
	cfg.Sim.MaxTicks = 300
	cfg.Replay.Enabled = true
	cfg.Replay.Path = t.TempDir()
	cfg.Replay.EveryTicks = 10
	return cfg
}

func newRunner(t *testing.T, cfg *config.Config) *Runner {
	t.Helper()
	r, err := New(context.Background(), cfg, WithRegistry(prometheus.NewRegistry()), WithoutAPI())
	require.NoError(t, err)
	return r
}

func TestRunStopsAtTickLimit(t *testing.T) {
	r := newRunner(t, testConfig(t))

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, r.Close())

	assert.Equal(t, r.Session.ID, res.SessionID)
	assert.LessOrEqual(t, res.Ticks, uint64(300))
	assert.Greater(t, res.Ticks, uint64(0))

	snap, ok := r.Snapshots.Load()
	require.True(t, ok)
	assert.Equal(t, res.Ticks, snap.Tick)

	_, err = os.Stat(res.ReplayPath)
	require.NoError(t, err)

	rd, err := replay.Open(res.ReplayPath)
	require.NoError(t, err)
	defer rd.Close()
	frames, err := rd.ReadAll()
	require.NoError(t, err)
	assert.Len(t, frames, int(res.Ticks/10))
}

func TestRunReportsScoreOnGameOver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Replay.Enabled = false
	r := newRunner(t, cfg)
	defer r.Close()

	r.Session.SetHealth(0)
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.GameOver)
	assert.False(t, res.Victory)
	assert.Equal(t, uint64(1), res.Ticks)

	saved, err := r.Scores().Get(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, res.Score, saved.Score)
	assert.Equal(t, cfg.Sim.PlayerName, saved.Player)
}

func TestRunCancelled(t *testing.T) {
	r := newRunner(t, testConfig(t))
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Run(ctx)
	require.NoError(t, err, "отмена не считается ошибкой")
	assert.Equal(t, uint64(0), res.Ticks)
	assert.False(t, res.GameOver)
}

func TestNewFailsOnBadStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "cassandra"

	r, err := New(context.Background(), cfg, WithRegistry(prometheus.NewRegistry()), WithoutAPI())
	assert.Error(t, err)
	assert.Nil(t, r)
}
