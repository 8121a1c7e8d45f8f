package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/eventbus"
	"github.com/annel0/gungeon-sim/internal/level"
	"github.com/annel0/gungeon-sim/internal/storage"
	"github.com/annel0/gungeon-sim/internal/vec"
	"github.com/annel0/gungeon-sim/internal/world"
)

type sinkStub struct {
	saved []storage.Score
}

func (s *sinkStub) Save(ctx context.Context, sc storage.Score) error {
	s.saved = append(s.saved, sc)
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []*eventbus.Envelope
}

func (r *recorder) Publish(ctx context.Context, ev *eventbus.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.EventType
	}
	return out
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	return cfg
}

func TestNewSessionStartsInSpawn(t *testing.T) {
	s := New(testConfig())

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, PhaseSpawn, s.Phase)
	assert.Equal(t, world.SpawnStart, s.Player.Position)
	assert.Equal(t, 1, s.LevelNum)
	assert.Equal(t, level.FirstRoomID, s.Level.CurrentRoomID)
	assert.Len(t, s.Objectives(), 4)
	assert.Len(t, s.Shop(), 6)
}

func TestTickClampsDelta(t *testing.T) {
	s := New(testConfig())
	s.Tick(1.0, Idle())
	assert.InDelta(t, s.Config.MaxDeltaTime, s.Survival, 1e-12)

	s.Tick(-1, Idle())
	assert.InDelta(t, s.Config.MaxDeltaTime, s.Survival, 1e-12, "отрицательный шаг не отматывает время")
	assert.Equal(t, uint64(2), s.Ticks)
}

func TestSpawnDoorLeadsToFirstRoom(t *testing.T) {
	rec := &recorder{}
	s := New(testConfig(), WithBus(rec))

	s.Player.Position = vec.New(112, 160)
	for i := 0; i < 5; i++ {
		s.Tick(0.05, Idle())
	}
	require.True(t, s.Spawn.Door.IsOpen)
	require.Equal(t, PhaseSpawn, s.Phase)

	s.Player.Position = vec.New(112, 180)
	s.Tick(0.05, Idle())

	assert.Equal(t, PhaseDungeon, s.Phase)
	assert.Equal(t, level.FirstRoomID, s.Level.CurrentRoomID)
	first := s.Level.Rooms[level.FirstRoomID].Base()
	assert.Equal(t, first.NearestFloor(level.EntryPoint(level.FirstRoomID)), s.Player.Position)
	assert.Contains(t, rec.types(), eventbus.TypeRoomEntered)
}

func TestTeleporterRequiresActivation(t *testing.T) {
	s := New(testConfig())
	s.Tick(0.016, Idle())
	assert.Equal(t, PhaseSpawn, s.Phase, "телепорт закрыт")

	for _, id := range []world.RoomID{"room_1", "room_2", level.HazardRoomID} {
		s.Level.MarkCleared(id)
	}
	require.True(t, s.Level.TeleporterActive)

	s.Player.Position = world.TeleporterPoint
	s.Tick(0.016, Idle())

	assert.Equal(t, PhaseDungeon, s.Phase)
	assert.Equal(t, level.BossRoomID, s.Level.CurrentRoomID)
	assert.True(t, s.Level.BossRoom().BossSpawned())
}

func TestGameOverReportsScoreOnce(t *testing.T) {
	sink := &sinkStub{}
	rec := &recorder{}
	s := New(testConfig(), WithScoreSink(sink), WithBus(rec))

	s.Player.Money = 7
	s.Counters.EnemiesKilled = 3
	s.Player.Kill()
	s.Tick(0.016, Idle())

	require.True(t, s.Over())
	assert.False(t, s.Victory)
	assert.Equal(t, 7*10+3*50+int(s.Survival*5), s.FinalScore)
	require.Len(t, sink.saved, 1)
	assert.Equal(t, s.ID, sink.saved[0].SessionID)
	assert.Equal(t, s.FinalScore, sink.saved[0].Score)

	s.Tick(0.016, Idle())
	s.finish(false)
	assert.Len(t, sink.saved, 1, "счет сообщается один раз")
	assert.Contains(t, rec.types(), eventbus.TypeGameOver)
	assert.True(t, s.Snapshot().GameOver)
}

func killBoss(t *testing.T, s *Session) {
	t.Helper()
	s.Phase = PhaseDungeon
	require.True(t, s.Level.TeleportToBoss(s.Player))
	boss := s.Level.BossRoom()
	boss.Boss.Health = 1
	boss.AddPlayerProjectiles(entity.NewProjectile(boss.Boss.Position, 0, 0, 10, entity.PlayerProjectileRadius, false))
	s.Tick(0.05, Idle())
	require.True(t, boss.Defeated())
}

func TestBossDefeatAdvancesLevel(t *testing.T) {
	cfg := testConfig()
	cfg.LevelCompleteDelay = 0.2
	rec := &recorder{}
	s := New(cfg, WithBus(rec))

	killBoss(t, s)
	s.Player.Health = 50
	money := s.Player.Money

	for i := 0; i < 10 && s.LevelNum == 1; i++ {
		s.Tick(0.05, Idle())
	}

	assert.Equal(t, 2, s.LevelNum)
	assert.Equal(t, PhaseSpawn, s.Phase)
	assert.Equal(t, world.SpawnReturn, s.Player.Position)
	assert.Equal(t, money+40, s.Player.Money)
	assert.Equal(t, 80, s.Player.Health)
	assert.Equal(t, 2, s.Level.Level)
	assert.Equal(t, 4, s.Level.TotalRooms)
	assert.Zero(t, s.Counters.RoomsClearedThisLevel)
	assert.Contains(t, rec.types(), eventbus.TypeBossDefeated)
	assert.Contains(t, rec.types(), eventbus.TypeLevelAdvanced)
}

func TestFinalLevelEndsInVictory(t *testing.T) {
	cfg := testConfig()
	cfg.StartLevel = 10
	cfg.MaxLevel = 10
	cfg.LevelCompleteDelay = 0.1
	sink := &sinkStub{}
	s := New(cfg, WithScoreSink(sink))

	killBoss(t, s)
	for i := 0; i < 10 && !s.Over(); i++ {
		s.Tick(0.05, Idle())
	}

	require.True(t, s.Over())
	assert.True(t, s.Victory)
	require.Len(t, sink.saved, 1)
	assert.True(t, sink.saved[0].Victory)
	assert.Equal(t, 10, sink.saved[0].Level)
}

func TestShop(t *testing.T) {
	s := New(testConfig())
	s.Player.Money = 100

	require.NoError(t, s.Buy(0))
	assert.Equal(t, 75, s.Player.Money)
	assert.Equal(t, entity.PlayerMaxHealth, s.Player.Health, "лечение не выше максимума")

	require.NoError(t, s.Buy(5))
	assert.Equal(t, entity.MaxAmmo, s.Player.Guns[1].Ammo)
	assert.Equal(t, entity.UnlimitedAmmo, s.Player.Guns[0].Ammo)

	assert.True(t, errors.Is(s.Buy(99), ErrUnknownItem))
	s.Player.Money = 10
	assert.True(t, errors.Is(s.Buy(2), ErrInsufficientFunds))
	assert.Equal(t, 10, s.Player.Money)

	s.Player.Money = 40
	in := Idle()
	in.Buy = 1
	s.Tick(0.016, in)
	assert.Equal(t, 1, s.Player.Armor)
	assert.Zero(t, s.Player.Money)
}

func TestSetters(t *testing.T) {
	s := New(testConfig())
	s.SetHealth(500)
	assert.Equal(t, s.Player.MaxHealth, s.Player.Health)
	s.AddMaxHealth(20)
	assert.Equal(t, 120, s.Player.MaxHealth)
	s.ScaleDamage(1.25)
	s.ScaleSpeed(1.2)
	assert.InDelta(t, 1.25, s.Player.DamageMultiplier, 1e-9)
	assert.InDelta(t, 1.2, s.Player.SpeedMultiplier, 1e-9)
	s.AddArmor(2)
	assert.Equal(t, 2, s.Player.Armor)
	s.SetHealth(-5)
	assert.Zero(t, s.Player.Health)
}

func TestObjectivesPaidOnce(t *testing.T) {
	rec := &recorder{}
	s := New(testConfig(), WithBus(rec))
	s.Counters.EnemiesKilled = 25

	s.Tick(0.016, Idle())
	assert.Equal(t, 75, s.Player.Money)
	s.Tick(0.016, Idle())
	assert.Equal(t, 75, s.Player.Money)

	var done []string
	for _, o := range s.Objectives() {
		if o.Completed {
			done = append(done, o.Name)
		}
	}
	assert.Equal(t, []string{"Kill 25 enemies"}, done)
	assert.Contains(t, rec.types(), eventbus.TypeObjectiveCompleted)
}

func TestFireInDungeon(t *testing.T) {
	s := New(testConfig())
	s.enterDungeon()

	in := Idle()
	in.Fire = true
	in.Aim = s.Player.Position.Add(vec.New(100, 0))
	s.Tick(0.016, in)

	assert.Greater(t, s.Player.Gun().FireTimer, 0.0, "выстрел состоялся")
}

func TestSnapshot(t *testing.T) {
	s := New(testConfig())
	snap := s.Snapshot()
	assert.Equal(t, "spawn", snap.Room.ID)
	assert.Equal(t, "spawn", snap.Phase)
	assert.Len(t, snap.Doors, 1)
	assert.NotEmpty(t, snap.Room.Walls)

	s.enterDungeon()
	snap = s.Snapshot()
	room := s.Level.Current().Base()
	assert.Equal(t, "room_1", snap.Room.ID)
	assert.Equal(t, "combat", snap.Room.Kind)
	assert.Len(t, snap.Enemies, len(room.Enemies))
	assert.Len(t, snap.Doors, 2)
	assert.Equal(t, 2, snap.Waves)
	assert.Equal(t, 3, snap.TotalRooms)

	snap.Enemies = nil
	assert.Len(t, s.Snapshot().Enemies, len(room.Enemies), "срез не разделяет память")
}
