package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

func firstTile(s tiles.Set) vec.Vec2 {
	return s.Sorted()[0]
}

func TestHazardDitchKillsWithoutDodge(t *testing.T) {
	h := NewHazardRoom(1, NewEnv(11))
	require.Equal(t, ThemeDitches, h.Theme)
	require.NotEmpty(t, h.Ditches)
	h.Enemies = nil

	p := entity.NewPlayer(tiles.Center(firstTile(h.Ditches)))
	rep := h.Step(0.016, p, nil)

	assert.True(t, rep.Fell)
	assert.Equal(t, 0, p.Health, "провал убивает на том же тике")
}

func TestHazardDitchIgnoresInvulnerability(t *testing.T) {
	h := NewHazardRoom(2, NewEnv(12))
	h.Enemies = nil

	p := entity.NewPlayer(tiles.Center(firstTile(h.Ditches)))
	p.Invulnerable = true
	_, fell := h.ApplyHazards(p)

	assert.True(t, fell)
	assert.False(t, p.IsAlive())
}

func TestHazardDitchSparesDodgingPlayer(t *testing.T) {
	h := NewHazardRoom(1, NewEnv(13))
	p := entity.NewPlayer(tiles.Center(firstTile(h.Ditches)))
	p.Dodge.IsDodging = true

	dmg, fell := h.ApplyHazards(p)
	assert.Zero(t, dmg)
	assert.False(t, fell)
	assert.Equal(t, entity.PlayerMaxHealth, p.Health)
}

func TestHazardDitchesSpanFullHeight(t *testing.T) {
	h := NewHazardRoom(1, NewEnv(14))
	for y := 1; y <= h.Height-2; y++ {
		assert.True(t, h.Ditches.Has(vec.Vec2{X: 6, Y: y}), "первый провал не обойти: y=%d", y)
	}
}

func TestHazardSpikesGatedByInvulnerability(t *testing.T) {
	h := NewHazardRoom(4, NewEnv(15))
	require.Equal(t, ThemeSpikeMaze, h.Theme)
	require.NotEmpty(t, h.Spikes)

	p := entity.NewPlayer(tiles.Center(firstTile(h.Spikes)))
	p.Invulnerable = true
	dmg, _ := h.ApplyHazards(p)
	assert.Zero(t, dmg)
	assert.Equal(t, entity.PlayerMaxHealth, p.Health)

	p.Invulnerable = false
	dmg, fell := h.ApplyHazards(p)
	assert.Equal(t, SpikeDamage, dmg)
	assert.False(t, fell)
	assert.Equal(t, entity.PlayerMaxHealth-SpikeDamage, p.Health)
	assert.True(t, p.Invulnerable, "урон дает окно неуязвимости")
}

func TestHazardLavaDamage(t *testing.T) {
	h := NewHazardRoom(8, NewEnv(16))
	require.Equal(t, ThemeLava, h.Theme)
	require.NotEmpty(t, h.Bridges)

	p := entity.NewPlayer(tiles.Center(firstTile(h.Lava)))
	dmg, _ := h.ApplyHazards(p)
	assert.Equal(t, LavaDamage, dmg)

	for b := range h.Bridges {
		assert.False(t, h.Lava.Has(b), "мост не лава")
		assert.True(t, h.Floor.Has(b))
	}
}

func TestHazardTilesSolidOutsideDodge(t *testing.T) {
	h := NewHazardRoom(1, NewEnv(17))
	ditch := firstTile(h.Ditches)
	p := entity.NewPlayer(vec.New(40, 40))

	assert.True(t, h.PlayerSolid(p)(ditch))
	p.Dodge.IsDodging = true
	assert.False(t, h.PlayerSolid(p)(ditch))
}

func TestHazardGuardsOffHazards(t *testing.T) {
	for _, level := range []int{1, 5, 8} {
		for seed := int64(0); seed < 300; seed++ {
			h := NewHazardRoom(level, NewEnv(seed))
			assert.LessOrEqual(t, len(h.Enemies), 2)
			for _, e := range h.Enemies {
				tl := tiles.FromWorld(e.Position)
				assert.False(t, h.isHazard(tl), "seed=%d level=%d тайл %v", seed, level, tl)
				assert.False(t, h.onPlatform(tl), "seed=%d level=%d охранник на платформе %v", seed, level, tl)
				assert.True(t, h.IsFloor(tl))
				assert.Less(t, tl.X, h.Width-6)
				assert.Contains(t, []entity.Archetype{entity.Basic, entity.Sniper}, e.Archetype)
			}
		}
	}
}

func TestHazardChallengeMonotonic(t *testing.T) {
	h := NewHazardRoom(1, NewEnv(18))
	h.Enemies = nil
	p := entity.NewPlayer(tiles.Center(vec.Vec2{X: 3, Y: 3}))

	rep := h.Step(0.016, p, nil)
	assert.False(t, rep.ChallengeComplete)

	p.Position = tiles.Center(vec.Vec2{X: h.Width - 4, Y: h.Height - 4})
	rep = h.Step(0.016, p, nil)
	assert.True(t, rep.ChallengeComplete)
	assert.True(t, h.ChallengeComplete)

	p.Position = tiles.Center(vec.Vec2{X: 3, Y: 3})
	rep = h.Step(0.016, p, nil)
	assert.False(t, rep.ChallengeComplete, "событие один раз")
	assert.True(t, h.ChallengeComplete, "флаг не сбрасывается")
}

func TestBossRoomDeferredSpawn(t *testing.T) {
	b := NewBossRoom(2, NewEnv(21))
	p := entity.NewPlayer(b.NearestFloor(vec.New(40, 40)))

	assert.Empty(t, b.Enemies, "босс не появляется при создании")
	b.Step(0.016, p, nil)
	assert.False(t, b.IsCleared())
	assert.False(t, b.BossSpawned())

	require.True(t, b.TriggerBossSpawn())
	require.Len(t, b.Enemies, 1)
	assert.True(t, b.Boss.IsBoss())
	assert.True(t, b.IsFloor(tiles.FromWorld(b.Boss.Position)))

	assert.False(t, b.TriggerBossSpawn(), "повторный вызов ничего не делает")
	assert.Len(t, b.Enemies, 1)
}

func TestBossRoomDefeat(t *testing.T) {
	b := NewBossRoom(1, NewEnv(22))
	p := entity.NewPlayer(b.NearestFloor(vec.New(40, 40)))
	require.True(t, b.TriggerBossSpawn())

	b.Boss.Health = 1
	b.AddPlayerProjectiles(entity.NewProjectile(b.Boss.Position, 0, 0, 10, entity.PlayerProjectileRadius, false))
	rep := b.Step(0.016, p, nil)

	assert.True(t, rep.BossDefeated)
	assert.True(t, rep.RoomCleared)
	assert.True(t, b.Defeated())

	rep = b.Step(0.016, p, nil)
	assert.False(t, rep.BossDefeated)
}

func TestSpawnRoomExitAndTeleporter(t *testing.T) {
	s := NewSpawnRoom(NewEnv(1))
	p := entity.NewPlayer(SpawnStart)

	assert.True(t, s.TeleporterTouched(p))
	s.Step(0.1, p, nil)
	assert.False(t, s.Door.IsOpen)
	assert.False(t, s.ExitReached(p))

	p.Position = vec.New(112, 160)
	assert.False(t, s.TeleporterTouched(p))
	s.Step(0.1, p, nil)
	s.Step(0.1, p, nil)
	require.True(t, s.Door.IsOpen)
	assert.False(t, s.ExitReached(p), "игрок еще не в проеме")

	p.Position = vec.New(112, 180)
	s.Step(0.1, p, nil)
	assert.True(t, s.ExitReached(p))
}

func TestDoorOpensAndCloses(t *testing.T) {
	d := NewDoor("d", "room_1", vec.New(384, 144), Vertical)
	center := d.Center()
	assert.Equal(t, vec.New(392, 160), center)

	far := vec.New(100, 100)
	d.Update(0.1, far)
	assert.False(t, d.IsOpen)
	assert.NotNil(t, d.CollisionRect())
	assert.True(t, d.Blocks(vec.Vec2{X: 24, Y: 9}))

	near := vec.New(360, 160)
	d.Update(0.1, far, near)
	assert.InDelta(t, 0.3, d.OpenProgress, 1e-9)
	assert.False(t, d.IsOpen, "порог 0.5")

	d.Update(0.1, near)
	assert.True(t, d.IsOpen)
	assert.Nil(t, d.CollisionRect())
	assert.False(t, d.Blocks(vec.Vec2{X: 24, Y: 9}))

	for i := 0; i < 10; i++ {
		d.Update(0.1, far)
	}
	assert.Zero(t, d.OpenProgress)
	assert.False(t, d.IsOpen)
}

func TestAttachDoorCarvesWall(t *testing.T) {
	r := NewEmptyRoom(RoomWidth, RoomHeight, 1, NewEnv(1))
	d := NewDoor("east", "room_1", tiles.Origin(vec.Vec2{X: RoomWidth - 1, Y: RoomHeight/2 - 1}), Vertical)
	r.AttachDoor(d)

	for _, tl := range d.Tiles() {
		assert.False(t, r.Walls.Has(tl))
		assert.True(t, r.Floor.Has(tl))
		assert.True(t, r.Solid()(tl), "закрытая дверь непроходима")
		assert.True(t, r.Floor.Has(vec.Vec2{X: RoomWidth - 2, Y: tl.Y}))
	}

	d.IsOpen = true
	for _, tl := range d.Tiles() {
		assert.False(t, r.Solid()(tl))
	}
}
