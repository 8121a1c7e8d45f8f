package entity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/gungeon-sim/internal/vec"
)

func TestEnemyStatsByArchetype(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	basic := NewEnemy(1, Basic, vec.New(100, 100), 1, rng)
	assert.Equal(t, 30, basic.Health)
	assert.Equal(t, 60.0, basic.Speed)
	assert.Equal(t, 180.0, basic.DetectionRange)
	assert.Equal(t, 8, basic.ProjectileDamage)
	assert.Equal(t, 12, basic.ContactDamage)

	rusher := NewEnemy(2, Rusher, vec.New(100, 100), 1, rng)
	assert.Equal(t, 6.0, rusher.Radius, "rusher меньше остальных")
	assert.Equal(t, 100.0, rusher.Speed)
	assert.Equal(t, 20, rusher.ContactDamage)

	sniper := NewEnemy(3, Sniper, vec.New(100, 100), 1, rng)
	assert.Equal(t, 250.0, sniper.DetectionRange)
	assert.Equal(t, 200.0, sniper.ProjectileSpeed())
}

func TestEnemyLevelScaling(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	e := NewEnemy(1, Basic, vec.Vec2Float{}, 5, rng)

	// mult = 1.6
	assert.Equal(t, 48, e.Health)
	assert.Equal(t, 48, e.MaxHealth)
	assert.Equal(t, 12, e.ProjectileDamage)
	assert.Equal(t, 19, e.ContactDamage)
	assert.Equal(t, 216.0, e.DetectionRange, "дальность растет после 3 уровня")
	assert.Equal(t, 66.0, e.Speed)
}

func TestEnemyPatrolTargetNearby(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		e := NewEnemy(uint64(i), Basic, vec.New(200, 200), 1, rng)
		assert.LessOrEqual(t, math.Abs(e.PatrolTarget.X-200), 50.0)
		assert.LessOrEqual(t, math.Abs(e.PatrolTarget.Y-200), 50.0)
	}
}

func TestBossStats(t *testing.T) {
	b := NewBoss(1, vec.New(240, 192), 2, rand.New(rand.NewSource(1)))
	assert.True(t, b.IsBoss())
	assert.Equal(t, 300, b.Health)
	assert.Equal(t, 21, b.ProjectileDamage)
	assert.Equal(t, 35, b.ContactDamage)
	assert.Equal(t, 20.0, b.Radius)
	assert.Equal(t, 300.0, b.DetectionRange)
	require.NotNil(t, b.Special)
	assert.Equal(t, 5.0, b.Special.Cooldown)
}

func TestHealthClamped(t *testing.T) {
	e := NewEnemy(1, Basic, vec.Vec2Float{}, 1, rand.New(rand.NewSource(1)))
	assert.False(t, e.TakeDamage(10))
	assert.True(t, e.TakeDamage(1000), "смертельный урон")
	assert.Equal(t, 0, e.Health, "здоровье не уходит в минус")

	e.Heal(500)
	assert.Equal(t, e.MaxHealth, e.Health, "лечение ограничено максимумом")
}

func TestPlayerArmorAndInvulnerability(t *testing.T) {
	p := NewPlayer(vec.New(100, 100))
	p.AddArmor(1)

	require.True(t, p.TakeDamage(30))
	assert.Equal(t, 100, p.Health, "броня поглощает попадание")
	assert.Equal(t, 0, p.Armor)
	assert.True(t, p.Invulnerable)

	assert.False(t, p.TakeDamage(30), "неуязвимость после удара")

	p.Update(0.7, vec.Vec2Float{}, vec.New(200, 100))
	assert.False(t, p.Invulnerable, "неуязвимость истекает")

	require.True(t, p.TakeDamage(30))
	assert.Equal(t, 70, p.Health)
}

func TestPlayerDodge(t *testing.T) {
	p := NewPlayer(vec.New(100, 100))
	p.Update(0.016, vec.New(1, 0), vec.New(200, 100))

	require.True(t, p.StartDodge())
	assert.True(t, p.Invulnerable)
	assert.False(t, p.StartDodge(), "повторный перекат невозможен во время переката")

	start := p.Position
	p.Update(0.1, vec.Vec2Float{}, vec.New(200, 100))
	assert.Greater(t, p.Position.X, start.X, "перекат продолжается по направлению движения")

	p.Update(0.35, vec.Vec2Float{}, vec.New(200, 100))
	assert.False(t, p.Dodge.IsDodging, "перекат закончился")
	assert.False(t, p.Invulnerable)
	assert.False(t, p.StartDodge(), "перекат на перезарядке")
}

func TestGunFire(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	shotgun := NewShotgun()
	pellets := shotgun.Fire(vec.Vec2Float{}, 0, 1, rng)
	require.Len(t, pellets, 5)
	assert.Equal(t, 49, shotgun.Ammo)
	assert.InDelta(t, -0.2, math.Atan2(pellets[0].Velocity.Y, pellets[0].Velocity.X), 1e-9)
	assert.InDelta(t, 0.2, math.Atan2(pellets[4].Velocity.Y, pellets[4].Velocity.X), 1e-9)
	assert.Nil(t, shotgun.Fire(vec.Vec2Float{}, 0, 1, rng), "перезарядка")

	shotgun.Update(1)
	shotgun.Ammo = 0
	assert.False(t, shotgun.CanFire(), "без патронов")
	shotgun.Refill(150)
	assert.Equal(t, MaxAmmo, shotgun.Ammo)

	pistol := NewSidearm()
	shots := pistol.Fire(vec.Vec2Float{}, 0, 1.25, rng)
	require.Len(t, shots, 1)
	assert.Equal(t, 10, shots[0].Damage, "множитель урона")
	assert.Equal(t, UnlimitedAmmo, pistol.Ammo)
}

func TestProjectileLifetime(t *testing.T) {
	p := NewProjectile(vec.Vec2Float{}, 0, 100, 5, 3, true)
	assert.True(t, p.Update(1))
	assert.InDelta(t, 100, p.Position.X, 1e-9)
	assert.False(t, p.Update(4), "снаряд живет 5 секунд")
}

func TestCounters(t *testing.T) {
	var c Counters
	c.RecordKill(5)
	c.RecordRoomCleared()
	assert.Equal(t, 1, c.EnemiesKilled)
	assert.Equal(t, 5, c.MoneyEarned)
	assert.Equal(t, 1, c.TotalRoomsCleared)
	c.ResetLevel()
	assert.Equal(t, 0, c.RoomsClearedThisLevel)
	assert.Equal(t, 1, c.TotalRoomsCleared)

	var nilCounters *Counters
	assert.NotPanics(t, func() { nilCounters.RecordKill(1) })
}
