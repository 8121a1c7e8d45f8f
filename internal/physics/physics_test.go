package physics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

// openRoom комната w×h с периметром стен
func openRoom(w, h int) tiles.Set {
	walls := tiles.NewSet()
	for x := 0; x < w; x++ {
		walls.Add(vec.Vec2{X: x, Y: 0})
		walls.Add(vec.Vec2{X: x, Y: h - 1})
	}
	for y := 0; y < h; y++ {
		walls.Add(vec.Vec2{X: 0, Y: y})
		walls.Add(vec.Vec2{X: w - 1, Y: y})
	}
	return walls
}

func newEnemy(id uint64, a entity.Archetype, pos vec.Vec2Float) *entity.Enemy {
	return entity.NewEnemy(id, a, pos, 1, rand.New(rand.NewSource(int64(id))))
}

func minWallDistance(pos vec.Vec2Float, walls tiles.Set) float64 {
	best := 1e18
	for t := range walls {
		if d := pos.DistanceTo(tiles.Center(t)); d < best {
			best = d
		}
	}
	return best
}

func TestPushOutFromExactWallCenter(t *testing.T) {
	walls := openRoom(12, 12)
	walls.Add(vec.Vec2{X: 5, Y: 5})
	bounds := tiles.BoundsFor(12, 12)

	e := newEnemy(1, entity.Basic, tiles.Center(vec.Vec2{X: 5, Y: 5}))
	e.Position = PushOutOfTiles(e.Position, e.Radius, bounds, SolidTiles(walls))

	d := e.Position.DistanceTo(tiles.Center(vec.Vec2{X: 5, Y: 5}))
	assert.GreaterOrEqual(t, d, e.Radius+8-Epsilon, "враг вытолкнут из стены за один проход")
}

func TestPushOutIdempotent(t *testing.T) {
	walls := openRoom(12, 12)
	walls.Add(vec.Vec2{X: 5, Y: 5})
	walls.Add(vec.Vec2{X: 6, Y: 5})
	walls.Add(vec.Vec2{X: 5, Y: 6})
	bounds := tiles.BoundsFor(12, 12)
	solid := SolidTiles(walls)

	starts := []vec.Vec2Float{vec.New(110, 100), vec.New(81, 110), vec.New(20, 20), vec.New(110, 110)}
	for _, start := range starts {
		once := PushOutOfTiles(start, 8, bounds, solid)
		twice := PushOutOfTiles(once, 8, bounds, solid)
		assert.Equal(t, once, twice, "повторное выталкивание ничего не меняет")
		assert.GreaterOrEqual(t, minWallDistance(once, walls), 16-1e-3)
	}
}

func TestPushOutLargeRadius(t *testing.T) {
	walls := openRoom(20, 20)
	for x := 5; x <= 12; x++ {
		walls.Add(vec.Vec2{X: x, Y: 10})
	}
	bounds := tiles.BoundsFor(20, 20)

	pos := PushOutOfTiles(vec.New(140, 155), 20, bounds, SolidTiles(walls))
	assert.GreaterOrEqual(t, minWallDistance(pos, walls), 28-1e-3, "радиус босса учитывается целиком")
}

func TestSeparateTwoEnemies(t *testing.T) {
	walls := openRoom(20, 20)
	bounds := tiles.BoundsFor(20, 20)
	a := newEnemy(1, entity.Basic, vec.New(150, 150))
	b := newEnemy(2, entity.Basic, vec.New(152, 150))

	n := SeparateEnemies([]*entity.Enemy{a, b}, bounds, SolidTiles(walls))

	assert.Equal(t, 1, n)
	assert.GreaterOrEqual(t, a.Position.DistanceTo(b.Position), 13-1e-9, "(8+8)/2+5")
	assert.InDelta(t, 151, (a.Position.X+b.Position.X)/2, 1e-9, "толчок симметричен")
}

func TestSeparateSkipsCoincident(t *testing.T) {
	a := &entity.Combatant{Position: vec.New(10, 10), Radius: 8}
	b := &entity.Combatant{Position: vec.New(10, 10.05), Radius: 8}
	assert.False(t, SeparatePair(a, b), "совпадающие центры не толкаются")
}

func TestContactDamage(t *testing.T) {
	walls := openRoom(20, 20)
	bounds := tiles.BoundsFor(20, 20)
	solid := SolidTiles(walls)

	p := entity.NewPlayer(vec.New(150, 150))
	e := newEnemy(1, entity.Basic, vec.New(145, 150))
	e.LastContactDamageTime = e.ContactDamageCooldown

	hits := ApplyContactDamage(p, []*entity.Enemy{e}, bounds, solid, solid)

	require.Equal(t, 1, hits)
	assert.Equal(t, 100-e.ContactDamage, p.Health)
	assert.InDelta(t, 175, p.Position.X, 1e-9, "игрок отброшен на 25")
	assert.InDelta(t, 137, e.Position.X, 1e-9, "враг отброшен на 8")
	assert.Equal(t, 0.0, e.LastContactDamageTime)

	p.Position = vec.New(140, 150)
	assert.Equal(t, 0, ApplyContactDamage(p, []*entity.Enemy{e}, bounds, solid, solid), "неуязвимый игрок не получает урон")
}

func TestContactDamageRespectsCooldown(t *testing.T) {
	bounds := tiles.BoundsFor(20, 20)
	solid := SolidTiles(openRoom(20, 20))
	p := entity.NewPlayer(vec.New(150, 150))
	e := newEnemy(1, entity.Basic, vec.New(145, 150))
	e.LastContactDamageTime = 1.0

	assert.Equal(t, 0, ApplyContactDamage(p, []*entity.Enemy{e}, bounds, solid, solid))
	assert.Equal(t, 100, p.Health)
}

func TestPlayerShotConsumedByFirstHit(t *testing.T) {
	r := NewResolver(32)
	a := newEnemy(1, entity.Basic, vec.New(100, 100))
	b := newEnemy(2, entity.Basic, vec.New(104, 100))
	shot := entity.NewProjectile(vec.New(102, 100), 0, 0, 10, 4, false)

	shots, alive, killed := r.PlayerShots([]*entity.Projectile{shot}, []*entity.Enemy{a, b})

	assert.Empty(t, shots)
	assert.Len(t, alive, 2)
	assert.Empty(t, killed)
	assert.Equal(t, 20, a.Health, "попадание в первого по порядку")
	assert.Equal(t, 30, b.Health, "урон не дублируется")
}

func TestPlayerShotsKill(t *testing.T) {
	r := NewResolver(32)
	a := newEnemy(1, entity.Basic, vec.New(100, 100))
	b := newEnemy(2, entity.Basic, vec.New(300, 100))
	shots := []*entity.Projectile{
		entity.NewProjectile(vec.New(100, 100), 0, 0, 20, 4, false),
		entity.NewProjectile(vec.New(100, 100), 0, 0, 20, 4, false),
		entity.NewProjectile(vec.New(100, 100), 0, 0, 20, 4, false),
		entity.NewProjectile(vec.New(500, 500), 0, 0, 20, 4, false),
	}

	left, alive, killed := r.PlayerShots(shots, []*entity.Enemy{a, b})

	require.Len(t, killed, 1)
	assert.Same(t, a, killed[0])
	assert.Equal(t, []*entity.Enemy{b}, alive)
	assert.Len(t, left, 2, "пуля после смерти цели летит дальше")
	assert.Equal(t, 0, a.Health)
}

func TestGridMatchesPairwiseOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var enemies []*entity.Enemy
	for i := 0; i < 40; i++ {
		enemies = append(enemies, newEnemy(uint64(i+1), entity.Archetypes[i%4], vec.New(rng.Float64()*300, rng.Float64()*300)))
	}
	g := NewGrid(32)
	for i, e := range enemies {
		g.Insert(i, e.Position, e.Radius)
	}

	for k := 0; k < 100; k++ {
		p := vec.New(rng.Float64()*300, rng.Float64()*300)
		var expected []int
		for i, e := range enemies {
			if p.DistanceTo(e.Position) < e.Radius+4 {
				expected = append(expected, i)
			}
		}
		var got []int
		for _, idx := range g.Query(p, 4+8, nil) {
			if p.DistanceTo(enemies[idx].Position) < enemies[idx].Radius+4 {
				got = append(got, idx)
			}
		}
		assert.Equal(t, expected, got, "сетка сохраняет порядок полного перебора")
	}
}

func TestGridResetDropsCells(t *testing.T) {
	g := NewGrid(32)
	for i := 0; i < 20; i++ {
		g.Insert(i, vec.New(float64(i)*100, 0), 8)
	}
	assert.NotEmpty(t, g.cells)

	g.Reset()
	assert.Empty(t, g.cells, "после сброса в сетке нет ячеек")
	assert.Empty(t, g.Query(vec.New(500, 0), 16, nil))

	g.Insert(3, vec.New(40, 40), 8)
	assert.Equal(t, []int{3}, g.Query(vec.New(40, 40), 8, nil))
	assert.Len(t, g.cells, 1)
}

func TestEnemyShotsAndWalls(t *testing.T) {
	p := entity.NewPlayer(vec.New(100, 100))
	shots := []*entity.Projectile{
		entity.NewProjectile(vec.New(105, 100), 0, 0, 10, 3, true),
		entity.NewProjectile(vec.New(105, 100), 0, 0, 10, 3, true),
		entity.NewProjectile(vec.New(200, 100), 0, 0, 10, 3, true),
	}

	left, hits := EnemyShots(shots, p)
	assert.Equal(t, 1, hits, "вторая пуля попадает в неуязвимого игрока")
	assert.Len(t, left, 1)
	assert.Equal(t, 90, p.Health)

	walls := tiles.NewSet(tiles.FromWorld(vec.New(200, 100)))
	assert.Empty(t, DropBlocked(left, SolidTiles(walls)))
}

func TestRect(t *testing.T) {
	r := NewRect(0, 144, 16, 32)
	assert.True(t, r.Contains(vec.New(8, 160)))
	assert.False(t, r.Contains(vec.New(16, 160)))
	assert.Equal(t, vec.New(8, 160), r.Center())
	assert.Equal(t, []vec.Vec2{{X: 0, Y: 9}, {X: 0, Y: 10}}, r.Tiles())
	assert.True(t, r.IntersectsCircle(vec.New(20, 160), 5))
	assert.True(t, r.Intersects(NewRect(10, 150, 10, 10)))
}
