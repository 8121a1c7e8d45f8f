// Package world описывает комнаты подземелья: генерацию тайлов,
// заселение врагами, тик симуляции и двери между комнатами.
package world

import (
	"math/rand"

	"github.com/annel0/gungeon-sim/internal/ai"
	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/noise"
	"github.com/annel0/gungeon-sim/internal/physics"
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

// Размеры комнат в тайлах
const (
	RoomWidth  = 25
	RoomHeight = 20
)

// Env общие для уровня генератор случайных чисел, ИИ и источник ID
type Env struct {
	RNG *rand.Rand
	AI  *ai.Controller
	IDs *entity.IDSource
}

// NewEnv создает окружение с детерминированным сидом
func NewEnv(seed int64) *Env {
	rng := rand.New(rand.NewSource(seed))
	return &Env{
		RNG: rng,
		AI:  ai.NewController(rng, noise.NewField(seed)),
		IDs: &entity.IDSource{},
	}
}

// Room боевая комната
type Room struct {
	Width, Height int
	Level         int

	Floor tiles.Set
	Walls tiles.Set

	Enemies           []*entity.Enemy
	PlayerProjectiles []*entity.Projectile
	EnemyProjectiles  []*entity.Projectile

	// Cleared выставляется один раз, когда комната впервые опустела
	Cleared bool

	Doors []*Door

	env        *Env
	resolver   *physics.Resolver
	hadEnemies bool
}

// NewEmptyRoom создает комнату с периметром стен и полом внутри, без препятствий и врагов
func NewEmptyRoom(width, height, level int, env *Env) *Room {
	r := &Room{
		Width:    width,
		Height:   height,
		Level:    level,
		Floor:    tiles.NewSet(),
		Walls:    tiles.NewSet(),
		env:      env,
		resolver: physics.NewResolver(2 * tiles.Size),
	}
	r.buildShell()
	return r
}

// NewRoom генерирует комнату с препятствиями и заселяет ее врагами уровня level
func NewRoom(width, height, level int, env *Env) *Room {
	r := NewEmptyRoom(width, height, level, env)
	r.carveObstacles(env.RNG)
	r.populate()
	return r
}

// Base возвращает саму комнату
func (r *Room) Base() *Room { return r }

// Kind возвращает тип комнаты
func (r *Room) Kind() Kind { return KindCombat }

// Bounds возвращает границы комнаты в мировых координатах
func (r *Room) Bounds() tiles.Bounds {
	return tiles.BoundsFor(r.Width, r.Height)
}

// Solid стены и закрытые двери
func (r *Room) Solid() physics.SolidFunc {
	return func(t vec.Vec2) bool {
		if r.Walls.Has(t) {
			return true
		}
		for _, d := range r.Doors {
			if d.Blocks(t) {
				return true
			}
		}
		return false
	}
}

// AttachDoor встраивает дверь в стену: тайлы проема и соседние
// внутренние тайлы становятся полом
func (r *Room) AttachDoor(d *Door) {
	r.Doors = append(r.Doors, d)
	for _, t := range d.Tiles() {
		r.makeFloor(t)
		inner := t
		switch {
		case t.X == 0:
			inner.X = 1
		case t.X == r.Width-1:
			inner.X = r.Width - 2
		case t.Y == 0:
			inner.Y = 1
		case t.Y == r.Height-1:
			inner.Y = r.Height - 2
		}
		r.makeFloor(inner)
	}
}

func (r *Room) makeFloor(t vec.Vec2) {
	r.Walls.Remove(t)
	r.Floor.Add(t)
}

// AddPlayerProjectiles добавляет пули игрока
func (r *Room) AddPlayerProjectiles(ps ...*entity.Projectile) {
	r.PlayerProjectiles = append(r.PlayerProjectiles, ps...)
}

// Update продвигает ИИ, движение врагов и снарядов на dt.
// Все враги видят одну и ту же позицию игрока.
func (r *Room) Update(dt float64, p *entity.Player) Report {
	var rep Report
	bounds := r.Bounds()
	solid := r.Solid()
	target := ai.Target{Position: p.Position, Velocity: p.Velocity}

	for _, e := range r.Enemies {
		shots := r.env.AI.Update(e, target, r.Walls, dt)
		rep.Fired += len(shots)
		r.EnemyProjectiles = append(r.EnemyProjectiles, shots...)
		e.Position = physics.PushOutOfTiles(e.Position, e.Radius, bounds, solid)
	}
	physics.SeparateEnemies(r.Enemies, bounds, solid)

	r.PlayerProjectiles = physics.AdvanceProjectiles(r.PlayerProjectiles, dt)
	r.EnemyProjectiles = physics.AdvanceProjectiles(r.EnemyProjectiles, dt)

	rep.RoomCleared = r.refreshCleared()
	return rep
}

// ResolveCollisions разрешает попадания, контактный урон и пули в стенах
func (r *Room) ResolveCollisions(p *entity.Player, c *entity.Counters) Report {
	return r.resolveCollisions(p, c, r.Solid())
}

func (r *Room) resolveCollisions(p *entity.Player, c *entity.Counters, playerSolid physics.SolidFunc) Report {
	var rep Report
	bounds := r.Bounds()
	solid := r.Solid()

	var killed []*entity.Enemy
	r.PlayerProjectiles, r.Enemies, killed = r.resolver.PlayerShots(r.PlayerProjectiles, r.Enemies)
	for _, e := range killed {
		reward := randInt(r.env.RNG, 2, 8)
		p.Money += reward
		c.RecordKill(reward)
		rep.Reward += reward
		rep.Killed = append(rep.Killed, Kill{Enemy: e, Reward: reward})
	}

	r.EnemyProjectiles, rep.PlayerHits = physics.EnemyShots(r.EnemyProjectiles, p)
	rep.ContactHits = physics.ApplyContactDamage(p, r.Enemies, bounds, playerSolid, solid)

	r.PlayerProjectiles = physics.DropBlocked(r.PlayerProjectiles, solid)
	r.EnemyProjectiles = physics.DropBlocked(r.EnemyProjectiles, solid)

	rep.RoomCleared = r.refreshCleared()
	return rep
}

// ResolvePlayer выталкивает игрока из непроходимых тайлов
func (r *Room) ResolvePlayer(p *entity.Player, solid physics.SolidFunc) {
	p.Position = physics.PushOutOfTiles(p.Position, p.Radius, r.Bounds(), solid)
}

// Step полный тик комнаты: ИИ, движение, столкновения и выталкивание игрока
func (r *Room) Step(dt float64, p *entity.Player, c *entity.Counters) Report {
	rep := r.Update(dt, p)
	rep.Merge(r.ResolveCollisions(p, c))
	r.ResolvePlayer(p, r.Solid())
	return rep
}

// IsCleared сообщает, была ли комната зачищена
func (r *Room) IsCleared() bool {
	return r.Cleared
}

// refreshCleared выставляет Cleared при первом опустении комнаты
func (r *Room) refreshCleared() bool {
	if len(r.Enemies) > 0 {
		r.hadEnemies = true
		return false
	}
	if r.hadEnemies && !r.Cleared {
		r.Cleared = true
		return true
	}
	return false
}

// IsFloor сообщает, можно ли стоять на тайле
func (r *Room) IsFloor(t vec.Vec2) bool {
	return r.Floor.Has(t) && !r.Walls.Has(t)
}

// NearestFloor возвращает pos, если она на полу, иначе центр ближайшего тайла пола
func (r *Room) NearestFloor(pos vec.Vec2Float) vec.Vec2Float {
	if r.IsFloor(tiles.FromWorld(pos)) {
		return pos
	}
	best := pos
	bestDist := -1.0
	for _, t := range r.Floor.Sorted() {
		if r.Walls.Has(t) {
			continue
		}
		c := tiles.Center(t)
		if d := c.DistanceTo(pos); bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Env возвращает окружение комнаты
func (r *Room) Env() *Env {
	return r.env
}
