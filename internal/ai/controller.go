// Package ai управляет поведением врагов: патруль, преследование,
// архетип-зависимые боевые маневры и стрельба.
package ai

import (
	"math"
	"math/rand"

	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/noise"
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

// Target снимок позиции игрока, общий для всех врагов комнаты в течение тика
type Target struct {
	Position vec.Vec2Float
	Velocity vec.Vec2Float
}

// Behavior боевое поведение архетипа при обнаруженном игроке
type Behavior interface {
	Engage(c *Controller, e *entity.Enemy, t Target, dist float64, dt float64)
}

// Controller принимает решения за врагов
type Controller struct {
	rng       *rand.Rand
	field     *noise.Field
	behaviors map[entity.Archetype]Behavior
}

// NewController создает контроллер с таблицей поведений по умолчанию
func NewController(rng *rand.Rand, field *noise.Field) *Controller {
	return &Controller{
		rng:   rng,
		field: field,
		behaviors: map[entity.Archetype]Behavior{
			entity.Basic:      smartChase{},
			entity.Aggressive: smartChase{},
			entity.Sniper:     rangeKeeper{},
			entity.Rusher:     charger{},
		},
	}
}

// SetBehavior заменяет поведение архетипа
func (c *Controller) SetBehavior(a entity.Archetype, b Behavior) {
	c.behaviors[a] = b
}

// Update выполняет один тик ИИ врага: выбор поведения, движение,
// стрельба и особая атака босса. Возвращает выпущенные снаряды.
func (c *Controller) Update(e *entity.Enemy, t Target, walls tiles.Set, dt float64) []*entity.Projectile {
	e.StateTimer += dt
	e.LastContactDamageTime += dt

	dist := e.Position.DistanceTo(t.Position)
	engaged := dist < e.DetectionRange
	if engaged {
		e.SightBlocked = SightBlocked(e.Position, t.Position, walls)
		b, ok := c.behaviors[e.Archetype]
		if !ok {
			b = smartChase{}
		}
		b.Engage(c, e, t, dist, dt)
	} else {
		c.patrol(e)
	}

	e.Integrate(dt)
	e.FireTimer += dt

	var out []*entity.Projectile
	if engaged && !e.SightBlocked && e.FireTimer >= 1.0/e.FireRate {
		e.FireTimer = 0
		angle := e.Position.AngleTo(t.Position)
		out = append(out, entity.NewProjectile(e.Position, angle, e.ProjectileSpeed(), e.ProjectileDamage, entity.EnemyProjectileRadius, true))
	}

	if e.Special != nil {
		e.Special.Timer += dt
		if e.Special.Timer >= e.Special.Cooldown {
			e.Special.Timer = 0
			out = append(out, RadialBurst(e)...)
		}
	}
	return out
}

// Параметры радиального залпа босса
const (
	BurstCount  = 8
	BurstSpeed  = 120.0
	BurstRadius = 4.0
)

// RadialBurst выпускает BurstCount пуль равномерно по кругу
func RadialBurst(e *entity.Enemy) []*entity.Projectile {
	out := make([]*entity.Projectile, 0, BurstCount)
	for i := 0; i < BurstCount; i++ {
		angle := float64(i) / BurstCount * 2 * math.Pi
		out = append(out, entity.NewProjectile(e.Position, angle, BurstSpeed, e.ProjectileDamage, BurstRadius, true))
	}
	return out
}

const (
	patrolSpeedK = 0.3
	patrolReach  = 20.0
	patrolWander = 100
)

func (c *Controller) patrol(e *entity.Enemy) {
	e.SetState(entity.StatePatrol)
	dir := e.PatrolTarget.Sub(e.Position)
	if dir.Length() < patrolReach {
		e.PatrolTarget = e.Position.Add(vec.New(
			float64(c.rng.Intn(2*patrolWander+1)-patrolWander),
			float64(c.rng.Intn(2*patrolWander+1)-patrolWander),
		))
		return
	}
	e.Velocity = dir.Normalized().Mul(e.Speed * patrolSpeedK)
}

// jitter плавное смещение точки прицеливания в пределах ±amp
func (c *Controller) jitter(e *entity.Enemy, amp float64) vec.Vec2Float {
	if c.field == nil {
		return vec.Vec2Float{}
	}
	seed := float64(e.ID) * 7.31
	return vec.New(
		c.field.Signed(seed, e.StateTimer*1.5)*amp,
		c.field.Signed(seed+101.7, e.StateTimer*1.5)*amp,
	)
}
