package entity

import (
	"math/rand"

	"github.com/annel0/gungeon-sim/internal/vec"
)

// Archetype тип врага
type Archetype uint8

const (
	Basic Archetype = iota
	Aggressive
	Sniper
	Rusher
)

// Archetypes порядок архетипов в таблицах весов
var Archetypes = [4]Archetype{Basic, Aggressive, Sniper, Rusher}

// String возвращает имя архетипа
func (a Archetype) String() string {
	switch a {
	case Basic:
		return "basic"
	case Aggressive:
		return "aggressive"
	case Sniper:
		return "sniper"
	case Rusher:
		return "rusher"
	default:
		return "unknown"
	}
}

// ParseArchetype разбирает имя архетипа
func ParseArchetype(name string) (Archetype, bool) {
	for _, a := range Archetypes {
		if a.String() == name {
			return a, true
		}
	}
	return Basic, false
}

// SpecialAttack радиальный залп босса
type SpecialAttack struct {
	Timer    float64
	Cooldown float64
}

// Enemy враг под управлением ИИ
type Enemy struct {
	Combatant

	ID        uint64
	Archetype Archetype

	State          AIState
	StateTimer     float64
	DetectionRange float64
	FireRate       float64
	FireTimer      float64
	SightBlocked   bool
	// ProjectileDamage урон выпускаемой пули
	ProjectileDamage int

	PatrolTarget vec.Vec2Float
	CircleAngle  float64
	// StrafeSign направление стрейфа снайпера (+1 или -1)
	StrafeSign float64

	Special *SpecialAttack
}

type enemyStats struct {
	health, damage, contact int
	speed, fireRate         float64
	detection, radius       float64
}

func baseStats(a Archetype) enemyStats {
	s := enemyStats{health: 30, damage: 8, contact: 12, speed: 60, fireRate: 0.5, detection: 180, radius: 8}
	switch a {
	case Aggressive:
		s.speed, s.fireRate, s.contact, s.damage = 80, 0.8, 18, 10
	case Sniper:
		s.speed, s.fireRate, s.detection, s.damage = 40, 0.3, 250, 15
	case Rusher:
		s.speed, s.fireRate, s.contact, s.radius, s.damage = 100, 0.2, 20, 6, 6
	}
	return s
}

func scaleInt(v int, k float64) int {
	r := int(float64(v) * k)
	if r < 1 {
		return 1
	}
	return r
}

// NewEnemy создает врага архетипа a с характеристиками уровня level
func NewEnemy(id uint64, a Archetype, pos vec.Vec2Float, level int, rng *rand.Rand) *Enemy {
	if level < 1 {
		level = 1
	}
	s := baseStats(a)

	mult := 1 + 0.15*float64(level-1)
	s.health = scaleInt(s.health, mult)
	s.damage = scaleInt(s.damage, mult)
	s.contact = scaleInt(s.contact, mult)
	if level > 3 {
		s.detection = float64(int(s.detection * (1 + 0.1*float64(level-3))))
		s.speed = float64(int(s.speed * (1 + 0.05*float64(level-3))))
	}

	e := &Enemy{
		Combatant: Combatant{
			Position:              pos,
			Radius:                s.radius,
			Health:                s.health,
			MaxHealth:             s.health,
			Speed:                 s.speed,
			ContactDamage:         s.contact,
			ContactDamageCooldown: 2.0,
		},
		ID:               id,
		Archetype:        a,
		State:            StatePatrol,
		DetectionRange:   s.detection,
		FireRate:         s.fireRate,
		ProjectileDamage: s.damage,
		StrafeSign:       1,
	}
	e.PatrolTarget = pos.Add(vec.New(float64(rng.Intn(101)-50), float64(rng.Intn(101)-50)))
	return e
}

// Параметры босса
const (
	BossRadius          = 20.0
	BossSpeed           = 40.0
	BossFireRate        = 2.0
	BossDetection       = 300.0
	BossSpecialCooldown = 5.0
)

// NewBoss создает босса уровня level. Босс ведет себя как basic-враг
// и дополнительно выпускает радиальные залпы.
func NewBoss(id uint64, pos vec.Vec2Float, level int, rng *rand.Rand) *Enemy {
	b := NewEnemy(id, Basic, pos, level, rng)
	b.Radius = BossRadius
	b.MaxHealth = 200 + 50*level
	b.Health = b.MaxHealth
	b.ProjectileDamage = 15 + 3*level
	b.ContactDamage = 25 + 5*level
	b.Speed = BossSpeed
	b.FireRate = BossFireRate
	b.DetectionRange = BossDetection
	b.Special = &SpecialAttack{Cooldown: BossSpecialCooldown}
	return b
}

// IsBoss true для врага с особой атакой
func (e *Enemy) IsBoss() bool {
	return e.Special != nil
}

// TakeDamage наносит урон и возвращает true при гибели
func (e *Enemy) TakeDamage(amount int) bool {
	return e.Damage(amount)
}

// ContactReady сообщает, прошла ли перезарядка контактного урона
func (e *Enemy) ContactReady() bool {
	return e.LastContactDamageTime >= e.ContactDamageCooldown
}

// ResetContact сбрасывает таймер контактного урона
func (e *Enemy) ResetContact() {
	e.LastContactDamageTime = 0
}

// ProjectileSpeed скорость пули для архетипа
func (e *Enemy) ProjectileSpeed() float64 {
	switch e.Archetype {
	case Sniper:
		return 200
	case Aggressive:
		return 160
	default:
		return 150
	}
}
