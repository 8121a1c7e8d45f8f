package entity

import "github.com/annel0/gungeon-sim/internal/vec"

const (
	// DefaultProjectileLifetime время жизни снаряда в секундах
	DefaultProjectileLifetime = 5.0
	// PlayerProjectileRadius радиус пули игрока
	PlayerProjectileRadius = 4.0
	// EnemyProjectileRadius радиус обычной вражеской пули
	EnemyProjectileRadius = 3.0
)

// Projectile летящая пуля
type Projectile struct {
	Position vec.Vec2Float
	Velocity vec.Vec2Float
	Damage   int
	Radius   float64
	Age      float64
	Lifetime float64
	// Hostile true для пуль врагов
	Hostile bool
}

// NewProjectile создает снаряд, летящий под углом angle со скоростью speed
func NewProjectile(pos vec.Vec2Float, angle, speed float64, damage int, radius float64, hostile bool) *Projectile {
	return &Projectile{
		Position: pos,
		Velocity: vec.FromAngle(angle).Mul(speed),
		Damage:   damage,
		Radius:   radius,
		Lifetime: DefaultProjectileLifetime,
		Hostile:  hostile,
	}
}

// Update двигает снаряд и возвращает false, когда срок жизни истек
func (p *Projectile) Update(dt float64) bool {
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
	p.Age += dt
	return p.Age < p.Lifetime
}
