// Package entity содержит боевые сущности симуляции: игрока, врагов,
// босса, снаряды и оружие.
package entity

import "github.com/annel0/gungeon-sim/internal/vec"

// Combatant общая основа игрока и врагов
type Combatant struct {
	Position  vec.Vec2Float
	Velocity  vec.Vec2Float
	Radius    float64
	Health    int
	MaxHealth int
	Speed     float64

	ContactDamage         int
	ContactDamageCooldown float64
	// LastContactDamageTime время с последнего нанесения контактного урона
	LastContactDamageTime float64
}

// IsAlive возвращает true, пока здоровье больше нуля
func (c *Combatant) IsAlive() bool {
	return c.Health > 0
}

// Damage уменьшает здоровье, не опуская его ниже нуля.
// Возвращает true, если сущность погибла.
func (c *Combatant) Damage(amount int) bool {
	if amount < 0 {
		amount = 0
	}
	c.Health -= amount
	if c.Health < 0 {
		c.Health = 0
	}
	return c.Health == 0
}

// Heal восстанавливает здоровье в пределах максимума
func (c *Combatant) Heal(amount int) {
	c.SetHealth(c.Health + amount)
}

// SetHealth устанавливает здоровье с ограничением [0, MaxHealth]
func (c *Combatant) SetHealth(value int) {
	if value < 0 {
		value = 0
	}
	if value > c.MaxHealth {
		value = c.MaxHealth
	}
	c.Health = value
}

// Integrate сдвигает позицию на velocity*dt
func (c *Combatant) Integrate(dt float64) {
	c.Position = c.Position.Add(c.Velocity.Mul(dt))
}
