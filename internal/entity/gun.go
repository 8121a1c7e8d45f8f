package entity

import (
	"math"
	"math/rand"

	"github.com/annel0/gungeon-sim/internal/vec"
)

const (
	// UnlimitedAmmo обозначает оружие без ограничения патронов
	UnlimitedAmmo = -1
	// MaxAmmo предел пополнения патронов
	MaxAmmo = 99

	shotgunSpread   = 0.4
	accuracySpreadK = 0.3
)

// Gun оружие игрока со своим таймером перезарядки
type Gun struct {
	Name            string
	Damage          int
	FireRate        float64
	ProjectileSpeed float64
	Accuracy        float64
	Ammo            int
	Pellets         int
	FireTimer       float64
}

// NewSidearm стартовый пистолет с бесконечными патронами
func NewSidearm() *Gun {
	return &Gun{Name: "Rusty Sidearm", Damage: 8, FireRate: 3, ProjectileSpeed: 200, Accuracy: 0.9, Ammo: UnlimitedAmmo, Pellets: 1}
}

// NewShotgun дробовик на 5 дробин
func NewShotgun() *Gun {
	return &Gun{Name: "Shotgun", Damage: 12, FireRate: 1.5, ProjectileSpeed: 180, Accuracy: 0.7, Ammo: 50, Pellets: 5}
}

// CanFire проверяет перезарядку и наличие патронов
func (g *Gun) CanFire() bool {
	return g.FireTimer <= 0 && (g.Ammo > 0 || g.Ammo == UnlimitedAmmo)
}

// Update уменьшает таймер перезарядки
func (g *Gun) Update(dt float64) {
	g.FireTimer = math.Max(0, g.FireTimer-dt)
}

// Fire выпускает пули из pos в направлении angle. Урон каждой пули
// умножается на damageMult. Возвращает nil, если выстрел невозможен.
func (g *Gun) Fire(pos vec.Vec2Float, angle, damageMult float64, rng *rand.Rand) []*Projectile {
	if !g.CanFire() {
		return nil
	}
	g.FireTimer = 1.0 / g.FireRate
	if g.Ammo > 0 {
		g.Ammo--
	}

	damage := int(float64(g.Damage) * damageMult)
	if damage < 1 {
		damage = 1
	}

	out := make([]*Projectile, 0, g.Pellets)
	for i := 0; i < g.Pellets; i++ {
		a := angle
		if g.Pellets > 1 {
			a += (float64(i) - float64(g.Pellets-1)/2) * (shotgunSpread / float64(g.Pellets-1))
		} else {
			spread := (1.0 - g.Accuracy) * accuracySpreadK
			a += (rng.Float64()*2 - 1) * spread
		}
		out = append(out, NewProjectile(pos, a, g.ProjectileSpeed, damage, PlayerProjectileRadius, false))
	}
	return out
}

// Refill добавляет патроны оружию с ограниченным боезапасом
func (g *Gun) Refill(amount int) {
	if g.Ammo == UnlimitedAmmo {
		return
	}
	g.Ammo += amount
	if g.Ammo > MaxAmmo {
		g.Ammo = MaxAmmo
	}
}
