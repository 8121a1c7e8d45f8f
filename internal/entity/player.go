package entity

import (
	"math"
	"math/rand"

	"github.com/annel0/gungeon-sim/internal/vec"
)

// Параметры игрока
const (
	PlayerRadius          = 8.0
	PlayerSpeed           = 120.0
	PlayerMaxHealth       = 100
	DodgeSpeed            = 250.0
	DodgeDuration         = 0.4
	DodgeCooldown         = 1.0
	DamageInvulnerability = 0.6
)

// DodgeState состояние переката
type DodgeState struct {
	IsDodging     bool
	Timer         float64
	CooldownTimer float64
	Direction     vec.Vec2Float
}

// Player управляемый игроком персонаж
type Player struct {
	Combatant

	Armor            int
	Dodge            DodgeState
	Invulnerable     bool
	DamageFlashTimer float64
	FacingAngle      float64
	Money            int

	Guns       []*Gun
	CurrentGun int

	DamageMultiplier float64
	SpeedMultiplier  float64
}

// NewPlayer создает игрока с двумя стартовыми стволами
func NewPlayer(pos vec.Vec2Float) *Player {
	return &Player{
		Combatant: Combatant{
			Position:  pos,
			Radius:    PlayerRadius,
			Health:    PlayerMaxHealth,
			MaxHealth: PlayerMaxHealth,
			Speed:     PlayerSpeed,
		},
		Guns:             []*Gun{NewSidearm(), NewShotgun()},
		DamageMultiplier: 1,
		SpeedMultiplier:  1,
	}
}

// Update продвигает таймеры, перекат и движение на dt.
// move задает направление ввода (не обязательно нормализованное),
// aim точку прицеливания в мировых координатах.
func (p *Player) Update(dt float64, move, aim vec.Vec2Float) {
	p.Dodge.CooldownTimer = math.Max(0, p.Dodge.CooldownTimer-dt)
	p.DamageFlashTimer = math.Max(0, p.DamageFlashTimer-dt)

	if p.DamageFlashTimer <= 0 && p.Invulnerable && !p.Dodge.IsDodging {
		p.Invulnerable = false
	}

	if p.Dodge.IsDodging {
		p.Dodge.Timer += dt
		if p.Dodge.Timer >= DodgeDuration {
			p.Dodge.IsDodging = false
			p.Dodge.Timer = 0
			// Неуязвимость от удара могла наложиться на перекат
			p.Invulnerable = p.DamageFlashTimer > 0
		} else {
			progress := p.Dodge.Timer / DodgeDuration
			p.Velocity = p.Dodge.Direction.Mul(DodgeSpeed * (1 - progress*progress))
		}
	} else {
		p.Velocity = move.Normalized().Mul(p.Speed * p.SpeedMultiplier)
		p.FacingAngle = p.Position.AngleTo(aim)
	}

	p.Integrate(dt)

	for _, g := range p.Guns {
		g.Update(dt)
	}
}

// StartDodge начинает перекат, если он не на перезарядке
func (p *Player) StartDodge() bool {
	if p.Dodge.IsDodging || p.Dodge.CooldownTimer > 0 {
		return false
	}
	p.Dodge.IsDodging = true
	p.Dodge.Timer = 0
	p.Dodge.CooldownTimer = DodgeCooldown
	p.Invulnerable = true

	if !p.Velocity.IsZero() {
		p.Dodge.Direction = p.Velocity.Normalized()
	} else {
		p.Dodge.Direction = vec.FromAngle(p.FacingAngle)
	}
	return true
}

// TakeDamage наносит урон игроку. Броня поглощает одно попадание целиком.
// После попадания игрок на короткое время неуязвим.
// Возвращает false, если игрок неуязвим.
func (p *Player) TakeDamage(amount int) bool {
	if p.Invulnerable {
		return false
	}
	if p.Armor > 0 {
		p.Armor--
	} else {
		p.Damage(amount)
	}
	p.Invulnerable = true
	p.DamageFlashTimer = DamageInvulnerability
	return true
}

// Kill обнуляет здоровье независимо от неуязвимости
func (p *Player) Kill() {
	p.Health = 0
}

// Gun возвращает текущее оружие
func (p *Player) Gun() *Gun {
	return p.Guns[p.CurrentGun]
}

// SwitchWeapon переключает на следующее оружие
func (p *Player) SwitchWeapon() {
	p.CurrentGun = (p.CurrentGun + 1) % len(p.Guns)
}

// Fire стреляет из текущего оружия в направлении взгляда
func (p *Player) Fire(rng *rand.Rand) []*Projectile {
	return p.Gun().Fire(p.Position, p.FacingAngle, p.DamageMultiplier, rng)
}

// AddArmor добавляет броню
func (p *Player) AddArmor(n int) {
	p.Armor += n
}

// ScaleDamage умножает множитель урона
func (p *Player) ScaleDamage(k float64) {
	p.DamageMultiplier *= k
}

// ScaleSpeed умножает множитель скорости
func (p *Player) ScaleSpeed(k float64) {
	p.SpeedMultiplier *= k
}

// AddMaxHealth увеличивает максимум здоровья и лечит на ту же величину
func (p *Player) AddMaxHealth(n int) {
	p.MaxHealth += n
	p.Heal(n)
}

// RefillAmmo пополняет патроны всех стволов с ограниченным боезапасом
func (p *Player) RefillAmmo(n int) {
	for _, g := range p.Guns {
		g.Refill(n)
	}
}
