package physics

import (
	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/tiles"
)

// Отбрасывание при контактном уроне
const (
	PlayerKnockback = 25.0
	EnemyKnockback  = 8.0
)

// ApplyContactDamage наносит игроку контактный урон от касающихся врагов.
// Неуязвимый игрок не получает урона и не отбрасывается.
// Возвращает число нанесенных ударов.
func ApplyContactDamage(p *entity.Player, enemies []*entity.Enemy, bounds tiles.Bounds, playerSolid, enemySolid SolidFunc) int {
	hits := 0
	for _, e := range enemies {
		if p.Invulnerable {
			break
		}
		d := e.Position.DistanceTo(p.Position)
		if d >= (e.Radius+p.Radius)/2 || d <= MinSeparation || !e.ContactReady() {
			continue
		}

		dir := p.Position.Sub(e.Position).Normalized()
		p.TakeDamage(e.ContactDamage)
		e.ResetContact()
		hits++

		p.Position = PushOutOfTiles(p.Position.Add(dir.Mul(PlayerKnockback)), p.Radius, bounds, playerSolid)
		e.Position = PushOutOfTiles(e.Position.Sub(dir.Mul(EnemyKnockback)), e.Radius, bounds, enemySolid)
	}
	return hits
}
