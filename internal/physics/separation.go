package physics

import (
	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/tiles"
)

// SeparationBuffer зазор сверх суммы полурадиусов
const SeparationBuffer = 5.0

// SeparatePair раздвигает два тела на половину проникновения каждое.
// Возвращает true, если толчок был применен.
func SeparatePair(a, b *entity.Combatant) bool {
	minDist := (a.Radius+b.Radius)/2 + SeparationBuffer
	d := a.Position.DistanceTo(b.Position)
	if d >= minDist || d <= MinSeparation {
		return false
	}
	n := a.Position.Sub(b.Position).Normalized()
	half := (minDist - d) / 2
	a.Position = a.Position.Add(n.Mul(half))
	b.Position = b.Position.Sub(n.Mul(half))
	return true
}

// SeparateEnemies обходит все неупорядоченные пары врагов в порядке слайса
// и после каждого толчка заново выталкивает обоих из стен.
func SeparateEnemies(enemies []*entity.Enemy, bounds tiles.Bounds, solid SolidFunc) int {
	pushed := 0
	for i := 0; i < len(enemies); i++ {
		for j := i + 1; j < len(enemies); j++ {
			a, b := &enemies[i].Combatant, &enemies[j].Combatant
			if !SeparatePair(a, b) {
				continue
			}
			pushed++
			a.Position = PushOutOfTiles(a.Position, a.Radius, bounds, solid)
			b.Position = PushOutOfTiles(b.Position, b.Radius, bounds, solid)
		}
	}
	return pushed
}
