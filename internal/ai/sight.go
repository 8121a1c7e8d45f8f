package ai

import (
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

// SightStep шаг выборки луча видимости
const SightStep = 8.0

// SightBlocked проверяет, перекрыта ли прямая от from до to стеной.
// Расстояние меньше одного шага всегда считается открытым.
func SightBlocked(from, to vec.Vec2Float, walls tiles.Set) bool {
	dir := to.Sub(from)
	dist := dir.Length()
	if dist < SightStep {
		return false
	}
	steps := int(dist / SightStep)
	step := dir.Mul(1.0 / float64(steps))

	p := from
	for i := 0; i < steps; i++ {
		p = p.Add(step)
		if walls.Has(tiles.FromWorld(p)) {
			return true
		}
	}
	return false
}
