package physics

import (
	"math"

	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

const (
	// Epsilon допуск сравнения расстояний
	Epsilon = 1e-6
	// MinSeparation расстояние, ниже которого направление толчка не определено
	MinSeparation = 0.1

	maxPushPasses = 64
)

// escapeOrder порядок соседей при выходе из точного центра тайла
var escapeOrder = [...]vec.Vec2{
	{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1},
}

// PushOutOfTiles выталкивает окружность радиуса radius из непроходимых
// тайлов и зажимает ее в границы комнаты. Повторный вызов на результате
// ничего не меняет, если конфигурация разрешима.
func PushOutOfTiles(pos vec.Vec2Float, radius float64, bounds tiles.Bounds, solid SolidFunc) vec.Vec2Float {
	required := radius + tiles.Size/2
	reach := int(math.Ceil(required / tiles.Size))
	if reach < 1 {
		reach = 1
	}

	pos = bounds.Clamp(pos, radius)
	for pass := 0; pass < maxPushPasses; pass++ {
		center := tiles.FromWorld(pos)

		var push vec.Vec2Float
		hits := 0
		var stuck *vec.Vec2

		for dy := -reach; dy <= reach; dy++ {
			for dx := -reach; dx <= reach; dx++ {
				t := vec.Vec2{X: center.X + dx, Y: center.Y + dy}
				if !solid(t) {
					continue
				}
				c := tiles.Center(t)
				d := pos.DistanceTo(c)
				if d >= required-Epsilon {
					continue
				}
				if d <= MinSeparation {
					tt := t
					stuck = &tt
					continue
				}
				hits++
				push = push.Add(pos.Sub(c).Normalized().Mul(required - d))
			}
		}

		switch {
		case hits > 0:
			pos = pos.Add(push.Mul(1 / float64(hits)))
		case stuck != nil:
			pos = escape(*stuck, required, solid)
		default:
			return pos
		}
		pos = bounds.Clamp(pos, radius)
	}
	return pos
}

// escape выводит точку из центра тайла t к первому свободному соседу
func escape(t vec.Vec2, required float64, solid SolidFunc) vec.Vec2Float {
	c := tiles.Center(t)
	for _, d := range escapeOrder {
		if solid(t.Add(d)) {
			continue
		}
		return c.Add(vec.FromVec2(d).Normalized().Mul(required))
	}
	return c.Add(vec.New(required, 0))
}
