// Package physics разрешает столкновения: выталкивание из тайлов,
// расталкивание врагов, контактный урон и попадания снарядов.
package physics

import (
	"math"

	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

// Rect прямоугольный коллайдер в мировых координатах
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// NewRect создаёт прямоугольник с левым верхним углом (x, y)
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Center возвращает центр прямоугольника
func (r Rect) Center() vec.Vec2Float {
	return vec.New(r.X+r.Width/2, r.Y+r.Height/2)
}

// Contains проверяет, находится ли точка внутри прямоугольника
func (r Rect) Contains(p vec.Vec2Float) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects проверяет пересечение двух прямоугольников
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// IntersectsCircle проверяет пересечение с окружностью
func (r Rect) IntersectsCircle(c vec.Vec2Float, radius float64) bool {
	nx := math.Max(r.X, math.Min(c.X, r.X+r.Width))
	ny := math.Max(r.Y, math.Min(c.Y, r.Y+r.Height))
	return c.DistanceTo(vec.New(nx, ny)) < radius
}

// Tiles возвращает тайлы, которые занимает прямоугольник
func (r Rect) Tiles() []vec.Vec2 {
	minT := tiles.FromWorld(vec.New(r.X, r.Y))
	maxT := tiles.FromWorld(vec.New(r.X+r.Width-1e-9, r.Y+r.Height-1e-9))
	out := make([]vec.Vec2, 0, (maxT.X-minT.X+1)*(maxT.Y-minT.Y+1))
	for y := minT.Y; y <= maxT.Y; y++ {
		for x := minT.X; x <= maxT.X; x++ {
			out = append(out, vec.Vec2{X: x, Y: y})
		}
	}
	return out
}

// SolidFunc сообщает, является ли тайл непроходимым
type SolidFunc func(t vec.Vec2) bool

// SolidTiles возвращает SolidFunc для множества тайлов
func SolidTiles(set tiles.Set) SolidFunc {
	return set.Has
}

// Or объединяет несколько предикатов
func Or(fns ...SolidFunc) SolidFunc {
	return func(t vec.Vec2) bool {
		for _, f := range fns {
			if f != nil && f(t) {
				return true
			}
		}
		return false
	}
}
