// Package tiles описывает тайловую сетку комнаты: множества тайлов и
// преобразования между мировыми и тайловыми координатами.
package tiles

import (
	"math"
	"sort"

	"github.com/annel0/gungeon-sim/internal/vec"
)

// Size размер тайла в мировых единицах
const Size = 16

// Set множество тайлов
type Set map[vec.Vec2]struct{}

// NewSet создает множество из перечисленных тайлов
func NewSet(items ...vec.Vec2) Set {
	s := make(Set, len(items))
	for _, t := range items {
		s[t] = struct{}{}
	}
	return s
}

// Add добавляет тайл
func (s Set) Add(t vec.Vec2) { s[t] = struct{}{} }

// Remove удаляет тайл
func (s Set) Remove(t vec.Vec2) { delete(s, t) }

// Has проверяет наличие тайла
func (s Set) Has(t vec.Vec2) bool {
	_, ok := s[t]
	return ok
}

// Sorted возвращает тайлы в детерминированном порядке (по Y, затем по X)
func (s Set) Sorted() []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// FromWorld возвращает тайл, содержащий мировую точку
func FromWorld(p vec.Vec2Float) vec.Vec2 {
	return vec.Vec2{X: int(math.Floor(p.X / Size)), Y: int(math.Floor(p.Y / Size))}
}

// Origin возвращает мировую позицию левого верхнего угла тайла
func Origin(t vec.Vec2) vec.Vec2Float {
	return vec.Vec2Float{X: float64(t.X * Size), Y: float64(t.Y * Size)}
}

// Center возвращает мировую позицию центра тайла
func Center(t vec.Vec2) vec.Vec2Float {
	return vec.Vec2Float{X: float64(t.X*Size) + Size/2, Y: float64(t.Y*Size) + Size/2}
}

// Bounds прямоугольник комнаты в мировых координатах
type Bounds struct {
	Width, Height float64
}

// BoundsFor возвращает границы комнаты размером w×h тайлов
func BoundsFor(w, h int) Bounds {
	return Bounds{Width: float64(w * Size), Height: float64(h * Size)}
}

// Clamp зажимает позицию внутрь границ с отступом margin
func (b Bounds) Clamp(p vec.Vec2Float, margin float64) vec.Vec2Float {
	return vec.Vec2Float{
		X: clamp(p.X, margin, b.Width-margin),
		Y: clamp(p.Y, margin, b.Height-margin),
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
