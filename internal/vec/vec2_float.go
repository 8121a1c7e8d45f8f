package vec

import "math"

// Vec2Float представляет 2D координаты с плавающей точкой
type Vec2Float struct {
	X, Y float64
}

// New создает вектор из компонент
func New(x, y float64) Vec2Float {
	return Vec2Float{X: x, Y: y}
}

// FromAngle возвращает единичный вектор в направлении angle (радианы)
func FromAngle(angle float64) Vec2Float {
	return Vec2Float{X: math.Cos(angle), Y: math.Sin(angle)}
}

// FromVec2 создает Vec2Float из Vec2
func FromVec2(v Vec2) Vec2Float {
	return Vec2Float{X: float64(v.X), Y: float64(v.Y)}
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2Float) Sub(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul умножает вектор на скаляр
func (v Vec2Float) Mul(scalar float64) Vec2Float {
	return Vec2Float{X: v.X * scalar, Y: v.Y * scalar}
}

// Neg возвращает противоположный вектор
func (v Vec2Float) Neg() Vec2Float {
	return Vec2Float{X: -v.X, Y: -v.Y}
}

// Perp возвращает вектор, повернутый на 90° против часовой стрелки
func (v Vec2Float) Perp() Vec2Float {
	return Vec2Float{X: -v.Y, Y: v.X}
}

// Normalized возвращает нормализованный вектор. Нулевой вектор остается нулевым.
func (v Vec2Float) Normalized() Vec2Float {
	length := v.Length()
	if length == 0 {
		return Vec2Float{X: 0, Y: 0}
	}
	return Vec2Float{X: v.X / length, Y: v.Y / length}
}

// Length возвращает длину вектора
func (v Vec2Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// IsZero сообщает, является ли вектор нулевым
func (v Vec2Float) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2Float) DistanceTo(other Vec2Float) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// AngleTo возвращает угол (atan2) направления на другую точку
func (v Vec2Float) AngleTo(other Vec2Float) float64 {
	return math.Atan2(other.Y-v.Y, other.X-v.X)
}
