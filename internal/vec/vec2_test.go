package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2FloatBasics(t *testing.T) {
	a := New(3, 4)
	assert.Equal(t, 5.0, a.Length(), "длина (3,4) должна быть 5")
	assert.InDelta(t, 1.0, a.Normalized().Length(), 1e-9, "нормализованный вектор должен иметь длину 1")
	assert.Equal(t, Vec2Float{}, Vec2Float{}.Normalized(), "нулевой вектор остается нулевым")
	assert.Equal(t, New(4, 6), a.Add(New(1, 2)))
	assert.Equal(t, New(2, 2), a.Sub(New(1, 2)))
	assert.Equal(t, New(6, 8), a.Mul(2))
	assert.Equal(t, New(-4, 3), a.Perp())
	assert.Equal(t, 5.0, New(0, 0).DistanceTo(a))
}

func TestAngleTo(t *testing.T) {
	origin := New(0, 0)
	assert.InDelta(t, 0, origin.AngleTo(New(10, 0)), 1e-9)
	assert.InDelta(t, math.Pi/2, origin.AngleTo(New(0, 10)), 1e-9)

	dir := FromAngle(origin.AngleTo(New(-5, -5)))
	assert.InDelta(t, -math.Sqrt2/2, dir.X, 1e-9)
	assert.InDelta(t, -math.Sqrt2/2, dir.Y, 1e-9)
}

func TestVec2Tile(t *testing.T) {
	a := Vec2{X: 1, Y: 2}
	assert.Equal(t, Vec2{X: 3, Y: 1}, a.Add(Vec2{X: 2, Y: -1}))
	assert.Equal(t, 4, a.ManhattanTo(Vec2{X: 4, Y: 3}))
	assert.Equal(t, 5.0, Vec2{}.DistanceTo(Vec2{X: 3, Y: 4}))
}
