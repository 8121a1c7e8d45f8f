package tiles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/annel0/gungeon-sim/internal/vec"
)

func TestWorldTileConversion(t *testing.T) {
	assert.Equal(t, vec.Vec2{X: 5, Y: 5}, FromWorld(vec.New(88, 88)))
	assert.Equal(t, vec.Vec2{X: -1, Y: 0}, FromWorld(vec.New(-0.5, 3)), "отрицательные координаты округляются вниз")
	assert.Equal(t, vec.New(88, 88), Center(vec.Vec2{X: 5, Y: 5}))
	assert.Equal(t, vec.New(80, 80), Origin(vec.Vec2{X: 5, Y: 5}))
}

func TestSetSortedDeterministic(t *testing.T) {
	s := NewSet(vec.Vec2{X: 2, Y: 1}, vec.Vec2{X: 1, Y: 1}, vec.Vec2{X: 0, Y: 0})
	assert.Equal(t, []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}}, s.Sorted())
	assert.True(t, s.Has(vec.Vec2{X: 1, Y: 1}))
	s.Remove(vec.Vec2{X: 1, Y: 1})
	assert.False(t, s.Has(vec.Vec2{X: 1, Y: 1}))
}

func TestBoundsClamp(t *testing.T) {
	b := BoundsFor(10, 10)
	assert.Equal(t, vec.New(8, 152), b.Clamp(vec.New(-5, 500), 8))
}
