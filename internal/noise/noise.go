package noise

import (
	"github.com/aquilax/go-perlin"
)

// Field детерминированное поле шума Перлина
type Field struct {
	p *perlin.Perlin
}

// NewField создает поле шума с указанным сидом
func NewField(seed int64) *Field {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Field{p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// At возвращает значение шума для координат в диапазоне от 0 до 1
func (f *Field) At(x, y float64) float64 {
	return (f.Signed(x, y) + 1.0) / 2.0
}

// Signed возвращает значение шума в диапазоне от -1 до 1
func (f *Field) Signed(x, y float64) float64 {
	v := f.p.Noise2D(x, y)
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
