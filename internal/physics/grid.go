package physics

import (
	"math"
	"sort"

	"github.com/annel0/gungeon-sim/internal/vec"
)

// Grid равномерная сетка для быстрого поиска кандидатов на столкновение.
// Хранит индексы объектов и возвращает их по возрастанию, поэтому порядок
// обработки совпадает с порядком полного перебора.
type Grid struct {
	cellSize float64
	cells    map[cellKey][]int
	seen     map[int]struct{}
}

type cellKey struct {
	x, y int
}

// NewGrid создаёт сетку с указанным размером ячейки
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 32
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
		seen:     make(map[int]struct{}),
	}
}

// Reset очищает сетку. Ячейки удаляются целиком, карта не растет от тика к тику.
func (g *Grid) Reset() {
	clear(g.cells)
}

func (g *Grid) span(pos vec.Vec2Float, radius float64) (cellKey, cellKey) {
	return cellKey{
			x: int(math.Floor((pos.X - radius) / g.cellSize)),
			y: int(math.Floor((pos.Y - radius) / g.cellSize)),
		}, cellKey{
			x: int(math.Floor((pos.X + radius) / g.cellSize)),
			y: int(math.Floor((pos.Y + radius) / g.cellSize)),
		}
}

// Insert добавляет объект idx во все ячейки, которые покрывает его окружность
func (g *Grid) Insert(idx int, pos vec.Vec2Float, radius float64) {
	lo, hi := g.span(pos, radius)
	for y := lo.y; y <= hi.y; y++ {
		for x := lo.x; x <= hi.x; x++ {
			k := cellKey{x, y}
			g.cells[k] = append(g.cells[k], idx)
		}
	}
}

// Query добавляет в out индексы объектов, чьи ячейки пересекают окружность,
// без повторов и по возрастанию
func (g *Grid) Query(pos vec.Vec2Float, radius float64, out []int) []int {
	clear(g.seen)
	start := len(out)
	lo, hi := g.span(pos, radius)
	for y := lo.y; y <= hi.y; y++ {
		for x := lo.x; x <= hi.x; x++ {
			for _, idx := range g.cells[cellKey{x, y}] {
				if _, dup := g.seen[idx]; dup {
					continue
				}
				g.seen[idx] = struct{}{}
				out = append(out, idx)
			}
		}
	}
	sort.Ints(out[start:])
	return out
}
