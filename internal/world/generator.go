package world

import (
	"math/rand"

	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

// Константы генерации
const (
	ObstacleChance    = 0.7 // Вероятность превращения клетки блока в стену
	PlacementAttempts = 100
	MinEnemySpacing   = 32.0
)

// randInt возвращает случайное целое из [lo, hi] включительно
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// buildShell строит периметр стен и заполняет внутренность полом
func (r *Room) buildShell() {
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			t := vec.Vec2{X: x, Y: y}
			if x == 0 || y == 0 || x == r.Width-1 || y == r.Height-1 {
				r.Walls.Add(t)
			} else {
				r.Floor.Add(t)
			}
		}
	}
}

// carveObstacles расставляет блоки 2×2, каждая клетка которых становится
// стеной с вероятностью ObstacleChance
func (r *Room) carveObstacles(rng *rand.Rand) {
	count := randInt(rng, 3, 3+min(r.Level*2, 12))
	for i := 0; i < count; i++ {
		ax := randInt(rng, 2, r.Width-3)
		ay := randInt(rng, 2, r.Height-3)
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				t := vec.Vec2{X: ax + dx, Y: ay + dy}
				if r.Floor.Has(t) && rng.Float64() < ObstacleChance {
					r.Floor.Remove(t)
					r.Walls.Add(t)
				}
			}
		}
	}
}

// PopulationRange возвращает границы числа врагов для уровня
func PopulationRange(level int) (int, int) {
	k := min(level-1, 12)
	if k < 0 {
		k = 0
	}
	return 5 + k/2, 5 + k + 3
}

// WeightsForLevel веса архетипов [basic, aggressive, sniper, rusher] для уровня
func WeightsForLevel(level int) [4]int {
	switch {
	case level <= 2:
		return [4]int{70, 15, 10, 5}
	case level <= 4:
		return [4]int{50, 25, 15, 10}
	case level <= 6:
		return [4]int{35, 30, 20, 15}
	case level <= 8:
		return [4]int{25, 30, 25, 20}
	default:
		return [4]int{15, 35, 25, 25}
	}
}

// PickArchetype выбирает архетип по весам
func PickArchetype(weights [4]int, rng *rand.Rand) entity.Archetype {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return entity.Basic
	}
	roll := rng.Intn(total)
	for i, w := range weights {
		if roll < w {
			return entity.Archetypes[i]
		}
		roll -= w
	}
	return entity.Basic
}

func (r *Room) populate() {
	lo, hi := PopulationRange(r.Level)
	count := randInt(r.env.RNG, lo, hi)
	r.SpawnEnemies(count, WeightsForLevel(r.Level), r.Level, PlacementAttempts, nil)
}

// SpawnEnemies пытается разместить count врагов. Для каждого делается до
// attempts попыток найти тайл пола не ближе MinEnemySpacing к остальным
// врагам; неразмещенные враги пропускаются. allow дополнительно фильтрует
// тайлы (nil разрешает все). Возвращает созданных врагов.
func (r *Room) SpawnEnemies(count int, weights [4]int, level, attempts int, allow func(vec.Vec2) bool) []*entity.Enemy {
	rng := r.env.RNG
	var spawned []*entity.Enemy
	for i := 0; i < count; i++ {
		for a := 0; a < attempts; a++ {
			t := vec.Vec2{X: randInt(rng, 3, r.Width-4), Y: randInt(rng, 3, r.Height-4)}
			if !r.IsFloor(t) || (allow != nil && !allow(t)) {
				continue
			}
			pos := tiles.Center(t)
			if r.tooClose(pos) {
				continue
			}
			e := entity.NewEnemy(r.env.IDs.Next(), PickArchetype(weights, rng), pos, level, rng)
			r.Enemies = append(r.Enemies, e)
			spawned = append(spawned, e)
			break
		}
	}
	if len(r.Enemies) > 0 {
		r.hadEnemies = true
	}
	return spawned
}

func (r *Room) tooClose(pos vec.Vec2Float) bool {
	for _, e := range r.Enemies {
		if e.Position.DistanceTo(pos) < MinEnemySpacing {
			return true
		}
	}
	return false
}
