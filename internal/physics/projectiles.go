package physics

import (
	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/tiles"
)

// Resolver разрешает попадания снарядов. Переиспользует сетку между тиками.
type Resolver struct {
	grid       *Grid
	candidates []int
}

// NewResolver создает резолвер с ячейкой cellSize
func NewResolver(cellSize float64) *Resolver {
	return &Resolver{grid: NewGrid(cellSize)}
}

// PlayerShots проверяет пули игрока против врагов. Каждая пуля поглощается
// первым попаданием; кандидаты перебираются в порядке слайса врагов.
// Возвращает оставшиеся пули, выживших врагов и убитых врагов.
func (r *Resolver) PlayerShots(shots []*entity.Projectile, enemies []*entity.Enemy) ([]*entity.Projectile, []*entity.Enemy, []*entity.Enemy) {
	if len(shots) == 0 || len(enemies) == 0 {
		return shots, enemies, nil
	}

	r.grid.Reset()
	maxRadius := 0.0
	for i, e := range enemies {
		r.grid.Insert(i, e.Position, e.Radius)
		if e.Radius > maxRadius {
			maxRadius = e.Radius
		}
	}

	keptShots := shots[:0]
	for _, s := range shots {
		hit := false
		r.candidates = r.grid.Query(s.Position, s.Radius+maxRadius, r.candidates[:0])
		for _, idx := range r.candidates {
			e := enemies[idx]
			if !e.IsAlive() {
				continue
			}
			if s.Position.DistanceTo(e.Position) < e.Radius+s.Radius {
				e.TakeDamage(s.Damage)
				hit = true
				break
			}
		}
		if !hit {
			keptShots = append(keptShots, s)
		}
	}

	var killed []*entity.Enemy
	alive := enemies[:0]
	for _, e := range enemies {
		if e.IsAlive() {
			alive = append(alive, e)
		} else {
			killed = append(killed, e)
		}
	}
	clearTail(shots, len(keptShots))
	return keptShots, alive, killed
}

// EnemyShots проверяет вражеские пули против игрока. Пуля исчезает при
// касании, даже если игрок неуязвим. Возвращает оставшиеся пули и число попаданий.
func EnemyShots(shots []*entity.Projectile, p *entity.Player) ([]*entity.Projectile, int) {
	kept := shots[:0]
	hits := 0
	for _, s := range shots {
		if s.Position.DistanceTo(p.Position) < p.Radius+s.Radius {
			if p.TakeDamage(s.Damage) {
				hits++
			}
			continue
		}
		kept = append(kept, s)
	}
	clearTail(shots, len(kept))
	return kept, hits
}

// DropBlocked удаляет снаряды, находящиеся в непроходимом тайле
func DropBlocked(shots []*entity.Projectile, solid SolidFunc) []*entity.Projectile {
	kept := shots[:0]
	for _, s := range shots {
		if solid(tiles.FromWorld(s.Position)) {
			continue
		}
		kept = append(kept, s)
	}
	clearTail(shots, len(kept))
	return kept
}

// AdvanceProjectiles двигает снаряды и удаляет отжившие
func AdvanceProjectiles(shots []*entity.Projectile, dt float64) []*entity.Projectile {
	kept := shots[:0]
	for _, s := range shots {
		if s.Update(dt) {
			kept = append(kept, s)
		}
	}
	clearTail(shots, len(kept))
	return kept
}

func clearTail(s []*entity.Projectile, n int) {
	for i := n; i < len(s); i++ {
		s[i] = nil
	}
}
