package world

import (
	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/physics"
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

// Theme тип испытания комнаты препятствий
type Theme uint8

const (
	ThemeDitches Theme = iota
	ThemeSpikeMaze
	ThemeLava
)

// String возвращает имя темы
func (t Theme) String() string {
	switch t {
	case ThemeDitches:
		return "ditches"
	case ThemeSpikeMaze:
		return "spike_maze"
	case ThemeLava:
		return "lava"
	default:
		return "unknown"
	}
}

// ThemeForLevel выбирает тему по уровню
func ThemeForLevel(level int) Theme {
	switch {
	case level <= 3:
		return ThemeDitches
	case level <= 6:
		return ThemeSpikeMaze
	default:
		return ThemeLava
	}
}

// Урон препятствий
const (
	SpikeDamage         = 20
	LavaDamage          = 15
	hazardEnemyAttempts = 30
)

// HazardRoom комната с провалами, шипами или лавой
type HazardRoom struct {
	*Room

	Theme   Theme
	Ditches tiles.Set
	Spikes  tiles.Set
	Lava    tiles.Set
	Bridges tiles.Set

	// ChallengeComplete выставляется один раз и больше не сбрасывается
	ChallengeComplete bool
}

// NewHazardRoom генерирует комнату препятствий для уровня level
func NewHazardRoom(level int, env *Env) *HazardRoom {
	base := NewEmptyRoom(RoomWidth, RoomHeight, level, env)
	// Внутренность комнаты пустая: пол есть только на платформах и мостах
	base.Floor = tiles.NewSet()

	h := &HazardRoom{
		Room:    base,
		Theme:   ThemeForLevel(level),
		Ditches: tiles.NewSet(),
		Spikes:  tiles.NewSet(),
		Lava:    tiles.NewSet(),
		Bridges: tiles.NewSet(),
	}

	for x := 2; x <= 5; x++ {
		for y := 2; y <= 4; y++ {
			h.Floor.Add(vec.Vec2{X: x, Y: y})
		}
	}
	for x := h.Width - 6; x <= h.Width-3; x++ {
		for y := h.Height - 5; y <= h.Height-3; y++ {
			h.Floor.Add(vec.Vec2{X: x, Y: y})
		}
	}

	switch h.Theme {
	case ThemeDitches:
		h.carveDitches()
	case ThemeSpikeMaze:
		h.carveSpikeMaze()
	default:
		h.carveLava()
	}

	h.spawnGuards()
	return h
}

// Kind возвращает тип комнаты
func (h *HazardRoom) Kind() Kind { return KindHazard }

func (h *HazardRoom) onPlatform(t vec.Vec2) bool {
	start := t.X >= 2 && t.X <= 5 && t.Y >= 2 && t.Y <= 4
	end := t.X >= h.Width-6 && t.X <= h.Width-3 && t.Y >= h.Height-5 && t.Y <= h.Height-3
	return start || end
}

// carveDitches чередует провалы во всю высоту и узкие платформы
func (h *HazardRoom) carveDitches() {
	rng := h.env.RNG
	x := 6
	for x < h.Width-8 {
		width := randInt(rng, 3, 5)
		for dx := x; dx < min(x+width, h.Width-2); dx++ {
			for y := 1; y <= h.Height-2; y++ {
				t := vec.Vec2{X: dx, Y: y}
				if !h.onPlatform(t) {
					h.Ditches.Add(t)
				}
			}
		}

		platformStart := x + width
		platformWidth := randInt(rng, 2, 4)
		for px := platformStart; px < min(platformStart+platformWidth, h.Width-2); px++ {
			for y := 3; y <= h.Height-4; y++ {
				t := vec.Vec2{X: px, Y: y}
				h.Floor.Add(t)
				h.Ditches.Remove(t)
			}
		}
		x = platformStart + platformWidth + 1
	}
}

// carveSpikeMaze решетка пола с периодическими шипами
func (h *HazardRoom) carveSpikeMaze() {
	for x := 2; x <= h.Width-3; x++ {
		for y := 2; y <= h.Height-3; y++ {
			if (x+y)%3 != 0 {
				h.Floor.Add(vec.Vec2{X: x, Y: y})
			}
		}
	}
	for x := 4; x < h.Width-4; x += 3 {
		for y := 4; y < h.Height-4; y += 3 {
			t := vec.Vec2{X: x, Y: y}
			if h.Floor.Has(t) && !h.onPlatform(t) {
				h.Spikes.Add(t)
				h.Floor.Remove(t)
			}
		}
	}
}

// carveLava поле лавы с узкими мостами
func (h *HazardRoom) carveLava() {
	for x := 4; x < h.Width-4; x++ {
		for y := 4; y < h.Height-4; y++ {
			t := vec.Vec2{X: x, Y: y}
			if !h.onPlatform(t) {
				h.Lava.Add(t)
			}
		}
	}
	bridgeY := h.Height / 2
	for x := 6; x < h.Width-6; x += 4 {
		for bx := x; bx < min(x+2, h.Width-2); bx++ {
			t := vec.Vec2{X: bx, Y: bridgeY}
			h.Bridges.Add(t)
			h.Lava.Remove(t)
			h.Floor.Add(t)
		}
	}
}

// spawnGuards 1-2 ослабленных врага в центральном коридоре
func (h *HazardRoom) spawnGuards() {
	level := max(1, h.Level-1)
	corridor := func(t vec.Vec2) bool {
		return t.X >= 6 && t.X < h.Width-6 && !h.onPlatform(t) && !h.isHazard(t)
	}
	count := randInt(h.env.RNG, 1, 2)
	h.SpawnEnemies(count, [4]int{50, 0, 50, 0}, level, hazardEnemyAttempts, corridor)
}

func (h *HazardRoom) isHazard(t vec.Vec2) bool {
	return h.Ditches.Has(t) || h.Spikes.Has(t) || h.Lava.Has(t)
}

// PlayerSolid стены, закрытые двери и, вне переката, тайлы препятствий
func (h *HazardRoom) PlayerSolid(p *entity.Player) physics.SolidFunc {
	if p.Dodge.IsDodging {
		return h.Solid()
	}
	return physics.Or(h.Solid(), h.isHazard)
}

// ApplyHazards наносит урон от тайла под игроком. Провал убивает всех,
// кто не в перекате; шипы и лава не действуют на неуязвимого игрока.
func (h *HazardRoom) ApplyHazards(p *entity.Player) (damage int, fell bool) {
	t := tiles.FromWorld(p.Position)
	if h.Ditches.Has(t) {
		if p.Dodge.IsDodging {
			return 0, false
		}
		p.Kill()
		return 0, true
	}
	if p.Invulnerable || p.Dodge.IsDodging {
		return 0, false
	}
	switch {
	case h.Spikes.Has(t):
		p.TakeDamage(SpikeDamage)
		return SpikeDamage, false
	case h.Lava.Has(t):
		p.TakeDamage(LavaDamage)
		return LavaDamage, false
	}
	return 0, false
}

// InEndZone сообщает, стоит ли игрок на финишной платформе
func (h *HazardRoom) InEndZone(p vec.Vec2Float) bool {
	t := tiles.FromWorld(p)
	return t.X >= h.Width-6 && t.Y >= h.Height-5
}

// Step тик комнаты препятствий
func (h *HazardRoom) Step(dt float64, p *entity.Player, c *entity.Counters) Report {
	rep := h.Update(dt, p)
	rep.Merge(h.resolveCollisions(p, c, h.PlayerSolid(p)))

	rep.HazardDamage, rep.Fell = h.ApplyHazards(p)
	h.ResolvePlayer(p, h.PlayerSolid(p))

	if !h.ChallengeComplete && h.InEndZone(p.Position) && len(h.Enemies) == 0 {
		h.ChallengeComplete = true
		rep.ChallengeComplete = true
	}
	return rep
}
