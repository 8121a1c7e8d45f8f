package world

import (
	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

// Размеры комнаты босса
const (
	BossRoomWidth  = 30
	BossRoomHeight = 25
)

// BossPhase фаза комнаты босса
type BossPhase uint8

const (
	// BossUnpopulated босс еще не вызван
	BossUnpopulated BossPhase = iota
	// BossActive босс вызван
	BossActive
)

// BossRoom комната босса. Босс появляется только по явному вызову
// TriggerBossSpawn, а не при создании комнаты.
type BossRoom struct {
	*Room

	Boss     *entity.Enemy
	Phase    BossPhase
	defeated bool
}

// NewBossRoom создает пустую комнату босса с препятствиями
func NewBossRoom(level int, env *Env) *BossRoom {
	base := NewEmptyRoom(BossRoomWidth, BossRoomHeight, level, env)
	base.carveObstacles(env.RNG)
	return &BossRoom{Room: base}
}

// Kind возвращает тип комнаты
func (b *BossRoom) Kind() Kind { return KindBoss }

// BossSpawned сообщает, был ли вызван босс
func (b *BossRoom) BossSpawned() bool {
	return b.Phase == BossActive
}

// TriggerBossSpawn очищает комнату и ставит босса в центр.
// Повторные вызовы ничего не делают. Возвращает true при появлении босса.
func (b *BossRoom) TriggerBossSpawn() bool {
	if b.Phase != BossUnpopulated {
		return false
	}
	b.Enemies = b.Enemies[:0]
	center := vec.New(float64(b.Width/2*tiles.Size), float64(b.Height/2*tiles.Size))
	b.Boss = entity.NewBoss(b.env.IDs.Next(), b.NearestFloor(center), b.Level, b.env.RNG)
	b.Enemies = append(b.Enemies, b.Boss)
	b.hadEnemies = true
	b.Phase = BossActive
	return true
}

// Defeated сообщает, что босс был вызван и убит
func (b *BossRoom) Defeated() bool {
	return b.defeated
}

// Step тик комнаты босса
func (b *BossRoom) Step(dt float64, p *entity.Player, c *entity.Counters) Report {
	rep := b.Room.Step(dt, p, c)
	if b.Phase == BossActive && !b.defeated && !b.Boss.IsAlive() {
		b.defeated = true
		rep.BossDefeated = true
	}
	return rep
}
