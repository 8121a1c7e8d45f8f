package world

import (
	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

// Параметры стартовой комнаты
const (
	SpawnRoomWidth     = 15
	SpawnRoomHeight    = 12
	SpawnDoorProximity = 40.0
	TeleporterRadius   = 25.0
)

// Точки стартовой комнаты
var (
	SpawnStart      = vec.New(120, 96)
	SpawnReturn     = vec.New(160, 120)
	TeleporterPoint = vec.New(120, 96)
)

// SpawnRoom безопасная стартовая комната с дверью в подземелье и телепортом
type SpawnRoom struct {
	*Room

	Door *Door
}

// NewSpawnRoom строит стартовую комнату с дверью по центру нижней стены
func NewSpawnRoom(env *Env) *SpawnRoom {
	base := NewEmptyRoom(SpawnRoomWidth, SpawnRoomHeight, 0, env)
	pos := tiles.Origin(vec.Vec2{X: base.Width/2 - 1, Y: base.Height - 1})
	door := NewDoor("spawn_exit", "spawn", pos, Horizontal)
	door.Proximity = SpawnDoorProximity
	base.AttachDoor(door)
	return &SpawnRoom{Room: base, Door: door}
}

// Kind возвращает тип комнаты
func (s *SpawnRoom) Kind() Kind { return KindSpawn }

// Step двигает дверь и выталкивает игрока из стен. Врагов в комнате нет.
func (s *SpawnRoom) Step(dt float64, p *entity.Player, _ *entity.Counters) Report {
	s.Door.Update(dt, p.Position)
	s.ResolvePlayer(p, s.Solid())
	return Report{}
}

// ExitReached сообщает, что игрок прошел в открытую дверь
func (s *SpawnRoom) ExitReached(p *entity.Player) bool {
	return s.Door.Passed(p.Position)
}

// TeleporterTouched сообщает, что игрок стоит на телепорте
func (s *SpawnRoom) TeleporterTouched(p *entity.Player) bool {
	return p.Position.DistanceTo(TeleporterPoint) < TeleporterRadius
}
