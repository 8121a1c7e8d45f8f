package level

import (
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
	"github.com/annel0/gungeon-sim/internal/world"
)

// Идентификаторы особых комнат
const (
	SpawnRoomID  world.RoomID = "spawn"
	FirstRoomID  world.RoomID = "room_1"
	HazardRoomID world.RoomID = "hazard_room"
	BossRoomID   world.RoomID = "boss_room"
)

// Link ребро графа комнат: дверь в текущей комнате и комната за ней
type Link struct {
	Door     world.DoorID
	Neighbor world.RoomID
}

// TotalRoomsForLevel число комнат без босса, которые нужно пройти
func TotalRoomsForLevel(level int) int {
	switch {
	case level <= 1:
		return 3
	case level == 2:
		return 4
	case level == 3:
		return 5
	default:
		return 6
	}
}

// Layout порядок комнат уровня с запада на восток
func Layout(level int) []world.RoomID {
	switch {
	case level <= 1:
		return []world.RoomID{"room_1", "room_2", HazardRoomID, BossRoomID}
	case level == 2:
		return []world.RoomID{"room_1", "room_2", "room_3", HazardRoomID, BossRoomID}
	case level == 3:
		return []world.RoomID{"room_1", "room_2", "room_3", HazardRoomID, "room_4", BossRoomID}
	default:
		return []world.RoomID{"room_1", "room_2", "room_3", HazardRoomID, "room_4", "room_5", BossRoomID}
	}
}

// doorID имя двери из комнаты from в комнату to
func doorID(from, to world.RoomID) world.DoorID {
	return world.DoorID(string(from) + "->" + string(to))
}

// eastDoor дверь в правой стене комнаты по центру высоты
func eastDoor(r *world.Room, from, to world.RoomID) *world.Door {
	pos := tiles.Origin(vec.Vec2{X: r.Width - 1, Y: r.Height/2 - 1})
	return world.NewDoor(doorID(from, to), from, pos, world.Vertical)
}

// westDoor дверь в левой стене комнаты по центру высоты
func westDoor(r *world.Room, from, to world.RoomID) *world.Door {
	pos := tiles.Origin(vec.Vec2{X: 0, Y: r.Height/2 - 1})
	return world.NewDoor(doorID(from, to), from, pos, world.Vertical)
}

// EntryPoint точка появления игрока при входе в комнату
func EntryPoint(id world.RoomID) vec.Vec2Float {
	switch id {
	case BossRoomID:
		return vec.New(240, 320)
	case HazardRoomID:
		return vec.New(64, 48)
	default:
		return vec.New(200, 200)
	}
}
