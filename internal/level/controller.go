// Package level связывает комнаты уровня в граф с дверями, управляет
// волнами врагов, переходами между комнатами и телепортом к боссу.
package level

import (
	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/logging"
	"github.com/annel0/gungeon-sim/internal/vec"
	"github.com/annel0/gungeon-sim/internal/world"
)

// Result итог тика уровня
type Result struct {
	world.Report

	// Room комната, в которой прошел тик
	Room world.RoomID
	Kind world.Kind
	// Wave события волн боевой комнаты
	Wave WaveEvent
	// Cleared комната впервые засчитана пройденной
	Cleared bool
	// Entered комната, в которую игрок перешел через дверь
	Entered world.RoomID
	// ExitToSpawn игрок ушел через дверь в стартовую комнату
	ExitToSpawn bool
	// TeleporterActivated телепорт к боссу открылся на этом тике
	TeleporterActivated bool
}

// Controller граф комнат одного уровня
type Controller struct {
	Level            int
	Rooms            map[world.RoomID]world.Chamber
	Connections      map[world.RoomID][]Link
	Doors            map[world.DoorID]*world.Door
	Waves            map[world.RoomID]*WaveDirector
	CurrentRoomID    world.RoomID
	RoomsCleared     map[world.RoomID]struct{}
	TotalRooms       int
	TeleporterActive bool

	env *world.Env
	log *logging.Logger
}

// NewController строит комнаты уровня, двери между ними и волны боевых комнат
func NewController(level int, env *world.Env) *Controller {
	c := &Controller{
		Level:         level,
		Rooms:         make(map[world.RoomID]world.Chamber),
		Connections:   make(map[world.RoomID][]Link),
		Doors:         make(map[world.DoorID]*world.Door),
		Waves:         make(map[world.RoomID]*WaveDirector),
		CurrentRoomID: FirstRoomID,
		RoomsCleared:  make(map[world.RoomID]struct{}),
		TotalRooms:    TotalRoomsForLevel(level),
		env:           env,
		log:           logging.GetSimLogger(),
	}

	layout := Layout(level)
	for _, id := range layout {
		switch id {
		case BossRoomID:
			c.Rooms[id] = world.NewBossRoom(level, env)
		case HazardRoomID:
			c.Rooms[id] = world.NewHazardRoom(level, env)
			c.log.Debug("🎯 Комната препятствий для уровня %d", level)
		default:
			c.Rooms[id] = world.NewRoom(world.RoomWidth, world.RoomHeight, level, env)
			c.Waves[id] = NewWaveDirector(DefaultWaves(level)...)
		}
	}

	for i := 0; i+1 < len(layout); i++ {
		c.connect(layout[i], layout[i+1])
	}

	// Из первой комнаты можно вернуться к телепорту
	first := c.Rooms[FirstRoomID].Base()
	back := westDoor(first, FirstRoomID, SpawnRoomID)
	c.addDoor(first, back, SpawnRoomID)

	return c
}

func (c *Controller) connect(a, b world.RoomID) {
	ra, rb := c.Rooms[a].Base(), c.Rooms[b].Base()
	c.addDoor(ra, eastDoor(ra, a, b), b)
	c.addDoor(rb, westDoor(rb, b, a), a)
}

func (c *Controller) addDoor(r *world.Room, d *world.Door, neighbor world.RoomID) {
	r.AttachDoor(d)
	c.Doors[d.ID] = d
	c.Connections[d.Room] = append(c.Connections[d.Room], Link{Door: d.ID, Neighbor: neighbor})
}

// Current возвращает активную комнату
func (c *Controller) Current() world.Chamber {
	return c.Rooms[c.CurrentRoomID]
}

// Env возвращает окружение уровня
func (c *Controller) Env() *world.Env {
	return c.env
}

// Update продвигает активную комнату, волны, двери и переходы на dt
func (c *Controller) Update(dt float64, p *entity.Player, counters *entity.Counters) Result {
	room := c.Current()
	res := Result{Room: c.CurrentRoomID, Kind: room.Kind()}
	res.Report = room.Step(dt, p, counters)

	// координаты дверей локальны для комнаты: игрок есть только у текущей,
	// двери остальных комнат закрываются
	for _, d := range c.Doors {
		if d.Room == c.CurrentRoomID {
			d.Update(dt, p.Position)
		} else {
			d.Update(dt)
		}
	}

	switch r := room.(type) {
	case *world.HazardRoom:
		if r.ChallengeComplete && c.markCleared(c.CurrentRoomID) {
			res.Cleared = true
			c.log.Info("✅ Испытание %s пройдено", c.CurrentRoomID)
		}
	case *world.BossRoom:
		// Босс засчитывается отдельно, комната не входит в RoomsCleared
	default:
		if w, ok := c.Waves[c.CurrentRoomID]; ok {
			res.Wave = w.Update(room.Base())
			if len(res.Wave.Spawned) > 0 {
				c.log.Info("🌊 Волна %d в %s: %d врагов", res.Wave.Wave+1, c.CurrentRoomID, len(res.Wave.Spawned))
			}
			if res.Wave.RoomCleared && c.markCleared(c.CurrentRoomID) {
				res.Cleared = true
				c.log.Info("✅ %s полностью зачищена", c.CurrentRoomID)
			}
		}
	}
	if res.Cleared {
		counters.RecordRoomCleared()
	}

	c.checkTransitions(p, &res)

	if c.refreshTeleporter() {
		res.TeleporterActivated = true
	}
	return res
}

// checkTransitions переводит игрока через открытую дверь, в проеме которой он стоит
func (c *Controller) checkTransitions(p *entity.Player, res *Result) {
	for _, l := range c.Connections[c.CurrentRoomID] {
		d := c.Doors[l.Door]
		if !d.Passed(p.Position) {
			continue
		}
		if l.Neighbor == SpawnRoomID {
			res.ExitToSpawn = true
			return
		}
		if c.EnterRoom(l.Neighbor, p) {
			res.Entered = l.Neighbor
		}
		return
	}
}

// EnterRoom делает комнату id активной и ставит игрока в ее точку входа.
// Неизвестная или текущая комната игнорируется.
func (c *Controller) EnterRoom(id world.RoomID, p *entity.Player) bool {
	next, ok := c.Rooms[id]
	if !ok || id == c.CurrentRoomID {
		return false
	}

	// Снаряды покинутой комнаты сбрасываются
	prev := c.Current().Base()
	prev.PlayerProjectiles = prev.PlayerProjectiles[:0]
	prev.EnemyProjectiles = prev.EnemyProjectiles[:0]

	c.CurrentRoomID = id
	p.Position = next.Base().NearestFloor(EntryPoint(id))
	p.Velocity = vec.Vec2Float{}
	c.log.Info("🚪 Вход в %s", id)
	return true
}

// TeleportToBoss переносит игрока в комнату босса и вызывает босса.
// Возвращает true, если босс появился.
func (c *Controller) TeleportToBoss(p *entity.Player) bool {
	c.EnterRoom(BossRoomID, p)
	boss, ok := c.Rooms[BossRoomID].(*world.BossRoom)
	if !ok {
		return false
	}
	if boss.TriggerBossSpawn() {
		c.log.Info("👹 Босс уровня %d появился", c.Level)
		return true
	}
	return false
}

// BossRoom возвращает комнату босса
func (c *Controller) BossRoom() *world.BossRoom {
	b, _ := c.Rooms[BossRoomID].(*world.BossRoom)
	return b
}

// MarkCleared засчитывает комнату пройденной. Неизвестные id игнорируются.
func (c *Controller) MarkCleared(id world.RoomID) {
	c.markCleared(id)
	c.refreshTeleporter()
}

func (c *Controller) markCleared(id world.RoomID) bool {
	if _, ok := c.Rooms[id]; !ok {
		return false
	}
	if _, done := c.RoomsCleared[id]; done {
		return false
	}
	c.RoomsCleared[id] = struct{}{}
	return true
}

// RoomsClearedCount число пройденных комнат
func (c *Controller) RoomsClearedCount() int {
	return len(c.RoomsCleared)
}

// refreshTeleporter открывает телепорт, когда пройдено достаточно комнат.
// Открытый телепорт больше не закрывается.
func (c *Controller) refreshTeleporter() bool {
	if c.TeleporterActive || len(c.RoomsCleared) < c.TotalRooms {
		return false
	}
	c.TeleporterActive = true
	c.log.Info("🌟 Все комнаты пройдены, телепорт к боссу активен")
	return true
}
