package session

import (
	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/world"
)

// Point точка в мировых координатах
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerView состояние игрока для отображения
type PlayerView struct {
	Position     Point   `json:"position"`
	Radius       float64 `json:"radius"`
	Health       int     `json:"health"`
	MaxHealth    int     `json:"max_health"`
	Armor        int     `json:"armor"`
	Money        int     `json:"money"`
	Dodging      bool    `json:"dodging"`
	Invulnerable bool    `json:"invulnerable"`
	Facing       float64 `json:"facing"`
	Gun          string  `json:"gun"`
	Ammo         int     `json:"ammo"`
}

// EnemyView состояние врага
type EnemyView struct {
	ID        uint64  `json:"id"`
	Archetype string  `json:"archetype"`
	State     string  `json:"state"`
	Position  Point   `json:"position"`
	Radius    float64 `json:"radius"`
	Health    int     `json:"health"`
	MaxHealth int     `json:"max_health"`
	Boss      bool    `json:"boss,omitempty"`
}

// ProjectileView снаряд
type ProjectileView struct {
	Position Point   `json:"position"`
	Radius   float64 `json:"radius"`
}

// DoorView дверь текущей комнаты
type DoorView struct {
	ID       string  `json:"id"`
	Position Point   `json:"position"`
	Progress float64 `json:"progress"`
	Open     bool    `json:"open"`
}

// RoomView тайлы текущей комнаты
type RoomView struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Walls   [][2]int `json:"walls"`
	Hazards [][2]int `json:"hazards,omitempty"`
	Cleared bool     `json:"cleared"`
}

// Snapshot неизменяемый срез состояния сессии
type Snapshot struct {
	SessionID string  `json:"session_id"`
	Tick      uint64  `json:"tick"`
	Phase     string  `json:"phase"`
	Level     int     `json:"level"`
	Survival  float64 `json:"survival"`

	Player            PlayerView       `json:"player"`
	Room              RoomView         `json:"room"`
	Enemies           []EnemyView      `json:"enemies"`
	PlayerProjectiles []ProjectileView `json:"player_projectiles"`
	EnemyProjectiles  []ProjectileView `json:"enemy_projectiles"`
	Doors             []DoorView       `json:"doors"`

	Wave             int  `json:"wave"`
	Waves            int  `json:"waves"`
	RoomsCleared     int  `json:"rooms_cleared"`
	TotalRooms       int  `json:"total_rooms"`
	TeleporterActive bool `json:"teleporter_active"`

	Kills      int         `json:"kills"`
	Score      int         `json:"score"`
	Objectives []Objective `json:"objectives"`
	GameOver   bool        `json:"game_over"`
	Victory    bool        `json:"victory"`
}

func point(x, y float64) Point { return Point{X: x, Y: y} }

func tileList(s tiles.Set) [][2]int {
	sorted := s.Sorted()
	out := make([][2]int, len(sorted))
	for i, t := range sorted {
		out[i] = [2]int{t.X, t.Y}
	}
	return out
}

func projectileViews(ps []*entity.Projectile) []ProjectileView {
	out := make([]ProjectileView, len(ps))
	for i, p := range ps {
		out[i] = ProjectileView{Position: point(p.Position.X, p.Position.Y), Radius: p.Radius}
	}
	return out
}

// Snapshot собирает срез состояния. Результат не разделяет память с сессией.
func (s *Session) Snapshot() Snapshot {
	p := s.Player
	gun := p.Gun()
	snap := Snapshot{
		SessionID: s.ID,
		Tick:      s.Ticks,
		Phase:     s.Phase.String(),
		Level:     s.LevelNum,
		Survival:  s.Survival,
		Player: PlayerView{
			Position:     point(p.Position.X, p.Position.Y),
			Radius:       p.Radius,
			Health:       p.Health,
			MaxHealth:    p.MaxHealth,
			Armor:        p.Armor,
			Money:        p.Money,
			Dodging:      p.Dodge.IsDodging,
			Invulnerable: p.Invulnerable,
			Facing:       p.FacingAngle,
			Gun:          gun.Name,
			Ammo:         gun.Ammo,
		},
		RoomsCleared:     s.Level.RoomsClearedCount(),
		TotalRooms:       s.Level.TotalRooms,
		TeleporterActive: s.Level.TeleporterActive,
		Kills:            s.Counters.EnemiesKilled,
		Score:            s.Score(),
		Objectives:       s.Objectives(),
		GameOver:         s.Over(),
		Victory:          s.Victory,
	}
	if s.Over() {
		snap.Score = s.FinalScore
	}

	if s.Phase == PhaseSpawn {
		r := s.Spawn.Base()
		snap.Room = RoomView{ID: "spawn", Kind: world.KindSpawn.String(), Width: r.Width, Height: r.Height, Walls: tileList(r.Walls)}
		snap.Doors = []DoorView{doorView(s.Spawn.Door)}
		return snap
	}

	room := s.Level.Current()
	r := room.Base()
	snap.Room = RoomView{
		ID:      string(s.Level.CurrentRoomID),
		Kind:    room.Kind().String(),
		Width:   r.Width,
		Height:  r.Height,
		Walls:   tileList(r.Walls),
		Cleared: r.IsCleared(),
	}
	if h, ok := room.(*world.HazardRoom); ok {
		hazards := tiles.NewSet()
		for _, set := range []tiles.Set{h.Ditches, h.Spikes, h.Lava} {
			for t := range set {
				hazards.Add(t)
			}
		}
		snap.Room.Hazards = tileList(hazards)
	}

	snap.Enemies = make([]EnemyView, len(r.Enemies))
	for i, e := range r.Enemies {
		snap.Enemies[i] = EnemyView{
			ID:        e.ID,
			Archetype: e.Archetype.String(),
			State:     e.State.String(),
			Position:  point(e.Position.X, e.Position.Y),
			Radius:    e.Radius,
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
			Boss:      e.IsBoss(),
		}
	}
	snap.PlayerProjectiles = projectileViews(r.PlayerProjectiles)
	snap.EnemyProjectiles = projectileViews(r.EnemyProjectiles)

	for _, l := range s.Level.Connections[s.Level.CurrentRoomID] {
		snap.Doors = append(snap.Doors, doorView(s.Level.Doors[l.Door]))
	}
	if w, ok := s.Level.Waves[s.Level.CurrentRoomID]; ok {
		snap.Wave = w.Index
		snap.Waves = len(w.Waves)
	}
	return snap
}

func doorView(d *world.Door) DoorView {
	c := d.Center()
	return DoorView{ID: string(d.ID), Position: point(c.X, c.Y), Progress: d.OpenProgress, Open: d.IsOpen}
}
