package world

import (
	"math"

	"github.com/annel0/gungeon-sim/internal/physics"
	"github.com/annel0/gungeon-sim/internal/tiles"
	"github.com/annel0/gungeon-sim/internal/vec"
)

// Orientation ориентация двери
type Orientation uint8

const (
	// Horizontal дверь в верхней или нижней стене, 32×16
	Horizontal Orientation = iota
	// Vertical дверь в левой или правой стене, 16×32
	Vertical
)

// Параметры двери
const (
	DoorOpenSpeed = 3.0
	DoorProximity = 50.0
)

// Door раздвижная дверь. Открывается, пока рядом кто-то есть.
type Door struct {
	ID           DoorID
	Room         RoomID
	Position     vec.Vec2Float
	Orientation  Orientation
	OpenProgress float64
	IsOpen       bool
	Proximity    float64
}

// NewDoor создает закрытую дверь с левым верхним углом в pos
func NewDoor(id DoorID, room RoomID, pos vec.Vec2Float, o Orientation) *Door {
	return &Door{ID: id, Room: room, Position: pos, Orientation: o, Proximity: DoorProximity}
}

// Rect возвращает проем двери
func (d *Door) Rect() physics.Rect {
	if d.Orientation == Horizontal {
		return physics.NewRect(d.Position.X, d.Position.Y, 2*tiles.Size, tiles.Size)
	}
	return physics.NewRect(d.Position.X, d.Position.Y, tiles.Size, 2*tiles.Size)
}

// Center возвращает центр проема
func (d *Door) Center() vec.Vec2Float {
	return d.Rect().Center()
}

// Tiles возвращает тайлы проема
func (d *Door) Tiles() []vec.Vec2 {
	return d.Rect().Tiles()
}

// Update двигает OpenProgress к 1, если хоть одна из позиций ближе
// Proximity к центру двери, иначе к 0.
func (d *Door) Update(dt float64, positions ...vec.Vec2Float) {
	target := 0.0
	c := d.Center()
	for _, p := range positions {
		if p.DistanceTo(c) < d.Proximity {
			target = 1
			break
		}
	}

	step := DoorOpenSpeed * dt
	if d.OpenProgress < target {
		d.OpenProgress = math.Min(target, d.OpenProgress+step)
	} else if d.OpenProgress > target {
		d.OpenProgress = math.Max(target, d.OpenProgress-step)
	}
	d.IsOpen = d.OpenProgress > 0.5
}

// CollisionRect возвращает прямоугольник, блокирующий проход, или nil, если дверь открыта
func (d *Door) CollisionRect() *physics.Rect {
	if d.IsOpen {
		return nil
	}
	r := d.Rect()
	return &r
}

// Blocks сообщает, перекрывает ли закрытая дверь тайл t
func (d *Door) Blocks(t vec.Vec2) bool {
	if d.IsOpen {
		return false
	}
	return d.Rect().Contains(tiles.Center(t))
}

// Passed сообщает, что позиция находится в открытом проеме
func (d *Door) Passed(p vec.Vec2Float) bool {
	return d.IsOpen && d.Rect().Contains(p)
}
