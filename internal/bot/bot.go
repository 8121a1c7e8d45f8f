// Package bot генерирует ввод для безголового прогона: идет к выходу,
// стреляет в ближайшего врага, уклоняется и закупается.
package bot

import (
	"math"
	"math/rand"

	"github.com/annel0/gungeon-sim/internal/session"
	"github.com/annel0/gungeon-sim/internal/vec"
	"github.com/annel0/gungeon-sim/internal/world"
)

// Параметры поведения
const (
	keepAwayDist   = 80.0
	approachDist   = 160.0
	dodgeDist      = 30.0
	strafePeriod   = 1.5
	moveDeadZone   = 4.0
	lowHealthRatio = 0.5
)

// Bot сценарный игрок
type Bot struct {
	rng         *rand.Rand
	strafeTimer float64
	strafeSign  float64
}

// New создает бота с детерминированным сидом
func New(seed int64) *Bot {
	b := &Bot{rng: rand.New(rand.NewSource(seed)), strafeSign: 1}
	if b.rng.Intn(2) == 0 {
		b.strafeSign = -1
	}
	return b
}

func pos(p session.Point) vec.Vec2Float {
	return vec.New(p.X, p.Y)
}

// Next выбирает ввод по срезу состояния
func (b *Bot) Next(snap session.Snapshot, dt float64) session.Input {
	in := session.Idle()
	if snap.GameOver {
		return in
	}
	me := pos(snap.Player.Position)
	in.Aim = me.Add(vec.New(1, 0))

	b.shop(snap, &in)

	if snap.Phase == "spawn" {
		target := world.TeleporterPoint
		if !snap.TeleporterActive && len(snap.Doors) > 0 {
			target = pos(snap.Doors[0].Position)
		}
		steer(&in, target.Sub(me))
		return in
	}

	for _, s := range snap.EnemyProjectiles {
		if me.DistanceTo(pos(s.Position)) < dodgeDist {
			in.Dodge = true
			break
		}
	}

	enemy, ok := nearestEnemy(snap, me)
	if !ok {
		b.explore(snap, me, &in)
		return in
	}

	target := pos(enemy.Position)
	in.Aim = target
	in.Fire = true

	to := target.Sub(me)
	dist := to.Length()
	switch {
	case dist < keepAwayDist:
		steer(&in, to.Neg())
	case dist > approachDist:
		steer(&in, to)
	default:
		b.strafeTimer += dt
		if b.strafeTimer >= strafePeriod {
			b.strafeTimer = b.rng.Float64() * strafePeriod * 0.5
			b.strafeSign = -b.strafeSign
		}
		steer(&in, to.Perp().Mul(b.strafeSign))
	}

	// Дробовик на ближней дистанции, пистолет на дальней
	wantShotgun := dist < keepAwayDist && snap.Player.Gun != "Shotgun" && snap.Player.Ammo != 0
	wantSidearm := dist >= keepAwayDist && snap.Player.Gun == "Shotgun"
	in.SwitchWeapon = wantShotgun || wantSidearm
	return in
}

// explore ведет к финишной платформе комнаты препятствий, затем к самой восточной двери
func (b *Bot) explore(snap session.Snapshot, me vec.Vec2Float, in *session.Input) {
	if snap.Room.Kind == world.KindHazard.String() && !snap.Room.Cleared {
		end := vec.New(float64((snap.Room.Width-4)*16+8), float64((snap.Room.Height-4)*16+8))
		if me.DistanceTo(end) > moveDeadZone {
			steer(in, end.Sub(me))
			// Перекат через провалы
			in.Dodge = true
			return
		}
	}

	best := -math.MaxFloat64
	var target vec.Vec2Float
	found := false
	for _, d := range snap.Doors {
		if d.Position.X > best {
			best = d.Position.X
			target = pos(d.Position)
			found = true
		}
	}
	if found {
		steer(in, target.Sub(me))
	}
}

func (b *Bot) shop(snap session.Snapshot, in *session.Input) {
	p := snap.Player
	switch {
	case float64(p.Health) < lowHealthRatio*float64(p.MaxHealth) && p.Money >= 25:
		in.Buy = 0
	case p.Armor == 0 && p.Money >= 80:
		in.Buy = 1
	}
}

func nearestEnemy(snap session.Snapshot, me vec.Vec2Float) (session.EnemyView, bool) {
	var best session.EnemyView
	bestDist := math.MaxFloat64
	for _, e := range snap.Enemies {
		if d := me.DistanceTo(pos(e.Position)); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, bestDist < math.MaxFloat64
}

// steer переводит направление в нажатые клавиши
func steer(in *session.Input, dir vec.Vec2Float) {
	in.Left = dir.X < -moveDeadZone
	in.Right = dir.X > moveDeadZone
	in.Up = dir.Y < -moveDeadZone
	in.Down = dir.Y > moveDeadZone
}
