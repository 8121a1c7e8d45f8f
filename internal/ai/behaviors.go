package ai

import (
	"math"

	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/vec"
)

// Дистанции и множители скорости поведений
const (
	chaseFar      = 100.0
	chaseNear     = 50.0
	chaseJitter   = 20.0
	chaseLead     = 0.2
	flankSpeedK   = 0.6
	strafeSpeedK  = 0.7
	retreatSpeedK = 0.5

	sniperFar       = 120.0
	sniperNear      = 80.0
	sniperApproachK = 0.6
	sniperRetreatK  = 0.8
	sniperStrafeK   = 0.4
	sniperFlipAfter = 2.0

	rushCharge  = 30.0
	orbitRadius = 25.0
	orbitRate   = 3.0
	orbitSpeedK = 0.7
)

// smartChase поведение basic/aggressive и босса
type smartChase struct{}

func (smartChase) Engage(c *Controller, e *entity.Enemy, t Target, dist float64, dt float64) {
	toPlayer := t.Position.Sub(e.Position).Normalized()

	if e.SightBlocked {
		e.SetState(entity.StateFlank)
		side := toPlayer.Perp()
		if c.rng.Float64() >= 0.5 {
			side = side.Neg()
		}
		e.Velocity = side.Mul(e.Speed * flankSpeedK)
		return
	}

	switch {
	case dist > chaseFar:
		e.SetState(entity.StateChase)
		predicted := t.Position.Add(t.Velocity.Mul(chaseLead)).Add(c.jitter(e, chaseJitter))
		e.Velocity = predicted.Sub(e.Position).Normalized().Mul(e.Speed)
	case dist > chaseNear:
		e.SetState(entity.StateStrafe)
		angle := e.Position.AngleTo(t.Position) + math.Pi/2 + math.Sin(e.StateTimer*2)*0.5
		e.Velocity = vec.FromAngle(angle).Mul(e.Speed * strafeSpeedK)
	default:
		e.SetState(entity.StateRetreat)
		e.Velocity = toPlayer.Neg().Mul(e.Speed * retreatSpeedK)
	}
}

// rangeKeeper снайпер держит дистанцию 80..120
type rangeKeeper struct{}

func (rangeKeeper) Engage(c *Controller, e *entity.Enemy, t Target, dist float64, dt float64) {
	toPlayer := t.Position.Sub(e.Position).Normalized()

	switch {
	case dist > sniperFar:
		e.SetState(entity.StateChase)
		e.Velocity = toPlayer.Mul(e.Speed * sniperApproachK)
	case dist < sniperNear:
		e.SetState(entity.StateRetreat)
		e.Velocity = toPlayer.Neg().Mul(e.Speed * sniperRetreatK)
	default:
		e.SetState(entity.StateStrafe)
		if e.StateTimer > sniperFlipAfter {
			e.StateTimer = 0
			e.StrafeSign = -e.StrafeSign
		}
		// стрейф поперек текущего движения, с места поперек линии на игрока
		heading := e.Velocity.Normalized()
		if e.Velocity.IsZero() {
			heading = toPlayer
		}
		e.Velocity = heading.Perp().Mul(e.StrafeSign * e.Speed * sniperStrafeK)
	}
}

// charger rusher бежит на игрока и кружит вблизи
type charger struct{}

func (charger) Engage(c *Controller, e *entity.Enemy, t Target, dist float64, dt float64) {
	if dist > rushCharge {
		e.SetState(entity.StateCharge)
		e.Velocity = t.Position.Sub(e.Position).Normalized().Mul(e.Speed)
		return
	}
	e.SetState(entity.StateOrbit)
	e.CircleAngle += orbitRate * dt
	point := t.Position.Add(vec.FromAngle(e.CircleAngle).Mul(orbitRadius))
	e.Velocity = point.Sub(e.Position).Normalized().Mul(e.Speed * orbitSpeedK)
}
