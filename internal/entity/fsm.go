package entity

// AIState состояние конечного автомата врага
type AIState uint8

const (
	StatePatrol AIState = iota
	StateChase
	StateStrafe
	StateRetreat
	StateFlank
	StateCharge
	StateOrbit
)

// String возвращает имя состояния
func (s AIState) String() string {
	switch s {
	case StatePatrol:
		return "patrol"
	case StateChase:
		return "chase"
	case StateStrafe:
		return "strafe"
	case StateRetreat:
		return "retreat"
	case StateFlank:
		return "flank"
	case StateCharge:
		return "charge"
	case StateOrbit:
		return "orbit"
	default:
		return "unknown"
	}
}

// Engaged true для всех боевых состояний
func (s AIState) Engaged() bool {
	return s != StatePatrol
}

// SetState переключает состояние врага. Таймер состояния не сбрасывается:
// поведения сами решают, когда его обнулять.
func (e *Enemy) SetState(s AIState) {
	e.State = s
}
