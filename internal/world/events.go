package world

import "github.com/annel0/gungeon-sim/internal/entity"

// RoomID идентификатор комнаты уровня
type RoomID string

// DoorID идентификатор двери
type DoorID string

// Kind тип комнаты
type Kind uint8

const (
	KindCombat Kind = iota
	KindHazard
	KindBoss
	KindSpawn
)

// String возвращает имя типа комнаты
func (k Kind) String() string {
	switch k {
	case KindCombat:
		return "combat"
	case KindHazard:
		return "hazard"
	case KindBoss:
		return "boss"
	case KindSpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

// Kill убитый игроком враг и выплаченная за него награда
type Kill struct {
	Enemy  *entity.Enemy
	Reward int
}

// Report итог одного тика комнаты
type Report struct {
	Fired        int
	Killed       []Kill
	Reward       int
	PlayerHits   int
	ContactHits  int
	HazardDamage int
	// Fell игрок упал в провал
	Fell bool
	// RoomCleared комната впервые опустела на этом тике
	RoomCleared bool
	// ChallengeComplete испытание комнаты препятствий пройдено на этом тике
	ChallengeComplete bool
	// BossDefeated босс убит на этом тике
	BossDefeated bool
}

// Merge добавляет результаты другого отчета
func (r *Report) Merge(o Report) {
	r.Fired += o.Fired
	r.Killed = append(r.Killed, o.Killed...)
	r.Reward += o.Reward
	r.PlayerHits += o.PlayerHits
	r.ContactHits += o.ContactHits
	r.HazardDamage += o.HazardDamage
	r.Fell = r.Fell || o.Fell
	r.RoomCleared = r.RoomCleared || o.RoomCleared
	r.ChallengeComplete = r.ChallengeComplete || o.ChallengeComplete
	r.BossDefeated = r.BossDefeated || o.BossDefeated
}

// Chamber комната, которой управляет контроллер уровня
type Chamber interface {
	Base() *Room
	Kind() Kind
	Step(dt float64, p *entity.Player, c *entity.Counters) Report
}
