package session

import "github.com/annel0/gungeon-sim/internal/eventbus"

// ObjectiveKind измеряемая величина цели
type ObjectiveKind string

const (
	ObjectiveRooms ObjectiveKind = "rooms"
	ObjectiveKills ObjectiveKind = "kills"
	ObjectiveLevel ObjectiveKind = "level"
	ObjectiveTime  ObjectiveKind = "time"
)

// Objective цель сессии с денежной наградой
type Objective struct {
	Name      string        `json:"name"`
	Kind      ObjectiveKind `json:"kind"`
	Target    int           `json:"target"`
	Current   int           `json:"current"`
	Reward    int           `json:"reward"`
	Completed bool          `json:"completed"`
}

// DefaultObjectives цели новой сессии
func DefaultObjectives() []Objective {
	return []Objective{
		{Name: "Clear 5 rooms", Kind: ObjectiveRooms, Target: 5, Reward: 50},
		{Name: "Kill 25 enemies", Kind: ObjectiveKills, Target: 25, Reward: 75},
		{Name: "Reach Level 3", Kind: ObjectiveLevel, Target: 3, Current: 1, Reward: 100},
		{Name: "Survive 5 minutes", Kind: ObjectiveTime, Target: 300, Reward: 125},
	}
}

// updateObjectives обновляет прогресс и один раз выплачивает награды
func (s *Session) updateObjectives() {
	for i := range s.objectives {
		o := &s.objectives[i]
		if o.Completed {
			continue
		}
		switch o.Kind {
		case ObjectiveRooms:
			o.Current = s.Counters.TotalRoomsCleared
		case ObjectiveKills:
			o.Current = s.Counters.EnemiesKilled
		case ObjectiveLevel:
			o.Current = s.LevelNum
		case ObjectiveTime:
			o.Current = int(s.Survival)
		}
		if o.Current < o.Target {
			continue
		}
		o.Completed = true
		s.Player.Money += o.Reward
		s.log.Info("🎯 Цель выполнена: %s, награда %d", o.Name, o.Reward)
		s.publish(eventbus.TypeObjectiveCompleted, eventbus.PriorityNormal, eventbus.ObjectiveCompleted{Objective: o.Name, Reward: o.Reward})
	}
}

// Objectives возвращает копию целей
func (s *Session) Objectives() []Objective {
	return append([]Objective(nil), s.objectives...)
}
