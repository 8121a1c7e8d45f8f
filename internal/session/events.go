package session

import (
	"github.com/annel0/gungeon-sim/internal/eventbus"
	"github.com/annel0/gungeon-sim/internal/level"
	"github.com/annel0/gungeon-sim/internal/world"
)

// publish упаковывает событие и отправляет его в шину, если она задана
func (s *Session) publish(eventType string, priority int, payload interface{}) {
	if s.bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(eventType, priority, payload)
	if err != nil {
		s.log.Error("%v", err)
		return
	}
	ev.CorrelationID = s.ID
	if err := s.bus.Publish(s.ctx, ev); err != nil {
		s.log.Warn("Событие %s не опубликовано: %v", eventType, err)
	}
}

func (s *Session) publishRoom(eventType string, room world.RoomID) {
	s.publish(eventType, eventbus.PriorityNormal, eventbus.RoomEvent{Level: s.LevelNum, Room: string(room)})
}

// publishResult превращает итог тика уровня в события
func (s *Session) publishResult(res level.Result) {
	if s.bus == nil {
		return
	}
	room := string(res.Room)
	for _, k := range res.Killed {
		s.publish(eventbus.TypeEnemyKilled, eventbus.PriorityLow, eventbus.EnemyKilled{
			Level:     s.LevelNum,
			Room:      room,
			EnemyID:   k.Enemy.ID,
			Archetype: k.Enemy.Archetype.String(),
			Boss:      k.Enemy.IsBoss(),
			Reward:    k.Reward,
		})
	}
	if n := len(res.Wave.Spawned); n > 0 {
		s.publish(eventbus.TypeWaveSpawned, eventbus.PriorityNormal, eventbus.WaveSpawned{
			Level:   s.LevelNum,
			Room:    room,
			Wave:    res.Wave.Wave,
			Enemies: n,
		})
	}
	if res.Cleared {
		s.publishRoom(eventbus.TypeRoomCleared, res.Room)
	}
	if res.BossDefeated {
		s.publishRoom(eventbus.TypeBossDefeated, res.Room)
	}
	if res.Entered != "" {
		s.publishRoom(eventbus.TypeRoomEntered, res.Entered)
	}
	if res.TeleporterActivated {
		s.publishRoom(eventbus.TypeTeleporterActivated, level.SpawnRoomID)
	}
}
