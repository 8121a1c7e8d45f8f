package level

import (
	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/world"
)

// Параметры волн
const (
	WavesPerRoom       = 2
	WavePlacementTries = 50
)

// Wave одна волна врагов
type Wave struct {
	EnemyCount int
	Weights    [4]int
	Spawned    bool
	Cleared    bool
}

// DefaultWaves волны боевой комнаты уровня level
func DefaultWaves(level int) []Wave {
	waves := make([]Wave, WavesPerRoom)
	for i := range waves {
		waves[i].EnemyCount = 3 + level + 2*i
		if i == 0 {
			waves[i].Weights = [4]int{60, 20, 15, 5}
		} else {
			waves[i].Weights = [4]int{30, 35, 25, 10}
		}
	}
	return waves
}

// WaveEvent что произошло с волнами комнаты за тик
type WaveEvent struct {
	// Spawned враги появившейся волны
	Spawned []*entity.Enemy
	// Wave индекс волны, к которой относится событие
	Wave        int
	WaveCleared bool
	// RoomCleared все волны комнаты пройдены
	RoomCleared bool
}

// WaveDirector выпускает волны врагов в боевой комнате
type WaveDirector struct {
	Waves []Wave
	Index int
}

// NewWaveDirector создает директора с заданными волнами
func NewWaveDirector(waves ...Wave) *WaveDirector {
	return &WaveDirector{Waves: waves}
}

// Done сообщает, что все волны пройдены
func (w *WaveDirector) Done() bool {
	return w.Index >= len(w.Waves)
}

// Update выпускает текущую волну в пустую комнату и засчитывает ее, когда
// комната снова опустела. Следующая волна появляется на следующем тике.
func (w *WaveDirector) Update(room *world.Room) WaveEvent {
	ev := WaveEvent{Wave: w.Index}
	if w.Done() {
		return ev
	}
	wave := &w.Waves[w.Index]

	if !wave.Spawned && len(room.Enemies) == 0 {
		ev.Spawned = room.SpawnEnemies(wave.EnemyCount, wave.Weights, room.Level, WavePlacementTries, nil)
		wave.Spawned = true
	}

	if wave.Spawned && len(room.Enemies) == 0 && !wave.Cleared {
		wave.Cleared = true
		ev.WaveCleared = true
		w.Index++
		ev.RoomCleared = w.Done()
	}
	return ev
}
