package eventbus

import "errors"

// ErrClosed шина закрыта
var ErrClosed = errors.New("шина событий закрыта")

// Типы игровых событий
const (
	TypeEnemyKilled         = "EnemyKilled"
	TypeWaveSpawned         = "WaveSpawned"
	TypeRoomCleared         = "RoomCleared"
	TypeRoomEntered         = "RoomEntered"
	TypeTeleporterActivated = "TeleporterActivated"
	TypeBossSpawned         = "BossSpawned"
	TypeBossDefeated        = "BossDefeated"
	TypeLevelAdvanced       = "LevelAdvanced"
	TypeObjectiveCompleted  = "ObjectiveCompleted"
	TypeItemPurchased       = "ItemPurchased"
	TypeGameOver            = "GameOver"
)

// Приоритеты: низкие события могут быть отброшены при переполнении буфера
const (
	PriorityLow      = 1
	PriorityNormal   = 4
	PriorityCritical = 9
)

// EnemyKilled враг убит игроком
type EnemyKilled struct {
	Level     int    `json:"level"`
	Room      string `json:"room"`
	EnemyID   uint64 `json:"enemy_id"`
	Archetype string `json:"archetype"`
	Boss      bool   `json:"boss"`
	Reward    int    `json:"reward"`
}

// WaveSpawned в комнате появилась волна врагов
type WaveSpawned struct {
	Level   int    `json:"level"`
	Room    string `json:"room"`
	Wave    int    `json:"wave"`
	Enemies int    `json:"enemies"`
}

// RoomEvent событие, относящееся к комнате уровня
type RoomEvent struct {
	Level int    `json:"level"`
	Room  string `json:"room"`
}

// LevelAdvanced игрок перешел на следующий уровень
type LevelAdvanced struct {
	Level int `json:"level"`
	Bonus int `json:"bonus"`
}

// ObjectiveCompleted выполнена цель сессии
type ObjectiveCompleted struct {
	Objective string `json:"objective"`
	Reward    int    `json:"reward"`
}

// ItemPurchased куплен предмет магазина
type ItemPurchased struct {
	Item  string `json:"item"`
	Price int    `json:"price"`
}

// GameOver сессия завершена
type GameOver struct {
	Victory  bool    `json:"victory"`
	Score    int     `json:"score"`
	Level    int     `json:"level"`
	Kills    int     `json:"kills"`
	Money    int     `json:"money"`
	Survival float64 `json:"survival"`
}
