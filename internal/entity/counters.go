package entity

// Counters счетчики сессии, которые меняются во время боя.
// Передается по указателю во все подсистемы, начисляющие награды.
type Counters struct {
	EnemiesKilled         int
	MoneyEarned           int
	RoomsClearedThisLevel int
	TotalRoomsCleared     int
}

// RecordKill учитывает убийство и награду
func (c *Counters) RecordKill(reward int) {
	if c == nil {
		return
	}
	c.EnemiesKilled++
	c.MoneyEarned += reward
}

// RecordRoomCleared учитывает зачищенную комнату
func (c *Counters) RecordRoomCleared() {
	if c == nil {
		return
	}
	c.RoomsClearedThisLevel++
	c.TotalRoomsCleared++
}

// ResetLevel обнуляет счетчики текущего уровня
func (c *Counters) ResetLevel() {
	c.RoomsClearedThisLevel = 0
}
