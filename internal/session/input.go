package session

import "github.com/annel0/gungeon-sim/internal/vec"

// NoPurchase значение Input.Buy без покупки
const NoPurchase = -1

// Input намерения игрока на один тик
type Input struct {
	Up, Down, Left, Right bool

	// Aim точка прицеливания в мировых координатах
	Aim vec.Vec2Float

	Fire         bool
	Dodge        bool
	SwitchWeapon bool

	// Buy индекс предмета магазина или NoPurchase
	Buy int
}

// Idle возвращает ввод без действий
func Idle() Input {
	return Input{Buy: NoPurchase}
}

// Move направление движения по нажатым клавишам
func (in Input) Move() vec.Vec2Float {
	var m vec.Vec2Float
	if in.Up {
		m.Y--
	}
	if in.Down {
		m.Y++
	}
	if in.Left {
		m.X--
	}
	if in.Right {
		m.X++
	}
	return m
}
