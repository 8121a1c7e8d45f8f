package session

import (
	"errors"
	"fmt"

	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/eventbus"
)

// Ошибки магазина
var (
	ErrUnknownItem       = errors.New("неизвестный предмет")
	ErrInsufficientFunds = errors.New("недостаточно денег")
)

// ItemKind эффект предмета
type ItemKind uint8

const (
	ItemHealth ItemKind = iota
	ItemArmor
	ItemDamage
	ItemSpeed
	ItemMaxHealth
	ItemAmmo
)

// Item предмет магазина
type Item struct {
	Name  string   `json:"name"`
	Kind  ItemKind `json:"kind"`
	Price int      `json:"price"`
	Value float64  `json:"value"`
}

// Catalog ассортимент магазина
func Catalog() []Item {
	return []Item{
		{Name: "Medkit", Kind: ItemHealth, Price: 25, Value: 30},
		{Name: "Armor", Kind: ItemArmor, Price: 40, Value: 1},
		{Name: "Damage Up", Kind: ItemDamage, Price: 60, Value: 1.25},
		{Name: "Speed Up", Kind: ItemSpeed, Price: 35, Value: 1.2},
		{Name: "Max Health", Kind: ItemMaxHealth, Price: 80, Value: 20},
		{Name: "Ammo", Kind: ItemAmmo, Price: 15, Value: 50},
	}
}

// Apply применяет эффект предмета к игроку
func (it Item) Apply(p *entity.Player) {
	switch it.Kind {
	case ItemHealth:
		p.Heal(int(it.Value))
	case ItemArmor:
		p.AddArmor(int(it.Value))
	case ItemDamage:
		p.ScaleDamage(it.Value)
	case ItemSpeed:
		p.ScaleSpeed(it.Value)
	case ItemMaxHealth:
		p.AddMaxHealth(int(it.Value))
	case ItemAmmo:
		p.RefillAmmo(int(it.Value))
	}
}

// Buy покупает предмет по индексу каталога
func (s *Session) Buy(index int) error {
	if index < 0 || index >= len(s.shop) {
		return fmt.Errorf("%w: %d", ErrUnknownItem, index)
	}
	it := s.shop[index]
	if s.Player.Money < it.Price {
		return fmt.Errorf("%w: %s стоит %d, есть %d", ErrInsufficientFunds, it.Name, it.Price, s.Player.Money)
	}
	s.Player.Money -= it.Price
	it.Apply(s.Player)
	s.log.Info("🛒 Куплено %s за %d", it.Name, it.Price)
	s.publish(eventbus.TypeItemPurchased, eventbus.PriorityLow, eventbus.ItemPurchased{Item: it.Name, Price: it.Price})
	return nil
}

// Shop возвращает ассортимент магазина сессии
func (s *Session) Shop() []Item {
	return append([]Item(nil), s.shop...)
}

// SetHealth выставляет здоровье игрока с ограничением [0, MaxHealth]
func (s *Session) SetHealth(v int) { s.Player.SetHealth(v) }

// AddArmor добавляет броню
func (s *Session) AddArmor(n int) { s.Player.AddArmor(n) }

// ScaleDamage умножает урон оружия
func (s *Session) ScaleDamage(k float64) { s.Player.ScaleDamage(k) }

// ScaleSpeed умножает скорость игрока
func (s *Session) ScaleSpeed(k float64) { s.Player.ScaleSpeed(k) }

// AddMaxHealth увеличивает максимум здоровья
func (s *Session) AddMaxHealth(n int) { s.Player.AddMaxHealth(n) }

// RefillAmmo пополняет патроны
func (s *Session) RefillAmmo(n int) { s.Player.RefillAmmo(n) }

// AddMoney начисляет деньги
func (s *Session) AddMoney(n int) { s.Player.Money += n }
