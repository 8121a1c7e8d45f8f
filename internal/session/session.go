// Package session ведет одну игровую сессию: ввод, стартовую комнату,
// подземелье текущего уровня, переход между уровнями и конец игры.
package session

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/gungeon-sim/internal/entity"
	"github.com/annel0/gungeon-sim/internal/eventbus"
	"github.com/annel0/gungeon-sim/internal/level"
	"github.com/annel0/gungeon-sim/internal/logging"
	"github.com/annel0/gungeon-sim/internal/storage"
	"github.com/annel0/gungeon-sim/internal/world"
)

// Phase где находится игрок
type Phase uint8

const (
	PhaseSpawn Phase = iota
	PhaseDungeon
	PhaseOver
)

// String возвращает имя фазы
func (p Phase) String() string {
	switch p {
	case PhaseSpawn:
		return "spawn"
	case PhaseDungeon:
		return "dungeon"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// ScoreSink принимает итоговый результат сессии
type ScoreSink interface {
	Save(ctx context.Context, s storage.Score) error
}

// Config параметры сессии
type Config struct {
	Seed               int64
	PlayerName         string
	StartLevel         int
	MaxLevel           int
	MaxDeltaTime       float64
	LevelCompleteDelay float64
}

// DefaultConfig параметры по умолчанию
func DefaultConfig() Config {
	return Config{
		Seed:               time.Now().UnixNano(),
		PlayerName:         "gunslinger",
		StartLevel:         1,
		MaxLevel:           10,
		MaxDeltaTime:       0.05,
		LevelCompleteDelay: 3,
	}
}

// Option настраивает сессию
type Option func(*Session)

// WithBus публикует игровые события в bus
func WithBus(bus eventbus.Publisher) Option {
	return func(s *Session) { s.bus = bus }
}

// WithScoreSink сохраняет итоговый счет в sink
func WithScoreSink(sink ScoreSink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithContext контекст для публикации событий и сохранения счета
func WithContext(ctx context.Context) Option {
	return func(s *Session) { s.ctx = ctx }
}

// Session игровая сессия
type Session struct {
	ID     string
	Config Config

	Player   *entity.Player
	Spawn    *world.SpawnRoom
	Level    *level.Controller
	LevelNum int
	Phase    Phase
	Counters entity.Counters

	// Survival игровое время в секундах
	Survival float64
	Ticks    uint64

	Victory    bool
	FinalScore int

	// levelTimer отсчитывает паузу после победы над боссом, -1 пока босс жив
	levelTimer    float64
	scoreReported bool

	objectives []Objective
	shop       []Item

	rng  *rand.Rand
	ctx  context.Context
	bus  eventbus.Publisher
	sink ScoreSink
	log  *logging.Logger
}

// New создает сессию: игрок в стартовой комнате, уровень StartLevel построен
func New(cfg Config, opts ...Option) *Session {
	def := DefaultConfig()
	if cfg.StartLevel < 1 {
		cfg.StartLevel = def.StartLevel
	}
	if cfg.MaxLevel < cfg.StartLevel {
		cfg.MaxLevel = max(def.MaxLevel, cfg.StartLevel)
	}
	if cfg.MaxDeltaTime <= 0 {
		cfg.MaxDeltaTime = def.MaxDeltaTime
	}
	if cfg.LevelCompleteDelay < 0 {
		cfg.LevelCompleteDelay = def.LevelCompleteDelay
	}
	if cfg.PlayerName == "" {
		cfg.PlayerName = def.PlayerName
	}

	s := &Session{
		ID:         uuid.NewString(),
		Config:     cfg,
		Player:     entity.NewPlayer(world.SpawnStart),
		Spawn:      world.NewSpawnRoom(world.NewEnv(cfg.Seed)),
		LevelNum:   cfg.StartLevel,
		Phase:      PhaseSpawn,
		levelTimer: -1,
		objectives: DefaultObjectives(),
		shop:       Catalog(),
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		ctx:        context.Background(),
		log:        logging.GetSimLogger(),
	}
	for _, o := range opts {
		o(s)
	}
	s.Level = s.buildLevel(s.LevelNum)

	s.log.Info("🚀 Новая сессия %s, уровень %d, seed %d", s.ID, s.LevelNum, cfg.Seed)
	return s
}

func (s *Session) buildLevel(n int) *level.Controller {
	return level.NewController(n, world.NewEnv(s.Config.Seed+int64(n)*7919))
}

// Over сообщает, что сессия завершена
func (s *Session) Over() bool {
	return s.Phase == PhaseOver
}

// Score текущий счет: деньги×10 + убийства×50 + секунды×5
func (s *Session) Score() int {
	return s.Player.Money*10 + s.Counters.EnemiesKilled*50 + int(s.Survival*5)
}

// Tick продвигает сессию на dt секунд. dt ограничивается MaxDeltaTime.
func (s *Session) Tick(dt float64, in Input) {
	if s.Over() {
		return
	}
	if dt < 0 {
		dt = 0
	}
	dt = min(dt, s.Config.MaxDeltaTime)
	s.Ticks++
	s.Survival += dt

	p := s.Player
	if in.Buy != NoPurchase {
		if err := s.Buy(in.Buy); err != nil {
			s.log.Debug("Покупка отклонена: %v", err)
		}
	}
	if in.SwitchWeapon {
		p.SwitchWeapon()
	}
	if in.Dodge {
		p.StartDodge()
	}

	var shots []*entity.Projectile
	if in.Fire {
		shots = p.Fire(s.rng)
	}
	p.Update(dt, in.Move(), in.Aim)

	switch s.Phase {
	case PhaseSpawn:
		// В стартовой комнате выстрелы никуда не летят
		s.tickSpawn(dt)
	case PhaseDungeon:
		s.Level.Current().Base().AddPlayerProjectiles(shots...)
		s.tickDungeon(dt)
	}

	if !p.IsAlive() && !s.Over() {
		s.finish(false)
		return
	}
	if !s.Over() {
		s.updateObjectives()
	}
}

func (s *Session) tickSpawn(dt float64) {
	p := s.Player
	s.Spawn.Step(dt, p, nil)

	switch {
	case s.Spawn.ExitReached(p):
		s.enterDungeon()
	case s.Level.TeleporterActive && s.Spawn.TeleporterTouched(p):
		s.Phase = PhaseDungeon
		s.publishRoom(eventbus.TypeRoomEntered, level.BossRoomID)
		if s.Level.TeleportToBoss(p) {
			s.publishRoom(eventbus.TypeBossSpawned, level.BossRoomID)
		}
		s.log.Info("⚡ Телепорт в комнату босса")
	}
}

// enterDungeon переводит игрока из стартовой комнаты в первую комнату уровня
func (s *Session) enterDungeon() {
	s.Phase = PhaseDungeon
	s.Level.EnterRoom(level.FirstRoomID, s.Player)
	first := s.Level.Rooms[level.FirstRoomID].Base()
	s.Player.Position = first.NearestFloor(level.EntryPoint(level.FirstRoomID))
	s.log.Info("🏰 Вход в подземелье уровня %d", s.LevelNum)
	s.publishRoom(eventbus.TypeRoomEntered, level.FirstRoomID)
}

func (s *Session) tickDungeon(dt float64) {
	res := s.Level.Update(dt, s.Player, &s.Counters)
	s.publishResult(res)

	if res.ExitToSpawn {
		s.Phase = PhaseSpawn
		s.Player.Position = world.SpawnReturn
		s.log.Info("↩️ Возврат в стартовую комнату")
		return
	}

	if boss := s.Level.BossRoom(); boss != nil && boss.Defeated() {
		if s.levelTimer < 0 {
			s.levelTimer = 0
			s.log.Info("🎉 Уровень %d пройден", s.LevelNum)
		}
		s.levelTimer += dt
		if s.levelTimer > s.Config.LevelCompleteDelay {
			s.advanceLevel()
		}
	}
}

// advanceLevel переходит на следующий уровень или завершает игру победой
func (s *Session) advanceLevel() {
	s.levelTimer = -1
	if s.LevelNum >= s.Config.MaxLevel {
		s.Victory = true
		s.log.Info("🏆 Пройдены все %d уровней", s.Config.MaxLevel)
		s.finish(true)
		return
	}

	s.LevelNum++
	s.Counters.ResetLevel()

	p := s.Player
	bonus := 20 * s.LevelNum
	p.Money += bonus
	p.Heal(min(30, p.MaxHealth-p.Health))

	s.Level = s.buildLevel(s.LevelNum)
	s.Phase = PhaseSpawn
	p.Position = world.SpawnReturn

	s.log.Info("🎉 Новый уровень %d, бонус %d", s.LevelNum, bonus)
	s.publish(eventbus.TypeLevelAdvanced, eventbus.PriorityNormal, eventbus.LevelAdvanced{Level: s.LevelNum, Bonus: bonus})
}

// finish фиксирует итоговый счет и сообщает его один раз
func (s *Session) finish(victory bool) {
	s.Phase = PhaseOver
	s.Victory = victory
	s.FinalScore = s.Score()
	s.log.Info("💀 Игра окончена: счет %d, уровень %d, убито %d", s.FinalScore, s.LevelNum, s.Counters.EnemiesKilled)

	s.publish(eventbus.TypeGameOver, eventbus.PriorityCritical, eventbus.GameOver{
		Victory:  victory,
		Score:    s.FinalScore,
		Level:    s.LevelNum,
		Kills:    s.Counters.EnemiesKilled,
		Money:    s.Player.Money,
		Survival: s.Survival,
	})
	s.reportScore()
}

func (s *Session) reportScore() {
	if s.scoreReported || s.sink == nil {
		return
	}
	s.scoreReported = true
	err := s.sink.Save(s.ctx, storage.Score{
		SessionID: s.ID,
		Player:    s.Config.PlayerName,
		Score:     s.FinalScore,
		Level:     s.LevelNum,
		Kills:     s.Counters.EnemiesKilled,
		Money:     s.Player.Money,
		Survival:  s.Survival,
		Victory:   s.Victory,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error("Ошибка сохранения счета: %v", err)
	}
}
