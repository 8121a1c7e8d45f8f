package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/annel0/gungeon-sim/internal/config"
	"github.com/annel0/gungeon-sim/internal/replay"
	"github.com/annel0/gungeon-sim/internal/storage"
)

const timeFormat = "2006-01-02 15:04:05"

func main() {
	var (
		configPath = flag.String("config", "", "путь к YAML конфигурации (по умолчанию GUNGEON_CONFIG)")
		command    = flag.String("cmd", "top", "Команда: top, get, replay")
		backend    = flag.String("storage", "", "хранилище: memory, badger, redis, maria, mongo")
		limit      = flag.Int("limit", 10, "количество записей для top")
		session    = flag.String("session", "", "ID сессии для get")
		file       = flag.String("file", "", "файл записи для replay")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
		if err := cfg.Validate(); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch *command {
	case "top":
		err = withRepo(ctx, cfg.Storage, func(repo storage.ScoreRepo) error {
			return showTop(ctx, repo, *limit)
		})
	case "get":
		err = withRepo(ctx, cfg.Storage, func(repo storage.ScoreRepo) error {
			return showScore(ctx, repo, *session)
		})
	case "replay":
		err = showReplay(*file)
	default:
		fmt.Printf("❌ Неизвестная команда: %s\n", *command)
		fmt.Println("Доступные команды: top, get, replay")
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("❌ %s: %v", *command, err)
	}
}

func withRepo(ctx context.Context, cfg config.StorageConfig, fn func(storage.ScoreRepo) error) error {
	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()
	return fn(repo)
}

// showTop выводит таблицу рекордов
func showTop(ctx context.Context, repo storage.ScoreRepo, limit int) error {
	scores, err := repo.Top(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Printf("🏆 Лучшие результаты (%d)\n", len(scores))
	for i, s := range scores {
		mark := ""
		if s.Victory {
			mark = " 👑"
		}
		fmt.Printf("%3d. %-16s %7d  ур.%-2d убито %-4d %s %s%s\n",
			i+1, s.Player, s.Score, s.Level, s.Kills, s.CreatedAt.Local().Format(timeFormat), s.SessionID, mark)
	}
	return nil
}

// showScore выводит результат одной сессии
func showScore(ctx context.Context, repo storage.ScoreRepo, sessionID string) error {
	if sessionID == "" {
		return errors.New("требуется -session")
	}
	s, err := repo.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	fmt.Printf("🎮 Сессия %s\n", s.SessionID)
	fmt.Printf("  Игрок:     %s\n", s.Player)
	fmt.Printf("  Счет:      %d\n", s.Score)
	fmt.Printf("  Уровень:   %d\n", s.Level)
	fmt.Printf("  Убито:     %d\n", s.Kills)
	fmt.Printf("  Деньги:    %d\n", s.Money)
	fmt.Printf("  Время:     %.1fс\n", s.Survival)
	fmt.Printf("  Победа:    %v\n", s.Victory)
	fmt.Printf("  Сохранено: %s\n", s.CreatedAt.Local().Format(timeFormat))
	return nil
}

// showReplay выводит сводку по кадрам записи
func showReplay(path string) error {
	if path == "" {
		return errors.New("требуется -file")
	}
	rd, err := replay.Open(path)
	if err != nil {
		return err
	}
	defer rd.Close()

	frames, err := rd.ReadAll()
	if err != nil {
		fmt.Printf("⚠️ Запись прочитана частично: %v\n", err)
	}
	if len(frames) == 0 {
		fmt.Println("Запись пуста")
		return nil
	}

	first, last := frames[0].Snapshot, frames[len(frames)-1].Snapshot
	fmt.Printf("🎞️ Сессия %s: %d кадров, тики %d..%d\n", first.SessionID, len(frames), first.Tick, last.Tick)

	room := ""
	for _, f := range frames {
		snap := f.Snapshot
		if snap.Room.ID != room {
			room = snap.Room.ID
			fmt.Printf("  тик %6d  ур.%d  %-12s hp %3d/%-3d врагов %d\n",
				snap.Tick, snap.Level, room, snap.Player.Health, snap.Player.MaxHealth, len(snap.Enemies))
		}
	}
	fmt.Printf("Итог: счет %d, конец игры %v, победа %v\n", last.Score, last.GameOver, last.Victory)
	return nil
}
