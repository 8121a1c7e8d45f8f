package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/annel0/gungeon-sim/internal/app"
	"github.com/annel0/gungeon-sim/internal/config"
	"github.com/annel0/gungeon-sim/internal/logging"
	"github.com/annel0/gungeon-sim/internal/observability"
)

func main() {
	var (
		configPath = flag.String("config", "", "путь к YAML конфигурации (по умолчанию GUNGEON_CONFIG)")
		seed       = flag.Int64("seed", 0, "сид прогона, 0 берет значение из конфигурации")
		ticks      = flag.Int("ticks", -1, "лимит тиков, -1 берет значение из конфигурации, 0 без лимита")
		realtime   = flag.Bool("realtime", false, "выдерживать реальный темп тиков")
		serve      = flag.Bool("serve", false, "после окончания прогона держать REST API до сигнала")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}
	if *ticks >= 0 {
		cfg.Sim.MaxTicks = *ticks
	}
	if *realtime {
		cfg.Sim.Realtime = true
	}
	if *serve {
		cfg.Server.EnableAPI = true
	}

	// === ЛОГИРОВАНИЕ ===
	logging.LogDir = cfg.Logging.Dir
	if err := logging.InitLogger("gungeon-sim"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseLogger()

	consoleLevel, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fileLevel, err := logging.ParseLevel(cfg.Logging.FileLevel)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	logging.Default().SetLevels(consoleLevel, fileLevel)

	manager := logging.GetLoggerManager()
	if cfg.Logging.ToFile {
		manager.EnableFileOutput()
	}
	manager.SetDefaultLevels(consoleLevel, fileLevel)
	defer manager.CloseAll()

	logging.LogInfo("🎮 Запуск симуляции: хранилище=%s, шина=%s, API=%v", cfg.Storage.Backend, cfg.EventBus.Backend, cfg.Server.EnableAPI)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === ТЕЛЕМЕТРИЯ ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		logging.LogError("❌ Ошибка инициализации OpenTelemetry: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.LogWarn("⚠️ Ошибка остановки OpenTelemetry: %v", err)
		}
	}()

	// === ПРОГОН ===
	runner, err := app.New(ctx, cfg)
	if err != nil {
		logging.LogError("❌ Ошибка инициализации прогона: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := runner.Close(); err != nil {
			logging.LogError("❌ Ошибка остановки: %v", err)
		}
	}()

	res, err := runner.Run(ctx)
	if err != nil {
		logging.LogError("❌ Прогон прерван: %v", err)
	}

	logging.LogInfo("📊 Сессия %s: тиков %d, уровень %d, счет %d, конец игры %v, победа %v",
		res.SessionID, res.Ticks, res.Level, res.Score, res.GameOver, res.Victory)
	if res.ReplayPath != "" {
		logging.LogInfo("🎞️ Запись: %s", res.ReplayPath)
	}

	if cfg.Server.EnableAPI && ctx.Err() == nil {
		logging.LogInfo("🌐 REST API доступен на :%d до сигнала завершения", cfg.Server.GetAPIPort())
		<-ctx.Done()
	}

	logging.LogInfo("👋 Симуляция остановлена")
}
