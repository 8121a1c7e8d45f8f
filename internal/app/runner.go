// Package app собирает безголовый прогон: конфигурация, шина событий,
// хранилище рекордов, метрики, запись, REST API и сценарный игрок.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/gungeon-sim/internal/api"
	"github.com/annel0/gungeon-sim/internal/bot"
	"github.com/annel0/gungeon-sim/internal/config"
	"github.com/annel0/gungeon-sim/internal/eventbus"
	"github.com/annel0/gungeon-sim/internal/logging"
	"github.com/annel0/gungeon-sim/internal/metrics"
	"github.com/annel0/gungeon-sim/internal/observability"
	"github.com/annel0/gungeon-sim/internal/replay"
	"github.com/annel0/gungeon-sim/internal/session"
	"github.com/annel0/gungeon-sim/internal/storage"
)

// Result итог прогона
type Result struct {
	SessionID  string
	Ticks      uint64
	Score      int
	Level      int
	GameOver   bool
	Victory    bool
	ReplayPath string
}

// Option настраивает Runner
type Option func(*Runner)

// WithRegistry регистрирует метрики в reg вместо глобального регистра
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Runner) {
		r.registerer = reg
		r.gatherer = reg
	}
}

// WithoutAPI не поднимает HTTP серверы независимо от конфигурации
func WithoutAPI() Option {
	return func(r *Runner) { r.noHTTP = true }
}

// Runner владеет сессией и всей инфраструктурой вокруг нее
type Runner struct {
	cfg *config.Config

	Session   *session.Session
	Snapshots *api.SnapshotHolder

	bot        *bot.Bot
	bus        eventbus.EventBus
	scores     storage.ScoreRepo
	sim        *metrics.SimMetrics
	exporter   *eventbus.MetricsExporter
	exporting  bool
	server     *api.RestServer
	recorder   *replay.Recorder
	replayPath string
	subs       []eventbus.Subscription

	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	noHTTP     bool
	tracer     trace.Tracer
	log        *logging.Logger
}

// New создает все компоненты. При ошибке уже открытые ресурсы закрываются.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (r *Runner, err error) {
	r = &Runner{
		cfg:        cfg,
		Snapshots:  api.NewSnapshotHolder(),
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
		tracer:     observability.Tracer(),
		log:        logging.GetSimLogger(),
	}
	for _, o := range opts {
		o(r)
	}
	defer func() {
		if err != nil {
			r.Close()
			r = nil
		}
	}()

	if r.bus, err = openBus(cfg.EventBus); err != nil {
		return r, err
	}
	sub, err := eventbus.StartLoggingListener(r.bus)
	if err != nil {
		return r, fmt.Errorf("ошибка подписки логгера событий: %w", err)
	}
	r.subs = append(r.subs, sub)

	stats := metrics.NewProcessStats()
	r.sim = metrics.NewSimMetrics(r.registerer, stats)
	if sub, err = r.sim.Subscribe(ctx, r.bus); err != nil {
		return r, fmt.Errorf("ошибка подписки метрик: %w", err)
	}
	r.subs = append(r.subs, sub)
	r.exporter = eventbus.NewMetricsExporter(r.bus, r.registerer)

	if r.scores, err = storage.Open(ctx, cfg.Storage); err != nil {
		return r, fmt.Errorf("ошибка открытия хранилища рекордов: %w", err)
	}

	scfg := session.DefaultConfig()
	if cfg.Sim.Seed != 0 {
		scfg.Seed = cfg.Sim.Seed
	}
	scfg.PlayerName = cfg.Sim.PlayerName
	scfg.StartLevel = cfg.Sim.StartLevel
	scfg.MaxLevel = cfg.Sim.MaxLevel
	r.Session = session.New(scfg,
		session.WithBus(r.bus),
		session.WithScoreSink(r.scores),
		session.WithContext(ctx),
	)
	r.bot = bot.New(scfg.Seed)

	if cfg.Replay.Enabled {
		if r.recorder, r.replayPath, err = replay.Create(cfg.Replay.Path, r.Session.ID); err != nil {
			return r, err
		}
	}

	if !r.noHTTP && cfg.Server.EnableAPI {
		replayDir := ""
		if cfg.Replay.Enabled {
			replayDir = cfg.Replay.Path
		}
		r.server = api.NewRestServer(api.Config{
			Port:      ":" + strconv.Itoa(cfg.Server.GetAPIPort()),
			Snapshots: r.Snapshots,
			Scores:    r.scores,
			Stats:     stats,
			ReplayDir: replayDir,
			Registry:  r.registerer,
			Gatherer:  r.gatherer,
		})
	}
	return r, nil
}

func openBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	switch cfg.Backend {
	case config.BusNATS:
		bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
		if err != nil {
			return nil, err
		}
		return bus, nil
	default:
		return eventbus.NewMemoryBus(cfg.Capacity), nil
	}
}

// Run крутит симуляцию до конца игры, MaxTicks или отмены ctx
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.server != nil {
		go func() {
			if err := r.server.Start(); err != nil {
				r.log.Error("❌ Ошибка REST API: %v", err)
			}
		}()
		r.exporter.Start()
	} else if !r.noHTTP && r.cfg.Server.MetricsPort > 0 {
		r.exporter.StartHTTP(":" + strconv.Itoa(r.cfg.Server.GetMetricsPort()))
	} else {
		r.exporter.Start()
	}
	r.exporting = true

	dt := r.cfg.Sim.DeltaTime()
	var ticker *time.Ticker
	if r.cfg.Sim.Realtime {
		ticker = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
	}

	s := r.Session
	runCtx, runSpan := r.tracer.Start(ctx, "session", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int64("session.seed", s.Config.Seed),
	))
	defer runSpan.End()

	level := s.LevelNum
	_, levelSpan := r.tracer.Start(runCtx, "level", trace.WithAttributes(attribute.Int("level", level)))

	snap := s.Snapshot()
	r.Snapshots.Store(snap)
	r.log.Info("▶️ Прогон %s: %d тиков/с, лимит %d тиков", s.ID, r.cfg.Sim.TickRate, r.cfg.Sim.MaxTicks)

	var runErr error
loop:
	for !s.Over() && (r.cfg.Sim.MaxTicks <= 0 || s.Ticks < uint64(r.cfg.Sim.MaxTicks)) {
		if ticker != nil {
			select {
			case <-ctx.Done():
				runErr = ctx.Err()
				break loop
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		in := r.bot.Next(snap, dt)
		start := time.Now()
		s.Tick(dt, in)
		snap = s.Snapshot()
		r.sim.ObserveTick(time.Since(start), snap)
		r.Snapshots.Store(snap)

		if r.recorder != nil && s.Ticks%uint64(r.cfg.Replay.EveryTicks) == 0 {
			if err := r.recorder.Record(snap); err != nil {
				r.log.Warn("⚠️ Запись кадра не удалась, запись остановлена: %v", err)
				r.recorder.Close()
				r.recorder = nil
			}
		}

		if s.LevelNum != level {
			levelSpan.End()
			level = s.LevelNum
			_, levelSpan = r.tracer.Start(runCtx, "level", trace.WithAttributes(attribute.Int("level", level)))
		}
	}
	levelSpan.End()

	res := Result{
		SessionID:  s.ID,
		Ticks:      s.Ticks,
		Score:      snap.Score,
		Level:      s.LevelNum,
		GameOver:   s.Over(),
		Victory:    s.Victory,
		ReplayPath: r.replayPath,
	}
	runSpan.SetAttributes(
		attribute.Int("session.score", res.Score),
		attribute.Bool("session.victory", res.Victory),
	)

	if !s.Over() {
		r.log.Info("⏹️ Прогон остановлен на тике %d, счет %d", s.Ticks, res.Score)
	} else {
		r.log.Info("🏁 Прогон завершен: счет %d, уровень %d, победа %v", res.Score, res.Level, res.Victory)
	}
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	return res, runErr
}

// Close останавливает HTTP, закрывает запись, шину и хранилище
func (r *Runner) Close() error {
	var errs []error

	if r.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.server.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
		cancel()
	}
	if r.recorder != nil {
		if err := r.recorder.Close(); err != nil {
			errs = append(errs, err)
		}
		r.recorder = nil
	}
	for _, sub := range r.subs {
		sub.Unsubscribe()
	}
	r.subs = nil
	if r.exporting {
		r.exporter.Stop()
		r.exporting = false
	}
	if r.bus != nil {
		if err := r.bus.Close(); err != nil {
			errs = append(errs, err)
		}
		r.bus = nil
	}
	if r.scores != nil {
		if err := r.scores.Close(); err != nil {
			errs = append(errs, err)
		}
		r.scores = nil
	}
	return errors.Join(errs...)
}

// Scores хранилище рекордов прогона
func (r *Runner) Scores() storage.ScoreRepo {
	return r.scores
}
