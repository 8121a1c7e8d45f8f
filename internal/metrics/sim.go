// Package metrics экспортирует метрики симуляции в Prometheus и собирает
// статистику процесса через gopsutil.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/annel0/gungeon-sim/internal/eventbus"
	"github.com/annel0/gungeon-sim/internal/session"
)

const namespace = "gungeon"

// SimMetrics метрики игрового цикла
type SimMetrics struct {
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	enemies      prometheus.Gauge
	projectiles  *prometheus.GaugeVec
	level        prometheus.Gauge
	health       prometheus.Gauge
	score        prometheus.Gauge
	events       *prometheus.CounterVec
}

// NewSimMetrics создает и регистрирует метрики в reg.
// Если ps != nil, дополнительно экспортируются CPU и RSS процесса.
func NewSimMetrics(reg prometheus.Registerer, ps *ProcessStats) *SimMetrics {
	m := &SimMetrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Количество выполненных тиков симуляции.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Длительность одного тика симуляции.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05},
		}),
		enemies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "enemies_alive",
			Help:      "Живые враги в текущей комнате.",
		}),
		projectiles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "projectiles_active",
			Help:      "Снаряды в текущей комнате.",
		}, []string{"owner"}),
		level: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "level",
			Help:      "Текущий уровень.",
		}),
		health: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_health",
			Help:      "Здоровье игрока.",
		}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Текущий счет сессии.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_events_total",
			Help:      "Игровые события по типу.",
		}, []string{"type"}),
	}

	reg.MustRegister(m.ticks, m.tickDuration, m.enemies, m.projectiles, m.level, m.health, m.score, m.events)

	if ps != nil {
		reg.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "process_cpu_percent",
				Help:      "Использование CPU процессом (gopsutil).",
			}, func() float64 {
				v, _ := ps.CPUPercent()
				return v
			}),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "process_rss_megabytes",
				Help:      "Резидентная память процесса (gopsutil).",
			}, func() float64 {
				v, _ := ps.RSSMB()
				return v
			}),
		)
	}
	return m
}

// ObserveTick учитывает длительность тика и состояние после него
func (m *SimMetrics) ObserveTick(d time.Duration, snap session.Snapshot) {
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
	m.enemies.Set(float64(len(snap.Enemies)))
	m.projectiles.WithLabelValues("player").Set(float64(len(snap.PlayerProjectiles)))
	m.projectiles.WithLabelValues("enemy").Set(float64(len(snap.EnemyProjectiles)))
	m.level.Set(float64(snap.Level))
	m.health.Set(float64(snap.Player.Health))
	m.score.Set(float64(snap.Score))
}

// CountEvent учитывает событие по типу
func (m *SimMetrics) CountEvent(eventType string) {
	m.events.WithLabelValues(eventType).Inc()
}

// Subscribe считает все события шины
func (m *SimMetrics) Subscribe(ctx context.Context, bus eventbus.EventBus) (eventbus.Subscription, error) {
	return bus.Subscribe(ctx, eventbus.Filter{}, func(_ context.Context, ev *eventbus.Envelope) {
		m.CountEvent(ev.EventType)
	})
}
