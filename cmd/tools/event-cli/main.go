package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/annel0/gungeon-sim/internal/eventbus"
)

const (
	defaultNatsURL = "nats://127.0.0.1:4222"
	timeFormat     = "15:04:05.000"
)

func main() {
	var (
		natsURL    = flag.String("nats", defaultNatsURL, "адрес NATS")
		stream     = flag.String("stream", "GUNGEON", "имя JetStream стрима")
		eventTypes = flag.String("types", "", "фильтр типов событий (через запятую)")
		session    = flag.String("session", "", "фильтр по ID сессии")
		limit      = flag.Int("limit", 100, "максимум событий без -follow")
		follow     = flag.Bool("follow", false, "следить за новыми событиями (как tail -f)")
		timeout    = flag.Duration("timeout", 10*time.Second, "ожидание без -follow")
	)
	flag.Parse()

	bus, err := eventbus.NewJetStreamBus(*natsURL, *stream, 0)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к шине: %v", err)
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if !*follow {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	fmt.Printf("🎬 События %s (limit: %d, follow: %v)\n", *stream, *limit, *follow)

	var count atomic.Int64
	done := make(chan struct{})
	var closed atomic.Bool

	filter := eventbus.Filter{Types: parseStringList(*eventTypes)}
	sub, err := bus.Subscribe(ctx, filter, func(_ context.Context, ev *eventbus.Envelope) {
		if *session != "" && ev.CorrelationID != *session {
			return
		}
		printEvent(ev)
		if n := count.Add(1); !*follow && n >= int64(*limit) && closed.CompareAndSwap(false, true) {
			close(done)
		}
	})
	if err != nil {
		log.Fatalf("❌ Ошибка подписки: %v", err)
	}
	defer sub.Unsubscribe()

	select {
	case <-ctx.Done():
	case <-done:
	}

	fmt.Printf("\n📊 Всего событий: %d\n", count.Load())
}

// printEvent выводит событие одной строкой
func printEvent(ev *eventbus.Envelope) {
	fmt.Printf("[%s] %-20s session=%s prio=%d %s\n",
		ev.Timestamp.Local().Format(timeFormat), ev.EventType, shortID(ev.CorrelationID), ev.Priority, ev.Payload)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseStringList парсит строку через запятую в слайс
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
