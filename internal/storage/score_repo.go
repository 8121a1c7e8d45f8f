// Package storage хранит таблицу рекордов: в памяти, BadgerDB, Redis,
// MariaDB или MongoDB.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrNotFound запись не найдена
var ErrNotFound = errors.New("запись не найдена")

// Score итог одной игровой сессии
type Score struct {
	SessionID string    `json:"session_id" bson:"session_id"`
	Player    string    `json:"player" bson:"player"`
	Score     int       `json:"score" bson:"score"`
	Level     int       `json:"level" bson:"level"`
	Kills     int       `json:"kills" bson:"kills"`
	Money     int       `json:"money" bson:"money"`
	Survival  float64   `json:"survival" bson:"survival"`
	Victory   bool      `json:"victory" bson:"victory"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Validate проверяет обязательные поля
func (s Score) Validate() error {
	if s.SessionID == "" {
		return fmt.Errorf("пустой session_id")
	}
	if s.Score < 0 {
		return fmt.Errorf("отрицательный счет: %d", s.Score)
	}
	return nil
}

// ScoreRepo определяет интерфейс хранилища рекордов
type ScoreRepo interface {
	// Save сохраняет результат. Повторное сохранение той же сессии перезаписывает его.
	Save(ctx context.Context, s Score) error

	// Get возвращает результат сессии или ErrNotFound.
	Get(ctx context.Context, sessionID string) (Score, error)

	// Top возвращает до limit лучших результатов по убыванию счета.
	Top(ctx context.Context, limit int) ([]Score, error)

	// Close освобождает ресурсы хранилища.
	Close() error
}

// sortScores упорядочивает по убыванию счета, при равенстве по времени
// и затем по session_id
func sortScores(scores []Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.SessionID < b.SessionID
	})
}

func truncate(scores []Score, limit int) []Score {
	if limit > 0 && len(scores) > limit {
		return scores[:limit]
	}
	return scores
}
