package storage

import (
	"context"
	"sync"
)

// MemoryScoreRepo реализует ScoreRepo в памяти.
// Используется по умолчанию и в тестах. Данные теряются при перезапуске.
type MemoryScoreRepo struct {
	mu   sync.RWMutex
	data map[string]Score // sessionID -> результат
}

// NewMemoryScoreRepo создает пустой репозиторий
func NewMemoryScoreRepo() *MemoryScoreRepo {
	return &MemoryScoreRepo{data: make(map[string]Score)}
}

// Save сохраняет результат в памяти.
func (r *MemoryScoreRepo) Save(ctx context.Context, s Score) error {
	if err := s.Validate(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.SessionID] = s
	return nil
}

// Get возвращает результат сессии.
func (r *MemoryScoreRepo) Get(ctx context.Context, sessionID string) (Score, error) {
	select {
	case <-ctx.Done():
		return Score{}, ctx.Err()
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.data[sessionID]
	if !ok {
		return Score{}, ErrNotFound
	}
	return s, nil
}

// Top возвращает лучшие результаты.
func (r *MemoryScoreRepo) Top(ctx context.Context, limit int) ([]Score, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.mu.RLock()
	scores := make([]Score, 0, len(r.data))
	for _, s := range r.data {
		scores = append(scores, s)
	}
	r.mu.RUnlock()

	sortScores(scores)
	return truncate(scores, limit), nil
}

// Count возвращает количество сохраненных результатов.
func (r *MemoryScoreRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Close ничего не делает.
func (r *MemoryScoreRepo) Close() error { return nil }
