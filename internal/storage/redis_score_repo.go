package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/annel0/gungeon-sim/internal/logging"
)

// RedisScoreRepo хранит таблицу рекордов в Redis:
// отсортированное множество <prefix>leaderboard и JSON по ключу <prefix>score:<id>.
type RedisScoreRepo struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisOptions настройки подключения к Redis
type RedisOptions struct {
	Addr      string        // Адрес Redis сервера
	Password  string        // Пароль (пустой если не требуется)
	DB        int           // Номер базы данных
	KeyPrefix string        // Префикс для ключей
	TTL       time.Duration // Время жизни записей, 0 без ограничения
}

// NewRedisScoreRepo подключается к Redis и проверяет соединение
func NewRedisScoreRepo(ctx context.Context, opts RedisOptions) (*RedisScoreRepo, error) {
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "gungeon:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	logging.GetStorageLogger().Info("🔴 Подключено к Redis %s", opts.Addr)
	return &RedisScoreRepo{client: client, keyPrefix: opts.KeyPrefix, ttl: opts.TTL}, nil
}

func (r *RedisScoreRepo) leaderboardKey() string {
	return r.keyPrefix + "leaderboard"
}

func (r *RedisScoreRepo) scoreKey(sessionID string) string {
	return r.keyPrefix + "score:" + sessionID
}

// Save записывает JSON и позицию в рейтинге одной транзакцией
func (r *RedisScoreRepo) Save(ctx context.Context, s Score) error {
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.scoreKey(s.SessionID), data, r.ttl)
		pipe.ZAdd(ctx, r.leaderboardKey(), &redis.Z{Score: float64(s.Score), Member: s.SessionID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения результата %s: %w", s.SessionID, err)
	}
	return nil
}

// Get загружает результат сессии
func (r *RedisScoreRepo) Get(ctx context.Context, sessionID string) (Score, error) {
	data, err := r.client.Get(ctx, r.scoreKey(sessionID)).Bytes()
	if err == redis.Nil {
		return Score{}, ErrNotFound
	}
	if err != nil {
		return Score{}, fmt.Errorf("ошибка загрузки результата %s: %w", sessionID, err)
	}

	var s Score
	if err := json.Unmarshal(data, &s); err != nil {
		return Score{}, fmt.Errorf("ошибка десериализации результата %s: %w", sessionID, err)
	}
	return s, nil
}

// Top читает лучшие id из рейтинга и получает их пайплайном
func (r *RedisScoreRepo) Top(ctx context.Context, limit int) ([]Score, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	ids, err := r.client.ZRevRange(ctx, r.leaderboardKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения рейтинга: %w", err)
	}
	if len(ids) == 0 {
		return []Score{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, r.scoreKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("ошибка чтения результатов: %w", err)
	}

	log := logging.GetStorageLogger()
	scores := make([]Score, 0, len(ids))
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err == redis.Nil {
			// Запись истекла по TTL, убираем из рейтинга
			r.client.ZRem(ctx, r.leaderboardKey(), ids[i])
			continue
		} else if err != nil {
			log.Warn("⚠️ Не удалось прочитать результат %s: %v", ids[i], err)
			continue
		}

		var s Score
		if err := json.Unmarshal(data, &s); err != nil {
			log.Warn("⚠️ Не удалось разобрать результат %s: %v", ids[i], err)
			continue
		}
		scores = append(scores, s)
	}

	sortScores(scores)
	return scores, nil
}

// Count количество записей в рейтинге
func (r *RedisScoreRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.client.ZCard(ctx, r.leaderboardKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета рейтинга: %w", err)
	}
	return n, nil
}

// Close закрывает соединение с Redis
func (r *RedisScoreRepo) Close() error {
	return r.client.Close()
}
