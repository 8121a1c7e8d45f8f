package storage

import (
	"context"
	"fmt"

	"github.com/annel0/gungeon-sim/internal/config"
	"github.com/annel0/gungeon-sim/internal/logging"
)

// Open создает хранилище рекордов по конфигурации
func Open(ctx context.Context, cfg config.StorageConfig) (ScoreRepo, error) {
	log := logging.GetStorageLogger()

	var (
		repo ScoreRepo
		err  error
	)
	switch cfg.Backend {
	case config.StorageMemory, "":
		repo = NewMemoryScoreRepo()
	case config.StorageBadger:
		repo, err = NewBadgerScoreRepo(cfg.Path)
	case config.StorageRedis:
		repo, err = NewRedisScoreRepo(ctx, RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	case config.StorageMaria:
		repo, err = NewMariaScoreRepo(ctx, cfg.Maria.DSN)
	case config.StorageMongo:
		repo, err = NewMongoScoreRepo(ctx, MongoOptions{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	default:
		return nil, fmt.Errorf("неизвестное хранилище: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	log.Info("💾 Хранилище рекордов: %s", backendName(cfg.Backend))
	return repo, nil
}

func backendName(b string) string {
	if b == "" {
		return config.StorageMemory
	}
	return b
}
