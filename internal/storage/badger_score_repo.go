package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v3"
)

const badgerScorePrefix = "score:"

// BadgerScoreRepo хранит результаты во встроенной BadgerDB.
// Ключ score:<session_id>, значение JSON.
type BadgerScoreRepo struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerScoreRepo открывает базу по пути dataPath.
// Пустой путь открывает базу в памяти.
func NewBadgerScoreRepo(dataPath string) (*BadgerScoreRepo, error) {
	opts := badger.DefaultOptions(dataPath)
	if dataPath == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &BadgerScoreRepo{db: db, dbPath: dataPath, isReady: true}, nil
}

func scoreKey(sessionID string) []byte {
	return []byte(badgerScorePrefix + sessionID)
}

func (r *BadgerScoreRepo) ready() error {
	if !r.isReady {
		return fmt.Errorf("хранилище закрыто")
	}
	return nil
}

// Save сохраняет результат
func (r *BadgerScoreRepo) Save(ctx context.Context, s Score) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := r.ready(); err != nil {
		return err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(scoreKey(s.SessionID), data)
	})
}

// Get загружает результат сессии
func (r *BadgerScoreRepo) Get(ctx context.Context, sessionID string) (Score, error) {
	if err := ctx.Err(); err != nil {
		return Score{}, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := r.ready(); err != nil {
		return Score{}, err
	}

	var s Score
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(scoreKey(sessionID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &s)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Score{}, ErrNotFound
	}
	if err != nil {
		return Score{}, fmt.Errorf("ошибка загрузки результата %s: %w", sessionID, err)
	}
	return s, nil
}

// Top перебирает все результаты по префиксу и сортирует их
func (r *BadgerScoreRepo) Top(ctx context.Context, limit int) ([]Score, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := r.ready(); err != nil {
		return nil, err
	}

	var scores []Score
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerScorePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var s Score
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &s)
			})
			if err != nil {
				return err
			}
			scores = append(scores, s)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения рекордов: %w", err)
	}

	sortScores(scores)
	return truncate(scores, limit), nil
}

// Close закрывает хранилище данных
func (r *BadgerScoreRepo) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.isReady {
		return nil
	}

	r.isReady = false
	return r.db.Close()
}
