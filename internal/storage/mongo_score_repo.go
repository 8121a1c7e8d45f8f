package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOptions настройки подключения к MongoDB
type MongoOptions struct {
	URI        string // e.g. mongodb://localhost:27017
	Database   string // e.g. gungeon
	Collection string // e.g. scores
}

// MongoScoreRepo реализует ScoreRepo на MongoDB.
type MongoScoreRepo struct {
	client     *mongo.Client
	collection *mongo.Collection
	ctxTimeout time.Duration
}

// NewMongoScoreRepo подключается и создает индексы
func NewMongoScoreRepo(ctx context.Context, opts MongoOptions) (*MongoScoreRepo, error) {
	if opts.URI == "" {
		opts.URI = "mongodb://localhost:27017"
	}
	if opts.Database == "" {
		opts.Database = "gungeon"
	}
	if opts.Collection == "" {
		opts.Collection = "scores"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB не отвечает: %w", err)
	}

	repo := &MongoScoreRepo{
		client:     client,
		collection: client.Database(opts.Database).Collection(opts.Collection),
		ctxTimeout: 5 * time.Second,
	}
	if err := repo.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ошибка создания индексов: %w", err)
	}
	return repo, nil
}

func (m *MongoScoreRepo) ensureIndexes(ctx context.Context) error {
	sessionIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("session_unique"),
	}
	scoreIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "score", Value: -1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("score_desc"),
	}
	_, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{sessionIdx, scoreIdx})
	return err
}

// Save заменяет документ сессии или вставляет новый
func (m *MongoScoreRepo) Save(ctx context.Context, s Score) error {
	if err := s.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()

	filter := bson.M{"session_id": s.SessionID}
	_, err := m.collection.ReplaceOne(ctx, filter, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("ошибка сохранения результата %s: %w", s.SessionID, err)
	}
	return nil
}

// Get загружает документ сессии
func (m *MongoScoreRepo) Get(ctx context.Context, sessionID string) (Score, error) {
	ctx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()

	var s Score
	err := m.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return Score{}, ErrNotFound
	}
	if err != nil {
		return Score{}, fmt.Errorf("ошибка загрузки результата %s: %w", sessionID, err)
	}
	return s, nil
}

// Top возвращает лучшие результаты, сортировка на стороне базы
func (m *MongoScoreRepo) Top(ctx context.Context, limit int) ([]Score, error) {
	ctx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "score", Value: -1},
		{Key: "created_at", Value: 1},
		{Key: "session_id", Value: 1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := m.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения рекордов: %w", err)
	}
	defer cur.Close(ctx)

	scores := []Score{}
	if err := cur.All(ctx, &scores); err != nil {
		return nil, fmt.Errorf("ошибка декодирования рекордов: %w", err)
	}
	return scores, nil
}

// Close отключается от MongoDB
func (m *MongoScoreRepo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.ctxTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}
