package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MariaScoreRepo реализует ScoreRepo для MariaDB/MySQL.
// Использует таблицу scores.
type MariaScoreRepo struct {
	db *sql.DB
}

// NewMariaScoreRepo создает репозиторий рекордов для MariaDB.
// Автоматически создает таблицу, если она не существует.
//
// Параметры:
//
//	dsn - строка подключения к базе данных (user:pass@tcp(host:port)/dbname)
//
// parseTime включается принудительно: created_at читается как time.Time.
func NewMariaScoreRepo(ctx context.Context, dsn string) (*MariaScoreRepo, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("некорректный DSN MariaDB: %w", err)
	}
	cfg.ParseTime = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MariaDB: %w", err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с MariaDB: %w", err)
	}

	repo := &MariaScoreRepo{db: db}

	if err := repo.createTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу: %w", err)
	}

	return repo, nil
}

// createTable создает таблицу scores, если она не существует.
func (r *MariaScoreRepo) createTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS scores (
			session_id VARCHAR(64)  PRIMARY KEY,
			player     VARCHAR(64)  NOT NULL,
			score      INT          NOT NULL,
			level      INT          NOT NULL,
			kills      INT          NOT NULL,
			money      INT          NOT NULL,
			survival   DOUBLE       NOT NULL,
			victory    BOOLEAN      NOT NULL DEFAULT FALSE,
			created_at DATETIME(6)  NOT NULL,
			INDEX idx_score (score DESC, created_at)
		) ENGINE=InnoDB
	`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ошибка создания таблицы scores: %w", err)
	}
	return nil
}

// Save сохраняет результат.
// Использует INSERT ... ON DUPLICATE KEY UPDATE для повторных сохранений.
func (r *MariaScoreRepo) Save(ctx context.Context, s Score) error {
	if err := s.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO scores (session_id, player, score, level, kills, money, survival, victory, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			player = VALUES(player),
			score = VALUES(score),
			level = VALUES(level),
			kills = VALUES(kills),
			money = VALUES(money),
			survival = VALUES(survival),
			victory = VALUES(victory)
	`

	_, err := r.db.ExecContext(ctx, query,
		s.SessionID, s.Player, s.Score, s.Level, s.Kills, s.Money, s.Survival, s.Victory, s.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("ошибка сохранения результата %s: %w", s.SessionID, err)
	}
	return nil
}

const scoreColumns = `session_id, player, score, level, kills, money, survival, victory, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScore(row rowScanner) (Score, error) {
	var s Score
	err := row.Scan(&s.SessionID, &s.Player, &s.Score, &s.Level, &s.Kills, &s.Money, &s.Survival, &s.Victory, &s.CreatedAt)
	return s, err
}

// Get загружает результат сессии.
func (r *MariaScoreRepo) Get(ctx context.Context, sessionID string) (Score, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scoreColumns+` FROM scores WHERE session_id = ?`, sessionID)
	s, err := scanScore(row)
	if err == sql.ErrNoRows {
		return Score{}, ErrNotFound
	}
	if err != nil {
		return Score{}, fmt.Errorf("ошибка загрузки результата %s: %w", sessionID, err)
	}
	return s, nil
}

// Top возвращает лучшие результаты, сортировка на стороне базы.
func (r *MariaScoreRepo) Top(ctx context.Context, limit int) ([]Score, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores ORDER BY score DESC, created_at ASC, session_id ASC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения рекордов: %w", err)
	}
	defer rows.Close()

	scores := []Score{}
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения строки рекордов: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка перебора рекордов: %w", err)
	}
	return scores, nil
}

// Close закрывает соединение с базой данных.
func (r *MariaScoreRepo) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
