package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/gungeon-sim/internal/config"
)

var base = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func score(id string, points int, offset time.Duration) Score {
	return Score{SessionID: id, Player: "p-" + id, Score: points, Level: 2, Kills: 3, Money: 7, Survival: 12.5, CreatedAt: base.Add(offset)}
}

// testScoreRepo общий контракт для всех реализаций ScoreRepo
func testScoreRepo(t *testing.T, repo ScoreRepo) {
	ctx := context.Background()

	t.Run("Save and Get", func(t *testing.T) {
		s := score("a", 500, 0)
		require.NoError(t, repo.Save(ctx, s))

		got, err := repo.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, s.Player, got.Player)
		assert.Equal(t, s.Score, got.Score)
		assert.Equal(t, s.Survival, got.Survival)
		assert.True(t, s.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, score("b", 100, time.Second)))
		require.NoError(t, repo.Save(ctx, score("b", 900, time.Second)))

		got, err := repo.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, 900, got.Score, "повторное сохранение перезаписывает результат")
	})

	t.Run("Top Order", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, score("c", 500, -time.Minute)))
		require.NoError(t, repo.Save(ctx, score("d", 50, 0)))

		top, err := repo.Top(ctx, 3)
		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.Equal(t, "b", top[0].SessionID)
		assert.Equal(t, "c", top[1].SessionID, "при равном счете раньше идет более ранний результат")
		assert.Equal(t, "a", top[2].SessionID)

		all, err := repo.Top(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, Score{Score: 10}), "пустой session_id")
		assert.Error(t, repo.Save(ctx, Score{SessionID: "x", Score: -1}), "отрицательный счет")
	})
}

func TestMemoryScoreRepo(t *testing.T) {
	repo := NewMemoryScoreRepo()
	defer repo.Close()

	testScoreRepo(t, repo)
	assert.Equal(t, 4, repo.Count())
}

func TestMemoryScoreRepoCancelled(t *testing.T) {
	repo := NewMemoryScoreRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Save(ctx, score("a", 1, 0)), context.Canceled)
	_, err := repo.Top(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBadgerScoreRepo(t *testing.T) {
	repo, err := NewBadgerScoreRepo("")
	require.NoError(t, err)
	defer repo.Close()

	testScoreRepo(t, repo)
}

func TestBadgerScoreRepoPersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewBadgerScoreRepo(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, score("persist", 321, 0)))
	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close(), "повторное закрытие безопасно")

	assert.Error(t, repo.Save(ctx, score("late", 1, 0)), "запись после закрытия")

	reopened, err := NewBadgerScoreRepo(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "persist")
	require.NoError(t, err)
	assert.Equal(t, 321, got.Score)
}

func TestOpenMemory(t *testing.T) {
	repo, err := Open(context.Background(), config.StorageConfig{Backend: config.StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryScoreRepo{}, repo)

	_, err = Open(context.Background(), config.StorageConfig{Backend: "cassandra"})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	scores := []Score{score("a", 3, 0), score("b", 2, 0), score("c", 1, 0)}
	assert.Len(t, truncate(scores, 2), 2)
	assert.Len(t, truncate(scores, 0), 3)
	assert.Len(t, truncate(scores, 10), 3)
}
