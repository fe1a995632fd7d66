package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tempo/internal/models"
)

func seedMatters(t *testing.T, repo *Repository) {
	t.Helper()
	ctx := context.Background()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	m1 := newTestMatter("m1", "Morning review", day.Add(8*time.Hour))
	m1.Tags = "work,review"
	m2 := newTestMatter("m2", "Lunch", day.Add(12*time.Hour))
	m2.Type = models.MatterRepeatTask
	m2.Reserved1 = models.ColorBlue
	m2.Reserved2 = "task-9"
	m3 := newTestMatter("m3", "Next day", day.Add(32*time.Hour))

	for _, m := range []*models.Matter{m1, m2, m3} {
		require.NoError(t, repo.CreateMatter(ctx, m))
	}
}

func TestMatterCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	start := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

	m := newTestMatter("m1", "Review", start)
	m.Reserved1 = models.ColorRed
	require.NoError(t, repo.CreateMatter(ctx, m))

	got, err := repo.GetMatter(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Review", got.Title)
	assert.True(t, got.StartTime.Equal(start))
	assert.True(t, got.EndTime.Equal(start.Add(time.Hour)))
	assert.Equal(t, models.ColorRed, got.Reserved1)

	got.Title = "Weekly review"
	require.NoError(t, repo.UpdateMatter(ctx, got))
	got, err = repo.GetMatter(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Weekly review", got.Title)

	require.NoError(t, repo.DeleteMatter(ctx, "m1"))
	_, err = repo.GetMatter(ctx, "m1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.UpdateMatter(ctx, got), ErrNotFound)
}

func TestMatter_Range(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	seedMatters(t, repo)
	ctx := context.Background()

	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	got, err := repo.GetMattersByRange(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)

	// end is exclusive
	got, err = repo.GetMattersByRange(ctx, day, day.Add(8*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMatter_QueryByField(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	seedMatters(t, repo)
	ctx := context.Background()

	t.Run("exact", func(t *testing.T) {
		got, err := repo.QueryMattersByField(ctx, "reserved_2", "task-9", true)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "m2", got[0].ID)
	})

	t.Run("contains", func(t *testing.T) {
		got, err := repo.QueryMattersByField(ctx, "tags", "review", false)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "m1", got[0].ID)
	})

	t.Run("type maps to column", func(t *testing.T) {
		got, err := repo.QueryMattersByField(ctx, "type", "1", true)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "m2", got[0].ID)
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		_, err := repo.QueryMattersByField(ctx, "title; DROP TABLE matters", "x", true)
		assert.ErrorIs(t, err, ErrInvalidField)
	})
}
