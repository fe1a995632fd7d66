// Package testutil provides shared fixtures for command and integration tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tempo/internal/database"
	"github.com/thenoetrevino/tempo/internal/models"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// NewStore returns local storage over a migrated in-memory database.
// The database is closed when the test ends.
func NewStore(t *testing.T) *storage.Local {
	t.Helper()

	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() { _ = db.Close() })

	return storage.NewLocal(database.NewRepository(db), nil)
}

// CreateTestRepeatTask stores a repeat task and returns it with its ID
func CreateTestRepeatTask(t *testing.T, store storage.Storage, title, repeatTime string) models.RepeatTask {
	t.Helper()

	task, err := store.CreateRepeatTask(context.Background(), models.RepeatTask{
		Title:      title,
		RepeatTime: repeatTime,
		Priority:   models.PriorityMedium,
		Status:     models.RepeatTaskActive,
	})
	require.NoError(t, err, "failed to create test repeat task")
	return task
}
