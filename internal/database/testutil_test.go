package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/tempo/internal/models"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database and runs migrations
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// setupTestDBFile creates a file-based database for testing persistence across restarts
func setupTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tempo-test.db")

	db, err := InitDB(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return db, path
}

// closeAndReopenDB simulates app restart by closing and reopening the database
func closeAndReopenDB(t *testing.T, db *sql.DB, dbPath string) *sql.DB {
	t.Helper()
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}

	newDB, err := InitDB(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	t.Cleanup(func() { _ = newDB.Close() })
	return newDB
}

// ============================================================================
// FIXTURES
// ============================================================================

var fixtureTime = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestRepeatTask(id, title string) *models.RepeatTask {
	return &models.RepeatTask{
		ID:         id,
		Title:      title,
		Tags:       "work",
		RepeatTime: "MON,WED|08:00|10:00",
		Priority:   models.PriorityMedium,
		Status:     models.RepeatTaskActive,
		CreatedAt:  fixtureTime,
		UpdatedAt:  fixtureTime,
	}
}

func newTestMatter(id, title string, start time.Time) *models.Matter {
	return &models.Matter{
		ID:        id,
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Priority:  models.PriorityLow,
		Type:      models.MatterNormal,
		CreatedAt: fixtureTime,
		UpdatedAt: fixtureTime,
	}
}

// frozenRepo returns a repository whose tag clock is fixed at now
func frozenRepo(db *sql.DB, now time.Time) *Repository {
	repo := NewRepository(db)
	repo.TagRepo.now = func() time.Time { return now }
	return repo
}
