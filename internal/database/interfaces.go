// Package database defines repository interfaces for data access
package database

import (
	"context"
	"time"

	"github.com/thenoetrevino/tempo/internal/models"
)

// RepeatTaskReader defines read operations for repeat tasks.
type RepeatTaskReader interface {
	GetRepeatTask(ctx context.Context, id string) (*models.RepeatTask, error)
	GetAllRepeatTasks(ctx context.Context) ([]*models.RepeatTask, error)
	GetActiveRepeatTasks(ctx context.Context) ([]*models.RepeatTask, error)
}

// RepeatTaskWriter defines write operations for repeat tasks.
type RepeatTaskWriter interface {
	CreateRepeatTask(ctx context.Context, task *models.RepeatTask) error
	UpdateRepeatTask(ctx context.Context, task *models.RepeatTask) error
	UpdateRepeatTaskStatus(ctx context.Context, id string, status models.RepeatTaskStatus) error
	DeleteRepeatTask(ctx context.Context, id string) error
}

// RepeatTaskRepository combines all repeat task operations.
type RepeatTaskRepository interface {
	RepeatTaskReader
	RepeatTaskWriter
}

// MatterReader defines read operations for matters.
type MatterReader interface {
	GetMatter(ctx context.Context, id string) (*models.Matter, error)
	GetAllMatters(ctx context.Context) ([]*models.Matter, error)
	GetMattersByRange(ctx context.Context, start, end time.Time) ([]*models.Matter, error)
	QueryMattersByField(ctx context.Context, field, value string, exact bool) ([]*models.Matter, error)
}

// MatterWriter defines write operations for matters.
type MatterWriter interface {
	CreateMatter(ctx context.Context, matter *models.Matter) error
	UpdateMatter(ctx context.Context, matter *models.Matter) error
	DeleteMatter(ctx context.Context, id string) error
}

// MatterRepository combines all matter operations.
type MatterRepository interface {
	MatterReader
	MatterWriter
}

// TagRepository defines tag operations. Names are passed comma-joined,
// the way the UI batches them.
type TagRepository interface {
	CreateTags(ctx context.Context, names string) error
	GetAllTags(ctx context.Context) ([]*models.Tag, error)
	DeleteTags(ctx context.Context, names string) error
	UpdateTagsLastUsedAt(ctx context.Context, names string) error
}

// DataStore is the unified interface for all data operations.
// Consumers can depend on the smaller interfaces for clearer dependencies.
type DataStore interface {
	RepeatTaskRepository
	MatterRepository
	TagRepository
}

// Compile-time verification that *Repository implements DataStore
var _ DataStore = (*Repository)(nil)
