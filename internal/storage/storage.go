// Package storage is the boundary between the managers and wherever records
// live: the local SQLite database or a tempo HTTP server.
package storage

import (
	"context"
	"time"

	"github.com/thenoetrevino/tempo/internal/models"
)

// Storage is the persistence contract the managers depend on
type Storage interface {
	ListRepeatTasks(ctx context.Context) ([]models.RepeatTask, error)
	CreateRepeatTask(ctx context.Context, task models.RepeatTask) (models.RepeatTask, error)
	UpdateRepeatTask(ctx context.Context, id string, task models.RepeatTask) (models.RepeatTask, error)
	DeleteRepeatTask(ctx context.Context, id string) error

	CreateMatter(ctx context.Context, m models.Matter) (models.Matter, error)

	CreateTag(ctx context.Context, names string) error
	DeleteTag(ctx context.Context, names string) error
	UpdateTagLastUsedAt(ctx context.Context, names string) error
	GetAllTags(ctx context.Context) ([]models.Tag, error)
}

// MatterQuerier reads matters back for listing
type MatterQuerier interface {
	ListMatters(ctx context.Context) ([]models.Matter, error)
	ListMattersByRange(ctx context.Context, start, end time.Time) ([]models.Matter, error)
}

// Backend is everything the HTTP API serves
type Backend interface {
	Storage
	MatterQuerier

	GetRepeatTask(ctx context.Context, id string) (models.RepeatTask, error)
	ListActiveRepeatTasks(ctx context.Context) ([]models.RepeatTask, error)
	SetRepeatTaskStatus(ctx context.Context, id string, status models.RepeatTaskStatus) error

	GetMatter(ctx context.Context, id string) (models.Matter, error)
	QueryMatters(ctx context.Context, field, value string, exact bool) ([]models.Matter, error)
	UpdateMatter(ctx context.Context, id string, m models.Matter) (models.Matter, error)
	DeleteMatter(ctx context.Context, id string) error
}

var (
	_ Backend       = (*Local)(nil)
	_ Storage       = (*HTTP)(nil)
	_ MatterQuerier = (*HTTP)(nil)
)
