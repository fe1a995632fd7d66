package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/thenoetrevino/tempo/internal/models"
)

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*RepeatTaskRepo
	*MatterRepo
	*TagRepo
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		RepeatTaskRepo: &RepeatTaskRepo{db: db},
		MatterRepo:     &MatterRepo{db: db},
		TagRepo:        &TagRepo{db: db, now: time.Now},
	}
}

// Wrapper methods for RepeatTaskRepo
func (r *Repository) CreateRepeatTask(ctx context.Context, task *models.RepeatTask) error {
	return r.RepeatTaskRepo.Create(ctx, task)
}

func (r *Repository) GetRepeatTask(ctx context.Context, id string) (*models.RepeatTask, error) {
	return r.RepeatTaskRepo.GetByID(ctx, id)
}

func (r *Repository) GetAllRepeatTasks(ctx context.Context) ([]*models.RepeatTask, error) {
	return r.RepeatTaskRepo.GetAll(ctx)
}

func (r *Repository) GetActiveRepeatTasks(ctx context.Context) ([]*models.RepeatTask, error) {
	return r.RepeatTaskRepo.GetActive(ctx)
}

func (r *Repository) UpdateRepeatTask(ctx context.Context, task *models.RepeatTask) error {
	return r.RepeatTaskRepo.Update(ctx, task)
}

func (r *Repository) UpdateRepeatTaskStatus(ctx context.Context, id string, status models.RepeatTaskStatus) error {
	return r.RepeatTaskRepo.UpdateStatus(ctx, id, status)
}

func (r *Repository) DeleteRepeatTask(ctx context.Context, id string) error {
	return r.RepeatTaskRepo.Delete(ctx, id)
}

// Wrapper methods for MatterRepo
func (r *Repository) CreateMatter(ctx context.Context, m *models.Matter) error {
	return r.MatterRepo.Create(ctx, m)
}

func (r *Repository) GetMatter(ctx context.Context, id string) (*models.Matter, error) {
	return r.MatterRepo.GetByID(ctx, id)
}

func (r *Repository) GetAllMatters(ctx context.Context) ([]*models.Matter, error) {
	return r.MatterRepo.GetAll(ctx)
}

func (r *Repository) GetMattersByRange(ctx context.Context, start, end time.Time) ([]*models.Matter, error) {
	return r.MatterRepo.GetByRange(ctx, start, end)
}

func (r *Repository) QueryMattersByField(ctx context.Context, field, value string, exact bool) ([]*models.Matter, error) {
	return r.MatterRepo.QueryByField(ctx, field, value, exact)
}

func (r *Repository) UpdateMatter(ctx context.Context, m *models.Matter) error {
	return r.MatterRepo.Update(ctx, m)
}

func (r *Repository) DeleteMatter(ctx context.Context, id string) error {
	return r.MatterRepo.Delete(ctx, id)
}

// Wrapper methods for TagRepo
func (r *Repository) CreateTags(ctx context.Context, names string) error {
	return r.TagRepo.Create(ctx, names)
}

func (r *Repository) GetAllTags(ctx context.Context) ([]*models.Tag, error) {
	return r.TagRepo.GetAll(ctx)
}

func (r *Repository) DeleteTags(ctx context.Context, names string) error {
	return r.TagRepo.Delete(ctx, names)
}

func (r *Repository) UpdateTagsLastUsedAt(ctx context.Context, names string) error {
	return r.TagRepo.TouchLastUsedAt(ctx, names)
}
