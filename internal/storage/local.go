package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/thenoetrevino/tempo/internal/database"
	"github.com/thenoetrevino/tempo/internal/events"
	"github.com/thenoetrevino/tempo/internal/models"
)

// Local serves records from the SQLite repository and announces every
// change on the event bus.
type Local struct {
	repo        database.DataStore
	eventClient events.EventPublisher
	validate    *validator.Validate
	now         func() time.Time
}

// NewLocal creates a Local storage. eventClient may be nil.
func NewLocal(repo database.DataStore, eventClient events.EventPublisher) *Local {
	return &Local{
		repo:        repo,
		eventClient: eventClient,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		now:         time.Now,
	}
}

// ============================================================================
// Repeat tasks
// ============================================================================

func (l *Local) ListRepeatTasks(ctx context.Context) ([]models.RepeatTask, error) {
	tasks, err := l.repo.GetAllRepeatTasks(ctx)
	if err != nil {
		return nil, err
	}
	return derefAll(tasks), nil
}

func (l *Local) ListActiveRepeatTasks(ctx context.Context) ([]models.RepeatTask, error) {
	tasks, err := l.repo.GetActiveRepeatTasks(ctx)
	if err != nil {
		return nil, err
	}
	return derefAll(tasks), nil
}

func (l *Local) GetRepeatTask(ctx context.Context, id string) (models.RepeatTask, error) {
	task, err := l.repo.GetRepeatTask(ctx, id)
	if err != nil {
		return models.RepeatTask{}, err
	}
	return *task, nil
}

// CreateRepeatTask stores task, assigning an id when it has none
func (l *Local) CreateRepeatTask(ctx context.Context, task models.RepeatTask) (models.RepeatTask, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := l.now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := l.check(task); err != nil {
		return models.RepeatTask{}, err
	}
	if err := l.repo.CreateRepeatTask(ctx, &task); err != nil {
		return models.RepeatTask{}, err
	}

	l.publish(events.EntityRepeatTask, task.ID)
	return task, nil
}

// UpdateRepeatTask overwrites the task with the given id and returns the stored record
func (l *Local) UpdateRepeatTask(ctx context.Context, id string, task models.RepeatTask) (models.RepeatTask, error) {
	task.ID = id
	task.UpdatedAt = l.now()

	if err := l.check(task); err != nil {
		return models.RepeatTask{}, err
	}
	if err := l.repo.UpdateRepeatTask(ctx, &task); err != nil {
		return models.RepeatTask{}, err
	}

	l.publish(events.EntityRepeatTask, id)
	return l.GetRepeatTask(ctx, id)
}

func (l *Local) SetRepeatTaskStatus(ctx context.Context, id string, status models.RepeatTaskStatus) error {
	if status != models.RepeatTaskActive && status != models.RepeatTaskInactive {
		return fmt.Errorf("%w: status %d", ErrInvalid, status)
	}
	if err := l.repo.UpdateRepeatTaskStatus(ctx, id, status); err != nil {
		return err
	}
	l.publish(events.EntityRepeatTask, id)
	return nil
}

func (l *Local) DeleteRepeatTask(ctx context.Context, id string) error {
	if err := l.repo.DeleteRepeatTask(ctx, id); err != nil {
		return err
	}
	l.publish(events.EntityRepeatTask, id)
	return nil
}

// ============================================================================
// Matters
// ============================================================================

// CreateMatter stores m, assigning an id when it has none
func (l *Local) CreateMatter(ctx context.Context, m models.Matter) (models.Matter, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := l.now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	if err := l.check(m); err != nil {
		return models.Matter{}, err
	}
	if err := l.repo.CreateMatter(ctx, &m); err != nil {
		return models.Matter{}, err
	}

	l.publish(events.EntityMatter, m.ID)
	return m, nil
}

func (l *Local) GetMatter(ctx context.Context, id string) (models.Matter, error) {
	m, err := l.repo.GetMatter(ctx, id)
	if err != nil {
		return models.Matter{}, err
	}
	return *m, nil
}

func (l *Local) ListMatters(ctx context.Context) ([]models.Matter, error) {
	matters, err := l.repo.GetAllMatters(ctx)
	if err != nil {
		return nil, err
	}
	return derefAll(matters), nil
}

func (l *Local) ListMattersByRange(ctx context.Context, start, end time.Time) ([]models.Matter, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end %s is before start %s", ErrInvalid, end, start)
	}
	matters, err := l.repo.GetMattersByRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return derefAll(matters), nil
}

func (l *Local) QueryMatters(ctx context.Context, field, value string, exact bool) ([]models.Matter, error) {
	matters, err := l.repo.QueryMattersByField(ctx, field, value, exact)
	if err != nil {
		return nil, err
	}
	return derefAll(matters), nil
}

func (l *Local) UpdateMatter(ctx context.Context, id string, m models.Matter) (models.Matter, error) {
	m.ID = id
	m.UpdatedAt = l.now()

	if err := l.check(m); err != nil {
		return models.Matter{}, err
	}
	if err := l.repo.UpdateMatter(ctx, &m); err != nil {
		return models.Matter{}, err
	}

	l.publish(events.EntityMatter, id)
	return l.GetMatter(ctx, id)
}

func (l *Local) DeleteMatter(ctx context.Context, id string) error {
	if err := l.repo.DeleteMatter(ctx, id); err != nil {
		return err
	}
	l.publish(events.EntityMatter, id)
	return nil
}

// ============================================================================
// Tags
// ============================================================================

func (l *Local) CreateTag(ctx context.Context, names string) error {
	if err := l.repo.CreateTags(ctx, names); err != nil {
		return err
	}
	l.publish(events.EntityTag, "")
	return nil
}

func (l *Local) DeleteTag(ctx context.Context, names string) error {
	if err := l.repo.DeleteTags(ctx, names); err != nil {
		return err
	}
	l.publish(events.EntityTag, "")
	return nil
}

func (l *Local) UpdateTagLastUsedAt(ctx context.Context, names string) error {
	if err := l.repo.UpdateTagsLastUsedAt(ctx, names); err != nil {
		return err
	}
	l.publish(events.EntityTag, "")
	return nil
}

func (l *Local) GetAllTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := l.repo.GetAllTags(ctx)
	if err != nil {
		return nil, err
	}
	return derefAll(tags), nil
}

// ============================================================================
// Helpers
// ============================================================================

// check runs struct validation, wrapping failures in ErrInvalid
func (l *Local) check(v interface{}) error {
	err := l.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed %q", ErrInvalid, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// publish announces a change if an event client is configured
func (l *Local) publish(entity, id string) {
	if l.eventClient == nil {
		return
	}
	if err := events.PublishWithRetry(l.eventClient, events.NewChangeEvent(entity, id), 3); err != nil {
		slog.Debug("change event not delivered", "entity", entity, "id", id, "error", err)
	}
}

func derefAll[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}
