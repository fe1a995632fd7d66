// Package repeattask keeps the ordered in-memory list of repeat tasks in step
// with storage and turns a repeat task into today's calendar matter.
package repeattask

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thenoetrevino/tempo/internal/models"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// Manager defines all repeat-task operations
type Manager interface {
	// Cache reads
	Tasks() []models.RepeatTask
	Get(id string) (models.RepeatTask, bool)

	// Storage-backed operations
	FetchAll(ctx context.Context) error
	Create(ctx context.Context, task models.RepeatTask) (models.RepeatTask, error)
	Update(ctx context.Context, task models.RepeatTask) (models.RepeatTask, error)
	Delete(ctx context.Context, id string) error

	// CreateMatter stores a matter for today built from task. Malformed input
	// and storage failures are logged, never returned; ok reports success.
	CreateMatter(ctx context.Context, task models.RepeatTask) (matter models.Matter, ok bool)

	// OnChange registers fn to receive a snapshot after every cache change
	OnChange(fn func([]models.RepeatTask))
}

// Option configures a manager
type Option func(*manager)

// WithLogger sets the logger (default slog.Default())
func WithLogger(logger *slog.Logger) Option {
	return func(m *manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock replaces time.Now, used to pick the date of derived matters
func WithClock(now func() time.Time) Option {
	return func(m *manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIDGenerator replaces the UUIDv4 generator for derived matter ids
func WithIDGenerator(newID func() string) Option {
	return func(m *manager) {
		if newID != nil {
			m.newID = newID
		}
	}
}

// manager implements Manager
type manager struct {
	store  storage.Storage
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu        sync.Mutex
	tasks     []models.RepeatTask
	listeners []func([]models.RepeatTask)
}

// NewManager creates a repeat-task manager with an empty cache
func NewManager(store storage.Storage, opts ...Option) (Manager, error) {
	if store == nil {
		return nil, ErrNilStorage
	}

	m := &manager{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
		tasks:  []models.RepeatTask{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *manager) Tasks() []models.RepeatTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *manager) Get(id string) (models.RepeatTask, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.RepeatTask{}, false
}

// FetchAll replaces the cache with the storage listing
func (m *manager) FetchAll(ctx context.Context) error {
	tasks, err := m.store.ListRepeatTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list repeat tasks: %w", err)
	}

	m.mutate(func() {
		m.tasks = append(make([]models.RepeatTask, 0, len(tasks)), tasks...)
	})
	return nil
}

// Create stores task and puts the stored record at the front of the cache
func (m *manager) Create(ctx context.Context, task models.RepeatTask) (models.RepeatTask, error) {
	created, err := m.store.CreateRepeatTask(ctx, task)
	if err != nil {
		return models.RepeatTask{}, fmt.Errorf("failed to create repeat task: %w", err)
	}

	m.mutate(func() {
		m.tasks = append([]models.RepeatTask{created}, m.tasks...)
	})
	return created, nil
}

// Update stores task and swaps the cached copy for the stored record
func (m *manager) Update(ctx context.Context, task models.RepeatTask) (models.RepeatTask, error) {
	if task.ID == "" {
		return models.RepeatTask{}, ErrEmptyID
	}

	updated, err := m.store.UpdateRepeatTask(ctx, task.ID, task)
	if err != nil {
		return models.RepeatTask{}, fmt.Errorf("failed to update repeat task %s: %w", task.ID, err)
	}

	m.mutate(func() {
		if i := m.indexLocked(task.ID); i >= 0 {
			m.tasks[i] = updated
		}
	})
	return updated, nil
}

// Delete removes the task from storage, then from the cache
func (m *manager) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	if err := m.store.DeleteRepeatTask(ctx, id); err != nil {
		return fmt.Errorf("failed to delete repeat task %s: %w", id, err)
	}

	m.mutate(func() {
		if i := m.indexLocked(id); i >= 0 {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
		}
	})
	return nil
}

func (m *manager) CreateMatter(ctx context.Context, task models.RepeatTask) (models.Matter, bool) {
	rt, err := models.ParseRepeatTime(task.RepeatTime)
	if err != nil {
		m.logger.Error("repeat_time format error",
			"task_id", task.ID,
			"repeat_time", task.RepeatTime,
			"error", err)
		return models.Matter{}, false
	}

	now := m.now()
	matter := models.Matter{
		ID:          m.newID(),
		Title:       task.Title,
		Description: task.Description,
		Tags:        task.Tags,
		StartTime:   rt.Start.On(now).UTC(),
		EndTime:     rt.End.On(now).UTC(),
		Priority:    task.Priority,
		Type:        models.MatterRepeatTask,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
		Reserved1:   task.Priority.Color(),
		Reserved2:   task.ID,
	}

	stored, err := m.store.CreateMatter(ctx, matter)
	if err != nil {
		m.logger.Error("failed to create matter",
			"task_id", task.ID,
			"matter_id", matter.ID,
			"error", err)
		return models.Matter{}, false
	}

	m.logger.Info("matter created", "task_id", task.ID, "matter_id", stored.ID)
	return stored, true
}

func (m *manager) OnChange(fn func([]models.RepeatTask)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// mutate applies fn under the lock, then notifies listeners outside it
func (m *manager) mutate(fn func()) {
	m.mu.Lock()
	fn()
	snapshot := m.snapshotLocked()
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func (m *manager) indexLocked(id string) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *manager) snapshotLocked() []models.RepeatTask {
	return append(make([]models.RepeatTask, 0, len(m.tasks)), m.tasks...)
}
