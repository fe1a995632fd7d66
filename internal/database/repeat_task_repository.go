package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/tempo/internal/models"
)

// RepeatTaskRepo handles pure data access for repeat tasks
// No business logic, no events, no validation - just database operations
type RepeatTaskRepo struct {
	db *sql.DB
}

const repeatTaskColumns = `id, title, description, tags, repeat_time, priority, status, created_at, updated_at`

// Create inserts a repeat task. ID and timestamps must already be set.
func (r *RepeatTaskRepo) Create(ctx context.Context, task *models.RepeatTask) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO repeat_tasks (`+repeatTaskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, task.Tags, task.RepeatTime,
		int(task.Priority), int(task.Status), formatTime(task.CreatedAt), formatTime(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create repeat task: %w", err)
	}
	return nil
}

// GetByID retrieves a single repeat task
func (r *RepeatTaskRepo) GetByID(ctx context.Context, id string) (*models.RepeatTask, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+repeatTaskColumns+` FROM repeat_tasks WHERE id = ?`, id)
	task, err := scanRepeatTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("repeat task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repeat task %s: %w", id, err)
	}
	return task, nil
}

// GetAll retrieves every repeat task, newest first
func (r *RepeatTaskRepo) GetAll(ctx context.Context) ([]*models.RepeatTask, error) {
	return r.query(ctx, `SELECT `+repeatTaskColumns+` FROM repeat_tasks ORDER BY created_at DESC, id`)
}

// GetActive retrieves repeat tasks whose status is active
func (r *RepeatTaskRepo) GetActive(ctx context.Context) ([]*models.RepeatTask, error) {
	return r.query(ctx,
		`SELECT `+repeatTaskColumns+` FROM repeat_tasks WHERE status = ? ORDER BY created_at DESC, id`,
		int(models.RepeatTaskActive),
	)
}

// Update overwrites the mutable fields of a repeat task
func (r *RepeatTaskRepo) Update(ctx context.Context, task *models.RepeatTask) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE repeat_tasks
		 SET title = ?, description = ?, tags = ?, repeat_time = ?, priority = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		task.Title, task.Description, task.Tags, task.RepeatTime,
		int(task.Priority), int(task.Status), formatTime(task.UpdatedAt), task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update repeat task %s: %w", task.ID, err)
	}
	return checkAffected(result, "repeat task", task.ID)
}

// UpdateStatus switches a repeat task between active and inactive
func (r *RepeatTaskRepo) UpdateStatus(ctx context.Context, id string, status models.RepeatTaskStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE repeat_tasks SET status = ? WHERE id = ?`, int(status), id)
	if err != nil {
		return fmt.Errorf("failed to update repeat task status %s: %w", id, err)
	}
	return checkAffected(result, "repeat task", id)
}

// Delete removes a repeat task. Deleting a missing task is not an error.
func (r *RepeatTaskRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM repeat_tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete repeat task %s: %w", id, err)
	}
	return nil
}

func (r *RepeatTaskRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.RepeatTask, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list repeat tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.RepeatTask, 0)
	for rows.Next() {
		task, err := scanRepeatTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRepeatTask(s rowScanner) (*models.RepeatTask, error) {
	var (
		task             models.RepeatTask
		priority, status int
		created, updated string
	)
	if err := s.Scan(&task.ID, &task.Title, &task.Description, &task.Tags, &task.RepeatTime,
		&priority, &status, &created, &updated); err != nil {
		return nil, err
	}
	task.Priority = models.Priority(priority)
	task.Status = models.RepeatTaskStatus(status)
	task.CreatedAt = parseTime(created)
	task.UpdatedAt = parseTime(updated)
	return &task, nil
}
