package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/tempo/internal/models"
)

// MatterRepo handles pure data access for matters
type MatterRepo struct {
	db *sql.DB
}

const matterColumns = `id, title, description, tags, start_time, end_time, priority, type_,
	created_at, updated_at, reserved_1, reserved_2, reserved_3, reserved_4, reserved_5`

// queryableMatterFields maps public field names to columns
var queryableMatterFields = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"tags":        "tags",
	"priority":    "priority",
	"type":        "type_",
	"reserved_1":  "reserved_1",
	"reserved_2":  "reserved_2",
	"reserved_3":  "reserved_3",
	"reserved_4":  "reserved_4",
	"reserved_5":  "reserved_5",
}

// QueryableMatterFields lists the field names accepted by QueryByField
func QueryableMatterFields() []string {
	return []string{"id", "title", "description", "tags", "priority", "type",
		"reserved_1", "reserved_2", "reserved_3", "reserved_4", "reserved_5"}
}

// Create inserts a matter. ID and timestamps must already be set.
func (r *MatterRepo) Create(ctx context.Context, m *models.Matter) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO matters (`+matterColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Description, m.Tags, formatTime(m.StartTime), formatTime(m.EndTime),
		int(m.Priority), int(m.Type), formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
		m.Reserved1, m.Reserved2, m.Reserved3, m.Reserved4, m.Reserved5,
	)
	if err != nil {
		return fmt.Errorf("failed to create matter: %w", err)
	}
	return nil
}

// GetByID retrieves a single matter
func (r *MatterRepo) GetByID(ctx context.Context, id string) (*models.Matter, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+matterColumns+` FROM matters WHERE id = ?`, id)
	m, err := scanMatter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("matter %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get matter %s: %w", id, err)
	}
	return m, nil
}

// GetAll retrieves every matter ordered by start time
func (r *MatterRepo) GetAll(ctx context.Context) ([]*models.Matter, error) {
	return r.query(ctx, `SELECT `+matterColumns+` FROM matters ORDER BY start_time, id`)
}

// GetByRange retrieves matters starting in [start, end)
func (r *MatterRepo) GetByRange(ctx context.Context, start, end time.Time) ([]*models.Matter, error) {
	return r.query(ctx,
		`SELECT `+matterColumns+` FROM matters WHERE start_time >= ? AND start_time < ? ORDER BY start_time, id`,
		formatTime(start), formatTime(end),
	)
}

// QueryByField retrieves matters whose field equals value, or contains it when exact is false
func (r *MatterRepo) QueryByField(ctx context.Context, field, value string, exact bool) ([]*models.Matter, error) {
	column, ok := queryableMatterFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidField, field)
	}

	// column comes from the whitelist above, never from the caller
	if exact {
		return r.query(ctx,
			`SELECT `+matterColumns+` FROM matters WHERE `+column+` = ? ORDER BY start_time, id`, value)
	}
	return r.query(ctx,
		`SELECT `+matterColumns+` FROM matters WHERE CAST(`+column+` AS TEXT) LIKE ? ORDER BY start_time, id`,
		"%"+value+"%")
}

// Update overwrites a matter
func (r *MatterRepo) Update(ctx context.Context, m *models.Matter) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE matters
		 SET title = ?, description = ?, tags = ?, start_time = ?, end_time = ?, priority = ?, type_ = ?,
		     updated_at = ?, reserved_1 = ?, reserved_2 = ?, reserved_3 = ?, reserved_4 = ?, reserved_5 = ?
		 WHERE id = ?`,
		m.Title, m.Description, m.Tags, formatTime(m.StartTime), formatTime(m.EndTime),
		int(m.Priority), int(m.Type), formatTime(m.UpdatedAt),
		m.Reserved1, m.Reserved2, m.Reserved3, m.Reserved4, m.Reserved5, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update matter %s: %w", m.ID, err)
	}
	return checkAffected(result, "matter", m.ID)
}

// Delete removes a matter
func (r *MatterRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM matters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete matter %s: %w", id, err)
	}
	return nil
}

func (r *MatterRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.Matter, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matters: %w", err)
	}
	defer rows.Close()

	matters := make([]*models.Matter, 0)
	for rows.Next() {
		m, err := scanMatter(rows)
		if err != nil {
			return nil, err
		}
		matters = append(matters, m)
	}
	return matters, rows.Err()
}

func scanMatter(s rowScanner) (*models.Matter, error) {
	var (
		m                            models.Matter
		priority, typ                int
		start, end, created, updated string
	)
	if err := s.Scan(&m.ID, &m.Title, &m.Description, &m.Tags, &start, &end, &priority, &typ,
		&created, &updated, &m.Reserved1, &m.Reserved2, &m.Reserved3, &m.Reserved4, &m.Reserved5); err != nil {
		return nil, err
	}
	m.StartTime = parseTime(start)
	m.EndTime = parseTime(end)
	m.Priority = models.Priority(priority)
	m.Type = models.MatterType(typ)
	m.CreatedAt = parseTime(created)
	m.UpdatedAt = parseTime(updated)
	return &m, nil
}
