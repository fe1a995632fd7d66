package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thenoetrevino/tempo/internal/models"
)

// TagRepo handles pure data access for tags
type TagRepo struct {
	db  *sql.DB
	now func() time.Time
}

// Create inserts every name in the comma-joined list. Existing tags are left untouched.
func (r *TagRepo) Create(ctx context.Context, names string) error {
	list := SplitNames(names)
	if len(list) == 0 {
		return ErrNoTagNames
	}

	now := formatTime(r.now())
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, name := range list {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO tags (name, last_used_at, created_at) VALUES (?, ?, ?)`,
				name, now, now,
			); err != nil {
				return fmt.Errorf("failed to create tag %q: %w", name, err)
			}
		}
		return nil
	})
}

// GetAll retrieves all tags in storage order; callers sort by recency
func (r *TagRepo) GetAll(ctx context.Context) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, last_used_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]*models.Tag, 0)
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.Name, &tag.LastUsedAt); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Delete removes every name in the comma-joined list
func (r *TagRepo) Delete(ctx context.Context, names string) error {
	list := SplitNames(names)
	if len(list) == 0 {
		return ErrNoTagNames
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, name := range list {
			if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE name = ?`, name); err != nil {
				return fmt.Errorf("failed to delete tag %q: %w", name, err)
			}
		}
		return nil
	})
}

// TouchLastUsedAt sets last_used_at to now for every name in the list
func (r *TagRepo) TouchLastUsedAt(ctx context.Context, names string) error {
	list := SplitNames(names)
	if len(list) == 0 {
		return ErrNoTagNames
	}

	now := formatTime(r.now())
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, name := range list {
			if _, err := tx.ExecContext(ctx,
				`UPDATE tags SET last_used_at = ? WHERE name = ?`, now, name,
			); err != nil {
				return fmt.Errorf("failed to update tag %q: %w", name, err)
			}
		}
		return nil
	})
}
