// Package database handles the initialization and connection to the SQLite db
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// InitDB opens (creating if needed) the SQLite database at dbPath and migrates it
func InitDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := configure(ctx, db, true); err != nil {
		closeQuietly(db)
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// OpenMemory returns a migrated in-memory database, used by tests across packages
func OpenMemory(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// every pooled connection would otherwise see its own empty database
	if err := configure(ctx, db, false); err != nil {
		closeQuietly(db)
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// configure applies pragmas and pool limits. WAL is skipped for in-memory databases.
func configure(ctx context.Context, db *sql.DB, wal bool) error {
	// SQLite benefits from a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"}
	if wal {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			slog.Error("failed to apply pragma", "pragma", p, "error", err)
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing db", "error", err)
	}
}
