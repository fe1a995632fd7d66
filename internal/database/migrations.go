package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its configuration in package globals
var gooseMu sync.Mutex

// runMigrations applies all embedded goose migrations
func runMigrations(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(&slogGooseLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct{}

// Printf forwards goose progress messages at debug level
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "migrations")
}

// Fatalf logs at error level; goose's default would exit the process
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...), "component", "migrations")
}
