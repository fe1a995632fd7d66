package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/thenoetrevino/tempo/internal/config"
	"github.com/thenoetrevino/tempo/internal/database"
	"github.com/thenoetrevino/tempo/internal/events"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// Open builds the App described by cfg: it connects to the daemon when one
// is running and opens the configured storage backend. Close releases both.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	// Connect to daemon for live updates (optional - daemon may not be running)
	eventClient := ConnectDaemon(ctx, cfg.SocketPath())
	if eventClient != nil {
		closers = append(closers, eventClient.Close)
	}

	var store storage.Storage
	switch cfg.Storage.Backend {
	case config.BackendHTTP:
		store = storage.NewHTTP(cfg.Storage.URL, nil)
	default:
		db, err := database.InitDB(ctx, cfg.DBPath())
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		closers = append(closers, db.Close)

		var publisher events.EventPublisher
		if eventClient != nil {
			publisher = eventClient
		}
		store = storage.NewLocal(database.NewRepository(db), publisher)
	}

	if eventClient != nil {
		opts = append([]Option{WithEventPublisher(eventClient)}, opts...)
	}

	a, err := New(ctx, store, opts...)
	if err != nil {
		cleanup()
		return nil, err
	}
	a.closers = closers
	return a, nil
}

// ConnectDaemon returns a connected event client, or nil when the daemon
// is not reachable
func ConnectDaemon(ctx context.Context, socketPath string) *events.Client {
	eventClient, err := events.NewClient(socketPath)
	if err != nil {
		daemonErr := events.ClassifyDaemonError(err)
		slog.Warn("failed to create daemon client", "message", daemonErr.Message, "hint", daemonErr.Hint)
		return nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := eventClient.Connect(connectCtx); err != nil {
		daemonErr := events.ClassifyDaemonError(err)
		slog.Warn("failed to connect to daemon", "message", daemonErr.Message, "hint", daemonErr.Hint)
		slog.Info("continuing without live updates")
		_ = eventClient.Close()
		return nil
	}
	return eventClient
}
