package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thenoetrevino/tempo/internal/events"
	"github.com/thenoetrevino/tempo/internal/overlay"
	"github.com/thenoetrevino/tempo/internal/services/repeattask"
	"github.com/thenoetrevino/tempo/internal/services/tag"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// ErrNilStorage is returned by New without a storage
var ErrNilStorage = errors.New("storage cannot be nil")

// App holds all application services and provides dependency injection.
// It is built once at startup and handed to whatever needs a manager.
type App struct {
	store       storage.Storage
	eventClient events.EventPublisher
	bus         *events.Bus
	logger      *slog.Logger
	closers     []func() error

	RepeatTasks repeattask.Manager
	Tags        tag.Manager
	// Overlay is nil unless a windowing backend was supplied
	Overlay *overlay.Manager
}

// New creates an App with all managers initialized.
// The tag manager loads its list immediately.
func New(ctx context.Context, store storage.Storage, opts ...Option) (*App, error) {
	if store == nil {
		return nil, ErrNilStorage
	}

	cfg := &appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	repeatTasks, err := repeattask.NewManager(store, repeattask.WithLogger(cfg.logger))
	if err != nil {
		return nil, err
	}
	tags, err := tag.New(ctx, store, tag.WithLogger(cfg.logger))
	if err != nil {
		return nil, err
	}

	a := &App{
		store:       store,
		eventClient: cfg.eventClient,
		bus:         events.NewBus(cfg.eventClient, cfg.logger),
		logger:      cfg.logger,
		RepeatTasks: repeatTasks,
		Tags:        tags,
	}

	if cfg.windowing != nil {
		overlayOpts := []overlay.Option{overlay.WithLogger(cfg.logger)}
		if cfg.channel != "" {
			overlayOpts = append(overlayOpts, overlay.WithChannel(cfg.channel))
		}
		if cfg.prefs != nil {
			overlayOpts = append(overlayOpts, overlay.WithPreferences(cfg.prefs))
		}
		a.Overlay, err = overlay.NewManager(cfg.windowing, a.bus, overlayOpts...)
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Storage returns the storage the managers write through
func (a *App) Storage() storage.Storage {
	return a.store
}

// Bus returns the event dispatcher
func (a *App) Bus() *events.Bus {
	return a.bus
}

// Connected reports whether live events are available
func (a *App) Connected() bool {
	return a.eventClient != nil
}

// Close releases resources acquired by Open, newest first
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
