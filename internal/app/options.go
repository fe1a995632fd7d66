package app

import (
	"log/slog"

	"github.com/thenoetrevino/tempo/internal/events"
	"github.com/thenoetrevino/tempo/internal/overlay"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient events.EventPublisher
	logger      *slog.Logger
	windowing   overlay.Windowing
	prefs       overlay.Preferences
	channel     string
}

// WithEventPublisher sets the event publisher for the application
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithOverlay enables the overlay manager on the given windowing backend
func WithOverlay(windowing overlay.Windowing, prefs overlay.Preferences, channel string) Option {
	return func(cfg *appConfig) {
		cfg.windowing = windowing
		cfg.prefs = prefs
		cfg.channel = channel
	}
}
