// Package cli holds what every tempo subcommand shares: the opened
// application, output formatting and exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/thenoetrevino/tempo/internal/app"
	"github.com/thenoetrevino/tempo/internal/config"
	"github.com/thenoetrevino/tempo/internal/kv"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// ErrUnsupported is returned when the configured backend cannot serve a command
var ErrUnsupported = errors.New("not supported by the configured storage backend")

// CLI represents the CLI application context
type CLI struct {
	App    *app.App
	Config *config.Config
	KV     *kv.Store

	// owned is set when NewCLI opened App and Close must release it
	owned bool
}

// NewCLI opens the application described by cfg. The daemon connection is
// optional; without it commands still work but publish no live updates.
func NewCLI(ctx context.Context, cfg *config.Config) (*CLI, error) {
	application, err := app.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open tempo: %w", err)
	}

	return &CLI{
		App:    application,
		Config: cfg,
		KV:     kv.Open(cfg.KVDir()),
		owned:  true,
	}, nil
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if !c.owned || c.App == nil {
		return nil
	}
	return c.App.Close()
}

// Matters returns the storage as a matter reader
func (c *CLI) Matters() (storage.MatterQuerier, error) {
	q, ok := c.App.Storage().(storage.MatterQuerier)
	if !ok {
		return nil, ErrUnsupported
	}
	return q, nil
}
