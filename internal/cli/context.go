package cli

import (
	"context"

	"github.com/thenoetrevino/tempo/internal/config"
	"github.com/thenoetrevino/tempo/internal/kv"
)

type contextKey string

const (
	cliKey    contextKey = "cli"
	configKey contextKey = "config"
)

// WithCLI returns a context carrying an already opened CLI. Commands run with
// it use that instance and never close it.
func WithCLI(ctx context.Context, c *CLI) context.Context {
	return context.WithValue(ctx, cliKey, c)
}

// WithConfig returns a context carrying the loaded configuration
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// GetCLIFromContext returns the CLI stored in ctx, or opens one from the
// configuration. Callers always Close the result.
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if c, ok := ctx.Value(cliKey).(*CLI); ok && c != nil {
		return c, nil
	}

	cfg, err := ConfigFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return NewCLI(ctx, cfg)
}

// ConfigFromContext returns the configuration stored in ctx, falling back to
// the injected CLI's and finally to config.Load
func ConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok && cfg != nil {
		return cfg, nil
	}
	if c, ok := ctx.Value(cliKey).(*CLI); ok && c != nil && c.Config != nil {
		return c.Config, nil
	}
	return config.Load()
}

// KVFromContext returns the preference store without opening the database
func KVFromContext(ctx context.Context) (*kv.Store, error) {
	if c, ok := ctx.Value(cliKey).(*CLI); ok && c != nil && c.KV != nil {
		return c.KV, nil
	}

	cfg, err := ConfigFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return kv.Open(cfg.KVDir()), nil
}
