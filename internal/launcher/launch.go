package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thenoetrevino/tempo/internal/app"
	"github.com/thenoetrevino/tempo/internal/config"
	"github.com/thenoetrevino/tempo/internal/kv"
	"github.com/thenoetrevino/tempo/internal/overlay"
	"github.com/thenoetrevino/tempo/internal/overlay/terminal"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// Launch runs the time progress overlay in the terminal until ctx is
// cancelled or the user quits. Extra terminal options are applied after
// the defaults.
func Launch(ctx context.Context, cfg *config.Config, opts ...terminal.Option) error {
	backend := terminal.NewBackend(opts...)
	prefs := kv.Open(cfg.KVDir())

	application, err := app.Open(ctx, cfg, app.WithOverlay(backend, prefs, cfg.Overlay.Channel))
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Error("error closing application", "error", err)
		}
	}()

	if cfg.Overlay.Span == "matter" {
		if q, ok := application.Storage().(storage.MatterQuerier); ok {
			refresh := time.Duration(cfg.Overlay.RefreshSeconds) * time.Second
			backend.SetSpan(terminal.MatterSpan(ctx, q, refresh, slog.Default()))
		}
	}

	if err := application.Overlay.Initialize(ctx); err != nil {
		slog.Warn("overlay toggle events unavailable", "error", err)
	}

	// restore the last visibility; this also creates the window if Initialize could not
	restore := application.Overlay.Show
	if !application.Overlay.Visible() {
		restore = application.Overlay.Hide
	}
	if err := restore(ctx); err != nil {
		return fmt.Errorf("failed to start overlay: %w", err)
	}

	window, ok := backend.Window(overlay.WindowName)
	if !ok {
		return fmt.Errorf("overlay window %s was not created", overlay.WindowName)
	}

	slog.Info("overlay running", "span", cfg.Overlay.Span, "live_updates", application.Connected())
	return window.Wait()
}
