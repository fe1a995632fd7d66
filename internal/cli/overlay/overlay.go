// Package overlay implements the tempo overlay subcommands.
package overlay

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/app"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/events"
	"github.com/thenoetrevino/tempo/internal/kv"
	"github.com/thenoetrevino/tempo/internal/launcher"
)

// OverlayCmd returns the overlay parent command
func OverlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Run and control the time progress overlay",
	}

	cmd.AddCommand(RunCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(HideCmd())
	cmd.AddCommand(PinCmd())
	cmd.AddCommand(StatusCmd())

	return cmd
}

// RunCmd returns the overlay run subcommand
func RunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Show the time progress bar in this terminal",
		Long: `Show a full-width progress bar of the elapsed day (or of the current matter,
with overlay.span set to "matter"). 'tempo overlay show' and 'tempo overlay hide'
toggle it from another terminal while the daemon runs. Press q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.ConfigFromContext(cmd.Context())
			if err != nil {
				return &cli.CodeError{Code: cli.ExitDataErr, Err: err}
			}
			return launcher.Launch(cmd.Context(), cfg)
		},
	}
}

// ShowCmd returns the overlay show subcommand
func ShowCmd() *cobra.Command {
	return toggleCmd("show", "Show the running overlay", true)
}

// HideCmd returns the overlay hide subcommand
func HideCmd() *cobra.Command {
	return toggleCmd("hide", "Hide the running overlay", false)
}

// toggleCmd remembers the visibility and tells a running overlay through
// the daemon. Without a daemon only the remembered state changes.
func toggleCmd(use, short string, visible bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			formatter := cli.NewFormatter(cmd)

			cfg, err := cli.ConfigFromContext(ctx)
			if err != nil {
				return formatter.Fail(cli.ExitDataErr, "CONFIG_ERROR", err, "Check your tempo config file")
			}
			store, err := cli.KVFromContext(ctx)
			if err != nil {
				return formatter.Fail(cli.ExitDataErr, "CONFIG_ERROR", err, "")
			}

			if err := store.Set(kv.KeyOverlayVisible, strconv.FormatBool(visible)); err != nil {
				return formatter.Fail(cli.ExitError, "KV_ERROR", err, "")
			}
			notified := notify(ctx, cfg.SocketPath(), cfg.Overlay.Channel, visible)

			if formatter.Quiet {
				return nil
			}
			if formatter.JSON {
				return formatter.Success(map[string]bool{"visible": visible, "notified": notified})
			}

			state := "hidden"
			if visible {
				state = "shown"
			}
			if notified {
				fmt.Fprintf(formatter.Out, "✓ Overlay %s\n", state)
			} else {
				fmt.Fprintf(formatter.Out, "✓ Overlay will be %s next time it starts\n", state)
				fmt.Fprintln(formatter.Err, "💡 Start the daemon to toggle a running overlay: tempo daemon")
			}
			return nil
		},
	}

	cli.AddOutputFlags(cmd.Flags())
	return cmd
}

// notify publishes visible on channel; it reports whether the daemon took it
func notify(ctx context.Context, socketPath, channel string, visible bool) bool {
	client := app.ConnectDaemon(ctx, socketPath)
	if client == nil {
		return false
	}
	defer func() { _ = client.Close() }()

	return events.Publish(client, channel, visible) == nil
}

// PinCmd returns the overlay pin subcommand
func PinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin [true|false]",
		Short: "Keep the overlay above other windows",
		Long:  "Set whether the overlay stays on top (shown with a highlighted bar). Takes effect when the overlay starts.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := cli.NewFormatter(cmd)

			pinned := true
			if len(args) > 0 {
				v, err := strconv.ParseBool(args[0])
				if err != nil {
					return formatter.Fail(cli.ExitValidation, "INVALID_VALUE",
						fmt.Errorf("invalid pin value '%s' (must be: true, false)", args[0]), "")
				}
				pinned = v
			}

			store, err := cli.KVFromContext(cmd.Context())
			if err != nil {
				return formatter.Fail(cli.ExitDataErr, "CONFIG_ERROR", err, "")
			}
			if err := store.Set(kv.KeyOverlayPinned, strconv.FormatBool(pinned)); err != nil {
				return formatter.Fail(cli.ExitError, "KV_ERROR", err, "")
			}

			if formatter.JSON {
				return formatter.Success(map[string]bool{"pinned": pinned})
			}
			formatter.Printf("✓ Overlay pinned: %t\n", pinned)
			return nil
		},
	}

	cli.AddOutputFlags(cmd.Flags())
	return cmd
}

// StatusCmd returns the overlay status subcommand
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the remembered overlay state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := cli.NewFormatter(cmd)

			store, err := cli.KVFromContext(cmd.Context())
			if err != nil {
				return formatter.Fail(cli.ExitDataErr, "CONFIG_ERROR", err, "")
			}

			state := map[string]bool{}
			for name, key := range map[string]string{"visible": kv.KeyOverlayVisible, "pinned": kv.KeyOverlayPinned} {
				v, err := store.Get(key, "true")
				if err != nil {
					return formatter.Fail(cli.ExitError, "KV_ERROR", err, "")
				}
				state[name], _ = strconv.ParseBool(v)
			}

			if formatter.JSON {
				return formatter.Success(state)
			}
			formatter.Printf("Visible: %t\nPinned:  %t\n", state["visible"], state["pinned"])
			return nil
		},
	}

	cli.AddOutputFlags(cmd.Flags())
	return cmd
}
