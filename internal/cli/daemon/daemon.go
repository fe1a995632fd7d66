// Package daemon implements the tempo daemon subcommands.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/cli/styles"
	"github.com/thenoetrevino/tempo/internal/daemon"
)

// ErrAlreadyRunning is returned when another daemon answers on the socket
var ErrAlreadyRunning = errors.New("a tempo daemon is already running")

// DaemonCmd returns the daemon command. Run without a subcommand it serves
// the event bus in the foreground.
func DaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the live update daemon",
		Long: `Run the event daemon in the foreground. Processes connected to it receive
database change notifications and overlay toggles.`,
		Args: cobra.NoArgs,
		RunE: runDaemon,
	}

	cmd.AddCommand(StatusCmd())

	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := cli.ConfigFromContext(ctx)
	if err != nil {
		return &cli.CodeError{Code: cli.ExitDataErr, Err: err}
	}
	socketPath := cfg.SocketPath()

	if running(ctx, socketPath) {
		return fmt.Errorf("%w on %s", ErrAlreadyRunning, socketPath)
	}

	server, err := daemon.NewServer(socketPath, daemon.WithLogger(slog.Default()))
	if errors.Is(err, daemon.ErrSocketInUse) {
		return fmt.Errorf("%w on %s", ErrAlreadyRunning, socketPath)
	}
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	slog.Info("tempo daemon starting", "socket_path", socketPath, "pid", os.Getpid())
	fmt.Fprintf(cmd.OutOrStdout(), "tempo daemon listening on %s\n", socketPath)

	// Start blocks until ctx is cancelled
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("daemon error: %w", err)
	}

	slog.Info("tempo daemon shut down gracefully")
	return nil
}

func running(ctx context.Context, socketPath string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	_, err := daemon.QueryStatus(probeCtx, socketPath)
	return err == nil
}

// StatusCmd returns the daemon status subcommand
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon metrics",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}

	cli.AddOutputFlags(cmd.Flags())

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	cfg, err := cli.ConfigFromContext(ctx)
	if err != nil {
		return formatter.Fail(cli.ExitDataErr, "CONFIG_ERROR", err, "Check your tempo config file")
	}

	snap, err := daemon.QueryStatus(ctx, cfg.SocketPath())
	if err != nil {
		return formatter.Fail(cli.ExitError, "DAEMON_UNAVAILABLE", err, "Start the daemon: tempo daemon")
	}

	if formatter.Quiet {
		return nil
	}
	if formatter.JSON {
		return formatter.Success(snap)
	}

	tbl := styles.NewTable()
	tbl.AddRow(styles.Header.Sprint("Uptime"), snap.Uptime)
	tbl.AddRow(styles.Header.Sprint("Clients"), snap.ConnectedClients)
	tbl.AddRow(styles.Header.Sprint("Events received"), snap.EventsReceived)
	tbl.AddRow(styles.Header.Sprint("Events sent"), snap.EventsSent)
	tbl.AddRow(styles.Header.Sprint("Events dropped"), snap.EventsDropped)
	tbl.AddRow(styles.Header.Sprint("Stale clients"), snap.StaleClients)

	channels := make([]string, 0, len(snap.PerChannel))
	for ch := range snap.PerChannel {
		channels = append(channels, ch)
	}
	sort.Strings(channels)
	for _, ch := range channels {
		tbl.AddRow(styles.Subtle.Sprint("  "+ch), snap.PerChannel[ch])
	}

	fmt.Fprintln(formatter.Out, tbl)
	return nil
}
