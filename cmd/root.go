package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/cli/daemon"
	"github.com/thenoetrevino/tempo/internal/cli/kv"
	"github.com/thenoetrevino/tempo/internal/cli/matter"
	"github.com/thenoetrevino/tempo/internal/cli/overlay"
	"github.com/thenoetrevino/tempo/internal/cli/repeat"
	"github.com/thenoetrevino/tempo/internal/cli/serve"
	"github.com/thenoetrevino/tempo/internal/cli/tag"
	"github.com/thenoetrevino/tempo/internal/config"
	"github.com/thenoetrevino/tempo/internal/logging"
)

// NewRootCmd builds the tempo command tree
func NewRootCmd() *cobra.Command {
	var logCloser io.Closer

	rootCmd := &cobra.Command{
		Use:   "tempo",
		Short: "Tempo - repeat tasks, tags and a time progress overlay",
		Long: `Tempo keeps repeating tasks, tags and calendar matters in a local SQLite
store, serves them over a localhost API and draws a time progress bar
across the top of your terminal.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return &cli.CodeError{Code: cli.ExitDataErr, Err: fmt.Errorf("failed to load config: %w", err)}
			}

			logCloser, err = logging.Init(cfg.DataDir, cfg.Log.Level)
			if err != nil {
				return &cli.CodeError{Code: cli.ExitDataErr, Err: fmt.Errorf("failed to initialize logging: %w", err)}
			}

			cmd.SetContext(cli.WithConfig(cmd.Context(), cfg))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				if err := logCloser.Close(); err != nil {
					slog.Error("failed to close log file", "error", err)
				}
			}
		},
	}

	rootCmd.AddCommand(repeat.RepeatCmd())
	rootCmd.AddCommand(tag.TagCmd())
	rootCmd.AddCommand(matter.MatterCmd())
	rootCmd.AddCommand(overlay.OverlayCmd())
	rootCmd.AddCommand(kv.KVCmd())
	rootCmd.AddCommand(serve.ServeCmd())
	rootCmd.AddCommand(daemon.DaemonCmd())

	return rootCmd
}

// Execute runs the command named by os.Args
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
