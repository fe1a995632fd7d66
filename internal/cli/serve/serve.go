// Package serve implements tempo serve.
package serve

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tempo/internal/api"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local HTTP API",
		Long: `Serve repeat tasks, matters, tags and stored preferences over HTTP on a
loopback address. Other tempo processes reach it with storage.backend set to http.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config, 127.0.0.1:7749)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("error closing CLI", "error", err)
		}
	}()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cliInstance.Config.API.Addr
	}

	backend, ok := cliInstance.App.Storage().(storage.Backend)
	if !ok {
		return &cli.CodeError{
			Code: cli.ExitUsage,
			Err:  fmt.Errorf("serve needs the local storage backend: %w", cli.ErrUnsupported),
		}
	}

	server, err := api.NewServer(backend, api.WithKV(cliInstance.KV), api.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "tempo API listening on http://%s\n", addr)
	return server.ListenAndServe(ctx, addr)
}
