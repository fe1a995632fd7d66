package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/tempo/internal/config"
	"github.com/thenoetrevino/tempo/internal/daemon"
	"github.com/thenoetrevino/tempo/internal/logging"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Ensure the data directory exists with secure permissions
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}

	// Under systemd stderr is the journal; only switch to the log file when asked
	if os.Getenv("TEMPO_DAEMON_LOG_FILE") != "" {
		closer, err := logging.Init(cfg.DataDir, cfg.Log.Level)
		if err != nil {
			slog.Error("failed to initialize logging", "error", err)
			os.Exit(1)
		}
		defer closer.Close()
	}

	socketPath := cfg.SocketPath()
	server, err := daemon.NewServer(socketPath)
	if err != nil {
		slog.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	slog.Info("tempo daemon starting", "socket_path", socketPath, "pid", os.Getpid())

	// Start the daemon (blocks until shutdown)
	if err := server.Start(ctx); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}

	slog.Info("tempo daemon shutting down gracefully")
}
