package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// Init initializes the logging system, writing logs to <dataDir>/logs/tempo.log
// Uses text format for human readability. The returned closer flushes and
// closes the file.
func Init(dataDir, level string) (io.Closer, error) {
	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	// Open log file in append mode
	logPath := filepath.Join(logDir, "tempo.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	Logger = New(file, lvl)
	slog.SetDefault(Logger)

	// Redirect standard log package output (used by goose and the daemon) to the same file
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags)

	return file, nil
}

// New returns a text logger writing to w
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError)
}

// ParseLevel maps debug/info/warn/error to a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}
