package daemon

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	defaultRelayQueue   = 100
	defaultClientQueue  = 10
	defaultPingInterval = 30 * time.Second
	defaultStaleAfter   = 90 * time.Second
)

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger (default slog.Default())
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHeartbeat sets how often subscribers are pinged and how long one may
// stay silent before it is dropped
func WithHeartbeat(interval, staleAfter time.Duration) Option {
	return func(s *Server) {
		if interval > 0 {
			s.pingInterval = interval
		}
		if staleAfter > 0 {
			s.staleAfter = staleAfter
		}
	}
}

// envInt reads a positive integer from key, falling back to def
func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return def
}
