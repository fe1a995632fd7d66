// Package api serves the tempo records over a localhost HTTP API. Every
// response is a {code, msg, data} envelope.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/thenoetrevino/tempo/internal/storage"
)

// KV is the key/value store behind /kv
type KV interface {
	Get(key, def string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

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

// WithKV enables the /kv routes
func WithKV(store KV) Option {
	return func(s *Server) { s.kv = store }
}

// Server handles API requests against a storage backend
type Server struct {
	backend  storage.Backend
	kv       KV
	logger   *slog.Logger
	validate *validator.Validate
}

// NewServer creates an API server
func NewServer(backend storage.Backend, opts ...Option) (*Server, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	s := &Server{
		backend:  backend,
		logger:   slog.Default(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "api"))
	return s, nil
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond(w, "ok")
	})

	r.Route("/repeat-task", func(r chi.Router) {
		r.Post("/", s.createRepeatTask)
		r.Get("/", s.listRepeatTasks)
		r.Get("/active", s.listActiveRepeatTasks)
		r.Get("/{id}", s.getRepeatTask)
		r.Put("/{id}", s.updateRepeatTask)
		r.Delete("/{id}", s.deleteRepeatTask)
		r.Put("/{id}/status/{status}", s.setRepeatTaskStatus)
	})

	r.Route("/matter", func(r chi.Router) {
		r.Post("/", s.createMatter)
		r.Get("/", s.listMatters)
		r.Get("/range", s.listMattersByRange)
		r.Get("/query", s.queryMatters)
		r.Get("/{id}", s.getMatter)
		r.Put("/{id}", s.updateMatter)
		r.Delete("/{id}", s.deleteMatter)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Post("/", s.createTags)
		r.Get("/", s.listTags)
		r.Delete("/{names}", s.deleteTags)
		r.Put("/update/{names}", s.touchTags)
	})

	if s.kv != nil {
		r.Route("/kv", func(r chi.Router) {
			r.Get("/{key}", s.getKV)
			r.Put("/{key}", s.setKV)
			r.Delete("/{key}", s.deleteKV)
		})
	}

	return r
}

// ListenAndServe serves on addr until ctx is cancelled. addr must resolve
// to a loopback host.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := checkLocal(addr); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("HTTP API listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down API: %w", err)
		}
		s.logger.Info("HTTP API stopped")
		return nil
	}
}

func checkLocal(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("%w: %s", ErrNonLocalAddress, addr)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
