// Package overlay owns the always-on-top time progress window and keeps its
// visibility in step with toggle events.
package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/thenoetrevino/tempo/internal/events"
	"github.com/thenoetrevino/tempo/internal/kv"
)

// Preferences persists small UI state across runs
type Preferences interface {
	Get(key, def string) (string, error)
	Set(key, value string) error
}

var _ Preferences = (*kv.Store)(nil)

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger (default slog.Default())
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithChannel overrides the toggle channel
func WithChannel(channel string) Option {
	return func(m *Manager) {
		if channel != "" {
			m.channel = channel
		}
	}
}

// WithPreferences remembers pin and visibility state in prefs
func WithPreferences(prefs Preferences) Option {
	return func(m *Manager) {
		m.prefs = prefs
	}
}

// Manager owns the overlay window handle for the life of the process
type Manager struct {
	windowing Windowing
	source    EventSource
	channel   string
	prefs     Preferences
	logger    *slog.Logger

	// initMu serialises Initialize; listening is set once Listen succeeded
	initMu    sync.Mutex
	listening bool

	mu     sync.Mutex
	window Window
}

// NewManager creates a manager. No window is created until it is needed.
func NewManager(windowing Windowing, source EventSource, opts ...Option) (*Manager, error) {
	if windowing == nil {
		return nil, ErrNilWindowing
	}
	if source == nil {
		return nil, ErrNilEventSource
	}

	m := &Manager{
		windowing: windowing,
		source:    source,
		channel:   events.ChannelToggleTimeProgress,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Initialize subscribes to the toggle channel and makes sure the window
// exists. A failed call can be retried; once both steps succeeded further
// calls do nothing.
func (m *Manager) Initialize(ctx context.Context) error {
	m.initMu.Lock()
	defer m.initMu.Unlock()

	if !m.listening {
		if err := m.source.Listen(ctx, m.channel, m.handleToggle(ctx)); err != nil {
			return fmt.Errorf("failed to listen on %s: %w", m.channel, err)
		}
		m.listening = true
	}

	_, err := m.ensureWindow(ctx)
	return err
}

// Show makes the overlay visible
func (m *Manager) Show(ctx context.Context) error {
	w, err := m.ensureWindow(ctx)
	if err != nil {
		return err
	}
	if err := w.Show(ctx); err != nil {
		return fmt.Errorf("failed to show overlay: %w", err)
	}
	m.remember(kv.KeyOverlayVisible, true)
	return nil
}

// Hide hides the overlay without destroying it
func (m *Manager) Hide(ctx context.Context) error {
	w, err := m.ensureWindow(ctx)
	if err != nil {
		return err
	}
	if err := w.Hide(ctx); err != nil {
		return fmt.Errorf("failed to hide overlay: %w", err)
	}
	m.remember(kv.KeyOverlayVisible, false)
	return nil
}

// SetAlwaysOnTop pins or unpins the overlay
func (m *Manager) SetAlwaysOnTop(ctx context.Context, onTop bool) error {
	w, err := m.ensureWindow(ctx)
	if err != nil {
		return err
	}
	if err := w.SetAlwaysOnTop(ctx, onTop); err != nil {
		return fmt.Errorf("failed to set always on top: %w", err)
	}
	m.remember(kv.KeyOverlayPinned, onTop)
	return nil
}

// Destroy does nothing: the overlay lives as long as the process.
func (m *Manager) Destroy(ctx context.Context) error {
	return nil
}

// Pinned reports the remembered pin state, defaulting to true
func (m *Manager) Pinned() bool {
	return m.recall(kv.KeyOverlayPinned, true)
}

// Visible reports the remembered visibility, defaulting to true
func (m *Manager) Visible() bool {
	return m.recall(kv.KeyOverlayVisible, true)
}

func (m *Manager) handleToggle(ctx context.Context) func(payload []byte) {
	return func(payload []byte) {
		var show bool
		if err := json.Unmarshal(payload, &show); err != nil {
			show = false
		}

		var err error
		if show {
			err = m.Show(ctx)
		} else {
			err = m.Hide(ctx)
		}
		if err != nil {
			m.logger.Error("overlay toggle failed", "show", show, "error", err)
		}
	}
}

// ensureWindow returns the window handle, creating it on first use
func (m *Manager) ensureWindow(ctx context.Context) (Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.window != nil {
		return m.window, nil
	}

	width, err := m.windowing.ScreenWidth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read screen width: %w", err)
	}

	opts := TimeProgressOptions(width)
	opts.AlwaysOnTop = m.recall(kv.KeyOverlayPinned, true)

	w, err := m.windowing.CreateWindow(ctx, WindowName, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s window: %w", WindowName, err)
	}
	if w == nil {
		return nil, ErrNoWindow
	}

	m.logger.Debug("overlay window created", "width", width, "always_on_top", opts.AlwaysOnTop)
	m.window = w
	return w, nil
}

func (m *Manager) remember(key string, value bool) {
	if m.prefs == nil {
		return
	}
	if err := m.prefs.Set(key, strconv.FormatBool(value)); err != nil {
		m.logger.Warn("failed to save overlay preference", "key", key, "error", err)
	}
}

func (m *Manager) recall(key string, def bool) bool {
	if m.prefs == nil {
		return def
	}
	raw, err := m.prefs.Get(key, strconv.FormatBool(def))
	if err != nil {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
