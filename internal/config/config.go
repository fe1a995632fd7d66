package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendLocal = "local"
	BackendHTTP  = "http"
)

// Config represents the application configuration
type Config struct {
	// DataDir holds the database, logs, kv store and daemon socket
	DataDir string        `yaml:"data_dir" toml:"data_dir"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	API     APIConfig     `yaml:"api" toml:"api"`
	Daemon  DaemonConfig  `yaml:"daemon" toml:"daemon"`
	Overlay OverlayConfig `yaml:"overlay" toml:"overlay"`
	Log     LogConfig     `yaml:"log" toml:"log"`

	// path is where the config was read from, empty for defaults
	path string
}

// StorageConfig selects where records live
type StorageConfig struct {
	// Backend is "local" (SQLite in DataDir) or "http" (a tempo serve instance)
	Backend string `yaml:"backend" toml:"backend"`
	// URL of the API when Backend is "http"
	URL string `yaml:"url" toml:"url"`
}

// APIConfig configures tempo serve
type APIConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// DaemonConfig configures the event daemon
type DaemonConfig struct {
	// SocketPath defaults to <data_dir>/tempo.sock
	SocketPath string `yaml:"socket_path" toml:"socket_path"`
}

// OverlayConfig configures the time progress overlay
type OverlayConfig struct {
	Channel string `yaml:"channel" toml:"channel"`
	// Span is "day" or "matter"
	Span           string `yaml:"span" toml:"span"`
	RefreshSeconds int    `yaml:"refresh_seconds" toml:"refresh_seconds"`
}

// LogConfig configures the log file
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		DataDir: "~/.tempo",
		Storage: StorageConfig{Backend: BackendLocal, URL: "http://127.0.0.1:7749"},
		API:     APIConfig{Addr: "127.0.0.1:7749"},
		Overlay: OverlayConfig{
			Channel:        "notification://toggle-time-progress",
			Span:           "day",
			RefreshSeconds: 60,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load loads config.yaml or config.toml from the user's config directory.
// Returns the default config if neither exists. TEMPO_* variables override
// file values.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		cfg := Default()
		cfg.applyEnv()
		return cfg, cfg.finish()
	}

	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	cfg := Default()
	cfg.applyEnv()
	return cfg, cfg.finish()
}

// LoadFile reads a YAML or TOML config, chosen by extension
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.path = path
	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, cfg.finish()
}

// Save writes the config back to the file it came from, or to config.yaml
// in the config directory
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	c.path = path
	return nil
}

// Path is the file the config was loaded from, if any
func (c *Config) Path() string {
	return c.path
}

// SocketPath returns the daemon socket, defaulting into the data dir
func (c *Config) SocketPath() string {
	if c.Daemon.SocketPath != "" {
		return c.Daemon.SocketPath
	}
	return filepath.Join(c.DataDir, "tempo.sock")
}

// DBPath returns the SQLite database file
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "tempo.db")
}

// KVDir returns the directory of the key/value store
func (c *Config) KVDir() string {
	return filepath.Join(c.DataDir, "kv")
}

// Dir returns the directory holding the config file
func Dir() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tempo"), nil
	}

	// Fall back to ~/.config
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tempo"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	def := Default()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Storage.URL == "" {
		c.Storage.URL = def.Storage.URL
	}
	if c.API.Addr == "" {
		c.API.Addr = def.API.Addr
	}
	if c.Overlay.Channel == "" {
		c.Overlay.Channel = def.Overlay.Channel
	}
	if c.Overlay.Span == "" {
		c.Overlay.Span = def.Overlay.Span
	}
	if c.Overlay.RefreshSeconds <= 0 {
		c.Overlay.RefreshSeconds = def.Overlay.RefreshSeconds
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// applyEnv applies TEMPO_* overrides
func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"TEMPO_DATA_DIR":     &c.DataDir,
		"TEMPO_STORAGE":      &c.Storage.Backend,
		"TEMPO_API_URL":      &c.Storage.URL,
		"TEMPO_API_ADDR":     &c.API.Addr,
		"TEMPO_SOCKET":       &c.Daemon.SocketPath,
		"TEMPO_LOG_LEVEL":    &c.Log.Level,
		"TEMPO_OVERLAY_SPAN": &c.Overlay.Span,
	}
	for env, field := range overrides {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

// finish expands paths and checks enumerated values
func (c *Config) finish() error {
	dataDir, err := homedir.Expand(c.DataDir)
	if err != nil {
		return fmt.Errorf("invalid data_dir %q: %w", c.DataDir, err)
	}
	c.DataDir = dataDir

	if c.Daemon.SocketPath != "" {
		socket, err := homedir.Expand(c.Daemon.SocketPath)
		if err != nil {
			return fmt.Errorf("invalid socket_path %q: %w", c.Daemon.SocketPath, err)
		}
		c.Daemon.SocketPath = socket
	}

	switch c.Storage.Backend {
	case BackendLocal, BackendHTTP:
	default:
		return fmt.Errorf("%w: storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	switch c.Overlay.Span {
	case "day", "matter":
	default:
		return fmt.Errorf("%w: overlay span %q", ErrInvalidConfig, c.Overlay.Span)
	}
	return nil
}
