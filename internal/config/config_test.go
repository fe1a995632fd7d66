package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG_CONFIG_HOME at a temp dir and clears TEMPO_* overrides
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, env := range []string{
		"TEMPO_DATA_DIR", "TEMPO_STORAGE", "TEMPO_API_URL", "TEMPO_API_ADDR",
		"TEMPO_SOCKET", "TEMPO_LOG_LEVEL", "TEMPO_OVERLAY_SPAN",
	} {
		t.Setenv(env, "")
	}
	return dir
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	configDir := filepath.Join(dir, "tempo")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	path := filepath.Join(configDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, "127.0.0.1:7749", cfg.API.Addr)
	assert.Equal(t, "notification://toggle-time-progress", cfg.Overlay.Channel)
	assert.NotContains(t, cfg.DataDir, "~", "data dir is expanded")
	assert.Equal(t, filepath.Join(cfg.DataDir, "tempo.sock"), cfg.SocketPath())
	assert.Equal(t, filepath.Join(cfg.DataDir, "tempo.db"), cfg.DBPath())
	assert.Empty(t, cfg.Path())
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "config.yaml", `data_dir: /tmp/tempo-data
storage:
  backend: http
  url: http://127.0.0.1:9000
overlay:
  span: matter
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tempo-data", cfg.DataDir)
	assert.Equal(t, BackendHTTP, cfg.Storage.Backend)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.Storage.URL)
	assert.Equal(t, "matter", cfg.Overlay.Span)
	// untouched fields get defaults
	assert.Equal(t, "127.0.0.1:7749", cfg.API.Addr)
	assert.Equal(t, 60, cfg.Overlay.RefreshSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigWithTOML(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "config.toml", `data_dir = "/tmp/tempo-toml"

[api]
addr = "localhost:8000"

[daemon]
socket_path = "/tmp/tempo-toml/events.sock"
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tempo-toml", cfg.DataDir)
	assert.Equal(t, "localhost:8000", cfg.API.Addr)
	assert.Equal(t, "/tmp/tempo-toml/events.sock", cfg.SocketPath())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "config.yaml", "data_dir: /tmp/from-file\n")

	t.Setenv("TEMPO_DATA_DIR", "/tmp/from-env")
	t.Setenv("TEMPO_STORAGE", "http")
	t.Setenv("TEMPO_SOCKET", "/tmp/env.sock")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-env", cfg.DataDir)
	assert.Equal(t, BackendHTTP, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/env.sock", cfg.SocketPath())
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "config.yaml", "storage:\n  backend: postgres\n")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "config.toml", "data_dir = [unterminated")

	_, err := Load()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Storage.Backend = BackendHTTP
	cfg.Overlay.RefreshSeconds = 15
	require.NoError(t, cfg.Save())
	assert.FileExists(t, cfg.Path())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendHTTP, loaded.Storage.Backend)
	assert.Equal(t, 15, loaded.Overlay.RefreshSeconds)
	assert.Equal(t, cfg.Path(), loaded.Path())
}

func TestSaveKeepsTOML(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "config.toml", "[log]\nlevel = \"debug\"\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	cfg.Log.Level = "warn"
	require.NoError(t, cfg.Save())
	assert.Equal(t, path, cfg.Path())

	again, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", again.Log.Level)
}
