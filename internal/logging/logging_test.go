package logging

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestInit_WritesToDataDir(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		log.SetOutput(os.Stderr)
	})

	dir := t.TempDir()
	closer, err := Init(dir, "debug")
	require.NoError(t, err)

	slog.Debug("hello from test", "key", "value")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "logs", "tempo.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello from test"))
	assert.Contains(t, string(data), "key=value")
}

func TestInit_BadLevel(t *testing.T) {
	_, err := Init(t.TempDir(), "loud")
	assert.Error(t, err)
}
