package launcher

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tempo/internal/config"
	"github.com/thenoetrevino/tempo/internal/kv"
	"github.com/thenoetrevino/tempo/internal/overlay/terminal"
)

func TestLaunch_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Daemon.SocketPath = dir + "/missing.sock"
	cfg.Overlay.Span = "matter"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Launch(ctx, cfg,
			terminal.WithInput(nil),
			terminal.WithOutput(&bytes.Buffer{}),
			terminal.WithWidth(40))
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("overlay did not stop after cancel")
	}

	visible, err := kv.Open(cfg.KVDir()).Get(kv.KeyOverlayVisible, "")
	require.NoError(t, err)
	assert.Equal(t, "true", visible)
}
