package overlay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/events"
	"github.com/thenoetrevino/tempo/internal/kv"
	"github.com/thenoetrevino/tempo/internal/testutil"
)

func TestToggle_WithDaemon(t *testing.T) {
	_, socketPath := testutil.SetupTestDaemon(t)

	c := testutil.NewCLI(t)
	c.Config.Daemon.SocketPath = socketPath

	listener := testutil.SetupTestClient(t, socketPath, c.Config.Overlay.Channel)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	received, err := listener.Listen(ctx)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	out, _, err := testutil.ExecuteCLICommand(t, c, HideCmd(), "--json")
	require.NoError(t, err)
	data := testutil.ParseJSON(t, out)["data"].(map[string]interface{})
	assert.Equal(t, true, data["notified"])

	event := testutil.WaitForEvent(t, received, 2*time.Second)
	assert.Equal(t, events.ChannelToggleTimeProgress, event.Channel)
	var visible bool
	require.NoError(t, event.DecodePayload(&visible))
	assert.False(t, visible)

	got, err := c.KV.Get(kv.KeyOverlayVisible, "")
	require.NoError(t, err)
	assert.Equal(t, "false", got)

	out, _, err = testutil.ExecuteCLICommand(t, c, ShowCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Overlay shown")

	event = testutil.WaitForEvent(t, received, 2*time.Second)
	require.NoError(t, event.DecodePayload(&visible))
	assert.True(t, visible)
}

func TestToggle_WithoutDaemon(t *testing.T) {
	c := testutil.NewCLI(t)

	out, stderr, err := testutil.ExecuteCLICommand(t, c, HideCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "will be hidden next time it starts")
	assert.Contains(t, stderr, "tempo daemon")

	got, err := c.KV.Get(kv.KeyOverlayVisible, "")
	require.NoError(t, err)
	assert.Equal(t, "false", got)
}

func TestPinAndStatus(t *testing.T) {
	c := testutil.NewCLI(t)

	out, _, err := testutil.ExecuteCLICommand(t, c, StatusCmd(), "--json")
	require.NoError(t, err)
	data := testutil.ParseJSON(t, out)["data"].(map[string]interface{})
	assert.Equal(t, true, data["visible"])
	assert.Equal(t, true, data["pinned"])

	out, _, err = testutil.ExecuteCLICommand(t, c, PinCmd(), "false")
	require.NoError(t, err)
	assert.Contains(t, out, "pinned: false")

	out, _, err = testutil.ExecuteCLICommand(t, c, StatusCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Pinned:  false")

	_, _, err = testutil.ExecuteCLICommand(t, c, PinCmd(), "sometimes")
	require.Error(t, err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
}
