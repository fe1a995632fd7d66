package serve

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tempo/internal/api"
	"github.com/thenoetrevino/tempo/internal/app"
	"github.com/thenoetrevino/tempo/internal/cli"
	"github.com/thenoetrevino/tempo/internal/config"
	"github.com/thenoetrevino/tempo/internal/kv"
	"github.com/thenoetrevino/tempo/internal/storage"
	"github.com/thenoetrevino/tempo/internal/testutil"
)

func freeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestServe(t *testing.T) {
	c := testutil.NewCLI(t)
	addr := freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	cmd := ServeCmd()
	cmd.SetArgs([]string{"--addr", addr})
	cmd.SetOut(io.Discard)
	cmd.SilenceUsage = true
	go func() { done <- cmd.ExecuteContext(cli.WithCLI(ctx, c)) }()

	base := fmt.Sprintf("http://%s", addr)
	require.True(t, testutil.WaitForCondition(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, "api answering"))

	t.Run("HTTP storage reaches the served database", func(t *testing.T) {
		remote := storage.NewHTTP(base, nil)
		task := testutil.CreateTestRepeatTask(t, remote, "Remote", "MON|08:00|09:00")

		require.NoError(t, c.App.RepeatTasks.FetchAll(context.Background()))
		got, ok := c.App.RepeatTasks.Get(task.ID)
		require.True(t, ok)
		assert.Equal(t, "Remote", got.Title)
	})

	t.Run("kv routes use the CLI store", func(t *testing.T) {
		require.NoError(t, c.KV.Set("theme", "dark"))

		resp, err := http.Get(base + "/kv/theme")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"data":"dark"`)
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestServe_RejectsPublicAddress(t *testing.T) {
	c := testutil.NewCLI(t)

	_, _, err := testutil.ExecuteCLICommand(t, c, ServeCmd(), "--addr", "0.0.0.0:7749")
	require.ErrorIs(t, err, api.ErrNonLocalAddress)
}

func TestServe_RequiresLocalBackend(t *testing.T) {
	ctx := context.Background()
	remote, err := app.New(ctx, storage.NewHTTP("http://127.0.0.1:1", nil))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	c := &cli.CLI{App: remote, Config: cfg, KV: kv.Open(cfg.KVDir())}

	_, _, err = testutil.ExecuteCLICommand(t, c, ServeCmd())
	require.ErrorIs(t, err, cli.ErrUnsupported)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}
