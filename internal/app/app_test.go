package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tempo/internal/api"
	"github.com/thenoetrevino/tempo/internal/config"
	"github.com/thenoetrevino/tempo/internal/database"
	"github.com/thenoetrevino/tempo/internal/events"
	"github.com/thenoetrevino/tempo/internal/models"
	"github.com/thenoetrevino/tempo/internal/overlay"
	"github.com/thenoetrevino/tempo/internal/storage"
)

func setupLocal(t *testing.T) *storage.Local {
	t.Helper()
	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewLocal(database.NewRepository(db), nil)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Daemon.SocketPath = filepath.Join(dir, "missing.sock")
	return cfg
}

type stubWindow struct{ shown int }

func (w *stubWindow) Show(ctx context.Context) error {
	w.shown++
	return nil
}

func (w *stubWindow) Hide(ctx context.Context) error { return nil }

func (w *stubWindow) SetAlwaysOnTop(ctx context.Context, b bool) error { return nil }

type stubWindowing struct{ w *stubWindow }

func (s *stubWindowing) ScreenWidth(ctx context.Context) (int, error) { return 100, nil }

func (s *stubWindowing) CreateWindow(ctx context.Context, name string, opts overlay.WindowOptions) (overlay.Window, error) {
	return s.w, nil
}

func TestNew(t *testing.T) {
	a, err := New(context.Background(), setupLocal(t))
	require.NoError(t, err)

	assert.NotNil(t, a.RepeatTasks)
	assert.NotNil(t, a.Tags)
	assert.Nil(t, a.Overlay, "overlay needs a windowing backend")
	assert.NotNil(t, a.Bus())
	assert.False(t, a.Connected())
	assert.NoError(t, a.Close())
}

func TestNew_NilStorage(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilStorage)
}

func TestNew_ManagersShareStorage(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, setupLocal(t))
	require.NoError(t, err)

	task, err := a.RepeatTasks.Create(ctx, models.RepeatTask{
		Title:      "Gym",
		RepeatTime: "MON|18:00|19:00",
		Status:     models.RepeatTaskActive,
	})
	require.NoError(t, err)

	_, ok := a.RepeatTasks.CreateMatter(ctx, task)
	assert.True(t, ok)

	require.NoError(t, a.Tags.Create(ctx, []string{"health", " health "}))
	require.NoError(t, a.Tags.FetchAll(ctx))
	assert.Equal(t, []string{"health"}, a.Tags.Names())
}

func TestNew_WithOverlay(t *testing.T) {
	ctx := context.Background()
	win := &stubWindow{}
	a, err := New(ctx, setupLocal(t), WithOverlay(&stubWindowing{w: win}, nil, ""))
	require.NoError(t, err)
	require.NotNil(t, a.Overlay)

	require.NoError(t, a.Overlay.Initialize(ctx))
	require.NoError(t, a.Bus().Publish(events.ChannelToggleTimeProgress, true))

	assert.Equal(t, 1, win.shown)
}

func TestOpen_LocalWithoutDaemon(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := Open(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, a.Connected())

	_, err = a.RepeatTasks.Create(ctx, models.RepeatTask{Title: "Read", RepeatTime: "SUN|09:00|10:00"})
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.FileExists(t, cfg.DBPath())

	// data survives reopening
	again, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = again.Close() }()
	require.NoError(t, again.RepeatTasks.FetchAll(ctx))
	assert.Len(t, again.RepeatTasks.Tasks(), 1)
}

func TestOpen_HTTPBackend(t *testing.T) {
	ctx := context.Background()

	server, err := api.NewServer(setupLocal(t))
	require.NoError(t, err)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	cfg := testConfig(t)
	cfg.Storage.Backend = config.BackendHTTP
	cfg.Storage.URL = ts.URL

	a, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	created, err := a.RepeatTasks.Create(ctx, models.RepeatTask{Title: "Remote", RepeatTime: "FRI|12:00|13:00"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NoFileExists(t, cfg.DBPath(), "http backend never opens a local database")
}
