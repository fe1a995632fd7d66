package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tempo/internal/database"
	"github.com/thenoetrevino/tempo/internal/kv"
	"github.com/thenoetrevino/tempo/internal/models"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type testEnv struct {
	srv    *httptest.Server
	client *storage.HTTP
	local  *storage.Local
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	local := storage.NewLocal(database.NewRepository(db), nil)
	s, err := NewServer(local, WithKV(kv.Open(t.TempDir())))
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{
		srv:    srv,
		client: storage.NewHTTP(srv.URL, srv.Client()),
		local:  local,
	}
}

// call performs a raw request and decodes the envelope
func (e *testEnv) call(t *testing.T, method, path, body string) (int, storage.Envelope) {
	t.Helper()

	req, err := http.NewRequest(method, e.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var env storage.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func sampleTask() models.RepeatTask {
	return models.RepeatTask{
		Title:      "Standup",
		Tags:       "work",
		RepeatTime: "MON,WED|08:00|10:00",
		Priority:   models.PriorityHigh,
		Status:     models.RepeatTaskActive,
	}
}

// ============================================================================
// CONSTRUCTION / ROOT
// ============================================================================

func TestNewServer_NilBackend(t *testing.T) {
	_, err := NewServer(nil)
	assert.ErrorIs(t, err, ErrNilBackend)
}

func TestRootAndHealth(t *testing.T) {
	env := setupServer(t)

	resp, err := env.srv.Client().Get(env.srv.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var root map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&root))
	assert.Equal(t, "ok", root["status"])

	code, body := env.call(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, http.StatusOK, body.Code)
	assert.Equal(t, "success", body.Msg)
}

// ============================================================================
// REPEAT TASKS
// ============================================================================

func TestRepeatTask_RoundTrip(t *testing.T) {
	env := setupServer(t)
	ctx := context.Background()

	created, err := env.client.CreateRepeatTask(ctx, sampleTask())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Standup", created.Title)

	tasks, err := env.client.ListRepeatTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)

	created.Title = "Daily standup"
	updated, err := env.client.UpdateRepeatTask(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "Daily standup", updated.Title)

	require.NoError(t, env.client.DeleteRepeatTask(ctx, created.ID))
	tasks, err = env.client.ListRepeatTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestRepeatTask_NotFound(t *testing.T) {
	env := setupServer(t)

	code, body := env.call(t, http.MethodGet, "/repeat-task/missing", "")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, http.StatusNotFound, body.Code)
	assert.Equal(t, "null", string(body.Data))
}

func TestRepeatTask_InvalidBody(t *testing.T) {
	env := setupServer(t)

	code, _ := env.call(t, http.MethodPost, "/repeat-task", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.call(t, http.MethodPost, "/repeat-task", `{"title":"","repeat_time":"MON|08:00|09:00"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	_, err := env.client.CreateRepeatTask(context.Background(), models.RepeatTask{RepeatTime: "x"})
	assert.ErrorIs(t, err, storage.ErrRemote)
}

func TestRepeatTask_StatusAndActive(t *testing.T) {
	env := setupServer(t)
	ctx := context.Background()

	created, err := env.client.CreateRepeatTask(ctx, sampleTask())
	require.NoError(t, err)

	code, _ := env.call(t, http.MethodPut, "/repeat-task/"+created.ID+"/status/inactive", "")
	assert.Equal(t, http.StatusOK, code)

	code, body := env.call(t, http.MethodGet, "/repeat-task/active", "")
	assert.Equal(t, http.StatusOK, code)
	var active []models.RepeatTask
	require.NoError(t, json.Unmarshal(body.Data, &active))
	assert.Empty(t, active)

	code, _ = env.call(t, http.MethodPut, "/repeat-task/"+created.ID+"/status/paused", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.call(t, http.MethodPut, "/repeat-task/"+created.ID+"/status/1", "")
	assert.Equal(t, http.StatusOK, code)

	code, body = env.call(t, http.MethodGet, "/repeat-task/"+created.ID, "")
	assert.Equal(t, http.StatusOK, code)
	var got models.RepeatTask
	require.NoError(t, json.Unmarshal(body.Data, &got))
	assert.Equal(t, models.RepeatTaskActive, got.Status)
}

// ============================================================================
// MATTERS
// ============================================================================

func TestMatter_CreateAndRange(t *testing.T) {
	env := setupServer(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	m, err := env.client.CreateMatter(ctx, models.Matter{
		Title:     "Standup",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Type:      models.MatterRepeatTask,
		Reserved1: models.ColorRed,
		Reserved2: "task-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, m.ID)

	in, err := env.client.ListMattersByRange(ctx, start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, "task-1", in[0].Reserved2)

	out, err := env.client.ListMattersByRange(ctx, start.Add(time.Hour), start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, out)

	all, err := env.client.ListMatters(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMatter_RangeRequiresTimes(t *testing.T) {
	env := setupServer(t)

	code, _ := env.call(t, http.MethodGet, "/matter/range?start=yesterday&end=2024-01-01T00:00:00Z", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.call(t, http.MethodGet, "/matter/range", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMatter_QueryAndCRUD(t *testing.T) {
	env := setupServer(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	m, err := env.local.CreateMatter(ctx, models.Matter{
		Title:     "Dentist appointment",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	code, body := env.call(t, http.MethodGet, "/matter/query?field=title&value=Dentist", "")
	assert.Equal(t, http.StatusOK, code)
	var found []models.Matter
	require.NoError(t, json.Unmarshal(body.Data, &found))
	assert.Len(t, found, 1)

	code, body = env.call(t, http.MethodGet, "/matter/query?field=title&value=Dentist&exact_match=true", "")
	assert.Equal(t, http.StatusOK, code)
	found = nil
	require.NoError(t, json.Unmarshal(body.Data, &found))
	assert.Empty(t, found)

	code, _ = env.call(t, http.MethodGet, "/matter/query?field=password&value=x", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.call(t, http.MethodGet, "/matter/"+m.ID, "")
	assert.Equal(t, http.StatusOK, code)

	m.Title = "Dentist"
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	code, body = env.call(t, http.MethodPut, "/matter/"+m.ID, string(raw))
	assert.Equal(t, http.StatusOK, code)
	var updated models.Matter
	require.NoError(t, json.Unmarshal(body.Data, &updated))
	assert.Equal(t, "Dentist", updated.Title)

	code, _ = env.call(t, http.MethodDelete, "/matter/"+m.ID, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = env.call(t, http.MethodGet, "/matter/"+m.ID, "")
	assert.Equal(t, http.StatusNotFound, code)
}

// ============================================================================
// TAGS
// ============================================================================

func TestTags_RoundTrip(t *testing.T) {
	env := setupServer(t)
	ctx := context.Background()

	require.NoError(t, env.client.CreateTag(ctx, "work, home,work"))

	tags, err := env.client.GetAllTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "home", tags[0].Name)
	assert.Equal(t, "work", tags[1].Name)

	require.NoError(t, env.client.UpdateTagLastUsedAt(ctx, "work,home"))
	require.NoError(t, env.client.DeleteTag(ctx, "work,home"))

	tags, err = env.client.GetAllTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestTags_EscapedNamesInPath(t *testing.T) {
	env := setupServer(t)
	ctx := context.Background()

	for _, name := range []string{"100%", "a%2Fb", "a/b", "50% off/now"} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, env.client.CreateTag(ctx, name))
			require.NoError(t, env.client.UpdateTagLastUsedAt(ctx, name))

			tags, err := env.client.GetAllTags(ctx)
			require.NoError(t, err)
			require.Len(t, tags, 1)
			assert.Equal(t, name, tags[0].Name)

			require.NoError(t, env.client.DeleteTag(ctx, name))

			tags, err = env.client.GetAllTags(ctx)
			require.NoError(t, err)
			assert.Empty(t, tags, "tag %q should be deleted", name)
		})
	}
}

func TestTags_EmptyNamesRejected(t *testing.T) {
	env := setupServer(t)

	code, _ := env.call(t, http.MethodPost, "/tags", `{"names":""}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.call(t, http.MethodPost, "/tags", `{"names":" , "}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

// ============================================================================
// KV
// ============================================================================

func TestKV_RoundTrip(t *testing.T) {
	env := setupServer(t)

	code, body := env.call(t, http.MethodGet, "/kv/theme", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, `""`, string(body.Data))

	code, _ = env.call(t, http.MethodPut, "/kv/theme", "dark")
	assert.Equal(t, http.StatusOK, code)

	_, body = env.call(t, http.MethodGet, "/kv/theme", "")
	assert.Equal(t, `"dark"`, string(body.Data))

	code, _ = env.call(t, http.MethodDelete, "/kv/theme", "")
	assert.Equal(t, http.StatusOK, code)

	_, body = env.call(t, http.MethodGet, "/kv/theme", "")
	assert.Equal(t, `""`, string(body.Data))
}

func TestKV_DisabledWithoutStore(t *testing.T) {
	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewServer(storage.NewLocal(database.NewRepository(db), nil))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kv/theme", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================================================
// LISTENING
// ============================================================================

func TestCheckLocal(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"127.0.0.1:7749", false},
		{"localhost:0", false},
		{"[::1]:7749", false},
		{"0.0.0.0:7749", true},
		{"192.168.1.10:7749", true},
		{"example.com:80", true},
		{"no-port", true},
	}

	for _, tt := range tests {
		err := checkLocal(tt.addr)
		if tt.wantErr {
			assert.Error(t, err, tt.addr)
		} else {
			assert.NoError(t, err, tt.addr)
		}
	}

	assert.ErrorIs(t, checkLocal("0.0.0.0:1"), ErrNonLocalAddress)
}

func TestServe_StopsOnCancel(t *testing.T) {
	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewServer(storage.NewLocal(database.NewRepository(db), nil))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := storage.NewHTTP("http://"+ln.Addr().String(), nil)
	require.Eventually(t, func() bool {
		_, err := client.ListRepeatTasks(context.Background())
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
