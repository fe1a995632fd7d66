package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tempo/internal/models"
)

// request captures what the fake server saw
type request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

func fakeAPI(t *testing.T, code int, data interface{}) (*HTTP, *request) {
	t.Helper()
	seen := &request{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*seen = request{Method: r.Method, Path: r.URL.EscapedPath(), Query: r.URL.RawQuery, Body: string(body)}

		raw, _ := json.Marshal(data)
		_ = json.NewEncoder(w).Encode(Envelope{Code: code, Msg: "msg", Data: raw})
	}))
	t.Cleanup(srv.Close)

	return NewHTTP(srv.URL+"/", srv.Client()), seen
}

func TestHTTP_ListRepeatTasks(t *testing.T) {
	h, seen := fakeAPI(t, 200, []models.RepeatTask{{ID: "a", Title: "A"}})

	tasks, err := h.ListRepeatTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "A", tasks[0].Title)
	assert.Equal(t, "GET", seen.Method)
	assert.Equal(t, "/repeat-task", seen.Path)
}

func TestHTTP_UpdateRepeatTask_SendsBody(t *testing.T) {
	h, seen := fakeAPI(t, 200, models.RepeatTask{ID: "a b", Title: "new"})

	out, err := h.UpdateRepeatTask(context.Background(), "a b", models.RepeatTask{Title: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", out.Title)
	assert.Equal(t, "PUT", seen.Method)
	assert.Equal(t, "/repeat-task/a%20b", seen.Path)
	assert.Contains(t, seen.Body, `"title":"new"`)
}

func TestHTTP_TagRoutes(t *testing.T) {
	h, seen := fakeAPI(t, 200, nil)
	ctx := context.Background()

	require.NoError(t, h.CreateTag(ctx, "a,b"))
	assert.Equal(t, "POST", seen.Method)
	assert.JSONEq(t, `{"names":"a,b"}`, seen.Body)

	require.NoError(t, h.UpdateTagLastUsedAt(ctx, "a,b"))
	assert.Equal(t, "PUT", seen.Method)
	assert.Equal(t, "/tags/update/a%2Cb", seen.Path)

	require.NoError(t, h.DeleteTag(ctx, "a"))
	assert.Equal(t, "DELETE", seen.Method)
	assert.Equal(t, "/tags/a", seen.Path)
}

func TestHTTP_RangeQuery(t *testing.T) {
	h, seen := fakeAPI(t, 200, []models.Matter{})
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	_, err := h.ListMattersByRange(context.Background(), start, start.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "/matter/range", seen.Path)
	assert.Equal(t, "end=2024-06-04T00%3A00%3A00Z&start=2024-06-03T00%3A00%3A00Z", seen.Query)
}

func TestHTTP_ErrorEnvelope(t *testing.T) {
	h, _ := fakeAPI(t, 404, nil)

	err := h.DeleteRepeatTask(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 404, remote.Code)
}

func TestHTTP_Unreachable(t *testing.T) {
	h := NewHTTP("http://127.0.0.1:1", nil)

	_, err := h.GetAllTags(context.Background())
	assert.Error(t, err)
}
