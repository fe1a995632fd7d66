package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thenoetrevino/tempo/internal/models"
)

// Envelope is the response body of every API call
type Envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// HTTP talks to a running tempo API server
type HTTP struct {
	baseURL string
	client  *http.Client
}

// NewHTTP creates a client for the API at baseURL, e.g. http://127.0.0.1:7749.
// A nil client gets a default with a 10s timeout.
func NewHTTP(baseURL string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (h *HTTP) ListRepeatTasks(ctx context.Context) ([]models.RepeatTask, error) {
	var tasks []models.RepeatTask
	err := h.do(ctx, http.MethodGet, "/repeat-task", nil, &tasks)
	return tasks, err
}

func (h *HTTP) CreateRepeatTask(ctx context.Context, task models.RepeatTask) (models.RepeatTask, error) {
	var out models.RepeatTask
	err := h.do(ctx, http.MethodPost, "/repeat-task", task, &out)
	return out, err
}

func (h *HTTP) UpdateRepeatTask(ctx context.Context, id string, task models.RepeatTask) (models.RepeatTask, error) {
	var out models.RepeatTask
	err := h.do(ctx, http.MethodPut, "/repeat-task/"+url.PathEscape(id), task, &out)
	return out, err
}

func (h *HTTP) DeleteRepeatTask(ctx context.Context, id string) error {
	return h.do(ctx, http.MethodDelete, "/repeat-task/"+url.PathEscape(id), nil, nil)
}

func (h *HTTP) CreateMatter(ctx context.Context, m models.Matter) (models.Matter, error) {
	var out models.Matter
	err := h.do(ctx, http.MethodPost, "/matter", m, &out)
	return out, err
}

func (h *HTTP) ListMatters(ctx context.Context) ([]models.Matter, error) {
	var matters []models.Matter
	err := h.do(ctx, http.MethodGet, "/matter", nil, &matters)
	return matters, err
}

func (h *HTTP) ListMattersByRange(ctx context.Context, start, end time.Time) ([]models.Matter, error) {
	q := url.Values{}
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))

	var matters []models.Matter
	err := h.do(ctx, http.MethodGet, "/matter/range?"+q.Encode(), nil, &matters)
	return matters, err
}

func (h *HTTP) CreateTag(ctx context.Context, names string) error {
	return h.do(ctx, http.MethodPost, "/tags", map[string]string{"names": names}, nil)
}

func (h *HTTP) DeleteTag(ctx context.Context, names string) error {
	return h.do(ctx, http.MethodDelete, "/tags/"+url.PathEscape(names), nil, nil)
}

func (h *HTTP) UpdateTagLastUsedAt(ctx context.Context, names string) error {
	return h.do(ctx, http.MethodPut, "/tags/update/"+url.PathEscape(names), nil, nil)
}

func (h *HTTP) GetAllTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := h.do(ctx, http.MethodGet, "/tags", nil, &tags)
	return tags, err
}

// do sends one request and decodes the envelope's data into out (if non-nil)
func (h *HTTP) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: failed to decode response (status %d): %w", method, path, resp.StatusCode, err)
	}

	if env.Code != http.StatusOK {
		return &RemoteError{Code: env.Code, Msg: env.Msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode data: %w", method, path, err)
	}
	return nil
}
