// Package tag keeps the recency-ordered list of tags and forwards tag
// changes to storage.
package tag

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/thenoetrevino/tempo/internal/models"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// Manager defines all tag operations
type Manager interface {
	// Names returns tag names, most recently used first
	Names() []string
	// Tags returns tag records in the same order as Names
	Tags() []models.Tag

	FetchAll(ctx context.Context) error
	Create(ctx context.Context, names []string) error
	Delete(ctx context.Context, names []string) error
	UpdateLastUsedAt(ctx context.Context, names []string) error

	// OnChange registers fn to receive both views after every fetch
	OnChange(fn func(names []string, tags []models.Tag))
}

// Option configures a manager
type Option func(*manager)

// WithLogger sets the logger (default slog.Default())
func WithLogger(logger *slog.Logger) Option {
	return func(m *manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// manager implements Manager
type manager struct {
	store  storage.Storage
	logger *slog.Logger

	mu        sync.Mutex
	names     []string
	tags      []models.Tag
	listeners []func([]string, []models.Tag)
}

// New creates a tag manager and loads the tag list once.
// A failed initial load is logged and not retried.
func New(ctx context.Context, store storage.Storage, opts ...Option) (Manager, error) {
	if store == nil {
		return nil, ErrNilStorage
	}

	m := &manager{
		store:  store,
		logger: slog.Default(),
		names:  []string{},
		tags:   []models.Tag{},
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.FetchAll(ctx); err != nil {
		m.logger.Error("initial tag fetch failed", "error", err)
	} else {
		m.logger.Debug("fetched all tags", "count", len(m.Names()))
	}
	return m, nil
}

func (m *manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.names...)
}

func (m *manager) Tags() []models.Tag {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Tag(nil), m.tags...)
}

// FetchAll reloads tags, sorted by last use (newest first) without empty names
func (m *manager) FetchAll(ctx context.Context) error {
	tags, err := m.store.GetAllTags(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}

	sorted := m.sortByRecency(tags)

	filtered := make([]models.Tag, 0, len(sorted))
	names := make([]string, 0, len(sorted))
	for _, t := range sorted {
		if t.Name == "" {
			continue
		}
		filtered = append(filtered, t)
		names = append(names, t.Name)
	}

	m.mu.Lock()
	m.names = names
	m.tags = filtered
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l(append([]string(nil), names...), append([]models.Tag(nil), filtered...))
	}
	return nil
}

func (m *manager) Create(ctx context.Context, names []string) error {
	return m.forward(ctx, names, "create", m.store.CreateTag)
}

func (m *manager) Delete(ctx context.Context, names []string) error {
	return m.forward(ctx, names, "delete", m.store.DeleteTag)
}

func (m *manager) UpdateLastUsedAt(ctx context.Context, names []string) error {
	return m.forward(ctx, names, "touch", m.store.UpdateTagLastUsedAt)
}

func (m *manager) OnChange(fn func(names []string, tags []models.Tag)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// forward normalizes names and hands the comma-joined list to call.
// Nothing is sent when no names survive normalization.
func (m *manager) forward(ctx context.Context, names []string, op string, call func(context.Context, string) error) error {
	normalized := NormalizeTags(names)
	if len(normalized) == 0 {
		return nil
	}

	joined := strings.Join(normalized, ",")
	m.logger.Debug("forwarding tags", "op", op, "names", joined)
	if err := call(ctx, joined); err != nil {
		return fmt.Errorf("failed to %s tags %q: %w", op, joined, err)
	}
	return nil
}

// sortByRecency orders tags newest first. Tags whose timestamp cannot be
// parsed follow the dated ones in their original order.
func (m *manager) sortByRecency(tags []models.Tag) []models.Tag {
	type keyed struct {
		tag models.Tag
		at  time.Time
		ok  bool
	}

	items := make([]keyed, len(tags))
	invalid := 0
	for i, t := range tags {
		at, ok := t.LastUsed()
		if !ok {
			invalid++
		}
		items[i] = keyed{tag: t, at: at, ok: ok}
	}
	if invalid > 0 {
		m.logger.Warn("invalid date format in last_used_at", "count", invalid)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ok != b.ok {
			return a.ok
		}
		return a.ok && a.at.After(b.at)
	})

	out := make([]models.Tag, len(items))
	for i, it := range items {
		out[i] = it.tag
	}
	return out
}

// NormalizeTags trims each name, drops blanks and removes duplicates,
// keeping the first occurrence order.
func NormalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
