package terminal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tempo/internal/models"
)

var noon = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// ============================================================================
// Elapsed / DaySpan
// ============================================================================

func TestElapsed(t *testing.T) {
	start := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want float64
	}{
		{"before start", start.Add(-time.Minute), 0},
		{"at start", start, 0},
		{"halfway", start.Add(time.Hour), 0.5},
		{"at end", end, 1},
		{"after end", end.Add(time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Elapsed(tt.now, start, end), 1e-9)
		})
	}

	assert.Equal(t, 1.0, Elapsed(start, end, start), "empty span counts as complete")
}

func TestDaySpan(t *testing.T) {
	start, end := DaySpan(noon)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), end)
	assert.InDelta(t, 0.5, Elapsed(noon, start, end), 1e-9)
}

// ============================================================================
// Model
// ============================================================================

func TestModel_View(t *testing.T) {
	m := NewModel("Time Progress", 40, true, true, fixedClock(noon), nil)

	view := m.View()

	assert.Contains(t, view, "Time Progress")
	assert.Contains(t, view, "50%")
	assert.Len(t, strings.Split(view, "\n"), 2)
}

func TestModel_HiddenRendersNothing(t *testing.T) {
	m := NewModel("Time Progress", 40, false, true, fixedClock(noon), nil)
	assert.Empty(t, m.View())
}

func TestModel_Messages(t *testing.T) {
	m := NewModel("Time Progress", 0, true, true, fixedClock(noon), nil)
	assert.Equal(t, defaultWidth, m.Width())

	updated, _ := m.Update(visibilityMsg(false))
	m = updated.(Model)
	assert.False(t, m.Visible())

	updated, _ = m.Update(pinMsg(false))
	m = updated.(Model)
	assert.False(t, m.Pinned())

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 10})
	m = updated.(Model)
	assert.Equal(t, 120, m.Width())

	_, cmd := m.Update(tickMsg(noon))
	assert.NotNil(t, cmd, "tick reschedules itself")
}

func TestModel_QuitKeys(t *testing.T) {
	m := NewModel("Time Progress", 40, true, true, fixedClock(noon), nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

// ============================================================================
// Backend
// ============================================================================

func TestBackend_ScreenWidth(t *testing.T) {
	ctx := context.Background()

	w, err := NewBackend(WithWidth(200)).ScreenWidth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200, w)

	w, err = NewBackend(WithOutput(&strings.Builder{})).ScreenWidth(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultWidth, w)
}

// ============================================================================
// MatterSpan
// ============================================================================

type fakeQuerier struct {
	matters []models.Matter
	err     error
	calls   int
}

func (f *fakeQuerier) ListMatters(ctx context.Context) ([]models.Matter, error) {
	return f.matters, f.err
}

func (f *fakeQuerier) ListMattersByRange(ctx context.Context, start, end time.Time) ([]models.Matter, error) {
	f.calls++
	return f.matters, f.err
}

func TestMatterSpan_UsesActiveMatter(t *testing.T) {
	q := &fakeQuerier{matters: []models.Matter{
		{ID: "past", StartTime: noon.Add(-3 * time.Hour), EndTime: noon.Add(-2 * time.Hour)},
		{ID: "now", StartTime: noon.Add(-time.Hour), EndTime: noon.Add(time.Hour)},
		{ID: "later", StartTime: noon.Add(2 * time.Hour), EndTime: noon.Add(3 * time.Hour)},
	}}
	span := MatterSpan(context.Background(), q, time.Minute, nil)

	start, end := span(noon)

	assert.Equal(t, noon.Add(-time.Hour), start)
	assert.Equal(t, noon.Add(time.Hour), end)
}

func TestMatterSpan_FallsBackToDay(t *testing.T) {
	q := &fakeQuerier{err: errors.New("offline")}
	span := MatterSpan(context.Background(), q, time.Minute, nil)

	start, end := span(noon)
	dayStart, dayEnd := DaySpan(noon)

	assert.Equal(t, dayStart, start)
	assert.Equal(t, dayEnd, end)
}

func TestMatterSpan_RefreshInterval(t *testing.T) {
	q := &fakeQuerier{}
	span := MatterSpan(context.Background(), q, time.Minute, nil)

	span(noon)
	span(noon.Add(30 * time.Second))
	assert.Equal(t, 1, q.calls)

	span(noon.Add(time.Minute))
	assert.Equal(t, 2, q.calls)
}
