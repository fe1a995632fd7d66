package terminal

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const tickInterval = time.Second

// SpanFunc returns the window of time the bar measures at now
type SpanFunc func(now time.Time) (start, end time.Time)

// DaySpan measures the local calendar day containing now
func DaySpan(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// Elapsed returns the share of [start, end) that has passed at now, clamped to [0, 1]
func Elapsed(now, start, end time.Time) float64 {
	total := end.Sub(start)
	if total <= 0 {
		return 1
	}
	done := now.Sub(start)
	switch {
	case done <= 0:
		return 0
	case done >= total:
		return 1
	}
	return float64(done) / float64(total)
}

// Messages sent to the model by Window
type (
	tickMsg       time.Time
	visibilityMsg bool
	pinMsg        bool
)

var (
	pinnedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	unpinnedStyle = lipgloss.NewStyle().Faint(true)
)

// Model renders the time progress bar
type Model struct {
	title   string
	bar     progress.Model
	width   int
	visible bool
	pinned  bool
	now     func() time.Time
	span    SpanFunc
}

// NewModel creates a bar width columns wide
func NewModel(title string, width int, visible, pinned bool, now func() time.Time, span SpanFunc) Model {
	if now == nil {
		now = time.Now
	}
	if span == nil {
		span = DaySpan
	}
	if width <= 0 {
		width = defaultWidth
	}
	return Model{
		title:   title,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(width), progress.WithoutPercentage()),
		width:   width,
		visible: visible,
		pinned:  pinned,
		now:     now,
		span:    span,
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width
		}
	case tickMsg:
		return m, tick()
	case visibilityMsg:
		m.visible = bool(msg)
	case pinMsg:
		m.pinned = bool(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if !m.visible {
		return ""
	}

	now := m.now()
	start, end := m.span(now)
	percent := Elapsed(now, start, end)

	style := unpinnedStyle
	if m.pinned {
		style = pinnedStyle
	}
	caption := fmt.Sprintf("%s %3.0f%%  %s-%s", m.title, percent*100, start.Format("15:04"), end.Format("15:04"))
	return style.Render(caption) + "\n" + m.bar.ViewAs(percent)
}

// Visible reports whether the bar is drawn
func (m Model) Visible() bool { return m.visible }

// Pinned reports whether the bar uses the pinned style
func (m Model) Pinned() bool { return m.pinned }

// Width is the current bar width in columns
func (m Model) Width() int { return m.width }
