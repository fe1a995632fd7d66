// Package styles renders human CLI output: colored tables, cards and
// markdown descriptions.
package styles

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/thenoetrevino/tempo/internal/models"
)

// CardWidth is the width of show cards and of rendered markdown
const CardWidth = 72

var (
	// Table styles
	Header = color.New(color.Bold)
	Subtle = color.New(color.Faint)

	// Status styles
	Success = color.New(color.FgGreen, color.Bold)
	Warning = color.New(color.FgYellow)

	// Card styles
	CardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(CardWidth)
	TitleStyle = lipgloss.NewStyle().Bold(true)
	LabelStyle = lipgloss.NewStyle().Bold(true).Faint(true)
)

var priorityColors = map[string]*color.Color{
	models.ColorGreen: color.New(color.FgGreen),
	models.ColorBlue:  color.New(color.FgBlue),
	models.ColorRed:   color.New(color.FgRed),
}

// NewTable returns a table with header cells in bold
func NewTable(headers ...interface{}) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.Wrap = true

	if len(headers) > 0 {
		cells := make([]interface{}, len(headers))
		for i, h := range headers {
			cells[i] = Header.Sprint(h)
		}
		tbl.AddRow(cells...)
	}
	return tbl
}

// Priority renders a priority name in its calendar color
func Priority(p models.Priority) string {
	return priorityColors[p.Color()].Sprint(p.String())
}

// Status renders a repeat task status
func Status(s models.RepeatTaskStatus) string {
	if s == models.RepeatTaskActive {
		return Success.Sprint(s.String())
	}
	return Subtle.Sprint(s.String())
}

// Tags renders a comma-joined tag list as chips
func Tags(tags string) string {
	var chips []string
	for _, name := range strings.Split(tags, ",") {
		if name = strings.TrimSpace(name); name != "" {
			chips = append(chips, "#"+name)
		}
	}
	return strings.Join(chips, " ")
}

// Field renders "Label: value" for a card
func Field(label, value string) string {
	return fmt.Sprintf("%s %s", LabelStyle.Render(label+":"), value)
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}

var (
	rendererOnce sync.Once
	renderer     *glamour.TermRenderer
	rendererErr  error
)

// Markdown renders text as terminal markdown. The renderer is built once.
func Markdown(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	rendererOnce.Do(func() {
		renderer, rendererErr = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(CardWidth-4),
		)
	})
	if rendererErr != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", rendererErr)
	}

	out, err := renderer.Render(text)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
