// Package sponsor renders the visible sponsor page with its dwell
// countdown.
package sponsor

import (
	"strings"

	"rsoc/internal/ui/theme"
)

type State struct {
	Label string
	Done  bool
	URL   string
}

type Model struct {
	width int
}

func New() Model { return Model{} }

func (m *Model) SetSize(width, _ int) { m.width = width }

func (m Model) View(s State) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Sponsored"))
	b.WriteString("\n\n")
	if s.URL != "" {
		b.WriteString(theme.Muted.Render(s.URL))
		b.WriteString("\n\n")
	}
	b.WriteString("Today's offer, now fully visible.\n\n")
	if s.Done {
		b.WriteString(theme.Good.Render("done"))
	} else {
		b.WriteString(theme.Countdown.Render(s.Label))
	}
	return theme.Pane.Width(max(30, m.width-4)).Render(b.String())
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
