// Package paywall renders the purchase screen shown after onboarding.
package paywall

import (
	"strings"

	"rsoc/internal/ui/theme"
)

type State struct {
	SponsorAttached bool
	SponsorVisible  bool
}

type Model struct {
	width int
}

func New() Model { return Model{} }

func (m *Model) SetSize(width, _ int) { m.width = width }

func (m Model) View(s State) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Go Premium"))
	b.WriteString("\n\n")
	b.WriteString("Unlimited reading, no interruptions.\n\n")
	b.WriteString(theme.Hot.Render("  $4.99 / month  "))
	b.WriteString("\n\n")
	if s.SponsorAttached && s.SponsorVisible {
		b.WriteString(theme.Muted.Render("A message from our sponsor follows."))
		b.WriteString("\n")
	}
	b.WriteString(theme.Muted.Render("press c to close"))
	return theme.PaneActive.Width(max(30, m.width-4)).Render(b.String())
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
