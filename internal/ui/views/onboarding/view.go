// Package onboarding renders the three-step host onboarding screen with
// the continue button the invisible overlay sits on.
package onboarding

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rsoc/internal/ui/theme"
)

// State is the render snapshot the root model assembles each frame.
type State struct {
	Step      int
	StepCount int

	OverlayAttached bool
	OverlayHidden   bool
	OverlayOffset   string
	OverlayCovered  bool
	ScreenName      string
	SessionReady    bool
}

var stepCopy = []string{
	"Welcome! Set up your reading goals to get started.",
	"Pick the topics you want to follow every morning.",
	"Almost done. Review your choices and continue.",
}

type Model struct {
	width  int
	height int
}

func New() Model { return Model{} }

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) View(s State) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Onboarding"))
	b.WriteString("\n\n")
	b.WriteString(renderDots(s.Step, s.StepCount))
	b.WriteString("\n\n")

	copyIdx := s.Step
	if copyIdx >= len(stepCopy) {
		copyIdx = len(stepCopy) - 1
	}
	b.WriteString(lipgloss.NewStyle().Width(max(20, m.width-8)).Render(stepCopy[copyIdx]))
	b.WriteString("\n\n")

	button := theme.Button
	if s.OverlayAttached && !s.OverlayHidden {
		button = theme.ButtonArmed
	}
	b.WriteString(button.Render("Continue"))
	b.WriteString("\n\n")
	b.WriteString(m.renderOverlayPane(s))

	return theme.Pane.Width(max(30, m.width-4)).Render(b.String())
}

func (m Model) renderOverlayPane(s State) string {
	if !s.SessionReady {
		return theme.Muted.Render("sponsored content: off")
	}
	lines := []string{
		"sponsored content: armed",
		fmt.Sprintf("page: %s  covered: %v", s.ScreenName, s.OverlayCovered),
	}
	if s.OverlayAttached {
		state := "aligned"
		if s.OverlayHidden {
			state = "hidden"
		}
		lines = append(lines, fmt.Sprintf("overlay: %s  offset: %s", state, s.OverlayOffset))
	} else {
		lines = append(lines, "overlay: detached")
	}
	return theme.Muted.Render(strings.Join(lines, "\n"))
}

func renderDots(step, count int) string {
	if count <= 0 {
		return ""
	}
	parts := make([]string, count)
	for i := range parts {
		if i == step {
			parts[i] = theme.Hot.Render("●")
		} else {
			parts[i] = theme.Muted.Render("○")
		}
	}
	return strings.Join(parts, " ")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
