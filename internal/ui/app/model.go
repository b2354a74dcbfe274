package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsadapter "rsoc/internal/modules/analytics/adapter/out"
	flowin "rsoc/internal/modules/flow/port/in"
	sessionin "rsoc/internal/modules/rsocsession/port/in"
	"rsoc/internal/sim"
	"rsoc/internal/ui/theme"
	onboardingview "rsoc/internal/ui/views/onboarding"
	paywallview "rsoc/internal/ui/views/paywall"
	sponsorview "rsoc/internal/ui/views/sponsor"
)

// ─── host composition ────────────────────────────────────────────────────────

// SponsorBinding receives countdown ticks from the presenter and holds
// them for rendering. It only mutates on the program loop.
type SponsorBinding struct {
	active bool
	label  string
	done   bool
}

func (b *SponsorBinding) Observe(label string, done bool) {
	b.active = true
	b.label = label
	b.done = done
}

func (b *SponsorBinding) Active() bool { return b.active }

func (b *SponsorBinding) Label() string { return b.label }

func (b *SponsorBinding) Done() bool { return b.done }

// Host bundles the composed flow the model drives. All fields mutate on
// the program loop only.
type Host struct {
	Clock      *ProgramClock
	Session    sessionin.Session
	Flow       flowin.Flow
	Surfaces   *sim.Factory
	Onboarding *sim.Onboarding
	Paywall    *sim.Paywall
	Events     *analyticsadapter.MemoryStore
	Sponsor    *SponsorBinding

	PreloadDone bool
	PreloadOK   bool
	Done        bool
}

// Launch starts the flow. The onboarding re-reports layout once the
// session is up, so overlay setup works whichever finishes first.
func (h *Host) Launch() {
	h.Flow.Start()
	h.Session.Preload(func(ok bool) {
		h.PreloadDone = true
		h.PreloadOK = ok
		h.Onboarding.LayoutReady()
	})
}

// ─── phases ──────────────────────────────────────────────────────────────────

type phase int

const (
	phaseOnboarding phase = iota
	phasePaywall
	phaseSponsor
	phaseDone
)

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Continue key.Binding
	Close    key.Binding
	Events   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Continue: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "continue")),
		Close:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close paywall")),
		Events:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "events")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Continue, k.Events, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Continue, k.Close},
		{k.Events, k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model: it routes keys, fires clock
// callbacks, and renders whichever phase the flow is in. Flow logic
// lives entirely behind the Host; the model never touches timers or
// screen state directly.
type Model struct {
	host *Host

	onboardView onboardingview.Model
	paywallView paywallview.Model
	sponsorView sponsorview.Model

	keys       keyMap
	help       help.Model
	showHelp   bool
	showEvents bool
	width      int
	height     int
}

func NewModel(host *Host) Model {
	return Model{
		host:        host,
		onboardView: onboardingview.New(),
		paywallView: paywallview.New(),
		sponsorView: sponsorview.New(),
		keys:        defaultKeys(),
		help:        help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	m.host.Launch()
	return nil
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width
		m.onboardView.SetSize(m.width, m.height-3)
		m.paywallView.SetSize(m.width, m.height-3)
		m.sponsorView.SetSize(m.width, m.height-3)

	case TimerFiredMsg:
		m.host.Clock.Fire(msg)

	case DispatchMsg:
		msg.Fn()

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.host.Flow.Teardown()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
		case key.Matches(msg, m.keys.Events):
			m.showEvents = !m.showEvents
		case key.Matches(msg, m.keys.Continue):
			if m.phase() == phaseOnboarding {
				m.tapContinue()
			}
		case key.Matches(msg, m.keys.Close):
			if m.phase() == phasePaywall {
				m.host.Paywall.Close()
			}
		}
	}
	return m, nil
}

// tapContinue lands the tap where the user sees the button. With the
// overlay attached the tap belongs to the hidden surface; without it the
// native button advances the onboarding directly.
func (m Model) tapContinue() {
	h := m.host
	if h.Onboarding.Overlay() != nil {
		if s := h.Surfaces.Current(); s != nil && !s.Discarded() {
			s.Tap()
			return
		}
	}
	if h.Onboarding.Step() >= sim.StepCount-1 {
		h.Onboarding.Finish()
		return
	}
	h.Onboarding.AdvanceStep()
}

func (m Model) phase() phase {
	switch {
	case m.host.Done:
		return phaseDone
	case m.host.Sponsor.Active():
		return phaseSponsor
	case m.host.Paywall.Presented():
		return phasePaywall
	default:
		return phaseOnboarding
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	status := m.renderStatusBar()

	var content string
	switch {
	case m.showHelp:
		content = m.help.View(m.keys)
	case m.phase() == phaseDone:
		content = theme.Pane.Render(theme.Good.Render("journey complete") + "\n" + theme.Muted.Render("press q to quit"))
	case m.phase() == phaseSponsor:
		content = m.sponsorView.View(m.sponsorState())
	case m.phase() == phasePaywall:
		content = m.paywallView.View(m.paywallState())
	default:
		content = m.onboardView.View(m.onboardingState())
	}
	if m.showEvents {
		content = lipgloss.JoinVertical(lipgloss.Left, content, m.renderEvents())
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, status)
}

func (m Model) onboardingState() onboardingview.State {
	h := m.host
	state := onboardingview.State{
		Step:         h.Onboarding.Step(),
		StepCount:    sim.StepCount,
		SessionReady: h.Session.Ready(),
	}
	surface := h.Surfaces.Current()
	if surface == nil || surface.Discarded() {
		return state
	}
	state.ScreenName = surface.Screen().String()
	state.OverlayCovered = surface.Covered()
	state.OverlayAttached = h.Onboarding.Overlay() != nil
	state.OverlayHidden = surface.Hidden()
	off := surface.Offset()
	state.OverlayOffset = fmt.Sprintf("(%+.0f,%+.0f)", off.DX, off.DY)
	return state
}

func (m Model) paywallState() paywallview.State {
	return paywallview.State{
		SponsorAttached: m.host.Paywall.Sponsor() != nil,
		SponsorVisible:  m.host.Paywall.SponsorVisible(),
	}
}

func (m Model) sponsorState() sponsorview.State {
	return sponsorview.State{
		Label: m.host.Sponsor.Label(),
		Done:  m.host.Sponsor.Done(),
	}
}

func (m Model) renderHeader() string {
	bar := theme.Title.Render("rsoc") + theme.Muted.Render("  sponsored onboarding demo")
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := "loading sponsored content"
	switch {
	case m.host.Done:
		left = "done"
	case m.host.PreloadDone && !m.host.PreloadOK:
		left = "sponsored content unavailable"
	case m.host.PreloadDone:
		left = "ready"
	}
	right := theme.Muted.Render("enter:continue  e:events  ?:help  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) renderEvents() string {
	events, err := m.host.Events.List(context.Background(), 6)
	if err != nil || len(events) == 0 {
		return theme.Muted.Render("no events yet")
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, fmt.Sprintf("%s  %s", e.At.Format("15:04:05.000"), e.Name))
	}
	return theme.Pane.Render(strings.Join(lines, "\n"))
}
