// Package bootstrap composes the flow: clock, providers, recorder,
// session manager, coordinator, simulated host, and the TUI.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	analyticsadapter "rsoc/internal/modules/analytics/adapter/out"
	analyticsservice "rsoc/internal/modules/analytics/service"
	flowout "rsoc/internal/modules/flow/port/out"
	flowservice "rsoc/internal/modules/flow/service"
	remotecfgadapter "rsoc/internal/modules/remotecfg/adapter/out"
	remotecfgdomain "rsoc/internal/modules/remotecfg/domain"
	sessionservice "rsoc/internal/modules/rsocsession/service"
	sponsorservice "rsoc/internal/modules/sponsor/service"
	"rsoc/internal/platform/config"
	"rsoc/internal/sim"
	uiapp "rsoc/internal/ui/app"
)

// App holds what the CLI commands need after composition.
type App struct {
	Config config.Config
	Events *analyticsadapter.SQLiteStore
}

// New opens the shared stores. TUI and headless runs compose the rest
// per invocation.
func New(cfg config.Config) (*App, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.EventsDB), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	events, err := analyticsadapter.NewSQLiteStore(cfg.EventsDB)
	if err != nil {
		return nil, fmt.Errorf("open events store: %w", err)
	}
	return &App{Config: cfg, Events: events}, nil
}

func (a *App) Close() {
	if a.Events != nil {
		_ = a.Events.Close()
	}
}

// RunTUI wires the interactive demo: the flow runs on a program-backed
// clock so every library callback lands on the Bubble Tea loop.
func RunTUI(app *App) error {
	clk := uiapp.NewProgramClock()

	provider := remotecfgAdapterFor(app.Config)
	memory := analyticsadapter.NewMemoryStore()
	recorder := analyticsservice.NewRecorder(clk, memory, app.Events)

	surfaces := &sim.Factory{Clock: clk}
	session := sessionservice.NewManager(clk, provider, recorder, surfaces)
	onboarding := sim.NewOnboarding()
	paywall := sim.NewPaywall()
	binding := &uiapp.SponsorBinding{}

	host := &uiapp.Host{
		Clock:      clk,
		Session:    session,
		Surfaces:   surfaces,
		Onboarding: onboarding,
		Paywall:    paywall,
		Events:     memory,
		Sponsor:    binding,
	}
	host.Flow = flowservice.NewCoordinator(
		clk, session, provider, recorder,
		onboarding, paywall,
		sponsorFactory{clk: clk, binding: binding},
		func() { host.Done = true },
	)

	program := tea.NewProgram(uiapp.NewModel(host), tea.WithAltScreen())
	clk.Attach(program.Send)
	_, err := program.Run()
	return err
}

// remotecfgAdapterFor serves the YAML fixture when it exists and a
// sensible enabled default otherwise, so the demo works out of the box.
func remotecfgAdapterFor(cfg config.Config) flowout.ConfigProvider {
	if _, err := os.Stat(cfg.ConfigPath); err == nil {
		return remotecfgadapter.NewYAMLProvider(cfg.ConfigPath)
	}
	return remotecfgadapter.NewStaticProvider(&remotecfgdomain.RemoteConfig{
		Enabled:            true,
		SponsorPageVisible: true,
		Link:               "https://offers.example.com/entry",
	})
}

type sponsorFactory struct {
	clk     *uiapp.ProgramClock
	binding *uiapp.SponsorBinding
}

func (f sponsorFactory) New() flowout.SponsorView {
	return sponsorservice.NewPresenter(f.clk,
		sponsorservice.WithTickObserver(f.binding.Observe),
	)
}
