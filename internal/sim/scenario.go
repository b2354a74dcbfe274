package sim

import (
	"fmt"
	"time"

	analyticsout "rsoc/internal/modules/analytics/adapter/out"
	analyticsservice "rsoc/internal/modules/analytics/service"
	flowout "rsoc/internal/modules/flow/port/out"
	flowservice "rsoc/internal/modules/flow/service"
	remotecfgadapter "rsoc/internal/modules/remotecfg/adapter/out"
	remotecfgdomain "rsoc/internal/modules/remotecfg/domain"
	sessionservice "rsoc/internal/modules/rsocsession/service"
	sponsorservice "rsoc/internal/modules/sponsor/service"
	"rsoc/internal/platform/clock"
)

// Scenario scripts one full headless journey on a manual clock.
type Scenario struct {
	Config   *remotecfgdomain.RemoteConfig
	Pages    PageOptions
	Dwell    time.Duration
	UserTaps int
}

// Result is the observable outcome of a scenario run.
type Result struct {
	Transcript []string
	Events     []string
	Completed  bool
	PreloadOK  bool
}

// DefaultScenario is the happy path: enabled config, instant load,
// visible sponsor page with a short dwell.
func DefaultScenario() Scenario {
	return Scenario{
		Config: &remotecfgdomain.RemoteConfig{
			Enabled:            true,
			SponsorPageVisible: true,
			Link:               "https://offers.example.com/entry",
		},
		Dwell:    5 * time.Second,
		UserTaps: 2,
	}
}

// Run executes the scenario and returns its transcript. Everything runs
// on the calling goroutine; time is stepped, never slept.
func Run(s Scenario) *Result {
	if s.UserTaps <= 0 {
		s.UserTaps = 2
	}
	r := &runner{
		result: &Result{},
		clk:    clock.NewManual(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)),
	}
	r.start = r.clk.Now()

	store := analyticsout.NewMemoryStore()
	recorder := analyticsservice.NewRecorder(r.clk, store)
	provider := remotecfgadapter.NewStaticProvider(s.Config)
	factory := &Factory{Clock: r.clk, Options: s.Pages}
	session := sessionservice.NewManager(r.clk, provider, recorder, factory)
	onboarding := NewOnboarding()
	paywall := NewPaywall()
	coordinator := flowservice.NewCoordinator(
		r.clk, session, provider, recorder,
		onboarding, paywall, sponsorFactory{runner: r, dwell: s.Dwell},
		func() {
			r.result.Completed = true
			r.logf("flow complete")
		},
	)

	preloadReported := false
	session.Preload(func(ok bool) {
		preloadReported = true
		r.result.PreloadOK = ok
		r.logf("preload finished ok=%v", ok)
	})
	r.logf("preload started")
	r.clk.Advance(s.Pages.LoadDelay + 50*time.Millisecond)
	if !preloadReported {
		// Page never came up; let the load timeout resolve the preload.
		r.clk.Advance(sessionservice.DefaultLoadTimeout)
	}

	coordinator.Start()
	onboarding.LayoutReady()
	r.clk.Advance(200 * time.Millisecond)
	if surface := factory.Current(); surface != nil && !surface.Hidden() {
		r.logf("overlay revealed at offset (%.0f, %.0f)", surface.Offset().DX, surface.Offset().DY)
	} else {
		r.logf("overlay not shown")
	}

	for i := 0; i < s.UserTaps; i++ {
		if surface := factory.Current(); surface != nil && !surface.Discarded() {
			r.logf("user taps continue (step %d)", onboarding.Step()+1)
			surface.Tap()
			// Fallback window, screen2 re-cover, and navigation debounce
			// all settle inside two seconds.
			r.clk.Advance(2 * time.Second)
			r.logf("screen is %s, onboarding step %d", session.CurrentScreen(), onboarding.Step()+1)
		}
	}

	r.logf("onboarding finished, presenting paywall")
	onboarding.Finish()
	if paywall.Presented() {
		r.logf("paywall shown (sponsor surface attached: %v)", paywall.Sponsor() != nil)
	}
	paywall.Close()
	r.logf("paywall dismissed")
	if !r.result.Completed {
		dwell := s.Dwell
		if dwell <= 0 {
			dwell = 30 * time.Second
		}
		r.clk.Advance(dwell + time.Second)
	}

	r.result.Events = store.Names()
	return r.result
}

type runner struct {
	result *Result
	clk    *clock.Manual
	start  time.Time
}

func (r *runner) logf(format string, args ...any) {
	elapsed := r.clk.Now().Sub(r.start).Seconds()
	line := fmt.Sprintf("[%6.1fs] %s", elapsed, fmt.Sprintf(format, args...))
	r.result.Transcript = append(r.result.Transcript, line)
}

// sponsorFactory builds countdown presenters whose ticks land in the
// transcript.
type sponsorFactory struct {
	runner *runner
	dwell  time.Duration
}

func (f sponsorFactory) New() flowout.SponsorView {
	return sponsorservice.NewPresenter(f.runner.clk,
		sponsorservice.WithDuration(f.dwell),
		sponsorservice.WithTickObserver(func(label string, done bool) {
			if done {
				f.runner.logf("sponsor countdown %s, closing", label)
				return
			}
			f.runner.logf("sponsor countdown %s", label)
		}),
	)
}
