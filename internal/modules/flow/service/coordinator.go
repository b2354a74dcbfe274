package service

import (
	analyticsdomain "rsoc/internal/modules/analytics/domain"
	"rsoc/internal/modules/flow/domain"
	flowin "rsoc/internal/modules/flow/port/in"
	flowout "rsoc/internal/modules/flow/port/out"
	sessiondomain "rsoc/internal/modules/rsocsession/domain"
	sessionin "rsoc/internal/modules/rsocsession/port/in"
	"rsoc/internal/platform/clock"
	"rsoc/internal/platform/geometry"
)

var _ flowin.Flow = (*Coordinator)(nil)

// Coordinator sequences onboarding, the hidden-overlay interaction, the
// paywall, and the optional sponsor countdown. It owns overlay
// visibility and positioning exclusively, and it owns every pending
// timer: each slot is cancelled before it is reassigned, so exactly one
// of {real navigation, fallback timer} effects any given advance.
//
// Like the session manager, the coordinator is single-context: all
// entry points and collaborator callbacks must run on one execution
// context.
type Coordinator struct {
	clock        clock.Clock
	session      sessionin.Session
	config       flowout.ConfigProvider
	analytics    flowout.EventLogger
	onboarding   flowout.Onboarding
	paywall      flowout.Paywall
	sponsorViews flowout.SponsorViewFactory
	onDone       func()

	active              bool
	handlingNavigation  bool
	disableAfterPaywall bool
	finished            bool

	fallbackTimer clock.Timer
	settleTimer   clock.Timer
	alignTimer    clock.Timer
	debounceTimer clock.Timer

	sponsorView flowout.SponsorView
}

func NewCoordinator(
	clk clock.Clock,
	session sessionin.Session,
	config flowout.ConfigProvider,
	analytics flowout.EventLogger,
	onboarding flowout.Onboarding,
	paywall flowout.Paywall,
	sponsorViews flowout.SponsorViewFactory,
	onDone func(),
) *Coordinator {
	if onDone == nil {
		onDone = func() {}
	}
	return &Coordinator{
		clock:        clk,
		session:      session,
		config:       config,
		analytics:    analytics,
		onboarding:   onboarding,
		paywall:      paywall,
		sponsorViews: sponsorViews,
		onDone:       onDone,
	}
}

// Start wires the collaborators. The onboarding is already on screen;
// overlay setup waits for its first layout pass so geometry is
// measurable.
func (c *Coordinator) Start() {
	c.session.SetNavigationHandler(c.navigationDetected)
	c.session.SetTapHandler(c.tapped)
	c.onboarding.OnLayoutReady(c.layoutReady)
	c.onboarding.OnFinished(c.onboardingFinished)
}

// Teardown aborts without completing: every timer is cancelled, a
// running sponsor countdown included, and the completion callback will
// never fire. Idempotent.
func (c *Coordinator) Teardown() {
	c.stopAllTimers()
	if c.sponsorView != nil {
		c.sponsorView.Discard()
		c.sponsorView = nil
	}
	c.finished = true
	c.active = false
	c.handlingNavigation = false
	c.session.Cleanup()
}

func (c *Coordinator) layoutReady() {
	// Skipped silently unless the feature is on and the session came up.
	if !c.config.Current().Usable() {
		return
	}
	if !c.session.Ready() || c.session.Surface() == nil {
		return
	}
	c.active = true
	c.onboarding.AttachOverlay(c.session.Surface())
	c.scheduleAlign()
}

func (c *Coordinator) scheduleAlign() {
	stopTimer(&c.alignTimer)
	c.alignTimer = c.clock.AfterFunc(domain.AlignSettleDelay, func() {
		c.alignTimer = nil
		c.align()
	})
}

// align translates the hidden target under the continue affordance. If
// the element cannot be located the overlay is removed for the rest of
// the flow; a misaligned invisible hit-target is worse than none.
func (c *Coordinator) align() {
	if !c.active {
		return
	}
	screen := c.session.CurrentScreen()
	if screen == sessiondomain.Sponsor {
		return
	}
	affordance, ok := c.onboarding.ContinueRect()
	if !ok {
		return
	}
	c.session.ElementRect(screen, func(rect *geometry.Rect) {
		if !c.active {
			return
		}
		if rect == nil {
			c.disableOverlay()
			return
		}
		off, ok := domain.AlignmentOffset(screen, affordance, *rect)
		if !ok {
			return
		}
		surface := c.session.Surface()
		if surface == nil {
			return
		}
		surface.SetOffset(off)
		surface.SetHidden(false)
	})
}

func (c *Coordinator) disableOverlay() {
	c.active = false
	c.stopAllTimers()
	c.onboarding.RemoveOverlay()
}

// tapped arms the fallback: if the embedded content never reports the
// link activation, the flow still advances one second later.
func (c *Coordinator) tapped() {
	if !c.active {
		return
	}
	stopTimer(&c.fallbackTimer)
	c.fallbackTimer = c.clock.AfterFunc(domain.TapFallbackDelay, func() {
		c.fallbackTimer = nil
		c.advance(true)
	})
}

// navigationDetected wins the race against the fallback timer whenever
// it arrives inside the window.
func (c *Coordinator) navigationDetected() {
	if !c.active || c.handlingNavigation {
		return
	}
	stopTimer(&c.fallbackTimer)
	c.handlingNavigation = true
	stopTimer(&c.debounceTimer)
	c.debounceTimer = c.clock.AfterFunc(domain.NavigationDebounce, func() {
		c.debounceTimer = nil
		c.handlingNavigation = false
	})
	c.advance(false)
}

func (c *Coordinator) advance(manual bool) {
	if !c.active {
		return
	}
	from := c.session.CurrentScreen()
	if from == sessiondomain.Sponsor {
		return
	}
	if manual && from == sessiondomain.Screen2 {
		// The handoff could not be verified as genuine; keep the
		// onboarding glitch-free now and tear RSOC down at the paywall.
		c.disableAfterPaywall = true
	}
	c.session.AdvanceToNextScreen()

	switch c.session.CurrentScreen() {
	case sessiondomain.Screen2:
		if surface := c.session.Surface(); surface != nil {
			surface.SetHidden(true)
		}
		c.onboarding.AdvanceStep()
		stopTimer(&c.settleTimer)
		c.settleTimer = c.clock.AfterFunc(domain.RecoverDelay, func() {
			c.settleTimer = nil
			if !c.active {
				return
			}
			// Screen2 has re-rendered; cover it again.
			c.session.InjectInvisibility()
			c.align()
		})
	case sessiondomain.Sponsor:
		c.onboarding.AdvanceStep()
		if surface := c.session.Surface(); surface != nil {
			surface.SetHidden(true)
		}
		// The sponsor screen has no overlay role during onboarding; its
		// content reappears after the paywall.
		c.onboarding.RemoveOverlay()
	}
}

func (c *Coordinator) onboardingFinished() {
	c.stopAllTimers()
	c.onboarding.Detach()

	if c.disableAfterPaywall {
		c.active = false
		c.session.Cleanup()
	}

	sponsor := c.session.SponsorSurface()
	if !c.active {
		sponsor = nil
	}
	c.paywall.Present(sponsor, c.sponsorVisible(), c.paywallClosed)
}

func (c *Coordinator) paywallClosed() {
	c.analytics.Log(analyticsdomain.PaymentPopupClose)

	sponsor := c.session.SponsorSurface()
	if c.active && c.sponsorVisible() && sponsor != nil {
		c.analytics.Log(analyticsdomain.SponsorPageVisible)
		view := c.sponsorViews.New()
		c.sponsorView = view
		view.Embed(sponsor)
		view.Start(c.finish)
		return
	}
	c.finish()
}

// finish runs exactly once: session cleanup (which discards both
// surfaces), then the host completion callback. The host journey ends
// here no matter how the sponsored content fared.
func (c *Coordinator) finish() {
	if c.finished {
		return
	}
	c.finished = true
	c.stopAllTimers()
	c.active = false
	c.session.Cleanup()
	c.onDone()
}

func (c *Coordinator) sponsorVisible() bool {
	cfg := c.config.Current()
	return cfg != nil && cfg.SponsorPageVisible
}

func (c *Coordinator) stopAllTimers() {
	stopTimer(&c.fallbackTimer)
	stopTimer(&c.settleTimer)
	stopTimer(&c.alignTimer)
	stopTimer(&c.debounceTimer)
}

func stopTimer(slot *clock.Timer) {
	if *slot != nil {
		(*slot).Stop()
		*slot = nil
	}
}
