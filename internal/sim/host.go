package sim

import (
	flowout "rsoc/internal/modules/flow/port/out"
	sessionout "rsoc/internal/modules/rsocsession/port/out"
	"rsoc/internal/platform/geometry"
)

// StepCount is the length of the simulated onboarding sequence.
const StepCount = 3

var _ flowout.Onboarding = (*Onboarding)(nil)

// Onboarding is the scripted host onboarding screen: a fixed continue
// button, a step counter, and a slot for the overlay surface.
type Onboarding struct {
	continueRect geometry.Rect
	laidOut      bool

	step    int
	overlay *Surface

	layoutReady func()
	finished    func()
}

func NewOnboarding() *Onboarding {
	return &Onboarding{
		continueRect: geometry.Rect{X: 60, Y: 560, Width: 200, Height: 56},
	}
}

func (o *Onboarding) ContinueRect() (geometry.Rect, bool) {
	return o.continueRect, o.laidOut
}

func (o *Onboarding) AdvanceStep() {
	if o.step < StepCount-1 {
		o.step++
	}
}

func (o *Onboarding) AttachOverlay(surface sessionout.Surface) {
	if s, ok := surface.(*Surface); ok {
		o.overlay = s
	}
}

func (o *Onboarding) RemoveOverlay() { o.overlay = nil }

func (o *Onboarding) OnLayoutReady(fn func()) { o.layoutReady = fn }

func (o *Onboarding) OnFinished(fn func()) { o.finished = fn }

func (o *Onboarding) Detach() {
	o.layoutReady = nil
	o.finished = nil
}

// LayoutReady marks the first layout pass and notifies the coordinator.
func (o *Onboarding) LayoutReady() {
	o.laidOut = true
	if o.layoutReady != nil {
		o.layoutReady()
	}
}

// Finish is the user completing the last onboarding step.
func (o *Onboarding) Finish() {
	if o.finished != nil {
		o.finished()
	}
}

// Step is the current zero-based onboarding step.
func (o *Onboarding) Step() int { return o.step }

// Overlay is the attached overlay surface, nil when removed.
func (o *Onboarding) Overlay() *Surface { return o.overlay }

var _ flowout.Paywall = (*Paywall)(nil)

// Paywall records its presentation and lets the host dismiss it.
type Paywall struct {
	presented      bool
	sponsor        sessionout.Surface
	sponsorVisible bool
	onClose        func()
}

func NewPaywall() *Paywall { return &Paywall{} }

func (p *Paywall) Present(sponsor sessionout.Surface, sponsorVisible bool, onClose func()) {
	p.presented = true
	p.sponsor = sponsor
	p.sponsorVisible = sponsorVisible
	p.onClose = onClose
}

// Close dismisses the paywall. Safe before presentation; the close
// callback fires at most once.
func (p *Paywall) Close() {
	done := p.onClose
	p.onClose = nil
	if done != nil {
		done()
	}
}

// Presented reports whether the paywall has been shown.
func (p *Paywall) Presented() bool { return p.presented }

// Sponsor is the surface handed over for the sponsor page, if any.
func (p *Paywall) Sponsor() sessionout.Surface { return p.sponsor }

// SponsorVisible is the remote-config flag forwarded at presentation.
func (p *Paywall) SponsorVisible() bool { return p.sponsorVisible }
