package service

import (
	"time"

	flowout "rsoc/internal/modules/flow/port/out"
	sessiondomain "rsoc/internal/modules/rsocsession/domain"
	sessionout "rsoc/internal/modules/rsocsession/port/out"
	"rsoc/internal/modules/sponsor/domain"
	"rsoc/internal/platform/clock"
)

var _ flowout.SponsorView = (*Presenter)(nil)

// Presenter runs the visible sponsor page: it uncovers the embedded
// content that spent the whole onboarding hidden and ticks the dwell
// countdown. Single execution context, like the rest of the flow.
type Presenter struct {
	clock    clock.Clock
	duration time.Duration
	format   string

	countdown domain.Countdown
	surface   sessionout.Surface
	timer     clock.Timer
	onDone    func()
	onTick    func(label string, done bool)
	completed bool
}

type Option func(*Presenter)

// WithDuration overrides the 30s dwell.
func WithDuration(d time.Duration) Option {
	return func(p *Presenter) { p.duration = d }
}

// WithLabelFormat overrides the mm:ss template. The format receives
// minutes then seconds.
func WithLabelFormat(format string) Option {
	return func(p *Presenter) { p.format = format }
}

// WithTickObserver registers a hook fired on every tick with the fresh
// mm:ss label. The host UI renders from it.
func WithTickObserver(fn func(label string, done bool)) Option {
	return func(p *Presenter) { p.onTick = fn }
}

func NewPresenter(clk clock.Clock, opts ...Option) *Presenter {
	p := &Presenter{
		clock:    clk,
		duration: domain.DefaultDuration,
		format:   domain.DefaultLabelFormat,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.countdown = domain.New(p.duration)
	return p
}

// Embed takes over the secondary surface and makes its content genuinely
// visible: the hiding style is stripped and the native dimming undone.
func (p *Presenter) Embed(surface sessionout.Surface) {
	p.surface = surface
	if surface == nil {
		return
	}
	surface.Evaluate(sessiondomain.RemoveInvisibilityScript(), nil)
	surface.SetAlpha(1)
	surface.SetHidden(false)
}

// Start begins (or restarts) the dwell. onDone fires exactly once per
// presenter, on expiry.
func (p *Presenter) Start(onDone func()) {
	if onDone == nil {
		onDone = func() {}
	}
	p.onDone = onDone
	p.countdown = domain.New(p.duration)
	p.notifyTick()
	p.armTick()
}

// Label is the current remaining time rendered through the configured
// template.
func (p *Presenter) Label() string { return p.countdown.Format(p.format) }

// Discard stops the countdown without completing. The surface itself is
// discarded by session cleanup, not here.
func (p *Presenter) Discard() {
	p.stopTick()
	p.surface = nil
	p.onDone = nil
}

func (p *Presenter) armTick() {
	p.stopTick()
	p.timer = p.clock.AfterFunc(time.Second, p.tick)
}

func (p *Presenter) tick() {
	p.timer = nil
	p.countdown = p.countdown.Tick()
	p.notifyTick()
	if p.countdown.Done() {
		p.complete()
		return
	}
	p.armTick()
}

func (p *Presenter) complete() {
	if p.completed {
		return
	}
	p.completed = true
	done := p.onDone
	p.onDone = nil
	if done != nil {
		done()
	}
}

func (p *Presenter) notifyTick() {
	if p.onTick != nil {
		p.onTick(p.countdown.Format(p.format), p.countdown.Done())
	}
}

func (p *Presenter) stopTick() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
