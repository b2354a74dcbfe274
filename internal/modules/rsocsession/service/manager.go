package service

import (
	"time"

	analyticsdomain "rsoc/internal/modules/analytics/domain"
	"rsoc/internal/modules/rsocsession/domain"
	sessionin "rsoc/internal/modules/rsocsession/port/in"
	sessionout "rsoc/internal/modules/rsocsession/port/out"
	"rsoc/internal/platform/clock"
	"rsoc/internal/platform/geometry"
)

var _ sessionin.Session = (*Manager)(nil)

const (
	// DefaultLoadTimeout bounds the initial content load.
	DefaultLoadTimeout = 10 * time.Second

	// dimmedAlpha signals "armed but covered" on the native surface.
	dimmedAlpha = 0.02
)

// Manager owns the embedded-content session: surface lifecycle, the
// screen sequence, geometry queries, and invisibility styling.
//
// All methods and callbacks must run on one execution context. Surface
// implementations are required to deliver their events there; timers go
// through the injected clock for the same reason.
type Manager struct {
	clock     clock.Clock
	config    sessionout.ConfigProvider
	analytics sessionout.EventLogger
	surfaces  sessionout.SurfaceFactory

	loadTimeout time.Duration

	phase   domain.Phase
	screen  domain.Screen
	surface sessionout.Surface
	sponsor sessionout.Surface

	loadTimer   clock.Timer
	pendingRect func(*geometry.Rect)
	preloadDone func(bool)

	onNavigation func()
	onTap        func()
}

// Option tweaks manager construction.
type Option func(*Manager)

// WithLoadTimeout overrides the 10s load timeout.
func WithLoadTimeout(d time.Duration) Option {
	return func(m *Manager) { m.loadTimeout = d }
}

func NewManager(clk clock.Clock, config sessionout.ConfigProvider, analytics sessionout.EventLogger, surfaces sessionout.SurfaceFactory, opts ...Option) *Manager {
	m := &Manager{
		clock:       clk,
		config:      config,
		analytics:   analytics,
		surfaces:    surfaces,
		loadTimeout: DefaultLoadTimeout,
		phase:       domain.PhaseUnloaded,
		screen:      domain.Screen1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) CurrentScreen() domain.Screen { return m.screen }

func (m *Manager) Ready() bool { return m.phase == domain.PhaseReady }

func (m *Manager) Surface() sessionout.Surface { return m.surface }

func (m *Manager) SponsorSurface() sessionout.Surface { return m.sponsor }

func (m *Manager) SetNavigationHandler(fn func()) { m.onNavigation = fn }

func (m *Manager) SetTapHandler(fn func()) { m.onTap = fn }

// Preload starts a fresh session against the configured link. When the
// feature is disabled or misconfigured it reports success without doing
// anything, so the host flow is never blocked on sponsored content.
func (m *Manager) Preload(done func(ok bool)) {
	if done == nil {
		done = func(bool) {}
	}
	cfg := m.config.Current()
	if !cfg.Usable() {
		done(true)
		return
	}

	// Re-entrant preload resets any prior session.
	m.Cleanup()

	m.phase = domain.PhaseLoading
	m.preloadDone = done

	surface := m.surfaces.New()
	m.surface = surface
	surface.AddStartScript(domain.InvisibilityScript())
	surface.OnMessage(m.handleBridgeMessage)
	surface.OnLoad(m.handleLoad)
	surface.OnNavigate(func(string) { m.notifyNavigation() })
	surface.OnPopup(m.handlePopup)
	surface.OnTap(func() {
		if m.onTap != nil {
			m.onTap()
		}
	})

	m.loadTimer = m.clock.AfterFunc(m.loadTimeout, m.handleLoadTimeout)
	surface.Load(cfg.Link)
}

// ElementRect queries the page for the target element's rect. A new
// query supersedes any unresolved one: there is a single in-flight
// callback slot, and the superseded callback is dropped.
func (m *Manager) ElementRect(screen domain.Screen, done func(rect *geometry.Rect)) {
	if done == nil {
		return
	}
	if screen == domain.Sponsor || m.surface == nil || m.phase != domain.PhaseReady {
		done(nil)
		return
	}
	m.pendingRect = done
	m.surface.Evaluate(domain.ElementRectScript(), func(_ string, err error) {
		if err != nil {
			m.resolveRect(nil)
		}
	})
}

// AdvanceToNextScreen moves the sequence one step forward and fires the
// view event keyed to the new screen. Screen1's view event is not fired
// here; it is anchored to load success. Advancing from sponsor is a
// no-op.
func (m *Manager) AdvanceToNextScreen() {
	next := m.screen.Next()
	if next == m.screen {
		return
	}
	m.screen = next
	switch next {
	case domain.Screen2:
		m.analytics.Log(analyticsdomain.Screen2View)
	case domain.Sponsor:
		m.analytics.Log(analyticsdomain.SponsorLoadView)
	}
}

// InjectInvisibility (re)installs the hiding style in the live document
// and dims the native surface. Safe to call repeatedly; the style
// element is keyed by id.
func (m *Manager) InjectInvisibility() {
	if m.surface == nil {
		return
	}
	m.surface.Evaluate(domain.InvisibilityScript(), nil)
	m.surface.SetAlpha(dimmedAlpha)
}

// Cleanup cancels timers, detaches handlers, discards both surfaces,
// and resets to the initial state. Safe to call any number of times.
func (m *Manager) Cleanup() {
	if m.loadTimer != nil {
		m.loadTimer.Stop()
		m.loadTimer = nil
	}
	m.pendingRect = nil
	m.preloadDone = nil
	if m.surface != nil {
		m.detach(m.surface)
		m.surface.Discard()
		m.surface = nil
	}
	if m.sponsor != nil {
		m.sponsor.Discard()
		m.sponsor = nil
	}
	m.phase = domain.PhaseUnloaded
	m.screen = domain.Screen1
}

func (m *Manager) detach(surface sessionout.Surface) {
	surface.OnMessage(nil)
	surface.OnLoad(nil)
	surface.OnNavigate(nil)
	surface.OnPopup(nil)
	surface.OnTap(nil)
}

func (m *Manager) handleLoad(err error) {
	if m.phase != domain.PhaseLoading {
		return
	}
	if m.loadTimer != nil {
		m.loadTimer.Stop()
		m.loadTimer = nil
	}
	done := m.preloadDone
	m.preloadDone = nil
	if err != nil {
		// Terminal for this session; the coordinator simply never
		// activates the overlay.
		m.Cleanup()
		if done != nil {
			done(false)
		}
		return
	}
	m.phase = domain.PhaseReady
	m.screen = domain.Screen1
	m.InjectInvisibility()
	m.analytics.Log(analyticsdomain.Screen1View)
	if done != nil {
		done(true)
	}
}

func (m *Manager) handleLoadTimeout() {
	if m.phase != domain.PhaseLoading {
		return
	}
	m.loadTimer = nil
	done := m.preloadDone
	m.preloadDone = nil
	m.Cleanup()
	if done != nil {
		done(false)
	}
}

func (m *Manager) handleBridgeMessage(payload []byte) {
	rect, ok := domain.ParseElementRect(payload)
	if !ok {
		return
	}
	m.resolveRect(rect)
}

func (m *Manager) handlePopup(popup sessionout.Surface, _ string) {
	if m.sponsor != nil {
		m.sponsor.Discard()
	}
	m.sponsor = popup
	m.notifyNavigation()
}

func (m *Manager) notifyNavigation() {
	if m.onNavigation != nil {
		m.onNavigation()
	}
}

func (m *Manager) resolveRect(rect *geometry.Rect) {
	done := m.pendingRect
	if done == nil {
		return
	}
	m.pendingRect = nil
	done(rect)
}
