package service_test

import (
	"strings"
	"testing"
	"time"

	remotecfgdomain "rsoc/internal/modules/remotecfg/domain"
	"rsoc/internal/modules/rsocsession/domain"
	sessionout "rsoc/internal/modules/rsocsession/port/out"
	"rsoc/internal/modules/rsocsession/service"
	"rsoc/internal/platform/clock"
	apperrors "rsoc/internal/platform/errors"
	"rsoc/internal/platform/geometry"
)

type fakeConfig struct {
	cfg *remotecfgdomain.RemoteConfig
}

func (f *fakeConfig) Current() *remotecfgdomain.RemoteConfig { return f.cfg }

func enabledConfig() *fakeConfig {
	return &fakeConfig{cfg: &remotecfgdomain.RemoteConfig{
		Enabled:            true,
		SponsorPageVisible: true,
		Link:               "https://offers.example.com/entry",
	}}
}

type fakeAnalytics struct {
	events []string
}

func (f *fakeAnalytics) Log(name string) { f.events = append(f.events, name) }

type fakeSurface struct {
	loadedURL    string
	startScripts []string
	evaluated    []string
	discarded    bool
	hidden       bool
	alpha        float64
	offset       geometry.Offset

	onLoad     func(error)
	onNavigate func(string)
	onMessage  func([]byte)
	onPopup    func(sessionout.Surface, string)
	onTap      func()
}

func (f *fakeSurface) Load(url string) { f.loadedURL = url }
func (f *fakeSurface) Evaluate(script string, done func(string, error)) {
	f.evaluated = append(f.evaluated, script)
	if done != nil {
		done("", nil)
	}
}
func (f *fakeSurface) AddStartScript(script string) { f.startScripts = append(f.startScripts, script) }
func (f *fakeSurface) SetHidden(hidden bool) { f.hidden = hidden }
func (f *fakeSurface) SetAlpha(alpha float64) { f.alpha = alpha }
func (f *fakeSurface) SetOffset(off geometry.Offset) { f.offset = off }
func (f *fakeSurface) OnLoad(fn func(error)) { f.onLoad = fn }
func (f *fakeSurface) OnNavigate(fn func(string)) { f.onNavigate = fn }
func (f *fakeSurface) OnMessage(fn func([]byte)) { f.onMessage = fn }
func (f *fakeSurface) OnPopup(fn func(sessionout.Surface, string)) {
	f.onPopup = fn
}
func (f *fakeSurface) OnTap(fn func()) { f.onTap = fn }
func (f *fakeSurface) Discard()        { f.discarded = true }

type fakeFactory struct {
	surfaces []*fakeSurface
}

func (f *fakeFactory) New() sessionout.Surface {
	s := &fakeSurface{}
	f.surfaces = append(f.surfaces, s)
	return s
}

func newManager(t *testing.T, cfg *fakeConfig) (*service.Manager, *clock.Manual, *fakeFactory, *fakeAnalytics) {
	t.Helper()
	clk := clock.NewManual(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	factory := &fakeFactory{}
	analytics := &fakeAnalytics{}
	mgr := service.NewManager(clk, cfg, analytics, factory)
	return mgr, clk, factory, analytics
}

func preloaded(t *testing.T) (*service.Manager, *clock.Manual, *fakeSurface, *fakeAnalytics) {
	t.Helper()
	mgr, clk, factory, analytics := newManager(t, enabledConfig())
	var ok *bool
	mgr.Preload(func(v bool) { ok = &v })
	surface := factory.surfaces[0]
	surface.onLoad(nil)
	if ok == nil || !*ok {
		t.Fatalf("preload must succeed after load")
	}
	return mgr, clk, surface, analytics
}

func TestPreloadDisabledReportsSuccessWithoutSurface(t *testing.T) {
	t.Parallel()
	mgr, _, factory, _ := newManager(t, &fakeConfig{cfg: nil})

	var ok *bool
	mgr.Preload(func(v bool) { ok = &v })
	if ok == nil || !*ok {
		t.Fatalf("disabled feature must report preload success")
	}
	if len(factory.surfaces) != 0 {
		t.Fatalf("no surface may be created when disabled")
	}
	if mgr.Ready() {
		t.Fatalf("session must not be ready")
	}
}

func TestPreloadMissingLinkIsTreatedAsDisabled(t *testing.T) {
	t.Parallel()
	mgr, _, factory, _ := newManager(t, &fakeConfig{cfg: &remotecfgdomain.RemoteConfig{Enabled: true}})

	var ok *bool
	mgr.Preload(func(v bool) { ok = &v })
	if ok == nil || !*ok {
		t.Fatalf("misconfigured feature must report preload success")
	}
	if len(factory.surfaces) != 0 {
		t.Fatalf("no surface may be created without a link")
	}
}

func TestPreloadSuccessEmitsScreen1ViewOnLoad(t *testing.T) {
	t.Parallel()
	mgr, _, factory, analytics := newManager(t, enabledConfig())

	var ok *bool
	mgr.Preload(func(v bool) { ok = &v })
	if ok != nil {
		t.Fatalf("preload must not complete before load finishes")
	}
	surface := factory.surfaces[0]
	if surface.loadedURL != "https://offers.example.com/entry" {
		t.Fatalf("loaded %q", surface.loadedURL)
	}
	if len(surface.startScripts) != 1 || !strings.Contains(surface.startScripts[0], domain.InvisibilityStyleID) {
		t.Fatalf("invisibility script must be injected at document start")
	}
	if len(analytics.events) != 0 {
		t.Fatalf("no events before load success, got %v", analytics.events)
	}

	surface.onLoad(nil)
	if ok == nil || !*ok {
		t.Fatalf("preload must succeed")
	}
	if !mgr.Ready() || mgr.CurrentScreen() != domain.Screen1 {
		t.Fatalf("session must be ready on screen1")
	}
	if len(analytics.events) != 1 || analytics.events[0] != "screen1-view" {
		t.Fatalf("screen1 view event anchored to load success, got %v", analytics.events)
	}
	if surface.alpha != 0.02 {
		t.Fatalf("native surface must be dimmed, alpha = %v", surface.alpha)
	}
}

func TestPreloadTimeoutFailsAndCleansUp(t *testing.T) {
	t.Parallel()
	mgr, clk, factory, _ := newManager(t, enabledConfig())

	var ok *bool
	mgr.Preload(func(v bool) { ok = &v })
	clk.Advance(10 * time.Second)

	if ok == nil || *ok {
		t.Fatalf("timeout must report failure")
	}
	if !factory.surfaces[0].discarded {
		t.Fatalf("surface must be discarded on timeout")
	}
	if mgr.Ready() || mgr.Surface() != nil {
		t.Fatalf("session must be reset after timeout")
	}
	if clk.Pending() != 0 {
		t.Fatalf("no timers may remain, pending = %d", clk.Pending())
	}
}

func TestPreloadLoadFailureCancelsTimeoutTimer(t *testing.T) {
	t.Parallel()
	mgr, clk, factory, _ := newManager(t, enabledConfig())

	calls := 0
	failed := false
	mgr.Preload(func(v bool) {
		calls++
		failed = !v
	})
	factory.surfaces[0].onLoad(apperrors.ErrLoadFailed)
	if calls != 1 || !failed {
		t.Fatalf("load failure must report exactly one failure, calls=%d", calls)
	}
	// The timeout firing later must not double-report.
	clk.Advance(time.Minute)
	if calls != 1 {
		t.Fatalf("timeout after failure double-reported, calls=%d", calls)
	}
	if mgr.Ready() {
		t.Fatalf("session must not be ready after failure")
	}
}

func TestElementRectResolvesViaBridgeMessage(t *testing.T) {
	t.Parallel()
	mgr, _, surface, _ := preloaded(t)

	var got *geometry.Rect
	resolved := false
	mgr.ElementRect(domain.Screen1, func(rect *geometry.Rect) {
		resolved = true
		got = rect
	})
	want := geometry.Rect{X: 50, Y: 480, Width: 100, Height: 40}
	surface.onMessage(domain.ElementRectMessage(want))

	if !resolved || got == nil || *got != want {
		t.Fatalf("rect = %v resolved=%v, want %v", got, resolved, want)
	}
}

func TestElementRectErrorSentinelResolvesNil(t *testing.T) {
	t.Parallel()
	mgr, _, surface, _ := preloaded(t)

	got := &geometry.Rect{X: 1}
	mgr.ElementRect(domain.Screen2, func(rect *geometry.Rect) { got = rect })
	surface.onMessage(domain.ElementNotFoundMessage())
	if got != nil {
		t.Fatalf("error sentinel must resolve nil, got %v", got)
	}
}

func TestElementRectSponsorScreenResolvesNil(t *testing.T) {
	t.Parallel()
	mgr, _, _, _ := preloaded(t)

	resolved := false
	got := &geometry.Rect{X: 1}
	mgr.ElementRect(domain.Sponsor, func(rect *geometry.Rect) {
		resolved = true
		got = rect
	})
	if !resolved || got != nil {
		t.Fatalf("sponsor screen has no target element")
	}
}

func TestElementRectNewQuerySupersedesPending(t *testing.T) {
	t.Parallel()
	mgr, _, surface, _ := preloaded(t)

	firstResolved := false
	mgr.ElementRect(domain.Screen1, func(*geometry.Rect) { firstResolved = true })

	var got *geometry.Rect
	mgr.ElementRect(domain.Screen1, func(rect *geometry.Rect) { got = rect })

	surface.onMessage(domain.ElementRectMessage(geometry.Rect{X: 5, Y: 6, Width: 7, Height: 8}))
	if firstResolved {
		t.Fatalf("superseded query must be dropped")
	}
	if got == nil {
		t.Fatalf("latest query must resolve")
	}
	// A second message finds no pending slot and is ignored.
	surface.onMessage(domain.ElementRectMessage(geometry.Rect{X: 9, Y: 9, Width: 9, Height: 9}))
	if got.X != 5 {
		t.Fatalf("stale message must not re-resolve, got %v", got)
	}
}

func TestAdvanceEmitsViewEventsAndSticksAtSponsor(t *testing.T) {
	t.Parallel()
	mgr, _, _, analytics := preloaded(t)

	mgr.AdvanceToNextScreen()
	mgr.AdvanceToNextScreen()
	mgr.AdvanceToNextScreen() // no-op
	mgr.AdvanceToNextScreen() // no-op

	if mgr.CurrentScreen() != domain.Sponsor {
		t.Fatalf("screen = %v", mgr.CurrentScreen())
	}
	want := []string{"screen1-view", "screen2-view", "sponsor-load-view"}
	if len(analytics.events) != len(want) {
		t.Fatalf("events = %v, want %v", analytics.events, want)
	}
	for i := range want {
		if analytics.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", analytics.events, want)
		}
	}
}

func TestPopupCapturesSponsorSurfaceAndNotifies(t *testing.T) {
	t.Parallel()
	mgr, _, surface, _ := preloaded(t)

	navigations := 0
	mgr.SetNavigationHandler(func() { navigations++ })

	popup := &fakeSurface{}
	surface.onPopup(popup, "https://offers.example.com/sponsor")
	if mgr.SponsorSurface() != popup {
		t.Fatalf("popup must become the sponsor surface")
	}
	if navigations != 1 {
		t.Fatalf("popup request must count as navigation, got %d", navigations)
	}

	// A second popup replaces the first, discarding it.
	popup2 := &fakeSurface{}
	surface.onPopup(popup2, "https://offers.example.com/sponsor2")
	if !popup.discarded || mgr.SponsorSurface() != popup2 {
		t.Fatalf("replaced sponsor surface must be discarded")
	}
}

func TestCleanupIsIdempotentAndResetsState(t *testing.T) {
	t.Parallel()
	mgr, clk, surface, _ := preloaded(t)
	mgr.AdvanceToNextScreen()

	mgr.Cleanup()
	mgr.Cleanup()

	if surface.onMessage != nil || surface.onLoad != nil || surface.onTap != nil {
		t.Fatalf("handlers must be detached on cleanup")
	}
	if !surface.discarded {
		t.Fatalf("surface must be discarded")
	}
	if mgr.Ready() || mgr.CurrentScreen() != domain.Screen1 || mgr.Surface() != nil || mgr.SponsorSurface() != nil {
		t.Fatalf("cleanup must restore the initial state")
	}
	if clk.Pending() != 0 {
		t.Fatalf("cleanup must leave no live timers")
	}
}

func TestReentrantPreloadResetsPriorSession(t *testing.T) {
	t.Parallel()
	mgr, _, factory, _ := newManager(t, enabledConfig())

	mgr.Preload(func(bool) {})
	first := factory.surfaces[0]
	first.onLoad(nil)
	mgr.AdvanceToNextScreen()

	mgr.Preload(func(bool) {})
	if !first.discarded {
		t.Fatalf("previous surface must be discarded on re-preload")
	}
	if mgr.CurrentScreen() != domain.Screen1 || mgr.Ready() {
		t.Fatalf("re-preload must reset screen state")
	}
	factory.surfaces[1].onLoad(nil)
	if !mgr.Ready() {
		t.Fatalf("second session must become ready")
	}
}
