// Package sim is a scripted stand-in for a real embedded-content host:
// an in-memory page model behind the surface capability, plus onboarding
// and paywall doubles. It drives the TUI demo, the headless runner, and
// integration-style tests without rendering any web content.
package sim

import (
	"strings"
	"time"

	sessiondomain "rsoc/internal/modules/rsocsession/domain"
	sessionout "rsoc/internal/modules/rsocsession/port/out"
	"rsoc/internal/platform/clock"
	apperrors "rsoc/internal/platform/errors"
	"rsoc/internal/platform/geometry"
)

// PageOptions configures the scripted page sequence one surface serves.
type PageOptions struct {
	// LoadDelay is how long the initial load takes on the scenario clock.
	LoadDelay time.Duration
	// LoadErr makes the initial load fail.
	LoadErr error
	// Rects holds the target element's bounds per screen. A missing or
	// nil entry means the element is absent from that page.
	Rects map[sessiondomain.Screen]*geometry.Rect
	// SilentScreen2Link suppresses the navigation event when the screen2
	// link is activated, modelling pages whose handoff cannot be
	// observed.
	SilentScreen2Link bool
}

// DefaultRects gives every screen a plausible element.
func DefaultRects() map[sessiondomain.Screen]*geometry.Rect {
	return map[sessiondomain.Screen]*geometry.Rect{
		sessiondomain.Screen1: {X: 40, Y: 320, Width: 240, Height: 48},
		sessiondomain.Screen2: {X: 40, Y: 120, Width: 240, Height: 48},
	}
}

var _ sessionout.Surface = (*Surface)(nil)

// Surface is the scripted page host. The host-facing methods (Tap,
// ActivateLink) and every delivered event run on the caller's execution
// context, matching the surface contract.
type Surface struct {
	clock clock.Clock
	opts  PageOptions

	screen    sessiondomain.Screen
	loaded    bool
	discarded bool
	covered   bool

	url    string
	hidden bool
	alpha  float64
	offset geometry.Offset

	startScripts []string
	loadTimer    clock.Timer

	onLoad     func(error)
	onNavigate func(string)
	onMessage  func([]byte)
	onPopup    func(sessionout.Surface, string)
	onTap      func()
}

func NewSurface(clk clock.Clock, opts PageOptions) *Surface {
	if opts.Rects == nil {
		opts.Rects = DefaultRects()
	}
	return &Surface{clock: clk, opts: opts, alpha: 1}
}

// ─── surface capability ──────────────────────────────────────────────────────

func (s *Surface) Load(url string) {
	s.url = url
	s.loadTimer = s.clock.AfterFunc(s.opts.LoadDelay, func() {
		s.loadTimer = nil
		if s.discarded {
			return
		}
		err := s.opts.LoadErr
		if err == nil {
			s.loaded = true
			s.screen = sessiondomain.Screen1
			s.runStartScripts()
		}
		if s.onLoad != nil {
			s.onLoad(err)
		}
	})
}

func (s *Surface) Evaluate(script string, done func(string, error)) {
	if s.discarded {
		if done != nil {
			done("", apperrors.ErrSurfaceDiscarded)
		}
		return
	}
	if done != nil {
		done("", nil)
	}
	if !s.loaded {
		return
	}
	s.interpret(script)
}

func (s *Surface) AddStartScript(script string) {
	s.startScripts = append(s.startScripts, script)
}

func (s *Surface) SetHidden(hidden bool) { s.hidden = hidden }

func (s *Surface) SetAlpha(alpha float64) { s.alpha = alpha }

func (s *Surface) SetOffset(off geometry.Offset) { s.offset = off }

func (s *Surface) OnLoad(fn func(error)) { s.onLoad = fn }

func (s *Surface) OnNavigate(fn func(string)) { s.onNavigate = fn }

func (s *Surface) OnMessage(fn func([]byte)) { s.onMessage = fn }

func (s *Surface) OnPopup(fn func(sessionout.Surface, string)) { s.onPopup = fn }

func (s *Surface) OnTap(fn func()) { s.onTap = fn }

func (s *Surface) Discard() {
	s.discarded = true
	if s.loadTimer != nil {
		s.loadTimer.Stop()
		s.loadTimer = nil
	}
}

// ─── host-facing controls ────────────────────────────────────────────────────

// Tap is a user tap landing on the surface. It reports the tap and, when
// the tap falls on the page's link, activates it.
func (s *Surface) Tap() {
	if s.discarded || !s.loaded {
		return
	}
	if s.onTap != nil {
		s.onTap()
	}
	s.ActivateLink()
}

// ActivateLink follows the current page's link: screen1 navigates in
// place, screen2 opens the sponsor page in a new browsing context.
// Sponsor pages have no forward link.
func (s *Surface) ActivateLink() {
	if s.discarded || !s.loaded {
		return
	}
	switch s.screen {
	case sessiondomain.Screen1:
		s.screen = sessiondomain.Screen2
		if s.onNavigate != nil {
			s.onNavigate(s.url + "/step2")
		}
	case sessiondomain.Screen2:
		popup := NewSurface(s.clock, PageOptions{Rects: map[sessiondomain.Screen]*geometry.Rect{}})
		popup.loaded = true
		popup.screen = sessiondomain.Sponsor
		popup.url = s.url + "/sponsor"
		if s.opts.SilentScreen2Link {
			return
		}
		if s.onPopup != nil {
			s.onPopup(popup, popup.url)
		}
	}
}

// Hidden reports the native visibility flag, for host rendering.
func (s *Surface) Hidden() bool { return s.hidden }

// Alpha reports the native alpha, for host rendering.
func (s *Surface) Alpha() float64 { return s.alpha }

// Offset reports the current translation, for host rendering.
func (s *Surface) Offset() geometry.Offset { return s.offset }

// Covered reports whether the hiding style is currently installed.
func (s *Surface) Covered() bool { return s.covered }

// Discarded reports whether the surface has been torn down.
func (s *Surface) Discarded() bool { return s.discarded }

// Screen is the page currently served.
func (s *Surface) Screen() sessiondomain.Screen { return s.screen }

func (s *Surface) runStartScripts() {
	for _, script := range s.startScripts {
		s.interpret(script)
	}
}

// interpret executes the small script vocabulary the session injects.
func (s *Surface) interpret(script string) {
	switch {
	case strings.Contains(script, "getBoundingClientRect"):
		s.answerRectQuery()
	case strings.Contains(script, "removeChild"):
		s.covered = false
	case strings.Contains(script, sessiondomain.InvisibilityStyleID):
		s.covered = true
	}
}

func (s *Surface) answerRectQuery() {
	if s.onMessage == nil {
		return
	}
	rect := s.opts.Rects[s.screen]
	if rect == nil {
		s.onMessage(sessiondomain.ElementNotFoundMessage())
		return
	}
	s.onMessage(sessiondomain.ElementRectMessage(*rect))
}

// Factory builds scripted surfaces sharing one clock and page script.
type Factory struct {
	Clock   clock.Clock
	Options PageOptions

	// Created collects every surface handed out, newest last.
	Created []*Surface
}

var _ sessionout.SurfaceFactory = (*Factory)(nil)

func (f *Factory) New() sessionout.Surface {
	s := NewSurface(f.Clock, f.Options)
	f.Created = append(f.Created, s)
	return s
}

// Current is the most recently created surface, nil before the first.
func (f *Factory) Current() *Surface {
	if len(f.Created) == 0 {
		return nil
	}
	return f.Created[len(f.Created)-1]
}
