package domain

import (
	"time"

	sessiondomain "rsoc/internal/modules/rsocsession/domain"
	"rsoc/internal/platform/geometry"
)

const (
	// AlignSettleDelay lets layout settle before measuring.
	AlignSettleDelay = 100 * time.Millisecond
	// TapFallbackDelay bounds how long a tap waits for a navigation
	// report before advancing manually.
	TapFallbackDelay = time.Second
	// NavigationDebounce suppresses duplicate navigation handling
	// after a transition.
	NavigationDebounce = time.Second
	// RecoverDelay waits out screen2's re-render before re-covering it.
	RecoverDelay = 500 * time.Millisecond

	// screen2VerticalBias shifts screen2's full-width target above the
	// affordance center.
	screen2VerticalBias = 200
)

// AlignmentOffset computes the translation that puts the hidden target
// element exactly under the visible continue affordance. ok is false on
// the sponsor screen, which has no interactive target.
//
// screen1 aligns center-to-center on both axes. screen2's target spans
// the full width, so only the vertical axis moves, biased 200 above the
// affordance center.
func AlignmentOffset(screen sessiondomain.Screen, affordance, element geometry.Rect) (geometry.Offset, bool) {
	switch screen {
	case sessiondomain.Screen1:
		ac, ec := affordance.Center(), element.Center()
		return geometry.Offset{DX: ac.X - ec.X, DY: ac.Y - ec.Y}, true
	case sessiondomain.Screen2:
		return geometry.Offset{DX: 0, DY: affordance.Center().Y - screen2VerticalBias - element.Y}, true
	default:
		return geometry.Offset{}, false
	}
}
