package in

import (
	"rsoc/internal/modules/rsocsession/domain"
	sessionout "rsoc/internal/modules/rsocsession/port/out"
	"rsoc/internal/platform/geometry"
)

// Session is the capability the flow coordinator drives. Exactly one
// session is active at a time; a re-entrant Preload resets state out
// from under any previous flow.
type Session interface {
	// Preload reports success when the feature is disabled or the
	// content finished loading; failure on load error or timeout.
	// Failure is terminal for the session, there is no retry.
	Preload(done func(ok bool))

	CurrentScreen() domain.Screen
	Ready() bool
	Surface() sessionout.Surface
	// SponsorSurface is the secondary surface captured from a popup
	// request, or nil.
	SponsorSurface() sessionout.Surface

	// ElementRect resolves the target element's rect for the given
	// screen, or nil on error, missing surface, or the sponsor screen.
	// A new query supersedes any unresolved one.
	ElementRect(screen domain.Screen, done func(rect *geometry.Rect))

	AdvanceToNextScreen()
	InjectInvisibility()
	Cleanup()

	// SetNavigationHandler registers the navigation-detected
	// notification; SetTapHandler the overlay tap gesture.
	SetNavigationHandler(fn func())
	SetTapHandler(fn func())
}
