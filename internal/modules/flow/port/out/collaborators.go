package out

import (
	remotecfgdomain "rsoc/internal/modules/remotecfg/domain"
	sessionout "rsoc/internal/modules/rsocsession/port/out"
	"rsoc/internal/platform/geometry"
)

// Onboarding is the narrow capability contract of the host onboarding
// screen: it reports its continue affordance, advances its own step
// counter on the coordinator's command, hosts the overlay surface, and
// signals layout readiness and completion.
type Onboarding interface {
	// ContinueRect is the affordance bounds in the coordinator's
	// coordinate space; ok is false before the first layout pass.
	ContinueRect() (rect geometry.Rect, ok bool)
	AdvanceStep()

	AttachOverlay(surface sessionout.Surface)
	RemoveOverlay()

	OnLayoutReady(fn func())
	OnFinished(fn func())
	Detach()
}

// Paywall presents the purchase screen. It optionally receives the
// secondary sponsor surface and the sponsor-visibility flag, and must
// call onClose exactly once when dismissed.
type Paywall interface {
	Present(sponsor sessionout.Surface, sponsorVisible bool, onClose func())
}

// SponsorView shows genuinely visible sponsored content with a
// countdown. Start must invoke onDone exactly once on expiry.
type SponsorView interface {
	Embed(surface sessionout.Surface)
	Start(onDone func())
	Discard()
}

// SponsorViewFactory builds the countdown view at handoff time.
type SponsorViewFactory interface {
	New() SponsorView
}

// ConfigProvider mirrors the remote-config capability; nil means the
// feature is disabled.
type ConfigProvider interface {
	Current() *remotecfgdomain.RemoteConfig
}

// EventLogger is the fire-and-forget analytics sink.
type EventLogger interface {
	Log(name string)
}
