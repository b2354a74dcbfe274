package out

import "rsoc/internal/platform/geometry"

// Surface is the embedded-content capability: a web-rendering surface
// that loads a URL, executes injected script, and reports navigation,
// script-bridge messages, popup requests, and taps.
//
// Handler slots are single-assignment setters; passing nil detaches.
// Implementations must deliver every callback on the host's single
// execution context; the session and flow layers are not locked.
type Surface interface {
	Load(url string)
	// Evaluate runs script in the page and reports the raw result. done
	// may be nil for fire-and-forget injection. Bridge replies arrive
	// separately through the message handler.
	Evaluate(script string, done func(result string, err error))
	// AddStartScript injects script at document start on every load.
	AddStartScript(script string)

	SetHidden(hidden bool)
	SetAlpha(alpha float64)
	SetOffset(off geometry.Offset)

	OnLoad(fn func(err error))
	OnNavigate(fn func(url string))
	OnMessage(fn func(payload []byte))
	// OnPopup fires when the page requests a new top-level browsing
	// context; the new surface becomes the sponsor surface.
	OnPopup(fn func(popup Surface, url string))
	OnTap(fn func())

	Discard()
}

// SurfaceFactory produces fresh primary surfaces for preload.
type SurfaceFactory interface {
	New() Surface
}
