package domain

import "time"

// Event names fired by the RSOC flow. Screen1View is anchored to load
// success, not to logical entry into screen1.
const (
	Screen1View        = "screen1-view"
	Screen2View        = "screen2-view"
	SponsorLoadView    = "sponsor-load-view"
	SponsorPageVisible = "sponsor-page-visible"
	PaymentPopupClose  = "payment-popup-close"
)

type Event struct {
	Name string
	At   time.Time
}
