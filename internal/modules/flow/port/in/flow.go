package in

// Flow drives one onboarding → paywall → sponsor journey. A coordinator
// instance is single-use: once its completion callback has fired it
// stays inert.
type Flow interface {
	// Start registers collaborator callbacks and arms the overlay once
	// the onboarding reports its first layout pass.
	Start()
	// Teardown aborts the flow: cancels timers and cleans the session
	// without invoking the completion callback. Safe to call twice.
	Teardown()
}
