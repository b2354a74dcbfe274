package service

import (
	"context"

	"rsoc/internal/modules/analytics/domain"
	analyticsout "rsoc/internal/modules/analytics/port/out"
	"rsoc/internal/platform/clock"
)

// Recorder is the fire-and-forget analytics sink handed to the RSOC
// subsystem. Store failures are swallowed: analytics must never block or
// fail the onboarding flow.
type Recorder struct {
	clock  clock.Clock
	stores []analyticsout.Store
}

func NewRecorder(clk clock.Clock, stores ...analyticsout.Store) *Recorder {
	return &Recorder{clock: clk, stores: stores}
}

func (r *Recorder) Log(name string) {
	event := domain.Event{Name: name, At: r.clock.Now()}
	for _, store := range r.stores {
		_ = store.Append(context.Background(), event)
	}
}
