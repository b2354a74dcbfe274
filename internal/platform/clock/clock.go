package clock

import "time"

// Clock abstracts time and timer scheduling so flow logic stays
// deterministic in tests.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules fn to run once d has elapsed. The returned
	// Timer must be stored and stopped before its slot is reassigned.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the pending callback. It reports whether the callback
	// was still pending; stopping a fired timer is a no-op.
	Stop() bool
}

// System delivers wall-clock time and real timers. Callbacks fire on a
// runtime timer goroutine; hosts that require single-context delivery
// wrap the callbacks (see the ui program clock).
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

func (System) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{t: time.AfterFunc(d, fn)}
}

type systemTimer struct {
	t *time.Timer
}

func (s systemTimer) Stop() bool {
	return s.t.Stop()
}
