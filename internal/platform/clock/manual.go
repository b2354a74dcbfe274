package clock

import (
	"sort"
	"time"
)

// Manual is a hand-stepped clock. Advance moves time forward and fires
// every timer that comes due, in deadline order, on the calling
// goroutine. It keeps tests and the headless demo deterministic.
//
// Manual is not safe for concurrent use; drive it from the same
// goroutine that owns the state it schedules against.
type Manual struct {
	now    time.Time
	seq    int
	timers []*manualTimer
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start.UTC()}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{
		clock: m,
		at:    m.now.Add(d),
		seq:   m.seq,
		fn:    fn,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in deadline
// order. Timers scheduled by fired callbacks are honored within the same
// advance when they come due before the target time.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		if next.at.After(m.now) {
			m.now = next.at
		}
		m.remove(next)
		next.fn()
	}
	m.now = target
}

// Pending reports how many timers are armed. Teardown tests use it to
// prove no stale callbacks survive cleanup.
func (m *Manual) Pending() int {
	return len(m.timers)
}

func (m *Manual) nextDue(target time.Time) *manualTimer {
	var due []*manualTimer
	for _, t := range m.timers {
		if !t.at.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

func (m *Manual) remove(t *manualTimer) {
	for i, cand := range m.timers {
		if cand == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

type manualTimer struct {
	clock *Manual
	at    time.Time
	seq   int
	fn    func()
}

func (t *manualTimer) Stop() bool {
	for i, cand := range t.clock.timers {
		if cand == t {
			t.clock.timers = append(t.clock.timers[:i], t.clock.timers[i+1:]...)
			return true
		}
	}
	return false
}
