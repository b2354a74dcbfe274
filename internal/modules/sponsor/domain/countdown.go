package domain

import (
	"fmt"
	"time"
)

// DefaultDuration is the sponsor dwell time when the host does not
// override it.
const DefaultDuration = 30 * time.Second

// DefaultLabelFormat renders minutes and seconds, in that order.
const DefaultLabelFormat = "%02d:%02d"

// Countdown is the remaining sponsor dwell, ticked in whole seconds.
type Countdown struct {
	remaining time.Duration
}

func New(d time.Duration) Countdown {
	if d <= 0 {
		d = DefaultDuration
	}
	return Countdown{remaining: d.Round(time.Second)}
}

func (c Countdown) Remaining() time.Duration { return c.remaining }

func (c Countdown) Done() bool { return c.remaining <= 0 }

// Tick returns the countdown advanced by one second, floored at zero.
func (c Countdown) Tick() Countdown {
	next := c.remaining - time.Second
	if next < 0 {
		next = 0
	}
	return Countdown{remaining: next}
}

// Label renders the remaining time as mm:ss.
func (c Countdown) Label() string {
	return c.Format(DefaultLabelFormat)
}

// Format renders the remaining time through a host-supplied template
// taking minutes then seconds.
func (c Countdown) Format(format string) string {
	secs := int(c.remaining / time.Second)
	return fmt.Sprintf(format, secs/60, secs%60)
}
