package app

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rsoc/internal/platform/clock"
)

// TimerFiredMsg carries a due timer through the Bubble Tea loop so its
// callback runs on the update cycle, never on a timer goroutine.
type TimerFiredMsg struct {
	id int
}

// DispatchMsg carries an arbitrary closure onto the loop. Out-of-process
// adapters use it to deliver surface events.
type DispatchMsg struct {
	Fn func()
}

// ProgramClock is the library clock for the TUI: scheduling uses real
// timers, but every callback is funneled through Program.Send and fired
// from Update, keeping the whole flow on the single Bubble Tea context.
type ProgramClock struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	seq     int
	pending map[int]func()
}

var _ clock.Clock = (*ProgramClock)(nil)

func NewProgramClock() *ProgramClock {
	return &ProgramClock{pending: map[int]func(){}}
}

// Attach wires the running program's Send. Timers that fire before
// attachment are dropped; the bootstrap attaches before Run.
func (c *ProgramClock) Attach(send func(tea.Msg)) {
	c.mu.Lock()
	c.send = send
	c.mu.Unlock()
}

func (c *ProgramClock) Now() time.Time { return time.Now().UTC() }

func (c *ProgramClock) AfterFunc(d time.Duration, fn func()) clock.Timer {
	c.mu.Lock()
	c.seq++
	id := c.seq
	c.pending[id] = fn
	c.mu.Unlock()

	t := &programTimer{clock: c, id: id}
	t.timer = time.AfterFunc(d, func() {
		c.mu.Lock()
		send := c.send
		c.mu.Unlock()
		if send != nil {
			send(TimerFiredMsg{id: id})
		}
	})
	return t
}

// Dispatch runs fn on the program loop. Safe from any goroutine.
func (c *ProgramClock) Dispatch(fn func()) {
	c.mu.Lock()
	send := c.send
	c.mu.Unlock()
	if send != nil {
		send(DispatchMsg{Fn: fn})
	}
}

// Fire runs the callback behind a delivered timer message. Called from
// Update only.
func (c *ProgramClock) Fire(msg TimerFiredMsg) {
	c.mu.Lock()
	fn := c.pending[msg.id]
	delete(c.pending, msg.id)
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type programTimer struct {
	clock *ProgramClock
	id    int
	timer *time.Timer
}

func (t *programTimer) Stop() bool {
	t.timer.Stop()
	t.clock.mu.Lock()
	_, armed := t.clock.pending[t.id]
	delete(t.clock.pending, t.id)
	t.clock.mu.Unlock()
	return armed
}
