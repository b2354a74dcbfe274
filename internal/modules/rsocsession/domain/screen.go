package domain

// Screen is the sponsored-content screen sequence. It only moves
// forward: screen1 → screen2 → sponsor, and sponsor is terminal.
type Screen int

const (
	Screen1 Screen = iota
	Screen2
	Sponsor
)

// Next returns the following screen. Sponsor returns itself.
func (s Screen) Next() Screen {
	switch s {
	case Screen1:
		return Screen2
	case Screen2:
		return Sponsor
	default:
		return Sponsor
	}
}

func (s Screen) String() string {
	switch s {
	case Screen1:
		return "screen1"
	case Screen2:
		return "screen2"
	case Sponsor:
		return "sponsor"
	default:
		return "unknown"
	}
}

// Phase is the session lifecycle around the screen sequence.
type Phase int

const (
	PhaseUnloaded Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseUnloaded:
		return "unloaded"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}
