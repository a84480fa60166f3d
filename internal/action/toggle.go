package action

// State is the state of a drag-like interaction.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "ACTIVE"
	}
	return "IDLE"
}

// Transition is the edge reported by Toggle.Update.
type Transition int

const (
	NoTransition Transition = iota
	Started
	Ended
)

// Toggle is the IDLE/ACTIVE machine shared by scrolling and stroke drawing.
// Started and Ended are reported once per edge, never per frame.
type Toggle struct {
	state State
}

// Update feeds whether the qualifying gesture is present this frame.
func (t *Toggle) Update(matching bool) Transition {
	switch {
	case matching && t.state == Idle:
		t.state = Active
		return Started
	case !matching && t.state == Active:
		t.state = Idle
		return Ended
	default:
		return NoTransition
	}
}

// State returns the current state.
func (t *Toggle) State() State { return t.state }

// Active reports whether the interaction is in progress.
func (t *Toggle) Active() bool { return t.state == Active }
