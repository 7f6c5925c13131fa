package ui

type state int

const (
	stateNone state = iota
	stateOutbound
	stateExploring
	stateReturning
	stateDone
)

func (s state) String() string {
	switch s {
	case stateOutbound:
		return "Outbound"
	case stateExploring:
		return "Exploring"
	case stateReturning:
		return "Returning"
	case stateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

func (s state) next() state {
	if s == stateDone {
		// Done has no next state
		return stateDone
	}
	return s + 1
}

// command returns the meta lines the controller turns into telemetry calls
// when the run enters this state.
func (s state) command() string {
	switch s {
	case stateOutbound:
		return "START\nSTAGE Outbound"
	case stateExploring:
		return "STAGE Exploring"
	case stateReturning:
		return "STAGE Returning"
	case stateDone:
		return "DONE"
	default:
		return ""
	}
}
