package relay

import "fmt"

// State is the lifecycle state of a peer session.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateDataReady
	StateMediaActive
	StateError
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateDataReady:
		return "data-ready"
	case StateMediaActive:
		return "media-active"
	case StateError:
		return "error"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no transition can leave s.
func (s State) Terminal() bool {
	return s == StateError || s == StateClosed
}

// CanTransition reports whether a session in from may move to to. Sessions
// only move forward along Idle, Connecting, Open, DataReady, MediaActive
// (steps may be skipped), or to Error or Closed from any non-terminal state.
func CanTransition(from, to State) bool {
	if from.Terminal() || to < StateIdle || to > StateClosed {
		return false
	}
	if to.Terminal() {
		return true
	}
	return to > from
}
