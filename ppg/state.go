package ppg

import "fmt"

// Phase is the coarse connection lifecycle phase.
type Phase int

const (
	// PhaseDisconnected means the client is not connected and no retry is pending.
	PhaseDisconnected Phase = iota

	// PhaseConnecting means the first open attempt after Connect is in flight.
	PhaseConnecting

	// PhaseConnected means the client has a live session.
	PhaseConnected

	// PhaseReconnecting means the client lost its session and a retry is
	// pending or in flight.
	PhaseReconnecting
)

// String returns the string representation of a Phase.
func (p Phase) String() string {
	switch p {
	case PhaseDisconnected:
		return "disconnected"
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// ConnectionState is the full connection state. Attempt is the reconnect
// attempt number and is nonzero only while Phase is PhaseReconnecting.
type ConnectionState struct {
	Phase   Phase
	Attempt int
}

// String returns the string representation of a ConnectionState,
// e.g. "connected" or "reconnecting(3)".
func (s ConnectionState) String() string {
	if s.Phase == PhaseReconnecting {
		return fmt.Sprintf("reconnecting(%d)", s.Attempt)
	}
	return s.Phase.String()
}

// StateEvent describes one realized state transition.
type StateEvent struct {
	Old   ConnectionState
	New   ConnectionState
	Cause error // failure that drove the transition, if any
}
