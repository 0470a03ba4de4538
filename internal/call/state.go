package call

// State is the connection state of the call lifecycle. Exactly one value is
// live at a time and only the Controller transitions it.
type State int

const (
	// StateIdle is the rest state before the first connect.
	StateIdle State = iota

	// StateConnecting means the connect sequence is in flight.
	StateConnecting

	// StateConnected means the call is up and the room has been joined.
	StateConnected

	// StateDisconnecting means a user-initiated hangup is in progress.
	StateDisconnecting

	// StateDisconnected is the rest state after teardown. The controller is
	// reusable: a new connect starts from here.
	StateDisconnected

	// StateError marks a failed connect step. Transient: teardown moves the
	// controller on to StateDisconnected immediately.
	StateError
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	case StateDisconnected:
		return "disconnected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// CanConnect reports whether a connect command is accepted in this state.
func (s State) CanConnect() bool { return s != StateConnected }

// CanDisconnect reports whether a disconnect command is accepted in this state.
func (s State) CanDisconnect() bool { return s == StateConnected }
