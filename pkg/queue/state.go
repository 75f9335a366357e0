package queue

// State is the lifecycle state of the broker session.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateReady
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// StateListener is notified on every state transition. It runs while the client
// holds its internal lock, so it must not block or call back into the client.
type StateListener func(from, to State)
