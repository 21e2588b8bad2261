package session

// ConnectionState is the lifecycle state of the single game connection.
type ConnectionState int

const (
	// StateIdle means no connection exists.
	StateIdle ConnectionState = iota

	// StateConnecting means the handshake is in progress; dispatched intents are queued.
	StateConnecting

	// StateOpen means the connection is ready; dispatched intents are sent immediately.
	StateOpen

	// StateClosed means teardown was requested and the close event has not been observed yet.
	StateClosed
)

// String returns the string representation of a ConnectionState.
func (s ConnectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
