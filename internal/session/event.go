package session

// EventKind is a lifecycle notification raised by a connection.
type EventKind int

const (
	// EventOpen signals the handshake completed.
	EventOpen EventKind = iota
	// EventMessage delivers one inbound frame.
	EventMessage
	// EventClose signals the channel closed, possibly with a reason from the server.
	EventClose
	// EventError signals the channel failed without a close reason.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventMessage:
		return "message"
	case EventClose:
		return "close"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is raised by a connection and handled by the session loop.
type Event struct {
	Kind   EventKind
	Data   []byte // EventMessage
	Reason string // EventClose
	Err    error  // EventError

	link *link
}
