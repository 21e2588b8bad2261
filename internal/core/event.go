package core

import "github.com/vovakirdan/ichi/internal/game"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventGameState delivers the client's view of its room.
	EventGameState EventKind = iota
	// EventNotice reports a rejected command; the connection stays open.
	EventNotice
	// EventClose rejects the session; the transport closes the connection with Error.Message as reason.
	EventClose
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind  EventKind
	View  *game.View
	Error *CoreError
}
