package core

// Client is a connected player as seen by the core layer.
type Client struct {
	ID     string
	Name   string
	Events chan *Event

	game string // code of the room the client sits in
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, 16),
	}
}

// send delivers ev unless the client's buffer is full.
func (c *Client) send(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		// Drop if slow consumer.
		return false
	}
}
