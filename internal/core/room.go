package core

import (
	"time"

	"github.com/vovakirdan/ichi/internal/game"
)

// Room is a game table and the clients sitting at it.
type Room struct {
	Code    string
	Game    *game.Game
	clients map[*Client]struct{}

	timer    *time.Timer
	seated   []string // players when the game started
	recorded bool
}

// NewRoom constructs a room around g with no clients.
func NewRoom(g *game.Game) *Room {
	return &Room{
		Code:    g.Code,
		Game:    g,
		clients: make(map[*Client]struct{}),
	}
}

// AddClient inserts a client into the room. Returns true if newly added.
func (r *Room) AddClient(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	c.game = r.Code
	return true
}

// RemoveClient deletes a client from the room. Returns true if removed.
func (r *Room) RemoveClient(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	c.game = ""
	return true
}

// Broadcast sends every client its own view of the game.
func (r *Room) Broadcast() {
	for client := range r.clients {
		view := r.Game.ViewFor(client.Name)
		client.send(&Event{Kind: EventGameState, View: &view})
	}
}

// Empty returns true if no clients are in the room.
func (r *Room) Empty() bool {
	return len(r.clients) == 0
}

func (r *Room) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
