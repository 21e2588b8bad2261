package core

import (
	"context"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// mustState waits for a state event with the given id.
func mustState(t *testing.T, ch <-chan *Event, id int64) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev := mustEvent(t, ch, EventGameState)
		if ev.View.ID == id {
			return ev
		}
	}
	t.Fatalf("expected state %d not received", id)
	return nil
}

func startHub(t *testing.T, opts Options) *Hub {
	t.Helper()
	if opts.NewCode == nil {
		opts.NewCode = func() string { return "ABCD" }
	}
	if opts.Seed == 0 {
		opts.Seed = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	hub := NewHub(opts, nil)
	go hub.Run(ctx)
	return hub
}

func submit(t *testing.T, hub *Hub, cmd *Command) {
	t.Helper()
	if err := hub.Submit(context.Background(), cmd); err != nil {
		t.Fatalf("submit %v: %v", cmd.Kind, err)
	}
}

// seat registers a client and puts it in the room with code.
func seat(t *testing.T, hub *Hub, id, name string, create bool) *Client {
	t.Helper()
	c := NewClient(id)
	hub.RegisterClient(c)
	kind := CommandJoinGame
	if create {
		kind = CommandCreateGame
	}
	submit(t, hub, &Command{Kind: kind, Client: c, Username: name, Code: "ABCD", StateID: -1})
	mustEvent(t, c.Events, EventGameState)
	return c
}
