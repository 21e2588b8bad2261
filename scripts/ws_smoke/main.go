package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"

	"github.com/vovakirdan/ichi/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

// run plays the opening of a two-player game: create, join, start.
func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "game endpoint")
	host := flag.String("host", "smoke-host", "username of the creating player")
	guest := flag.String("guest", "smoke-guest", "username of the joining player")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	hostConn, err := dial(ctx, *addr)
	if err != nil {
		return err
	}
	defer hostConn.Close(websocket.StatusNormalClosure, "")

	if err := send(ctx, hostConn, proto.Intent{Type: proto.IntentCreateGame, Username: *host, StateID: proto.NoState}); err != nil {
		return err
	}
	created, err := awaitState(ctx, hostConn, "host")
	if err != nil {
		return err
	}
	fmt.Printf("created game %s\n", created.GameCode)

	guestConn, err := dial(ctx, *addr)
	if err != nil {
		return err
	}
	defer guestConn.Close(websocket.StatusNormalClosure, "")

	if err := send(ctx, guestConn, proto.Intent{
		Type:     proto.IntentJoinGame,
		Username: *guest,
		StateID:  proto.NoState,
		GameCode: created.GameCode,
	}); err != nil {
		return err
	}
	joined, err := awaitState(ctx, hostConn, "host")
	if err != nil {
		return err
	}

	if err := send(ctx, hostConn, proto.Intent{
		Type:     proto.IntentStartGame,
		Username: *host,
		StateID:  joined.ID,
		GameCode: joined.GameCode,
	}); err != nil {
		return err
	}
	for {
		view, err := awaitState(ctx, guestConn, "guest")
		if err != nil {
			return err
		}
		if view.ID > joined.ID {
			fmt.Println("game started")
			return nil
		}
	}
}

func dial(ctx context.Context, addr string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return conn, nil
}

func send(ctx context.Context, conn *websocket.Conn, in proto.Intent) error {
	if err := conn.Write(ctx, websocket.MessageText, proto.Encode(in)); err != nil {
		return fmt.Errorf("send %s: %w", in.Type, err)
	}
	return nil
}

// awaitState prints pushes until one carries a game state.
func awaitState(ctx context.Context, conn *websocket.Conn, who string) (*proto.GameView, error) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			var ce websocket.CloseError
			if errors.As(err, &ce) && ce.Reason != "" {
				return nil, fmt.Errorf("%s: session closed: %s", who, ce.Reason)
			}
			return nil, fmt.Errorf("%s: read: %w", who, err)
		}
		push, err := proto.DecodeStrict(data)
		if err != nil {
			fmt.Printf("%s: ignoring frame: %v\n", who, err)
			continue
		}
		if push.Error != "" {
			fmt.Printf("%s: server says %q\n", who, push.Error)
		}
		if push.GameState != nil {
			fmt.Printf("%s: state %d: %s\n", who, push.GameState.ID, push.GameState.Raw)
			return push.GameState, nil
		}
	}
}
