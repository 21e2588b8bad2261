package core

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/ichi/internal/game"
	"github.com/vovakirdan/ichi/internal/utils"
)

// ResultRecorder stores the outcome of finished games.
type ResultRecorder interface {
	RecordGame(ctx context.Context, players []string, winner string) error
}

// Options configures a Hub.
type Options struct {
	// Recorder receives finished games. Nil disables statistics.
	Recorder ResultRecorder
	// TurnTimeout is how long a player may take before drawing automatically. Zero disables it.
	TurnTimeout time.Duration
	// NewCode generates room codes. Defaults to utils.NewGameCode.
	NewCode func() string
	// Seed seeds deck shuffling. Zero uses the clock.
	Seed int64
}

type turnExpiry struct {
	code string
	id   int64
}

// Hub owns every room. All game state is touched only by the goroutine running Run.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	commands   chan *Command
	expired    chan turnExpiry
	done       chan struct{}

	clients map[*Client]struct{}
	rooms   map[string]*Room

	opts Options
	rng  *rand.Rand
	log  *zerolog.Logger
}

// NewHub creates a new game hub instance.
func NewHub(opts Options, logger *zerolog.Logger) *Hub {
	if opts.NewCode == nil {
		opts.NewCode = utils.NewGameCode
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan *Command, 64),
		expired:    make(chan turnExpiry, 8),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]*Room),
		opts:       opts,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		log:        logger,
	}
}

// Run processes clients and commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.Debug().Str("client_id", c.ID).Msg("client registered")
		case c := <-h.unregister:
			h.handleLeave(c)
		case cmd := <-h.commands:
			h.handleCommand(cmd)
		case exp := <-h.expired:
			h.handleExpiry(exp)
		case <-ctx.Done():
			for _, room := range h.rooms {
				room.stopTimer()
			}
			return
		}
	}
}

// RegisterClient adds a client to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient removes a client and its seat. The client's Events channel is closed.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Submit queues a command for the hub.
func (h *Hub) Submit(ctx context.Context, cmd *Command) error {
	select {
	case h.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return context.Canceled
	}
}

func (h *Hub) handleCommand(cmd *Command) {
	c := cmd.Client
	if _, ok := h.clients[c]; !ok {
		return
	}
	logger := h.log.With().Str("client_id", c.ID).Stringer("command", cmd.Kind).Logger()

	switch cmd.Kind {
	case CommandCreateGame, CommandJoinGame:
		if c.game != "" {
			c.send(&Event{Kind: EventNotice, Error: coreError(ErrCodeAlreadyInGame, MsgAlreadyInGame)})
			return
		}
		if cmd.Username == "" {
			c.send(&Event{Kind: EventClose, Error: coreError(ErrCodeBadRequest, MsgNoUsername)})
			return
		}
		if cmd.Kind == CommandCreateGame {
			h.createGame(c, cmd.Username)
			return
		}
		h.joinGame(c, cmd.Username, cmd.Code, &logger)
	default:
		h.play(c, cmd, &logger)
	}
}

func (h *Hub) createGame(c *Client, username string) {
	code := h.opts.NewCode()
	for h.rooms[code] != nil {
		code = h.opts.NewCode()
	}
	room := NewRoom(game.New(code, username, h.rng))
	h.rooms[code] = room
	c.Name = username
	room.AddClient(c)
	h.log.Info().Str("game", code).Str("host", username).Msg("game created")
	room.Broadcast()
}

func (h *Hub) joinGame(c *Client, username, code string, logger *zerolog.Logger) {
	room := h.rooms[code]
	if room == nil {
		logger.Debug().Str("game", code).Msg("join unknown game")
		c.send(&Event{Kind: EventClose, Error: coreError(ErrCodeGameNotFound, MsgGameNotFound)})
		return
	}
	if err := room.Game.Join(username); err != nil {
		logger.Debug().Err(err).Str("game", code).Msg("join refused")
		c.send(&Event{Kind: EventClose, Error: joinError(err)})
		return
	}
	c.Name = username
	room.AddClient(c)
	room.Broadcast()
}

func (h *Hub) play(c *Client, cmd *Command, logger *zerolog.Logger) {
	room := h.rooms[c.game]
	if room == nil {
		c.send(&Event{Kind: EventNotice, Error: coreError(ErrCodeNotInGame, MsgNotInGame)})
		return
	}
	g := room.Game
	if cmd.StateID != g.ID {
		logger.Debug().Int64("expected", g.ID).Int64("got", cmd.StateID).Msg("stale command")
		c.send(&Event{Kind: EventNotice, Error: coreError(ErrCodeOutOfDate, MsgOutOfDate)})
		return
	}

	var err error
	switch cmd.Kind {
	case CommandStartGame:
		err = g.Start(c.Name)
	case CommandMove:
		err = g.Play(c.Name, cmd.Data)
	case CommandDraw:
		err = g.Draw(c.Name)
	case CommandIchi:
		err = g.CallIchi(c.Name)
	default:
		c.send(&Event{Kind: EventNotice, Error: coreError(ErrCodeBadRequest, "Unknown command")})
		return
	}
	if err != nil {
		c.send(&Event{Kind: EventNotice, Error: moveError(err)})
		return
	}
	h.afterChange(room)
}

func (h *Hub) handleLeave(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	defer close(c.Events)

	room := h.rooms[c.game]
	if room == nil {
		return
	}
	room.RemoveClient(c)
	room.Game.Leave(c.Name)
	if room.Empty() {
		room.stopTimer()
		delete(h.rooms, room.Code)
		h.log.Info().Str("game", room.Code).Msg("game removed")
		return
	}
	h.afterChange(room)
}

func (h *Hub) handleExpiry(exp turnExpiry) {
	room := h.rooms[exp.code]
	if room == nil || room.Game.ID != exp.id {
		return
	}
	h.log.Debug().Str("game", exp.code).Str("player", room.Game.Current().Username).Msg("turn expired")
	room.Game.Timeout()
	h.afterChange(room)
}

// afterChange rearms the turn timer, records a finished game and pushes the new state.
func (h *Hub) afterChange(room *Room) {
	g := room.Game
	room.stopTimer()
	if g.Started && room.seated == nil {
		room.seated = g.Usernames()
	}
	switch {
	case g.Over():
		g.Deadline = time.Time{}
		h.record(room)
	case g.Started && h.opts.TurnTimeout > 0:
		g.Deadline = time.Now().Add(h.opts.TurnTimeout)
		exp := turnExpiry{code: room.Code, id: g.ID}
		room.timer = time.AfterFunc(h.opts.TurnTimeout, func() {
			select {
			case h.expired <- exp:
			case <-h.done:
			}
		})
	}
	room.Broadcast()
}

func (h *Hub) record(room *Room) {
	if room.recorded || h.opts.Recorder == nil {
		return
	}
	room.recorded = true
	players, winner := room.seated, room.Game.Winner
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.opts.Recorder.RecordGame(ctx, players, winner); err != nil {
			h.log.Error().Err(err).Str("game", room.Code).Msg("record game")
		}
	}()
}
