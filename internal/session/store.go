package session

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/ichi/internal/proto"
)

// Log messages for rejected actions.
const (
	MsgAlreadyInGame = "action rejected: already connected to a game"
	MsgNotInGame     = "action rejected: not connected to a game"
	MsgStaleView     = "ignoring game view older than the current one"
	MsgLoopStopped   = "action dropped: session loop is not running"
)

type commandKind int

const (
	commandCreateGame commandKind = iota
	commandJoinGame
	commandGameIntent
	commandLeaveGame
	commandConnect
	commandClose
	commandDispatch
)

type command struct {
	kind   commandKind
	intent proto.Intent
	addr   string
	done   chan struct{}
}

// Store is the session state store: it holds the latest game view and join
// error derived from connection events and exposes the player action surface.
// All state changes happen on the goroutine running Run.
type Store struct {
	endpoint string
	manager  *Manager
	log      *zerolog.Logger

	commands chan command
	events   chan Event
	stopped  chan struct{}
	changes  chan struct{}

	// owned by the loop
	view *proto.GameView

	mu        sync.RWMutex
	published snapshot
}

type snapshot struct {
	view      *proto.GameView
	joinError string
	state     ConnectionState
}

// NewStore builds a store that connects to endpoint through dialer.
func NewStore(endpoint string, dialer Dialer, logger *zerolog.Logger) *Store {
	s := &Store{
		endpoint: endpoint,
		log:      logger,
		commands: make(chan command),
		events:   make(chan Event, 16),
		stopped:  make(chan struct{}),
		changes:  make(chan struct{}, 1),
	}
	s.manager = NewManager(dialer, s, s.postEvent, logger)
	return s
}

// Run processes actions and connection events until ctx is cancelled. The
// connection, if any, is closed on exit.
func (s *Store) Run(ctx context.Context) {
	defer close(s.stopped)
	for {
		select {
		case <-ctx.Done():
			s.manager.Close()
			return
		case cmd := <-s.commands:
			s.handleCommand(cmd)
			close(cmd.done)
		case ev := <-s.events:
			s.manager.HandleEvent(ev)
		}
	}
}

func (s *Store) postEvent(ev Event) {
	select {
	case s.events <- ev:
	case <-s.stopped:
	}
}

// submit hands a command to the loop and waits until it was processed.
func (s *Store) submit(cmd command) {
	cmd.done = make(chan struct{})
	select {
	case s.commands <- cmd:
	case <-s.stopped:
		s.log.Error().Msg(MsgLoopStopped)
		return
	}
	select {
	case <-cmd.done:
	case <-s.stopped:
	}
}

// GameView returns the current view, or nil. The returned value must not be modified.
func (s *Store) GameView() *proto.GameView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.published.view
}

// JoinError returns the last session rejection reason, or "".
func (s *Store) JoinError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.published.joinError
}

// State returns the current connection state.
func (s *Store) State() ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.published.state
}

// Changes is signalled after published fields change. Signals coalesce.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// CreateGame connects and asks the server to create a game for actor.
func (s *Store) CreateGame(actor string) {
	s.submit(command{kind: commandCreateGame, intent: proto.Intent{
		Type:     proto.IntentCreateGame,
		Username: actor,
		StateID:  proto.NoState,
	}})
}

// JoinGame connects and asks the server to add actor to the game with code.
func (s *Store) JoinGame(actor, code string) {
	s.submit(command{kind: commandJoinGame, intent: proto.Intent{
		Type:     proto.IntentJoinGame,
		Username: actor,
		StateID:  proto.NoState,
		GameCode: strings.ToUpper(code),
	}})
}

// StartGame asks the server to deal and begin play.
func (s *Store) StartGame(actor string) {
	s.gameIntent(proto.IntentStartGame, actor, nil)
}

// Move plays the given cards.
func (s *Store) Move(actor string, cards []string) {
	s.gameIntent(proto.IntentMove, actor, cards)
}

// Draw takes a card from the deck.
func (s *Store) Draw(actor string) {
	s.gameIntent(proto.IntentDraw, actor, nil)
}

// CallIchi announces a last card, or catches a player who did not.
func (s *Store) CallIchi(actor string) {
	s.gameIntent(proto.IntentIchi, actor, nil)
}

// LeaveGame closes the game connection.
func (s *Store) LeaveGame() {
	s.submit(command{kind: commandLeaveGame})
}

// Connect opens a connection to addr without sending anything. Any existing
// connection is replaced.
func (s *Store) Connect(addr string) {
	s.submit(command{kind: commandConnect, addr: addr})
}

// Close terminates the current connection, if any.
func (s *Store) Close() {
	s.submit(command{kind: commandClose})
}

// Dispatch hands a raw intent to the connection manager.
func (s *Store) Dispatch(in proto.Intent) {
	s.submit(command{kind: commandDispatch, intent: in})
}

func (s *Store) gameIntent(t proto.IntentType, actor string, data []string) {
	s.submit(command{kind: commandGameIntent, intent: proto.Intent{
		Type:     t,
		Username: actor,
		Data:     append([]string{}, data...),
	}})
}

func (s *Store) handleCommand(cmd command) {
	switch cmd.kind {
	case commandCreateGame, commandJoinGame:
		if s.manager.Connected() {
			s.log.Error().Str("type", string(cmd.intent.Type)).Msg(MsgAlreadyInGame)
			return
		}
		if cmd.kind == commandJoinGame {
			s.setJoinError("")
		}
		s.manager.Connect(s.endpoint)
		s.manager.Dispatch(cmd.intent)
	case commandGameIntent:
		if !s.manager.Connected() || s.view == nil {
			s.log.Error().Str("type", string(cmd.intent.Type)).Msg(MsgNotInGame)
			return
		}
		in := cmd.intent
		in.StateID = s.view.ID
		in.GameCode = s.view.GameCode
		s.manager.Dispatch(in)
	case commandLeaveGame:
		if !s.manager.Connected() || s.view == nil {
			s.log.Error().Msg(MsgNotInGame)
			return
		}
		s.manager.Close()
	case commandConnect:
		s.manager.Connect(cmd.addr)
	case commandClose:
		s.manager.Close()
	case commandDispatch:
		s.manager.Dispatch(cmd.intent)
	}
}

// OnGameView implements Listener.
func (s *Store) OnGameView(view *proto.GameView) {
	if s.view != nil && view.ID < s.view.ID {
		s.log.Warn().Int64("current", s.view.ID).Int64("received", view.ID).Msg(MsgStaleView)
		return
	}
	s.view = view
	s.publish(func(p *snapshot) {
		p.view = view
		p.joinError = ""
	})
}

// OnJoinError implements Listener.
func (s *Store) OnJoinError(reason string) {
	s.setJoinError(reason)
}

// OnReset implements Listener.
func (s *Store) OnReset() {
	s.view = nil
	s.publish(func(p *snapshot) { p.view = nil })
}

// OnStateChange implements Listener.
func (s *Store) OnStateChange(state ConnectionState) {
	s.publish(func(p *snapshot) { p.state = state })
}

func (s *Store) setJoinError(reason string) {
	s.publish(func(p *snapshot) { p.joinError = reason })
}

func (s *Store) publish(update func(*snapshot)) {
	s.mu.Lock()
	update(&s.published)
	s.mu.Unlock()

	select {
	case s.changes <- struct{}{}:
	default:
	}
}
