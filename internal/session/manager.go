package session

import (
	"github.com/rs/zerolog"

	"github.com/vovakirdan/ichi/internal/proto"
)

// Log messages emitted by the session layer. They are the observable signal
// for transport-level failures, which are never returned to callers.
const (
	MsgReplacingConnection = "connect requested while connected, closing previous connection"
	MsgDispatchNoConn      = "dropping intent: no connection"
	MsgDispatchClosing     = "dropping intent: connection is closing"
	MsgDispatchNotSent     = "dropping intent: connection ended before send"
	MsgServerNotice        = "server notice"
	MsgMalformedPush       = "ignoring malformed push"
	MsgConnectionOpened    = "connection opened"
	MsgConnectionClosed    = "connection closed"
	MsgConnectionFailed    = "connection closed due to error"
	MsgStaleEvent          = "ignoring event from previous connection"
)

// Listener receives everything the Manager publishes. The session store implements it.
type Listener interface {
	// OnGameView publishes a new authoritative view.
	OnGameView(view *proto.GameView)
	// OnJoinError publishes a server close reason.
	OnJoinError(reason string)
	// OnReset clears the published view after the connection ends.
	OnReset()
	// OnStateChange reports every ConnectionState transition.
	OnStateChange(state ConnectionState)
}

// Manager owns the lifecycle of exactly one game connection. All methods
// must be called from the single goroutine that also handles its events.
type Manager struct {
	dialer   Dialer
	listener Listener
	post     func(Event)
	log      *zerolog.Logger

	state ConnectionState
	link  *link
	queue Queue
}

// NewManager builds a Manager. Connection events are delivered through post,
// which must hand them back to HandleEvent on the owning goroutine.
func NewManager(dialer Dialer, listener Listener, post func(Event), logger *zerolog.Logger) *Manager {
	return &Manager{
		dialer:   dialer,
		listener: listener,
		post:     post,
		log:      logger,
		state:    StateIdle,
	}
}

// State returns the current connection state.
func (m *Manager) State() ConnectionState {
	return m.state
}

// Connected reports whether a connection exists in any state.
func (m *Manager) Connected() bool {
	return m.link != nil
}

// Queued returns the number of intents waiting for the connection to open.
func (m *Manager) Queued() int {
	return m.queue.Len()
}

// Connect starts a new connection to addr, tearing down an existing one first.
func (m *Manager) Connect(addr string) {
	if m.link != nil {
		m.log.Warn().Str("conn_id", m.link.id).Str("state", m.state.String()).Msg(MsgReplacingConnection)
		m.link.close()
		m.link = nil
		m.listener.OnReset()
	}
	m.queue.Clear()

	l := newLink(m.log)
	m.link = l
	m.setState(StateConnecting)
	m.log.Debug().Str("conn_id", l.id).Str("addr", addr).Msg("connecting")

	go l.run(m.dialer, addr, m.post)
}

// Close requests termination of the current connection. Queued intents are discarded.
func (m *Manager) Close() {
	if m.link == nil {
		return
	}
	m.link.close()
	m.queue.Clear()
	m.setState(StateClosed)
}

// Dispatch sends the intent now, queues it, or drops it, depending on the state.
func (m *Manager) Dispatch(in proto.Intent) {
	if m.link == nil {
		m.log.Error().Str("type", string(in.Type)).Msg(MsgDispatchNoConn)
		return
	}
	switch m.state {
	case StateConnecting:
		m.queue.Enqueue(in)
	case StateOpen:
		m.transmit(in)
	default:
		m.log.Error().Str("type", string(in.Type)).Str("state", m.state.String()).Msg(MsgDispatchClosing)
	}
}

// HandleEvent applies one connection event. Events from a connection that is
// no longer current are ignored.
func (m *Manager) HandleEvent(ev Event) {
	if ev.link == nil || ev.link != m.link {
		m.log.Debug().Str("event", ev.Kind.String()).Msg(MsgStaleEvent)
		return
	}
	switch ev.Kind {
	case EventOpen:
		m.handleOpen()
	case EventMessage:
		m.handleMessage(ev.Data)
	case EventClose:
		m.handleClose(ev.Reason)
	case EventError:
		m.handleError(ev.Err)
	}
}

func (m *Manager) handleOpen() {
	if m.state != StateConnecting {
		// Close was requested while dialing; the close event follows.
		return
	}
	m.setState(StateOpen)
	m.log.Info().Str("conn_id", m.link.id).Int("queued", m.queue.Len()).Msg(MsgConnectionOpened)
	for _, in := range m.queue.DrainInOrder() {
		m.transmit(in)
	}
	m.queue.Clear()
}

func (m *Manager) handleMessage(data []byte) {
	push := proto.Decode(data)
	if push.Empty() {
		m.log.Debug().Int("bytes", len(data)).Msg(MsgMalformedPush)
		return
	}
	if push.Error != "" {
		m.log.Info().Str("error", push.Error).Msg(MsgServerNotice)
	}
	if push.GameState != nil {
		m.listener.OnGameView(push.GameState)
	}
}

func (m *Manager) handleClose(reason string) {
	m.log.Info().Str("conn_id", m.link.id).Str("reason", reason).Msg(MsgConnectionClosed)
	if reason != "" {
		m.listener.OnJoinError(reason)
	}
	m.teardown()
}

func (m *Manager) handleError(err error) {
	m.log.Warn().Err(err).Str("conn_id", m.link.id).Msg(MsgConnectionFailed)
	m.teardown()
}

func (m *Manager) teardown() {
	m.link = nil
	m.queue.Clear()
	m.listener.OnReset()
	m.setState(StateClosed)
	m.setState(StateIdle)
}

func (m *Manager) transmit(in proto.Intent) {
	if !m.link.send(proto.Encode(in)) {
		m.log.Error().Str("type", string(in.Type)).Msg(MsgDispatchNotSent)
		return
	}
	m.log.Debug().Str("type", string(in.Type)).Int64("state_id", in.StateID).Msg("intent sent")
}

func (m *Manager) setState(s ConnectionState) {
	if m.state == s {
		return
	}
	m.state = s
	m.listener.OnStateChange(s)
}
