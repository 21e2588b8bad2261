package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// link is one connection attempt. Its goroutines only report events; all
// decisions are taken by the session loop that owns the Manager.
type link struct {
	id     string
	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger

	mu      sync.Mutex
	conn    Conn
	outbox  [][]byte
	closing bool
	once    sync.Once
}

func newLink(logger *zerolog.Logger) *link {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	return &link{
		id:     id,
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		log:    logger.With().Str("conn_id", id).Logger(),
	}
}

// run dials, then pumps frames until the channel ends. Exactly one terminal
// event (close or error) is posted.
func (l *link) run(dialer Dialer, addr string, post func(Event)) {
	conn, err := dialer.Dial(l.ctx, addr)
	if err != nil {
		if l.isClosing() {
			post(Event{Kind: EventClose, link: l})
		} else {
			post(Event{Kind: EventError, Err: err, link: l})
		}
		l.cancel()
		return
	}

	l.mu.Lock()
	if l.closing {
		l.mu.Unlock()
		_ = conn.Close()
		l.cancel()
		post(Event{Kind: EventClose, link: l})
		return
	}
	l.conn = conn
	l.mu.Unlock()

	go l.writeLoop(conn)
	post(Event{Kind: EventOpen, link: l})
	l.readLoop(conn, post)
}

func (l *link) readLoop(conn Conn, post func(Event)) {
	defer l.cancel()
	for {
		data, err := conn.Read(l.ctx)
		if err != nil {
			var ce *CloseError
			switch {
			case errors.As(err, &ce):
				post(Event{Kind: EventClose, Reason: ce.Reason, link: l})
			case l.isClosing():
				post(Event{Kind: EventClose, link: l})
			default:
				l.log.Warn().Err(err).Msg("read game frame")
				post(Event{Kind: EventError, Err: err, link: l})
				_ = conn.Close()
			}
			return
		}
		post(Event{Kind: EventMessage, Data: data, link: l})
	}
}

func (l *link) writeLoop(conn Conn) {
	for {
		for data, ok := l.next(); ok; data, ok = l.next() {
			if err := conn.Write(l.ctx, data); err != nil {
				l.log.Error().Err(err).Msg("write game frame")
				l.cancel()
				_ = conn.Close()
				return
			}
		}
		select {
		case <-l.wake:
		case <-l.ctx.Done():
			return
		}
	}
}

// send appends a frame to the outbox without waiting for the writer.
// It reports false once the link has ended.
func (l *link) send(data []byte) bool {
	l.mu.Lock()
	if l.ctx.Err() != nil {
		l.mu.Unlock()
		return false
	}
	l.outbox = append(l.outbox, data)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

func (l *link) next() ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.outbox) == 0 {
		return nil, false
	}
	data := l.outbox[0]
	l.outbox[0] = nil
	l.outbox = l.outbox[1:]
	return data, true
}

// close requests termination. The terminal event still arrives through run.
func (l *link) close() {
	l.once.Do(func() {
		l.mu.Lock()
		l.closing = true
		conn := l.conn
		l.mu.Unlock()

		if conn == nil {
			l.cancel()
			return
		}
		go func() {
			_ = conn.Close()
		}()
	})
}

func (l *link) isClosing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closing
}
