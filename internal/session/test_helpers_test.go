package session

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/ichi/internal/proto"
)

type logEntry struct {
	level zerolog.Level
	msg   string
}

// logRecorder is a zerolog hook that keeps every entry for assertions.
type logRecorder struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *logRecorder) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level: level, msg: msg})
}

func (r *logRecorder) count(level zerolog.Level, msg string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.level == level && e.msg == msg {
			n++
		}
	}
	return n
}

func newTestLogger() (*zerolog.Logger, *logRecorder) {
	rec := &logRecorder{}
	logger := zerolog.New(io.Discard).Level(zerolog.DebugLevel).Hook(rec)
	return &logger, rec
}

type readResult struct {
	data []byte
	err  error
}

// fakeConn is an in-memory Conn driven by the test.
type fakeConn struct {
	reads     chan readResult
	writes    chan []byte
	closed    chan struct{}
	closeOnce sync.Once
	writeErr  error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		reads:  make(chan readResult, 16),
		writes: make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case r := <-c.reads:
		return r.data, r.err
	case <-c.closed:
		return nil, &CloseError{Code: 1000}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *fakeConn) Write(ctx context.Context, data []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	select {
	case c.writes <- data:
		return nil
	case <-c.closed:
		return io.ErrClosedPipe
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// push delivers a server frame.
func (c *fakeConn) push(t *testing.T, p proto.Push) {
	t.Helper()
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal push: %v", err)
	}
	c.reads <- readResult{data: data}
}

// serverClose simulates the server closing the channel with a reason.
func (c *fakeConn) serverClose(reason string) {
	c.reads <- readResult{err: &CloseError{Code: 4000, Reason: reason}}
}

// fail simulates a transport failure.
func (c *fakeConn) fail() {
	c.reads <- readResult{err: io.ErrUnexpectedEOF}
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// mustWrite returns the next frame the client sent.
func (c *fakeConn) mustWrite(t *testing.T) proto.Intent {
	t.Helper()
	select {
	case data := <-c.writes:
		in, err := proto.DecodeIntent(data)
		if err != nil {
			t.Fatalf("client sent invalid frame %s: %v", data, err)
		}
		return in
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a frame from the client")
		return proto.Intent{}
	}
}

func (c *fakeConn) assertNoWrite(t *testing.T) {
	t.Helper()
	select {
	case data := <-c.writes:
		t.Fatalf("unexpected frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

// fakeDialer holds every dial until the test allows it to complete.
type fakeDialer struct {
	mu    sync.Mutex
	gate  chan error
	conns chan *fakeConn
	addrs []string

	// set before the dial is released
	writeErr     error
	ignoreCancel bool
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{
		gate:  make(chan error, 4),
		conns: make(chan *fakeConn, 4),
	}
}

func (d *fakeDialer) Dial(ctx context.Context, addr string) (Conn, error) {
	d.mu.Lock()
	d.addrs = append(d.addrs, addr)
	d.mu.Unlock()

	done := ctx.Done()
	if d.ignoreCancel {
		done = nil
	}
	select {
	case err := <-d.gate:
		if err != nil {
			return nil, err
		}
	case <-done:
		return nil, ctx.Err()
	}
	conn := newFakeConn()
	conn.writeErr = d.writeErr
	d.conns <- conn
	return conn, nil
}

func (d *fakeDialer) dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.addrs)
}

// accept lets one pending dial succeed and returns its connection.
func (d *fakeDialer) accept(t *testing.T) *fakeConn {
	t.Helper()
	d.gate <- nil
	select {
	case c := <-d.conns:
		return c
	case <-time.After(2 * time.Second):
		t.Fatalf("dial did not complete")
		return nil
	}
}

// refuse makes one pending dial fail.
func (d *fakeDialer) refuse(err error) {
	d.gate <- err
}

func viewJSON(id int64, code string) *proto.GameView {
	raw, _ := json.Marshal(map[string]any{"id": id, "gameCode": code})
	return &proto.GameView{ID: id, GameCode: code, Raw: raw}
}
