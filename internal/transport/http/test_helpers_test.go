package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/ichi/internal/auth"
	"github.com/vovakirdan/ichi/internal/config"
	"github.com/vovakirdan/ichi/internal/core"
	"github.com/vovakirdan/ichi/internal/proto"
	"github.com/vovakirdan/ichi/internal/store/sqlite"
)

// startTestServer runs a hub and the full handler over an in-memory store.
func startTestServer(t *testing.T, rateLimit int) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", sqlite.Migrate)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()
	authService := auth.NewService(st, st)
	hub := core.NewHub(core.Options{Recorder: authService, Seed: 1}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := config.Default().Server
	cfg.IntentRateLimit = rateLimit
	ts := httptest.NewServer(NewServer(hub, authService, cfg, &logger).Handler)
	t.Cleanup(ts.Close)

	return ts
}

func wsURL(ts *httptest.Server) string {
	return strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, in proto.Intent) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, proto.Encode(in)); err != nil {
		t.Fatalf("write intent: %v", err)
	}
}

func readPush(t *testing.T, conn *websocket.Conn) proto.Push {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read push: %v", err)
	}
	push, err := proto.DecodeStrict(data)
	if err != nil {
		t.Fatalf("decode push %s: %v", data, err)
	}
	return push
}

// waitUntil polls cond until it holds or the deadline passes.
func waitUntil(t *testing.T, cond func() bool, what string) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
