package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/ichi/internal/core"
	"github.com/vovakirdan/ichi/internal/proto"
)

// MsgTooManyIntents is pushed when a connection exceeds its intent rate.
const MsgTooManyIntents = "Too many requests"

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub       *core.Hub
	rateLimit int
	log       *zerolog.Logger
}

// sessionClosed carries the reason the hub rejected a session.
type sessionClosed struct {
	reason string
}

func (e *sessionClosed) Error() string {
	return "session closed: " + e.reason
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, rateLimit int, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, rateLimit: rateLimit, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString())
	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)

	logger := h.log.With().Str("client_id", client.ID).Logger()
	logger.Debug().Str("remote", r.RemoteAddr).Msg("ws connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	limiter := newRateLimiter(h.rateLimit)
	limiter.startReset(ctx.Done())

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, limiter, &logger)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client, &logger)
	}()

	err = <-errCh

	// A rejected session is closed with its reason before the reader is cancelled,
	// so the reason is what the client sees.
	var rejected *sessionClosed
	if errors.As(err, &rejected) {
		logger.Debug().Str("reason", rejected.reason).Msg("session rejected")
		conn.Close(websocket.StatusPolicyViolation, rejected.reason)
		cancel()
		<-errCh
		return
	}

	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			status = websocket.StatusInternalError
			logger.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, "")
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, limiter *rateLimiter, logger *zerolog.Logger) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			logger.Debug().Err(err).Msg("read ws intent")
			return err
		}
		if typ != websocket.MessageText {
			continue
		}

		in, err := proto.DecodeIntent(data)
		if err != nil {
			logger.Debug().Err(err).Msg("failed to decode intent")
			if writeErr := wsjson.Write(ctx, conn, proto.Push{Error: "Malformed request"}); writeErr != nil {
				return writeErr
			}
			continue
		}
		if !limiter.allow() {
			if writeErr := wsjson.Write(ctx, conn, proto.Push{Error: MsgTooManyIntents}); writeErr != nil {
				return writeErr
			}
			continue
		}

		if cmd := intentToCommand(client, in); cmd != nil {
			if err := h.hub.Submit(ctx, cmd); err != nil {
				return err
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, logger *zerolog.Logger) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if event.Kind == core.EventClose {
				return &sessionClosed{reason: event.Error.Message}
			}
			push, err := pushFromEvent(event)
			if err != nil {
				logger.Error().Err(err).Msg("map event")
				continue
			}
			if err := wsjson.Write(ctx, conn, push); err != nil {
				logger.Error().Err(err).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
