package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/zack5769/saferide/internal/lib/navigation"
)

const (
	writeWait     = 10 * time.Second
	outboundQueue = 64
)

// StreamMessage is one frame sent to a navigation client
type StreamMessage struct {
	Type  string            `json:"type"` // plan, state or error
	Plan  *RouteResponse    `json:"plan,omitempty"`
	State *navigation.State `json:"state,omitempty"`
	Error string            `json:"error,omitempty"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{CheckOrigin: s.checkOrigin}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// navigateHandler streams one simulator state per tick over a WebSocket.
// Text frames "start", "stop" and "resume" drive the simulator.
func (s *Server) navigateHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	plan, ok := s.plan(w, r, ps)
	if !ok {
		return
	}

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	st := newStream(outboundQueue)

	session, err := s.navigation.NewSession(plan, navigation.WithListener(func(state navigation.State) {
		st.send(StreamMessage{Type: "state", State: &state})
	}))
	if err != nil {
		s.logger.Error("failed to create navigation session", zap.Error(err))
		_ = conn.WriteJSON(StreamMessage{Type: "error", Error: "internal server error"})
		return
	}
	defer session.Close()
	// Runs before session.Close so a listener blocked on the queue is released
	defer st.close()

	logger := s.logger.With(zap.String("session", session.ID))
	go func() {
		st.pump(func(msg StreamMessage) error {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug("write failed", zap.Error(err))
				return err
			}
			return nil
		}, func() {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
		})
		// Unblocks ReadMessage when the writer gave up first
		conn.Close()
	}()

	st.send(StreamMessage{Type: "plan", Plan: newRouteResponse(plan)})
	st.send(StreamMessage{Type: "state", State: ptr(session.Simulator.State())})

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("navigation stream closed", zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		if err := runCommand(r.Context(), session.Simulator, string(data)); err != nil {
			logger.Debug("command rejected", zap.String("command", string(data)), zap.Error(err))
			st.trySend(StreamMessage{Type: "error", Error: err.Error()})
		}
	}
}

// stream is the outbound frame queue of one navigation connection
type stream struct {
	out        chan StreamMessage
	closed     chan struct{}
	writerDone chan struct{}
}

func newStream(queue int) *stream {
	return &stream{
		out:        make(chan StreamMessage, queue),
		closed:     make(chan struct{}),
		writerDone: make(chan struct{}),
	}
}

// send queues msg, blocking while the queue is full. It reports false once
// the stream is closed or the writer has stopped.
func (st *stream) send(msg StreamMessage) bool {
	select {
	case st.out <- msg:
		return true
	case <-st.closed:
		return false
	case <-st.writerDone:
		return false
	}
}

// trySend queues msg only if there is room
func (st *stream) trySend(msg StreamMessage) bool {
	select {
	case st.out <- msg:
		return true
	default:
		return false
	}
}

func (st *stream) close() {
	close(st.closed)
}

// pump writes queued frames until a write fails or the stream is closed.
// finish runs only on a clean close.
func (st *stream) pump(write func(StreamMessage) error, finish func()) {
	defer close(st.writerDone)
	for {
		select {
		case msg := <-st.out:
			if err := write(msg); err != nil {
				return
			}
		case <-st.closed:
			finish()
			return
		}
	}
}

var errUnknownCommand = errors.New("unknown command")

func runCommand(ctx context.Context, sim *navigation.Simulator, command string) error {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "start":
		return sim.Start(context.WithoutCancel(ctx))
	case "stop":
		sim.Stop()
		return nil
	case "resume":
		return sim.Resume(context.WithoutCancel(ctx))
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, command)
	}
}

func ptr[T any](v T) *T {
	return &v
}
