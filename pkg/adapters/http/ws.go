package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/turing/internal/presentation/tape"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum command size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSCommand is a frame sent by a websocket client.
// Action is "step", "run" (bounded by MaxSteps, or the server limit when unset) or "view".
type WSCommand struct {
	Action   string `json:"action"`
	MaxSteps int    `json:"max_steps,omitempty"`
}

// WSMessage is a frame sent to a websocket client.
// Event is "diff" for every change of the run, "view" in reply to a view
// command and "error" when a command failed.
type WSMessage struct {
	Event string          `json:"event"`
	RunID string          `json:"run_id"`
	Diff  json.RawMessage `json:"diff,omitempty"`
	Run   any             `json:"run,omitempty"`
	Error string          `json:"error,omitempty"`
}

type wsClient struct {
	conn       *websocket.Conn
	runID      string
	replies    chan WSMessage
	quit       chan struct{} // closed by the read pump
	writerDone chan struct{} // closed by the write pump
}

// ServeWS handles the GET /runs/{id}/ws request.
// The client drives the run with WSCommand frames and receives every change as a diff.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Manager.Snapshot(r.Context(), id); err != nil {
		s.fail(w, r, err, nil)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		s.Logger.Warn("WebSocket upgrade failed", "run_id", id, "err", err)
		return
	}

	diffs, unsubscribe := s.Streams.Subscribe(id)
	defer unsubscribe()

	c := &wsClient{
		conn:       conn,
		runID:      id,
		replies:    make(chan WSMessage, 16),
		quit:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	go s.writePump(c, diffs)
	s.readPump(r.Context(), c)
}

// readPump executes the commands of the client until the connection fails.
func (s *Server) readPump(ctx context.Context, c *wsClient) {
	defer close(c.quit)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var cmd WSCommand
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.Logger.Warn("WebSocket read failed", "run_id", c.runID, "err", err)
			}
			return
		}

		reply, ok := s.execute(ctx, c.runID, cmd)
		if !ok {
			continue
		}
		select {
		case c.replies <- reply:
		case <-c.writerDone:
			return
		}
	}
}

// execute runs one command. Successful step and run commands reply through the diff stream only.
func (s *Server) execute(ctx context.Context, id string, cmd WSCommand) (WSMessage, bool) {
	var err error
	switch cmd.Action {
	case "step":
		_, err = s.Manager.Step(ctx, id)
	case "run":
		_, err = s.Manager.RunToHalt(ctx, id, s.stepLimit(cmd.MaxSteps))
	case "view":
		view, verr := s.Manager.View(ctx, id, tape.DefaultRadius)
		if verr == nil {
			return WSMessage{Event: "view", RunID: id, Run: view}, true
		}
		err = verr
	default:
		err = fmt.Errorf("unknown action %q", cmd.Action)
	}
	if err == nil {
		return WSMessage{}, false
	}
	s.Logger.Warn("WebSocket command rejected", "run_id", id, "action", cmd.Action, "err", err)
	return WSMessage{Event: "error", RunID: id, Error: err.Error()}, true
}

// writePump is the only writer of the connection.
func (s *Server) writePump(c *wsClient, diffs <-chan string) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.writerDone)
	}()

	write := func(msg WSMessage) error {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		return c.conn.WriteJSON(msg)
	}

	for {
		select {
		case <-c.quit:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case diff, ok := <-diffs:
			if !ok {
				return
			}
			if err := write(WSMessage{Event: "diff", RunID: c.runID, Diff: json.RawMessage(diff)}); err != nil {
				return
			}
		case reply := <-c.replies:
			if err := write(reply); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
