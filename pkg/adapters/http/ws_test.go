package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	turinghttp "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialRun(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/runs/" + id + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) turinghttp.WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg turinghttp.WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestServeWS(t *testing.T) {
	h := newHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	run := startRun(t, h, "flip", "10")
	conn := dialRun(t, srv, run.ID)

	require.NoError(t, conn.WriteJSON(turinghttp.WSCommand{Action: "step"}))
	msg := readMessage(t, conn)
	assert.Equal(t, "diff", msg.Event)
	assert.Equal(t, run.ID, msg.RunID)

	var diff domain.SnapshotDiff
	require.NoError(t, json.Unmarshal(msg.Diff, &diff))
	require.NotNil(t, diff.Head)
	assert.Equal(t, 1, *diff.Head)
	assert.Equal(t, map[int]domain.Symbol{0: "0"}, diff.Cells)

	require.NoError(t, conn.WriteJSON(turinghttp.WSCommand{Action: "run"}))
	msg = readMessage(t, conn)
	require.NoError(t, json.Unmarshal(msg.Diff, &diff))
	require.NotNil(t, diff.Status)
	assert.Equal(t, domain.StatusHalted, *diff.Status)

	require.NoError(t, conn.WriteJSON(turinghttp.WSCommand{Action: "step"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "error", msg.Event)
	assert.Contains(t, msg.Error, "cannot step a halted machine")

	require.NoError(t, conn.WriteJSON(turinghttp.WSCommand{Action: "view"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "view", msg.Event)
	view, ok := msg.Run.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "01", view["tape"])

	require.NoError(t, conn.WriteJSON(turinghttp.WSCommand{Action: "jump"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "error", msg.Event)
	assert.Contains(t, msg.Error, `unknown action "jump"`)
}

func TestServeWS_RunStepLimit(t *testing.T) {
	h := newHandler(t, turinghttp.WithMaxSteps(40))
	srv := httptest.NewServer(h)
	defer srv.Close()

	run := startRun(t, h, "ping-pong", "")
	conn := dialRun(t, srv, run.ID)

	require.NoError(t, conn.WriteJSON(turinghttp.WSCommand{Action: "run"}))

	// The diff and the error reply may arrive in either order.
	events := map[string]turinghttp.WSMessage{}
	for range 2 {
		msg := readMessage(t, conn)
		events[msg.Event] = msg
	}
	require.Contains(t, events, "error")
	assert.Contains(t, events["error"].Error, "more than 40 steps")
	require.Contains(t, events, "diff")

	var diff domain.SnapshotDiff
	require.NoError(t, json.Unmarshal(events["diff"].Diff, &diff))
	// 41 transitions leave ping-pong on the right cell.
	require.NotNil(t, diff.Head)
	assert.Equal(t, 1, *diff.Head)
	require.NotNil(t, diff.State)
	assert.Equal(t, domain.State("left"), *diff.State)

	conn.Close()
	done := make(chan int, 1)
	go func() { done <- do(t, h, "GET", "/runs/"+run.ID, "").Code }()
	select {
	case code := <-done:
		assert.Equal(t, http.StatusOK, code)
	case <-time.After(5 * time.Second):
		t.Fatal("run stayed locked after the client left")
	}
}

func TestServeWS_UnknownRun(t *testing.T) {
	srv := httptest.NewServer(newHandler(t))
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/runs/nope/ws", nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
