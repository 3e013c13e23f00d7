package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	store, err := memory.NewFromDefinitions(
		&domain.Definition{
			Name:         "flip",
			States:       []domain.State{"q"},
			Symbols:      []domain.Symbol{"0", "1", "_"},
			Blank:        "_",
			InputSymbols: []domain.Symbol{"0", "1"},
			Initial:      "q",
			Accepting:    []domain.State{"q"},
			Transitions: []domain.Transition{
				{From: "q", Read: "0", To: "q", Write: "1", Move: domain.Right},
				{From: "q", Read: "1", To: "q", Write: "0", Move: domain.Right},
			},
		},
		&domain.Definition{
			Name:    "ping-pong",
			Blank:   "_",
			Initial: "right",
			Transitions: []domain.Transition{
				{From: "right", Read: "_", To: "left", Write: "_", Move: domain.Right},
				{From: "left", Read: "_", To: "right", Write: "_", Move: domain.Left},
			},
		},
	)
	require.NoError(t, err)
	return NewServer(store, opts...)
}

func TestHandleList(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleList(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"flip", "ping-pong"}, res.Machines)
}

func TestHandleDescribe(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleDescribe(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"machine": "flip"})
	require.NoError(t, err)
	assert.Equal(t, "flip", res.Definition.Name)
	assert.Contains(t, res.Summary, "# flip")
	assert.Contains(t, res.Mermaid, "graph LR")

	_, err = s.handleDescribe(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"machine": "nope"})
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
}

func TestHandleSimulate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleSimulate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"machine": "flip",
		"input":   "1100",
	})
	require.NoError(t, err)
	assert.Equal(t, SimulateResponse{
		Machine:  "flip",
		Accepted: true,
		Steps:    4,
		State:    "q",
		Head:     4,
		Tape:     "0011",
	}, res)

	t.Run("Trace", func(t *testing.T) {
		res, err := s.handleSimulate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"machine": "flip",
			"input":   "10",
			"trace":   true,
			"window":  float64(0),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"... 1 ... State=q\n    ^",
			"... 0 ... State=q\n    ^",
			"... _ ... State=q\n    ^",
		}, res.Frames)
	})

	t.Run("Invalid Input", func(t *testing.T) {
		_, err := s.handleSimulate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"machine": "flip",
			"input":   "12",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInputSymbol)
	})

	t.Run("Step Limit", func(t *testing.T) {
		_, err := s.handleSimulate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"machine":   "ping-pong",
			"max_steps": float64(50),
		})
		assert.ErrorIs(t, err, runner.ErrStepLimit)
		assert.Contains(t, err.Error(), "more than 50 steps")
	})

	t.Run("Default Step Limit", func(t *testing.T) {
		s := newTestServer(t, WithMaxSteps(7))
		_, err := s.handleSimulate(ctx, mcp.CallToolRequest{}, map[string]interface{}{"machine": "ping-pong"})
		assert.ErrorIs(t, err, runner.ErrStepLimit)
		assert.Contains(t, err.Error(), "more than 7 steps")
	})
}

func TestReadMachine(t *testing.T) {
	s := newTestServer(t)

	var req mcp.ReadResourceRequest
	req.Params.URI = MachineURIPrefix + "flip"
	contents, err := s.readMachine(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)

	var def domain.Definition
	require.NoError(t, json.Unmarshal([]byte(text.Text), &def))
	assert.Equal(t, "flip", def.Name)
	assert.Len(t, def.Transitions, 2)

	req.Params.URI = MachineURIPrefix + "missing"
	_, err = s.readMachine(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)

	req.Params.URI = "file:///etc/passwd"
	_, err = s.readMachine(context.Background(), req)
	assert.Error(t, err)
}
