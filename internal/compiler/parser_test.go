package compiler_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const incrementYAML = `
name: binary-increment
description: Adds one to a binary number.
states: [s, a, b, c, H]
symbols: [0, 1, "#"]
blank: "#"
input_symbols: [0, 1]
initial: s
accepting: [H]
transitions:
  - {from: s, read: 0, to: s, write: 0, move: R}
  - {from: s, read: 1, to: s, write: 1, move: right}
  - {state: s, symbol: "#", next: a, write: "#", direction: L}
  - "a 0 -> b 1 R"
  - "a 1 -> c 0 L"
  - "b 0 -> b 0 R"
  - "b 1 -> b 1 R"
  - "b # -> H # R"
  - "c 0 -> b 1 R"
  - "c 1 -> c 0 L"
  - {from: c, read: "#", to: b, write: 1, move: -1}
`

func TestParser_YAML(t *testing.T) {
	def, err := compiler.NewParser().Parse([]byte(incrementYAML))
	require.NoError(t, err)

	assert.Equal(t, "binary-increment", def.Name)
	assert.Equal(t, "Adds one to a binary number.", def.Description)
	assert.Equal(t, []domain.State{"s", "a", "b", "c", "H"}, def.States)
	assert.Equal(t, []domain.Symbol{"0", "1", "#"}, def.Symbols, "unquoted digits become symbols")
	assert.Equal(t, domain.Symbol("#"), def.Blank)
	assert.Equal(t, []domain.Symbol{"0", "1"}, def.InputSymbols)
	assert.Equal(t, domain.State("s"), def.Initial)
	assert.Equal(t, []domain.State{"H"}, def.Accepting)
	require.Len(t, def.Transitions, 11)

	assert.Equal(t, domain.Transition{From: "s", Read: "0", To: "s", Write: "0", Move: domain.Right}, def.Transitions[0])
	assert.Equal(t, domain.Transition{From: "s", Read: "#", To: "a", Write: "#", Move: domain.Left}, def.Transitions[2], "long aliases")
	assert.Equal(t, domain.Transition{From: "a", Read: "1", To: "c", Write: "0", Move: domain.Left}, def.Transitions[4], "compact form")
	assert.Equal(t, domain.Transition{From: "c", Read: "#", To: "b", Write: "1", Move: domain.Left}, def.Transitions[10], "numeric direction")
}

func TestParser_JSON(t *testing.T) {
	data := `{
		"name": "flip",
		"states": ["q"],
		"symbols": ["0", "1", "_"],
		"blank": "_",
		"input_symbols": ["0", "1"],
		"initial": "q",
		"accepting": [],
		"transitions": [
			{"from": "q", "read": "0", "to": "q", "write": "1", "move": "R"},
			{"from": "q", "read": "1", "to": "q", "write": "0", "move": "R"}
		]
	}`
	def, err := compiler.NewParser().Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "flip", def.Name)
	assert.Len(t, def.Transitions, 2)
	assert.Empty(t, def.Accepting)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", "", "empty document"},
		{"not yaml", "states: [", "failed to parse machine"},
		{"unknown key", "name: x\ncolour: red\n", "colour"},
		{"bad compact", "transitions: [\"s 0 s 0 R\"]", "missing '->'"},
		{"short compact", "transitions: [\"s 0 -> s R\"]", "from read -> to write move"},
		{"bad direction", "transitions: [{from: s, read: 0, to: s, write: 0, move: up}]", "invalid direction"},
		{"missing field", "transitions: [{from: s, read: 0, write: 0, move: R}]", "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.NewParser().Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should contain %q", err, tt.want)
		})
	}
}

func TestParseCompact(t *testing.T) {
	tr, err := compiler.ParseCompact("  q0 _  ->  q1 x  L ")
	require.NoError(t, err)
	assert.Equal(t, "q0", tr.From)
	assert.Equal(t, "_", tr.Read)
	assert.Equal(t, "q1", tr.To)
	assert.Equal(t, "x", tr.Write)
	assert.Equal(t, "L", tr.Move)
}

func TestEncode_RoundTrip(t *testing.T) {
	parser := compiler.NewParser()
	def, err := parser.Parse([]byte(incrementYAML))
	require.NoError(t, err)

	yamlData, err := compiler.EncodeYAML(def)
	require.NoError(t, err)
	fromYAML, err := parser.Parse(yamlData)
	require.NoError(t, err, string(yamlData))
	assert.Equal(t, def, fromYAML)

	jsonData, err := compiler.EncodeJSON(def)
	require.NoError(t, err)
	fromJSON, err := parser.Parse(jsonData)
	require.NoError(t, err, string(jsonData))
	assert.Equal(t, def, fromJSON)
}

func TestEncodeYAML_WritesShortKeys(t *testing.T) {
	def, err := compiler.NewParser().Parse([]byte(`
name: flip
states: [q]
symbols: ["0", "1", _]
blank: _
initial: q
transitions:
  - {state: q, symbol: "0", next: q, write: "1", direction: right}
`))
	require.NoError(t, err)

	data, err := compiler.EncodeYAML(def)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "- from: q\n")
	assert.Contains(t, out, "move: R\n")
	for _, alias := range []string{"state:", "symbol:", "next:", "direction:"} {
		assert.NotContains(t, out, alias)
	}
}
