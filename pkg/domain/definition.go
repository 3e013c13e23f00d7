package domain

import "slices"

// Definition is the static configuration of a machine.
type Definition struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	States  []State  `json:"states" yaml:"states"`
	Symbols []Symbol `json:"symbols" yaml:"symbols"`
	Blank   Symbol   `json:"blank" yaml:"blank"`

	// InputSymbols is the alphabet accepted by Initialize. Empty means unrestricted.
	InputSymbols []Symbol `json:"input_symbols" yaml:"input_symbols"`

	Initial   State   `json:"initial" yaml:"initial"`
	Accepting []State `json:"accepting" yaml:"accepting"`

	Transitions []Transition `json:"transitions" yaml:"transitions"`
}

// IsAccepting reports whether s is an accepting state.
func (d *Definition) IsAccepting(s State) bool {
	return slices.Contains(d.Accepting, s)
}

// IsInputSymbol reports whether s belongs to the input alphabet.
func (d *Definition) IsInputSymbol(s Symbol) bool {
	return slices.Contains(d.InputSymbols, s)
}

// HasState reports whether s is a declared state.
func (d *Definition) HasState(s State) bool {
	return slices.Contains(d.States, s)
}

// HasSymbol reports whether s is a declared tape symbol.
func (d *Definition) HasSymbol(s Symbol) bool {
	return slices.Contains(d.Symbols, s)
}

// Clone returns a deep copy, so a compiled program never aliases caller slices.
func (d *Definition) Clone() *Definition {
	c := *d
	c.States = slices.Clone(d.States)
	c.Symbols = slices.Clone(d.Symbols)
	c.InputSymbols = slices.Clone(d.InputSymbols)
	c.Accepting = slices.Clone(d.Accepting)
	c.Transitions = slices.Clone(d.Transitions)
	return &c
}
