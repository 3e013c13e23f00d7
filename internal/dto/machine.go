package dto

// MachineMetadata represents a machine file (YAML or JSON) before compilation.
// It uses "mapstructure" tags so the same struct decodes both formats.
type MachineMetadata struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`

	States       []string `json:"states" mapstructure:"states"`
	Symbols      []string `json:"symbols" mapstructure:"symbols"`
	Blank        string   `json:"blank" mapstructure:"blank"`
	InputSymbols []string `json:"input_symbols" mapstructure:"input_symbols"`

	Initial   string   `json:"initial" mapstructure:"initial"`
	Accepting []string `json:"accepting" mapstructure:"accepting"`

	Transitions []LoaderTransition `json:"transitions" mapstructure:"transitions"`
}

// LoaderTransition accepts both the short keys (from, read, to, write, move)
// and the long aliases (state, symbol, next, direction).
type LoaderTransition struct {
	From      string `json:"from" mapstructure:"from"`
	State     string `json:"state" mapstructure:"state"`
	Read      string `json:"read" mapstructure:"read"`
	Symbol    string `json:"symbol" mapstructure:"symbol"`
	To        string `json:"to" mapstructure:"to"`
	Next      string `json:"next" mapstructure:"next"`
	Write     string `json:"write" mapstructure:"write"`
	Move      string `json:"move" mapstructure:"move"`
	Direction string `json:"direction" mapstructure:"direction"`
}

// Resolved returns the transition with the aliases folded into the short keys.
func (t LoaderTransition) Resolved() LoaderTransition {
	if t.From == "" {
		t.From = t.State
	}
	if t.Read == "" {
		t.Read = t.Symbol
	}
	if t.To == "" {
		t.To = t.Next
	}
	if t.Move == "" {
		t.Move = t.Direction
	}
	t.State, t.Symbol, t.Next, t.Direction = "", "", "", ""
	return t
}

