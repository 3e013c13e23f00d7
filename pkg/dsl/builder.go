package dsl

import (
	"fmt"
	"slices"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
)

// Builder manages the construction of a machine definition.
type Builder struct {
	def    domain.Definition
	states map[domain.State]*StateBuilder
	order  []domain.State
	rules  []*RuleBuilder
}

// New creates a new builder for the named machine.
func New(name string) *Builder {
	return &Builder{
		def:    domain.Definition{Name: name},
		states: make(map[domain.State]*StateBuilder),
	}
}

// Describe sets the free-form description.
func (b *Builder) Describe(text string) *Builder {
	b.def.Description = text
	return b
}

// Blank sets the blank symbol.
func (b *Builder) Blank(s domain.Symbol) *Builder {
	b.def.Blank = s
	return b
}

// Input declares the input alphabet.
func (b *Builder) Input(symbols ...domain.Symbol) *Builder {
	b.def.InputSymbols = append(b.def.InputSymbols, symbols...)
	return b
}

// Symbols declares tape symbols that no rule mentions.
func (b *Builder) Symbols(symbols ...domain.Symbol) *Builder {
	b.def.Symbols = append(b.def.Symbols, symbols...)
	return b
}

// Initial sets the initial state. It defaults to the first state added.
func (b *Builder) Initial(s domain.State) *Builder {
	b.def.Initial = s
	b.State(s)
	return b
}

// State returns the builder of the named state, creating it on first use.
func (b *Builder) State(name domain.State) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{name: name, builder: b}
	b.states[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Build returns the definition. States and symbols are declared in order of
// first appearance, so the result passes strict validation.
func (b *Builder) Build() (*domain.Definition, error) {
	if b.def.Blank == "" {
		return nil, fmt.Errorf("%w: blank symbol is not set", domain.ErrInvalidDefinition)
	}
	if len(b.order) == 0 {
		return nil, fmt.Errorf("%w: no states", domain.ErrInvalidDefinition)
	}

	def := b.def.Clone()
	if def.Initial == "" {
		def.Initial = b.order[0]
	}

	seen := make(map[domain.Key]int, len(b.rules))
	def.Transitions = make([]domain.Transition, 0, len(b.rules))
	for i, r := range b.rules {
		if !r.done {
			return nil, fmt.Errorf("%w: rule %s %s has no move", domain.ErrInvalidDefinition, r.from, r.read)
		}
		t := r.transition()
		if j, dup := seen[t.Key()]; dup {
			return nil, fmt.Errorf("rule #%d duplicates rule #%d (%s %s): %w", i, j, t.From, t.Read, domain.ErrDuplicateTransition)
		}
		seen[t.Key()] = i
		def.Transitions = append(def.Transitions, t)
	}

	def.States = slices.Clone(b.order)
	def.Accepting = nil
	for _, s := range b.order {
		if b.states[s].accepting {
			def.Accepting = append(def.Accepting, s)
		}
	}

	addSymbol := func(s domain.Symbol) {
		if !slices.Contains(def.Symbols, s) {
			def.Symbols = append(def.Symbols, s)
		}
	}
	declared := def.Symbols
	def.Symbols = nil
	for _, s := range declared {
		addSymbol(s)
	}
	for _, s := range def.InputSymbols {
		addSymbol(s)
	}
	addSymbol(def.Blank)
	for _, t := range def.Transitions {
		addSymbol(t.Read)
		addSymbol(t.Write)
	}

	return def, nil
}

// BuildStore builds the definition and serves it from a memory store.
func (b *Builder) BuildStore() (*memory.Store, error) {
	def, err := b.Build()
	if err != nil {
		return nil, err
	}
	store, err := memory.NewFromDefinitions(def)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory store: %w", err)
	}
	return store, nil
}
