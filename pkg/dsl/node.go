package dsl

import "github.com/aretw0/turing/pkg/domain"

// StateBuilder provides a fluent API for the rules leaving one state.
type StateBuilder struct {
	name      domain.State
	accepting bool
	builder   *Builder
}

// Accepting marks the state as accepting.
func (s *StateBuilder) Accepting() *StateBuilder {
	s.accepting = true
	return s
}

// On starts the rule applied when the head reads symbol in this state.
// The rule writes the symbol back unless Write is called.
func (s *StateBuilder) On(symbol domain.Symbol) *RuleBuilder {
	r := &RuleBuilder{state: s, from: s.name, read: symbol, write: symbol}
	s.builder.rules = append(s.builder.rules, r)
	return r
}

// RuleBuilder configures one transition. It is completed by Left, Right or Move.
type RuleBuilder struct {
	state *StateBuilder
	from  domain.State
	read  domain.Symbol
	write domain.Symbol
	to    domain.State
	move  domain.Direction
	done  bool
}

// Write sets the symbol written over the one read.
func (r *RuleBuilder) Write(symbol domain.Symbol) *RuleBuilder {
	r.write = symbol
	return r
}

// Left moves the head left and enters target.
func (r *RuleBuilder) Left(target domain.State) *StateBuilder {
	return r.Move(domain.Left, target)
}

// Right moves the head right and enters target.
func (r *RuleBuilder) Right(target domain.State) *StateBuilder {
	return r.Move(domain.Right, target)
}

// Move completes the rule and returns the source state for further rules.
func (r *RuleBuilder) Move(d domain.Direction, target domain.State) *StateBuilder {
	r.move = d
	r.to = target
	r.done = true
	r.state.builder.State(target)
	return r.state
}

func (r *RuleBuilder) transition() domain.Transition {
	return domain.Transition{From: r.from, Read: r.read, To: r.to, Write: r.write, Move: r.move}
}
