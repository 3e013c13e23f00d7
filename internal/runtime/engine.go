package runtime

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// Program is a compiled machine definition.
// It is immutable after Compile and may be shared by any number of machines.
type Program struct {
	def       *domain.Definition
	table     map[domain.Key]domain.Action
	accepting map[domain.State]struct{}
	inputs    map[domain.Symbol]struct{}

	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	strict     bool
	checkInput bool
}

// Compile builds the lookup table of def.
// The definition is copied; later changes to def do not affect the program.
func Compile(def *domain.Definition, opts ...Option) (*Program, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: nil definition", domain.ErrInvalidDefinition)
	}

	p := &Program{
		def:        def.Clone(),
		logger:     logging.NewNop(),
		checkInput: true,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.def.Initial == "" {
		return nil, fmt.Errorf("%w: initial state is empty", domain.ErrInvalidDefinition)
	}
	if p.def.Blank == "" {
		return nil, fmt.Errorf("%w: blank symbol is empty", domain.ErrInvalidDefinition)
	}

	if p.strict {
		if err := validator.ValidateDefinition(p.def).Err(); err != nil {
			return nil, err
		}
	}

	p.table = make(map[domain.Key]domain.Action, len(p.def.Transitions))
	for i, t := range p.def.Transitions {
		if !t.Move.Valid() {
			return nil, fmt.Errorf("transition #%d (%s %s): %w", i, t.From, t.Read, domain.ErrInvalidDirection)
		}
		if _, dup := p.table[t.Key()]; dup {
			return nil, fmt.Errorf("transition #%d (%s %s): %w", i, t.From, t.Read, domain.ErrDuplicateTransition)
		}
		p.table[t.Key()] = t.Action()
	}

	p.accepting = make(map[domain.State]struct{}, len(p.def.Accepting))
	for _, s := range p.def.Accepting {
		p.accepting[s] = struct{}{}
	}
	p.inputs = make(map[domain.Symbol]struct{}, len(p.def.InputSymbols))
	for _, s := range p.def.InputSymbols {
		p.inputs[s] = struct{}{}
	}

	if p.def.Name != "" {
		p.logger = p.logger.With("machine", p.def.Name)
	}
	return p, nil
}

// Name returns the definition name.
func (p *Program) Name() string {
	return p.def.Name
}

// Definition returns a copy of the compiled definition.
func (p *Program) Definition() *domain.Definition {
	return p.def.Clone()
}

// Lookup returns the action for (state, symbol), if any.
func (p *Program) Lookup(state domain.State, symbol domain.Symbol) (domain.Action, bool) {
	a, ok := p.table[domain.Key{State: state, Symbol: symbol}]
	return a, ok
}

// IsAccepting reports whether s is an accepting state.
func (p *Program) IsAccepting(s domain.State) bool {
	_, ok := p.accepting[s]
	return ok
}

// NewMachine creates a machine that has not been started.
func (p *Program) NewMachine() *Machine {
	return &Machine{
		program: p,
		tape:    tape.New(p.def.Blank, nil),
		status:  domain.StatusNotStarted,
	}
}

// Machine is one run of a Program: the tape, the head and the control state.
// A Machine is not safe for concurrent use.
type Machine struct {
	program *Program
	tape    *tape.Tape
	head    int
	state   domain.State
	status  domain.Status
	steps   int
}

// Initialize starts a run with symbols placed at positions 0..len(input)-1.
func (m *Machine) Initialize(input []domain.Symbol) error {
	cells := make(map[int]domain.Symbol, len(input))
	for i, s := range input {
		cells[i] = s
	}
	return m.InitializeCells(cells)
}

// InitializeCells starts a run whose tape holds exactly cells.
// On an invalid input symbol the previous run is left untouched.
func (m *Machine) InitializeCells(cells map[int]domain.Symbol) error {
	if err := m.program.checkCells(cells); err != nil {
		return err
	}

	m.tape = tape.New(m.program.def.Blank, cells)
	m.head = 0
	m.state = m.program.def.Initial
	m.status = domain.StatusRunning
	m.steps = 0

	m.program.logger.Debug("initialized", "state", m.state, "cells", len(cells))
	if h := m.program.hooks.OnInitialize; h != nil {
		h(&domain.InitializeEvent{Machine: m.program.def.Name, State: m.state, Cells: len(cells)})
	}
	return nil
}

func (p *Program) checkCells(cells map[int]domain.Symbol) error {
	if !p.checkInput || len(p.inputs) == 0 {
		return nil
	}
	var bad *domain.InvalidInputSymbolError
	for pos, s := range cells {
		if _, ok := p.inputs[s]; ok {
			continue
		}
		// Report the lowest offending position so the error is deterministic.
		if bad == nil || pos < bad.Position {
			bad = &domain.InvalidInputSymbolError{Position: pos, Symbol: s}
		}
	}
	if bad != nil {
		return bad
	}
	return nil
}

// Step applies one transition, or halts when none matches.
// It fails with domain.ErrAlreadyHalted, without side effects, unless the run is running.
func (m *Machine) Step() error {
	if m.status != domain.StatusRunning {
		return domain.ErrAlreadyHalted
	}

	read := m.tape.Read(m.head)
	action, ok := m.program.Lookup(m.state, read)
	if !ok {
		m.status = domain.StatusHalted
		accepted := m.program.IsAccepting(m.state)
		m.program.logger.Debug("halted", "state", m.state, "symbol", read, "head", m.head, "steps", m.steps, "accepted", accepted)
		if h := m.program.hooks.OnHalt; h != nil {
			h(&domain.HaltEvent{
				Machine:  m.program.def.Name,
				State:    m.state,
				Symbol:   read,
				Head:     m.head,
				Steps:    m.steps,
				Accepted: accepted,
			})
		}
		return nil
	}

	from := m.state
	m.tape.Write(m.head, action.Write)
	m.state = action.Next
	m.head += action.Move.Offset()
	m.steps++

	m.program.logger.Debug("step",
		"step", m.steps,
		"state", from,
		"symbol", read,
		"next", action.Next,
		"write", action.Write,
		"move", action.Move,
		"head", m.head,
	)
	if h := m.program.hooks.OnStep; h != nil {
		h(&domain.StepEvent{
			Machine: m.program.def.Name,
			Step:    m.steps,
			From:    from,
			Read:    read,
			Action:  action,
			Head:    m.head,
		})
	}
	return nil
}

// Accepted reports whether the halted run ended in an accepting state.
// It fails with domain.ErrStillRunning unless the run has halted.
func (m *Machine) Accepted() (bool, error) {
	if m.status != domain.StatusHalted {
		return false, domain.ErrStillRunning
	}
	return m.program.IsAccepting(m.state), nil
}

// SymbolAt returns the symbol at pos without modifying the tape.
func (m *Machine) SymbolAt(pos int) domain.Symbol {
	return m.tape.Read(pos)
}

// Head returns the head position.
func (m *Machine) Head() int { return m.head }

// State returns the current control state. It is empty before the first Initialize.
func (m *Machine) State() domain.State { return m.state }

// Status returns the lifecycle position of the run.
func (m *Machine) Status() domain.Status { return m.status }

// Halted reports whether Step would be refused.
func (m *Machine) Halted() bool { return m.status.Halted() }

// Steps returns the number of transitions applied since Initialize.
func (m *Machine) Steps() int { return m.steps }

// Tape returns a read-only view of the tape that follows the steps of the current run.
func (m *Machine) Tape() tape.Reader { return m.tape.ReadOnly() }

// Program returns the compiled program the machine runs.
func (m *Machine) Program() *Program { return m.program }

// Snapshot returns a value copy of the run.
func (m *Machine) Snapshot() *domain.Snapshot {
	snap := &domain.Snapshot{
		Machine: m.program.def.Name,
		Status:  m.status,
		State:   m.state,
		Head:    m.head,
		Steps:   m.steps,
		Cells:   m.tape.Cells(),
	}
	if accepted, err := m.Accepted(); err == nil {
		snap.Accepted = &accepted
	}
	return snap
}
