package domain

import (
	"errors"
	"fmt"
)

// ErrAlreadyHalted is returned when Step is called on a machine that is not running.
var ErrAlreadyHalted = errors.New("cannot step a halted machine")

// ErrStillRunning is returned when acceptance is queried before the machine halted.
var ErrStillRunning = errors.New("machine has not halted yet")

// ErrInvalidInputSymbol is returned when an input contains a symbol outside the input alphabet.
var ErrInvalidInputSymbol = errors.New("invalid input symbol")

// ErrDuplicateTransition is returned when two rules share the same (state, symbol) pair.
var ErrDuplicateTransition = errors.New("duplicate transition")

// ErrInvalidDirection is returned when a head movement is neither left nor right.
var ErrInvalidDirection = errors.New("invalid direction")

// ErrInvalidDefinition is returned when a machine definition cannot be compiled or fails strict validation.
var ErrInvalidDefinition = errors.New("invalid machine definition")

// ErrMachineNotFound is returned when a machine name cannot be found in a loader.
var ErrMachineNotFound = errors.New("machine not found")

// ErrRunNotFound is returned when a run ID cannot be found in the session registry.
var ErrRunNotFound = errors.New("run not found")

// InvalidInputSymbolError reports the first offending cell of an input.
type InvalidInputSymbolError struct {
	Position int
	Symbol   Symbol
}

func (e *InvalidInputSymbolError) Error() string {
	return fmt.Sprintf("%v: %q at position %d", ErrInvalidInputSymbol, e.Symbol, e.Position)
}

// Is makes errors.Is(err, ErrInvalidInputSymbol) match.
func (e *InvalidInputSymbolError) Is(target error) bool {
	return target == ErrInvalidInputSymbol
}
