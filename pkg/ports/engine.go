package ports

import (
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// TapeView is the read-only surface needed to render a run.
type TapeView interface {
	Head() int
	State() domain.State
	SymbolAt(pos int) domain.Symbol
}

// Machine is the run contract consumed by drivers and adapters.
type Machine interface {
	TapeView

	// Initialize starts a run with the input placed at positions 0..len-1.
	Initialize(input []domain.Symbol) error

	// Step applies one transition or halts. Fails with domain.ErrAlreadyHalted when not running.
	Step() error

	// Accepted reports acceptance. Fails with domain.ErrStillRunning until halted.
	Accepted() (bool, error)

	Halted() bool
	Status() domain.Status
	Steps() int
	Tape() tape.Reader
	Snapshot() *domain.Snapshot
}
