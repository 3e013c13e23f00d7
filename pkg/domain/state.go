package domain

// Status is the lifecycle position of a run.
type Status string

const (
	StatusNotStarted Status = "not_started" // No Initialize call yet
	StatusRunning    Status = "running"     // Initialized, a transition may still apply
	StatusHalted     Status = "halted"      // No transition matched
)

// Halted reports whether Step must be refused.
// A run that never started counts as halted.
func (s Status) Halted() bool {
	return s != StatusRunning
}

// Snapshot is a value copy of a run.
type Snapshot struct {
	// Machine is the name of the definition the run belongs to.
	Machine string `json:"machine,omitempty"`

	Status Status `json:"status"`
	State  State  `json:"state"`
	Head   int    `json:"head"`

	// Steps counts the transitions applied since the last Initialize.
	Steps int `json:"steps"`

	// Cells holds only the explicitly written positions.
	Cells map[int]Symbol `json:"cells"`

	// Accepted is set only once the run halted.
	Accepted *bool `json:"accepted,omitempty"`
}
