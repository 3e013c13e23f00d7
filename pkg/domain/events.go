package domain

// InitializeEvent is emitted after a run has been (re)initialized.
type InitializeEvent struct {
	Machine string
	State   State
	Cells   int
}

// StepEvent is emitted after a transition has been applied.
type StepEvent struct {
	Machine string
	Step    int
	From    State
	Read    Symbol
	Action  Action
	Head    int // head position after the move
}

// HaltEvent is emitted when no transition matches.
type HaltEvent struct {
	Machine  string
	State    State
	Symbol   Symbol
	Head     int
	Steps    int
	Accepted bool
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously inside the engine call that triggered them.
type LifecycleHooks struct {
	OnInitialize func(*InitializeEvent)
	OnStep       func(*StepEvent)
	OnHalt       func(*HaltEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnInitialize: chain(h.OnInitialize, other.OnInitialize),
		OnStep:       chain(h.OnStep, other.OnStep),
		OnHalt:       chain(h.OnHalt, other.OnHalt),
	}
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *E) {
		a(e)
		b(e)
	}
}
