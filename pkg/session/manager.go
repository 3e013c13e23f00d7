package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/tape"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/google/uuid"
)

// Run is one live machine held by the Manager.
type Run struct {
	ID      string
	Machine string
	Input   string
	Created time.Time

	mu sync.Mutex
	m  *runtime.Machine
}

// Info describes a run without exposing its machine.
type Info struct {
	ID      string        `json:"id"`
	Machine string        `json:"machine"`
	Status  domain.Status `json:"status"`
	Steps   int           `json:"steps"`
	Created time.Time     `json:"created"`
}

// Manager keeps live runs in memory and serializes access to each of them.
// Runs are never persisted; they disappear with the process.
type Manager struct {
	loader ports.DefinitionLoader

	mu   sync.RWMutex    // Global lock for the map
	runs map[string]*Run // Active runs by ID

	listenMu  sync.RWMutex
	listeners map[int]Listener
	nextID    int

	programOpts []runtime.Option
	logger      *slog.Logger
	now         func() time.Time
}

// Listener is notified after a run changed. It is called while the run is
// locked and must not call back into the Manager for the same run.
type Listener func(runID string, diff *domain.SnapshotDiff)

// View is a snapshot of a run together with its tape contents and, when
// requested, the rendered window around the head.
type View struct {
	ID string `json:"id"`
	*domain.Snapshot
	Tape   string `json:"tape"`
	Render string `json:"render,omitempty"`
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager and the machines it starts.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithProgramOptions adds options applied when compiling each machine.
func WithProgramOptions(opts ...runtime.Option) Option {
	return func(m *Manager) {
		m.programOpts = append(m.programOpts, opts...)
	}
}

// NewManager creates a new run manager serving the definitions of loader.
func NewManager(loader ports.DefinitionLoader, opts ...Option) *Manager {
	m := &Manager{
		loader:    loader,
		runs:      make(map[string]*Run),
		listeners: make(map[int]Listener),
		logger:    logging.NewNop(), // Default to no-op
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Loader returns the definition loader runs are started from.
func (m *Manager) Loader() ports.DefinitionLoader {
	return m.loader
}

// Start compiles the named machine, initializes it with input and registers the run.
func (m *Manager) Start(ctx context.Context, machine, input string) (*domain.Snapshot, string, error) {
	def, err := m.loader.Load(ctx, machine)
	if err != nil {
		return nil, "", err
	}
	opts := append([]runtime.Option{runtime.WithLogger(m.logger)}, m.programOpts...)
	prog, err := runtime.Compile(def, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to compile %q: %w", machine, err)
	}

	mach := prog.NewMachine()
	if err := mach.Initialize(domain.Symbols(input)); err != nil {
		return nil, "", err
	}

	run := &Run{
		ID:      uuid.NewString(),
		Machine: prog.Name(),
		Input:   input,
		Created: m.now(),
		m:       mach,
	}

	m.mu.Lock()
	m.runs[run.ID] = run
	m.mu.Unlock()

	m.logger.Debug("run started", "run_id", run.ID, "machine", run.Machine)
	return mach.Snapshot(), run.ID, nil
}

func (m *Manager) get(id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}
	return run, nil
}

// WithRun executes fn while holding the lock of the run.
func (m *Manager) WithRun(ctx context.Context, id string, fn func(context.Context, *runtime.Machine) error) error {
	run, err := m.get(id)
	if err != nil {
		return err
	}
	run.mu.Lock()
	defer run.mu.Unlock()
	return fn(ctx, run.m)
}

// Snapshot returns the current configuration of a run.
func (m *Manager) Snapshot(ctx context.Context, id string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithRun(ctx, id, func(_ context.Context, mach *runtime.Machine) error {
		snap = mach.Snapshot()
		return nil
	})
	return snap, err
}

// View describes a run. A negative window omits the rendering.
func (m *Manager) View(ctx context.Context, id string, window int) (*View, error) {
	var v *View
	err := m.WithRun(ctx, id, func(_ context.Context, mach *runtime.Machine) error {
		v = &View{ID: id, Snapshot: mach.Snapshot(), Tape: mach.Tape().Content()}
		if window >= 0 {
			v.Render = tape.Render(mach, window)
		}
		return nil
	})
	return v, err
}

// Listen registers fn for change notifications and returns its removal func.
func (m *Manager) Listen(fn Listener) func() {
	m.listenMu.Lock()
	defer m.listenMu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		m.listenMu.Lock()
		defer m.listenMu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) notify(id string, before, after *domain.Snapshot) {
	diff := domain.Diff(before, after)
	if diff == nil {
		return
	}
	m.listenMu.RLock()
	defer m.listenMu.RUnlock()
	for _, fn := range m.listeners {
		fn(id, diff)
	}
}

// Step advances a run by one step. A halted run yields domain.ErrAlreadyHalted.
func (m *Manager) Step(ctx context.Context, id string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithRun(ctx, id, func(_ context.Context, mach *runtime.Machine) error {
		before := mach.Snapshot()
		if err := mach.Step(); err != nil {
			return err
		}
		snap = mach.Snapshot()
		m.notify(id, before, snap)
		return nil
	})
	return snap, err
}

// RunToHalt steps a run until it halts. With maxSteps > 0 the run stops with
// runner.ErrStepLimit once it has applied more than maxSteps further transitions;
// the returned snapshot then shows where it stopped.
func (m *Manager) RunToHalt(ctx context.Context, id string, maxSteps int) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithRun(ctx, id, func(ctx context.Context, mach *runtime.Machine) error {
		limit := 0
		if maxSteps > 0 {
			limit = mach.Steps() + maxSteps
		}
		before := mach.Snapshot()
		err := runner.Execute(ctx, mach, limit, nil)
		snap = mach.Snapshot()
		m.notify(id, before, snap)
		return err
	})
	return snap, err
}

// Accepted reports acceptance of a halted run, or domain.ErrStillRunning.
func (m *Manager) Accepted(ctx context.Context, id string) (bool, error) {
	var accepted bool
	err := m.WithRun(ctx, id, func(_ context.Context, mach *runtime.Machine) error {
		var err error
		accepted, err = mach.Accepted()
		return err
	})
	return accepted, err
}

// Delete forgets a run.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}
	delete(m.runs, id)
	m.logger.Debug("run deleted", "run_id", id)
	return nil
}

// List describes the live runs, oldest first.
func (m *Manager) List(ctx context.Context) []Info {
	m.mu.RLock()
	runs := make([]*Run, 0, len(m.runs))
	for _, r := range m.runs {
		runs = append(runs, r)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(runs))
	for _, r := range runs {
		r.mu.Lock()
		infos = append(infos, Info{
			ID:      r.ID,
			Machine: r.Machine,
			Status:  r.m.Status(),
			Steps:   r.m.Steps(),
			Created: r.Created,
		})
		r.mu.Unlock()
	}
	slices.SortFunc(infos, func(a, b Info) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return infos
}

// Len returns the number of live runs.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}
