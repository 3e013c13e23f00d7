package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/tape"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/muesli/termenv"
)

// ErrStepLimit is returned when a run applies more transitions than allowed.
var ErrStepLimit = errors.New("step limit exceeded")

// DefaultPrompt is written before every input line.
const DefaultPrompt = "Enter input: "

// Runner is the interactive driver: it reads one input per line, runs a fresh
// machine on it and reports acceptance. It never mutates a machine other than
// through Initialize and Step.
type Runner struct {
	Input  io.Reader
	Output io.Writer

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Delay is the pause after each step; it is interrupted by context cancellation.
	Delay time.Duration

	// Window is the number of cells rendered on each side of the head.
	Window int

	// MaxSteps bounds every run; 0 means unbounded.
	MaxSteps int

	// Once stops after the first input.
	Once bool

	// Quiet disables the per-step rendering.
	Quiet bool

	// Style is the color profile used to highlight the head cell.
	Style termenv.Profile

	Prompt string
}

// Result summarizes a finished run.
type Result struct {
	Accepted bool         `json:"accepted"`
	Steps    int          `json:"steps"`
	State    domain.State `json:"state"`
	Head     int          `json:"head"`
	Tape     string       `json:"tape"`
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: logging.NewNop(),
		Window: tape.DefaultRadius,
		Style:  termenv.Ascii,
		Prompt: DefaultPrompt,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads inputs until EOF (or one input when Once is set) and runs each on a
// new machine of prog. An invalid input or a step limit is reported and the
// loop continues; context cancellation and I/O failures end it.
func (r *Runner) Run(ctx context.Context, prog *runtime.Program) error {
	logger := r.logger().With("machine", prog.Name())
	reader := bufio.NewReader(r.Input)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.Output, r.Prompt)
		line, readErr := reader.ReadString('\n')
		atEOF := errors.Is(readErr, io.EOF)
		if readErr != nil && !atEOF {
			return fmt.Errorf("failed to read input: %w", readErr)
		}
		if atEOF && line == "" {
			fmt.Fprintln(r.Output)
			return nil
		}

		input, err := SanitizeInput(line)
		if err == nil {
			err = r.runOne(ctx, prog.NewMachine(), input, logger)
		}
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			logger.Debug("run failed", "err", err)
			fmt.Fprintf(r.Output, "Error: %v\n", err)
		}

		if r.Once || atEOF {
			return nil
		}
	}
}

func (r *Runner) runOne(ctx context.Context, m ports.Machine, input string, logger *slog.Logger) error {
	res, err := r.simulate(ctx, m, input)
	if err != nil {
		return err
	}
	logger.Debug("run finished", "input", input, "steps", res.Steps, "state", res.State, "accepted", res.Accepted)
	fmt.Fprintf(r.Output, "Input accepted: %t\n", res.Accepted)
	return nil
}

// Simulate runs a single input on m with the runner's pacing, rendering and step limit.
func (r *Runner) Simulate(ctx context.Context, m ports.Machine, input string) (*Result, error) {
	return r.simulate(ctx, m, input)
}

func (r *Runner) simulate(ctx context.Context, m ports.Machine, input string) (*Result, error) {
	if err := m.Initialize(domain.Symbols(input)); err != nil {
		return nil, err
	}

	first := true
	onStep := func(m ports.Machine) error {
		if !first {
			if err := sleep(ctx, r.Delay); err != nil {
				return err
			}
		}
		first = false
		if !r.Quiet {
			fmt.Fprintln(r.Output, tape.Styled(r.Style, m, r.Window))
		}
		return nil
	}

	if err := Execute(ctx, m, r.MaxSteps, onStep); err != nil {
		return nil, err
	}
	return resultOf(m), nil
}

// Simulate runs input on m to completion without rendering or pacing.
func Simulate(ctx context.Context, m ports.Machine, input string, maxSteps int) (*Result, error) {
	if err := m.Initialize(domain.Symbols(input)); err != nil {
		return nil, err
	}
	if err := Execute(ctx, m, maxSteps, nil); err != nil {
		return nil, err
	}
	return resultOf(m), nil
}

// Execute steps m until it halts. onStep, when set, is called before every
// step with the machine about to be stepped. With maxSteps > 0 the loop fails
// with ErrStepLimit as soon as the run has applied more than maxSteps transitions,
// leaving the machine after transition maxSteps+1.
func Execute(ctx context.Context, m ports.Machine, maxSteps int, onStep func(ports.Machine) error) error {
	for !m.Halted() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if onStep != nil {
			if err := onStep(m); err != nil {
				return err
			}
		}
		if err := m.Step(); err != nil {
			return err
		}
		if maxSteps > 0 && m.Steps() > maxSteps {
			return fmt.Errorf("%w: more than %d steps", ErrStepLimit, maxSteps)
		}
	}
	return nil
}

func resultOf(m ports.Machine) *Result {
	accepted, _ := m.Accepted()
	return &Result{
		Accepted: accepted,
		Steps:    m.Steps(),
		State:    m.State(),
		Head:     m.Head(),
		Tape:     m.Tape().Content(),
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}

// Trace runs input on m and returns the rendered configuration seen before
// every step. The last frame is the configuration the machine halted in.
func Trace(ctx context.Context, m ports.Machine, input string, maxSteps, window int) (*Result, []string, error) {
	if err := m.Initialize(domain.Symbols(input)); err != nil {
		return nil, nil, err
	}
	var frames []string
	err := Execute(ctx, m, maxSteps, func(m ports.Machine) error {
		frames = append(frames, tape.Render(m, window))
		return nil
	})
	if err != nil {
		return nil, frames, err
	}
	return resultOf(m), frames, nil
}
