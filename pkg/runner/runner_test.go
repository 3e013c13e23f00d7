package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func increment(t *testing.T) *runtime.Program {
	t.Helper()
	prog, err := runtime.Compile(&domain.Definition{
		Name:         "increment",
		States:       []domain.State{"s", "a", "b", "c", "H"},
		Symbols:      []domain.Symbol{"0", "1", "#"},
		Blank:        "#",
		InputSymbols: []domain.Symbol{"0", "1"},
		Initial:      "s",
		Accepting:    []domain.State{"H"},
		Transitions: []domain.Transition{
			{From: "s", Read: "0", To: "s", Write: "0", Move: domain.Right},
			{From: "s", Read: "1", To: "s", Write: "1", Move: domain.Right},
			{From: "s", Read: "#", To: "a", Write: "#", Move: domain.Left},
			{From: "a", Read: "0", To: "b", Write: "1", Move: domain.Right},
			{From: "a", Read: "1", To: "c", Write: "0", Move: domain.Left},
			{From: "b", Read: "0", To: "b", Write: "0", Move: domain.Right},
			{From: "b", Read: "1", To: "b", Write: "1", Move: domain.Right},
			{From: "b", Read: "#", To: "H", Write: "#", Move: domain.Right},
			{From: "c", Read: "0", To: "b", Write: "1", Move: domain.Right},
			{From: "c", Read: "1", To: "c", Write: "0", Move: domain.Left},
			{From: "c", Read: "#", To: "b", Write: "1", Move: domain.Right},
		},
	})
	require.NoError(t, err)
	return prog
}

func pingPong(t *testing.T) *runtime.Program {
	t.Helper()
	prog, err := runtime.Compile(&domain.Definition{
		Name:    "ping-pong",
		Blank:   "_",
		Initial: "right",
		Transitions: []domain.Transition{
			{From: "right", Read: "_", To: "left", Write: "_", Move: domain.Right},
			{From: "left", Read: "_", To: "right", Write: "_", Move: domain.Left},
		},
	})
	require.NoError(t, err)
	return prog
}

func TestRunner_Quiet(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithIO(strings.NewReader("101\n111\n"), &out),
		runner.WithQuiet(true),
	)

	require.NoError(t, r.Run(context.Background(), increment(t)))

	want := "Enter input: Input accepted: true\n" +
		"Enter input: Input accepted: true\n" +
		"Enter input: \n"
	assert.Equal(t, want, out.String())
}

func TestRunner_LastLineWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithIO(strings.NewReader("1"), &out), runner.WithQuiet(true))

	require.NoError(t, r.Run(context.Background(), increment(t)))
	assert.Equal(t, "Enter input: Input accepted: true\n", out.String())
}

func TestRunner_RendersBeforeEveryStep(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithIO(strings.NewReader("101\n"), &out),
		runner.WithWindow(2),
		runner.WithOnce(true),
	)

	require.NoError(t, r.Run(context.Background(), increment(t)))

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "Enter input: ... # # 1 0 1 ... State=s\n        ^\n"), got)
	// 8 transitions plus the halting lookup.
	assert.Equal(t, 9, strings.Count(got, "State="))
	assert.Contains(t, got, "... 0 # # # # ... State=H\n")
	assert.True(t, strings.HasSuffix(got, "Input accepted: true\n"))
}

func TestRunner_Once(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithIO(strings.NewReader("1\n0\n"), &out),
		runner.WithQuiet(true),
		runner.WithOnce(true),
		runner.WithPrompt("> "),
	)

	require.NoError(t, r.Run(context.Background(), increment(t)))
	assert.Equal(t, "> Input accepted: true\n", out.String())
}

func TestRunner_ReportsErrorsAndContinues(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithIO(strings.NewReader("12\n10\n"), &out),
		runner.WithQuiet(true),
	)

	require.NoError(t, r.Run(context.Background(), increment(t)))

	got := out.String()
	assert.Contains(t, got, `Error: invalid input symbol: "2" at position 1`)
	assert.Equal(t, 1, strings.Count(got, "Input accepted: true"))
}

func TestRunner_StepLimit(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithIO(strings.NewReader("\n"), &out),
		runner.WithQuiet(true),
		runner.WithMaxSteps(5),
	)

	require.NoError(t, r.Run(context.Background(), pingPong(t)))
	assert.Contains(t, out.String(), "Error: step limit exceeded: more than 5 steps")
	assert.NotContains(t, out.String(), "Input accepted")
}

func TestRunner_DelayHonorsCancellation(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithIO(strings.NewReader("101\n"), &out),
		runner.WithDelay(time.Hour),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := r.Run(ctx, increment(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, strings.Count(out.String(), "State="), "only the first frame is drawn before the pause")
}

func TestRunner_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	r := runner.NewRunner(runner.WithIO(strings.NewReader("1\n"), &out))
	assert.ErrorIs(t, r.Run(ctx, increment(t)), context.Canceled)
	assert.Empty(t, out.String())
}

func TestSimulate(t *testing.T) {
	res, err := runner.Simulate(context.Background(), increment(t).NewMachine(), "101", 0)
	require.NoError(t, err)
	assert.Equal(t, &runner.Result{Accepted: true, Steps: 8, State: "H", Head: 4, Tape: "110"}, res)

	_, err = runner.Simulate(context.Background(), increment(t).NewMachine(), "x", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInputSymbol)
}

func TestExecute_StepBound(t *testing.T) {
	prog := increment(t)

	m := prog.NewMachine()
	require.NoError(t, m.Initialize(domain.Symbols("101")))
	assert.NoError(t, runner.Execute(context.Background(), m, 8, nil), "exactly at the bound")

	m = prog.NewMachine()
	require.NoError(t, m.Initialize(domain.Symbols("101")))
	err := runner.Execute(context.Background(), m, 7, nil)
	assert.ErrorIs(t, err, runner.ErrStepLimit)
	assert.Contains(t, err.Error(), "more than 7 steps")
	assert.Equal(t, 8, m.Steps(), "the transition past the bound is applied before failing")
	assert.False(t, m.Halted())
}

func TestExecute_CallbackError(t *testing.T) {
	m := pingPong(t).NewMachine()
	require.NoError(t, m.Initialize(nil))

	calls := 0
	stop := assert.AnError
	err := runner.Execute(context.Background(), m, 0, func(m ports.Machine) error {
		calls++
		if calls == 3 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, m.Steps())
}

func TestRunnerSimulate_UsesRunnerSettings(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithIO(strings.NewReader(""), &out), runner.WithWindow(0))

	res, err := r.Simulate(context.Background(), increment(t).NewMachine(), "0")
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "1", res.Tape)
	assert.True(t, strings.HasPrefix(out.String(), "... 0 ... State=s\n    ^\n"))
}

func TestTrace(t *testing.T) {
	res, frames, err := runner.Trace(context.Background(), increment(t).NewMachine(), "101", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "110", res.Tape)
	require.Len(t, frames, 9)
	assert.Equal(t, "... # 1 0 ... State=s\n      ^", frames[0])
	assert.Contains(t, frames[8], "State=H")
}
