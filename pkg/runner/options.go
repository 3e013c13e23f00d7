package runner

import (
	"io"
	"log/slog"
	"time"

	"github.com/muesli/termenv"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithIO sets the input reader and the output writer.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		r.Input = in
		r.Output = out
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithDelay sets the pause between steps.
func WithDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.Delay = d
	}
}

// WithWindow sets the rendering radius around the head.
func WithWindow(radius int) Option {
	return func(r *Runner) {
		r.Window = radius
	}
}

// WithMaxSteps bounds every run.
func WithMaxSteps(n int) Option {
	return func(r *Runner) {
		r.MaxSteps = n
	}
}

// WithOnce stops the runner after the first input.
func WithOnce(once bool) Option {
	return func(r *Runner) {
		r.Once = once
	}
}

// WithQuiet disables per-step rendering.
func WithQuiet(quiet bool) Option {
	return func(r *Runner) {
		r.Quiet = quiet
	}
}

// WithStyle sets the color profile used for rendering.
func WithStyle(p termenv.Profile) Option {
	return func(r *Runner) {
		r.Style = p
	}
}

// WithPrompt replaces DefaultPrompt.
func WithPrompt(prompt string) Option {
	return func(r *Runner) {
		r.Prompt = prompt
	}
}
