package runtime

import (
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// Option configures a Program.
type Option func(*Program)

// WithLogger sets the structured logger used by every machine of the program.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Program) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
// Calling it more than once chains the hooks in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Program) {
		p.hooks = p.hooks.Merge(hooks)
	}
}

// WithStrictValidation makes Compile reject definitions whose states and
// symbols are not drawn from the declared sets.
func WithStrictValidation() Option {
	return func(p *Program) {
		p.strict = true
	}
}

// WithInputValidation toggles the input-alphabet check of Initialize (default: on).
func WithInputValidation(enabled bool) Option {
	return func(p *Program) {
		p.checkInput = enabled
	}
}
