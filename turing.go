package turing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// Program is a compiled, immutable transition table. It is safe to share
// between goroutines; each run gets its own Machine.
type Program = runtime.Program

// Machine is a single run of a Program: tape, head, control state and status.
type Machine = runtime.Machine

// Option configures a Program.
type Option = runtime.Option

// WithLogger sets a custom structured logger for every machine of the program.
func WithLogger(logger *slog.Logger) Option {
	return runtime.WithLogger(logger)
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return runtime.WithLifecycleHooks(hooks)
}

// WithStrictValidation rejects definitions that use undeclared states or symbols.
func WithStrictValidation() Option {
	return runtime.WithStrictValidation()
}

// WithInputValidation toggles the input alphabet check performed on Initialize.
func WithInputValidation(enabled bool) Option {
	return runtime.WithInputValidation(enabled)
}

// New compiles a definition into a Program.
func New(def *domain.Definition, opts ...Option) (*Program, error) {
	return runtime.Compile(def, opts...)
}

// Load fetches a definition by name from loader and compiles it.
func Load(ctx context.Context, loader ports.DefinitionLoader, name string, opts ...Option) (*Program, error) {
	def, err := loader.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load machine %q: %w", name, err)
	}
	return New(def, opts...)
}

// LoadFile compiles a YAML or JSON machine file.
func LoadFile(path string, opts ...Option) (*Program, error) {
	def, err := file.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(def, opts...)
}
