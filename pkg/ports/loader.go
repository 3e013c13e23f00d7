package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// DefinitionLoader defines how machine definitions are retrieved.
// This allows the storage layer (FS, Memory, Redis) to be decoupled.
type DefinitionLoader interface {
	// Load retrieves a definition by name.
	// Returns domain.ErrMachineNotFound if no such machine exists.
	Load(ctx context.Context, name string) (*domain.Definition, error)

	// List returns the names of all available machines in ascending order.
	List(ctx context.Context) ([]string, error)
}
