package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// DefinitionStore is a DefinitionLoader that can be written to.
// Definitions are stored under their Name.
type DefinitionStore interface {
	DefinitionLoader

	// Save persists a definition, replacing any previous one with the same name.
	Save(ctx context.Context, def *domain.Definition) error

	// Delete removes a definition. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error
}
