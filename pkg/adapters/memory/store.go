package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
)

// Store implements ports.DefinitionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Definition
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Definition),
	}
}

// NewFromDefinitions creates a store holding defs.
// This improves DX for tests and embedded machines.
func NewFromDefinitions(defs ...*domain.Definition) (*Store, error) {
	s := NewStore()
	for _, d := range defs {
		if err := s.Save(context.Background(), d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Save stores a copy of def under its name.
func (s *Store) Save(ctx context.Context, def *domain.Definition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: definition has no name", domain.ErrInvalidDefinition)
	}

	// Deep copy to ensure isolation, similar to serialization
	copied := def.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[def.Name] = copied
	return nil
}

// Load retrieves a copy of the named definition.
func (s *Store) Load(ctx context.Context, name string) (*domain.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}

	// Create a copy on read so caller can't mutate store state directly by pointer
	return def.Clone(), nil
}

// Delete removes the definition.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names) // Deterministic order
	return names, nil
}
