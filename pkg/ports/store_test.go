package ports_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// MockStore is a map-backed DefinitionStore used to exercise the contracts themselves.
type MockStore struct {
	data map[string]*domain.Definition
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]*domain.Definition)}
}

func (m *MockStore) Save(ctx context.Context, def *domain.Definition) error {
	if def.Name == "" {
		return errors.New("definition has no name")
	}
	// Deep copy to simulate serialization
	m.data[def.Name] = def.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, name string) (*domain.Definition, error) {
	def, ok := m.data[name]
	if !ok {
		return nil, domain.ErrMachineNotFound
	}
	return def.Clone(), nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (m *MockStore) Delete(ctx context.Context, name string) error {
	delete(m.data, name)
	return nil
}

var _ ports.DefinitionStore = (*MockStore)(nil)

func TestDefinitionStore_Contract(t *testing.T) {
	ports.RunDefinitionStoreContract(t, NewMockStore())
}

func TestDefinitionLoader_Contract(t *testing.T) {
	store := NewMockStore()
	defs := []*domain.Definition{
		{Name: "a", Initial: "q", Blank: "_"},
		{Name: "b", Initial: "q", Blank: "_"},
	}
	for _, d := range defs {
		if err := store.Save(context.Background(), d); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	ports.RunDefinitionLoaderContract(t, store, defs...)
}
