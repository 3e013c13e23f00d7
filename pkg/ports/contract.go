package ports

import (
	"context"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDefinitionLoaderContract verifies that a loader serves exactly the given definitions.
func RunDefinitionLoaderContract(t *testing.T, loader DefinitionLoader, expected ...*domain.Definition) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load", func(t *testing.T) {
		for _, want := range expected {
			got, err := loader.Load(ctx, want.Name)
			require.NoError(t, err, "Load(%q)", want.Name)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-machine")
		assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		require.NoError(t, err)
		require.Len(t, names, len(expected))
		for _, want := range expected {
			assert.Contains(t, names, want.Name)
		}
		assert.IsNonDecreasing(t, names, "List is sorted")
	})
}

// RunDefinitionStoreContract verifies save, overwrite and delete semantics of a store.
// The store must be empty when the contract starts.
func RunDefinitionStoreContract(t *testing.T, store DefinitionStore) {
	t.Helper()
	ctx := context.Background()

	def := &domain.Definition{
		Name:         "contract-flip",
		States:       []domain.State{"q"},
		Symbols:      []domain.Symbol{"0", "1", "_"},
		Blank:        "_",
		InputSymbols: []domain.Symbol{"0", "1"},
		Initial:      "q",
		Accepting:    []domain.State{"q"},
		Transitions: []domain.Transition{
			{From: "q", Read: "0", To: "q", Write: "1", Move: domain.Right},
			{From: "q", Read: "1", To: "q", Write: "0", Move: domain.Right},
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, def))
		loaded, err := store.Load(ctx, def.Name)
		require.NoError(t, err)
		assert.Equal(t, def, loaded)
	})

	t.Run("Saved value is isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, def.Name)
		require.NoError(t, err)
		loaded.Transitions[0].To = "mutated"

		again, err := store.Load(ctx, def.Name)
		require.NoError(t, err)
		assert.Equal(t, domain.State("q"), again.Transitions[0].To)
	})

	t.Run("Overwrite", func(t *testing.T) {
		updated := def.Clone()
		updated.Description = "second revision"
		require.NoError(t, store.Save(ctx, updated))

		loaded, err := store.Load(ctx, def.Name)
		require.NoError(t, err)
		assert.Equal(t, "second revision", loaded.Description)

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{def.Name}, names)
	})

	t.Run("Save requires a name", func(t *testing.T) {
		nameless := def.Clone()
		nameless.Name = ""
		assert.Error(t, store.Save(ctx, nameless))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, def.Name))
		_, err := store.Load(ctx, def.Name)
		assert.ErrorIs(t, err, domain.ErrMachineNotFound)

		require.NoError(t, store.Delete(ctx, def.Name), "deleting twice is not an error")

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
