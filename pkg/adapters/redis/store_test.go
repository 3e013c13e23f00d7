package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.DefinitionStore = (*redis.Catalog)(nil)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCatalog_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunDefinitionStoreContract(t, redis.NewFromClient(client))
}

func TestCatalog_LoaderContract(t *testing.T) {
	_, client := setup(t)
	catalog := redis.NewFromClient(client)
	ctx := context.Background()

	a := &domain.Definition{
		Name: "b-second", States: []domain.State{"q"}, Symbols: []domain.Symbol{"_"},
		Blank: "_", InputSymbols: []domain.Symbol{}, Initial: "q", Accepting: []domain.State{},
		Transitions: []domain.Transition{},
	}
	b := a.Clone()
	b.Name = "a-first"
	require.NoError(t, catalog.Save(ctx, a))
	require.NoError(t, catalog.Save(ctx, b))

	ports.RunDefinitionLoaderContract(t, catalog, a, b)
}

func TestCatalog_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)

	catalog := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	def := &domain.Definition{Name: "short-lived", Initial: "q", Blank: "_"}

	require.NoError(t, catalog.Save(ctx, def))

	names, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "short-lived")

	mr.FastForward(2 * time.Second)

	_, err = catalog.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
}

func TestCatalog_Prefix(t *testing.T) {
	mr, client := setup(t)

	catalog := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, catalog.Save(ctx, &domain.Definition{Name: "m", Initial: "q", Blank: "_"}))

	assert.True(t, mr.Exists("custom:app:m"), "definition key uses the custom prefix")
	assert.True(t, mr.Exists("custom:app:index"), "index key uses the custom prefix")
	assert.Equal(t, "custom:app:", catalog.Prefix())

	list, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"m"}, list)
}

func TestCatalog_StoresDirectionsAsLetters(t *testing.T) {
	mr, client := setup(t)
	catalog := redis.NewFromClient(client)

	def := &domain.Definition{
		Name: "dir", Initial: "q", Blank: "_",
		Transitions: []domain.Transition{{From: "q", Read: "_", To: "q", Write: "_", Move: domain.Left}},
	}
	require.NoError(t, catalog.Save(context.Background(), def))

	raw, err := mr.Get(redis.DefaultPrefix + "dir")
	require.NoError(t, err)
	assert.Contains(t, raw, `"move":"L"`)
}
