package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces the catalog keys.
const DefaultPrefix = "turing:machine:"

// Catalog implements ports.DefinitionStore using Redis.
// Each definition is stored as JSON under <prefix><name>, and a sorted set
// at <prefix>index tracks the names together with their expiry.
type Catalog struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Catalog)

// WithTTL sets the expiration for published definitions.
func WithTTL(ttl time.Duration) Option {
	return func(c *Catalog) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix for definitions.
func WithPrefix(prefix string) Option {
	return func(c *Catalog) {
		c.prefix = prefix
	}
}

// New creates a new Redis catalog with options.
func New(address, password string, db int, opts ...Option) *Catalog {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis catalog from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Catalog {
	c := &Catalog{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Catalog) key(name string) string {
	return c.prefix + name
}

func (c *Catalog) indexKey() string {
	return c.prefix + "index"
}

// Save publishes the definition.
func (c *Catalog) Save(ctx context.Context, def *domain.Definition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: definition has no name", domain.ErrInvalidDefinition)
	}
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal definition: %w", err)
	}

	pipe := c.client.Pipeline()

	// 0 means no expiration.
	pipe.Set(ctx, c.key(def.Name), data, c.ttl)

	// Score = Now + TTL, or far future when the TTL is unset.
	score := float64(time.Now().Add(c.ttl).Unix())
	if c.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, c.indexKey(), backend.Z{
		Score:  score,
		Member: def.Name,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the named definition.
func (c *Catalog) Load(ctx context.Context, name string) (*domain.Definition, error) {
	val, err := c.client.Get(ctx, c.key(name)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var def domain.Definition
	if err := json.Unmarshal([]byte(val), &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal definition: %w", err)
	}
	return &def, nil
}

// Delete removes the definition and its index entry.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	pipe := c.client.Pipeline()

	pipe.Del(ctx, c.key(name))
	pipe.ZRem(ctx, c.indexKey(), name)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the published names in order, pruning expired index entries first.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := c.client.ZRemRangeByScore(ctx, c.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired definitions: %w", err)
	}

	names, err := c.client.ZRange(ctx, c.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (c *Catalog) Client() *backend.Client {
	return c.client
}

// Prefix returns the key prefix in use.
func (c *Catalog) Prefix() string {
	return c.prefix
}

// Close closes the redis client.
func (c *Catalog) Close() error {
	return c.client.Close()
}
