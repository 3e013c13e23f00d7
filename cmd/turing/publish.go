package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish [machine...]",
	Short: "Upload machine definitions to a Redis catalog",
	Long: `Compiles each machine of --dir and stores it in the Redis catalog served by 'turing serve --redis'.
Concurrent publishers of the same machine are serialized with a Redis lock.
Without arguments every machine of --dir is published.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("redis")
		lockTimeout, _ := cmd.Flags().GetDuration("lock-timeout")

		names, err := machineNames(cmd.Context(), cmd, args)
		if err != nil {
			return err
		}

		catalog, err := redisCatalog(cmd, addr)
		if err != nil {
			return err
		}
		defer catalog.Close()
		locker := redis.NewLocker(catalog.Client(), catalog.Prefix())

		for _, name := range names {
			def, err := loadDefinition(cmd, name)
			if err != nil {
				return err
			}
			if _, err := turing.New(def); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			if err := publishOne(cmd.Context(), locker, catalog, def, lockTimeout); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			logger.Info("Published machine", "machine", def.Name, "redis", addr)
			fmt.Fprintf(cmd.OutOrStdout(), "published %s\n", def.Name)
		}
		return nil
	},
}

// publishOne saves def while holding its lock. The lock expires after ttl if never released.
func publishOne(ctx context.Context, locker *redis.Locker, catalog *redis.Catalog, def *domain.Definition, ttl time.Duration) error {
	unlock, err := locker.Lock(ctx, def.Name, ttl)
	if err != nil {
		return fmt.Errorf("failed to lock: %w", err)
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			logger.Warn("Failed to release lock", "machine", def.Name, "err", err)
		}
	}()
	return catalog.Save(ctx, def)
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().String("redis", "localhost:6379", "Redis address")
	publishCmd.Flags().Duration("lock-timeout", 10*time.Second, "Expiry of the publish lock")
	addRedisFlags(publishCmd)
}
