package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/turing/internal/runtime"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the machines of --dir (or of a Redis catalog with --redis) through a JSON API.
Runs live in memory; /metrics exposes Prometheus counters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		maxSteps, _ := cmd.Flags().GetInt("max-steps")

		loader, closeLoader, err := serveLoader(cmd)
		if err != nil {
			return err
		}
		defer closeLoader()

		metrics, err := observability.NewMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}

		mgr := session.NewManager(loader,
			session.WithLogger(logger),
			session.WithProgramOptions(
				runtime.WithLogger(logger),
				runtime.WithLifecycleHooks(metrics.Hooks()),
			),
		)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           httpAdapter.NewHandler(mgr, httpAdapter.WithLogger(logger), httpAdapter.WithMaxSteps(maxSteps)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting Turing Server", "address", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Turing Server stopped gracefully")
			return nil
		}
	},
}

// serveLoader returns the Redis catalog when --redis is set, the --dir store otherwise.
func serveLoader(cmd *cobra.Command) (ports.DefinitionLoader, func() error, error) {
	addr, _ := cmd.Flags().GetString("redis")
	if addr == "" {
		return machineStore(cmd), func() error { return nil }, nil
	}
	catalog, err := redisCatalog(cmd, addr)
	if err != nil {
		return nil, nil, err
	}
	return catalog, catalog.Close, nil
}

// redisCatalog connects to addr with the shared --redis-* flags and pings it.
func redisCatalog(cmd *cobra.Command, addr string) (*redis.Catalog, error) {
	password, _ := cmd.Flags().GetString("redis-password")
	db, _ := cmd.Flags().GetInt("redis-db")
	prefix, _ := cmd.Flags().GetString("redis-prefix")
	ttl, _ := cmd.Flags().GetDuration("redis-ttl")

	catalog := redis.New(addr, password, db, redis.WithPrefix(prefix), redis.WithTTL(ttl))
	if err := catalog.Client().Ping(cmd.Context()).Err(); err != nil {
		catalog.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return catalog, nil
}

func addRedisFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis-password", "", "Redis password")
	cmd.Flags().Int("redis-db", 0, "Redis database number")
	cmd.Flags().String("redis-prefix", redis.DefaultPrefix, "Key prefix of the machine catalog")
	cmd.Flags().Duration("redis-ttl", 0, "Expiry of published definitions (0 = never)")
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Int("max-steps", httpAdapter.DefaultMaxSteps, "Step limit of a run request that sets none")
	serveCmd.Flags().String("redis", "", "Serve the Redis catalog at this address instead of --dir")
	addRedisFlags(serveCmd)
}
