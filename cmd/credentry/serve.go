// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/credentry/credentry/internal/config"
	"github.com/credentry/credentry/internal/httpapi"
	"github.com/credentry/credentry/internal/identity"
	identitymemory "github.com/credentry/credentry/internal/identity/memory"
	identitypg "github.com/credentry/credentry/internal/identity/postgres"
	"github.com/credentry/credentry/internal/logging"
	"github.com/credentry/credentry/internal/observability"
	"github.com/credentry/credentry/internal/store"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the registration API server",
		Long: `Start the HTTP server exposing the signup endpoint, plus a separate
metrics/health listener.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("http-addr", config.DefaultHTTPAddr, "API listen address")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("store", config.DefaultStore, "storage backend (postgres or memory)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL (default: DATABASE_URL env)")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logging.SetDefault(logging.Options{
		Service: "credentry",
		Version: version,
		Format:  cfg.LogFormat,
	})
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var users identity.UserRepository
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info("connected to database")
		users = identitypg.NewRepository(pool)
	case config.StoreMemory:
		logger.Warn("using in-memory store; accounts are lost on restart")
		users = identitymemory.NewRepository()
	}

	auth, err := identity.NewService(users, identity.NewArgon2idHasher(identity.Argon2Params{}))
	if err != nil {
		return err
	}
	signup, err := identity.NewSignUpHandler(auth, users, logger)
	if err != nil {
		return err
	}

	var metrics *observability.Metrics
	var obs *observability.Server
	var obsErrCh <-chan error
	if cfg.MetricsAddr != "" {
		obs = observability.NewServer(cfg.MetricsAddr, func() bool { return true })
		obsErrCh, err = obs.Start()
		if err != nil {
			return err
		}
		metrics = obs.Metrics()
	}

	api, err := httpapi.NewServer(cfg.HTTPAddr, signup, metrics, logger)
	if err != nil {
		return err
	}
	apiErrCh, err := api.Start()
	if err != nil {
		return err
	}

	logger.Info("credentry started",
		"http_addr", api.Addr(),
		"metrics_addr", cfg.MetricsAddr,
		"store", cfg.Store,
	)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-apiErrCh:
		runErr = err
	case err := <-obsErrCh:
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", "error", err)
	}
	if obs != nil {
		if err := obs.Shutdown(shutdownCtx); err != nil {
			logger.Error("observability shutdown failed", "error", err)
		}
	}

	return runErr
}
