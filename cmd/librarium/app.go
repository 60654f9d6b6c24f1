// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/librarium/librarium/internal/auth"
	"github.com/librarium/librarium/internal/auth/postgres"
	authredis "github.com/librarium/librarium/internal/auth/redis"
	"github.com/librarium/librarium/internal/config"
	"github.com/librarium/librarium/internal/logging"
	"github.com/librarium/librarium/internal/store"
)

const (
	serviceName      = "librarium"
	redisPingTimeout = 5 * time.Second
)

// setupLogging installs the process logger described by cfg.
func setupLogging(cfg config.LogConfig, deps *Deps) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.SetDefault(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Format,
		Level:   level,
		Writer:  deps.LogOutput,
	}), nil
}

// openDatabase connects the pool and applies migrations when configured.
func openDatabase(ctx context.Context, cfg *config.Config, deps *Deps, logger *slog.Logger) (Database, error) {
	db, err := deps.DatabaseFactory(ctx, store.PoolConfig{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	}, logger)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}

	if cfg.Database.AutoMigrate {
		if err := autoMigrate(cfg.Database.URL, deps, logger); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

func autoMigrate(databaseURL string, deps *Deps, logger *slog.Logger) error {
	migrator, err := deps.MigratorFactory(databaseURL)
	if err != nil {
		return oops.Code("AUTO_MIGRATE_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return oops.Code("AUTO_MIGRATE_FAILED").With("operation", "list pending migrations").Wrap(err)
	}
	if len(pending) == 0 {
		logger.Info("database schema up to date")
		return nil
	}
	if err := migrator.Up(); err != nil {
		return oops.Code("AUTO_MIGRATE_FAILED").With("operation", "apply migrations").Wrap(err)
	}
	logger.Info("database migrations applied", "count", len(pending))
	return nil
}

// buildTracker selects the reset attempt tracker. The returned func releases
// any client it opened.
func buildTracker(ctx context.Context, cfg *config.Config, db Database, deps *Deps, logger *slog.Logger) (auth.ResetAttemptTracker, func(), error) {
	if cfg.Reset.Tracker != config.TrackerRedis {
		return postgres.NewAttemptTracker(db, nil), func() {}, nil
	}

	client := deps.RedisFactory(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, oops.Code("REDIS_CONNECT_FAILED").
			With("addr", cfg.Redis.Addr).
			Wrap(err)
	}
	logger.Info("redis connected", "addr", cfg.Redis.Addr)

	release := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", "error", err)
		}
	}
	return authredis.NewAttemptTracker(client), release, nil
}

// buildService wires the auth orchestrator. metrics may be nil.
func buildService(ctx context.Context, cfg *config.Config, db Database, deps *Deps, metrics auth.MetricsRecorder, logger *slog.Logger) (*auth.Service, func(), error) {
	tracker, release, err := buildTracker(ctx, cfg, db, deps, logger)
	if err != nil {
		return nil, nil, err
	}

	svc, err := newService(cfg, db, tracker, deps, metrics, logger)
	if err != nil {
		release()
		return nil, nil, err
	}
	return svc, release, nil
}

func newService(cfg *config.Config, db Database, tracker auth.ResetAttemptTracker, deps *Deps, metrics auth.MetricsRecorder, logger *slog.Logger) (*auth.Service, error) {
	notifier, err := deps.NotifierFactory(cfg.Notify.NotifierConfig(), logger)
	if err != nil {
		return nil, oops.Code("SERVICE_INIT_FAILED").With("component", "notifier").Wrap(err)
	}

	codec, err := auth.NewJWTCodec([]byte(cfg.Auth.JWTSecret), auth.WithIssuer(cfg.Auth.Issuer))
	if err != nil {
		return nil, oops.Code("SERVICE_INIT_FAILED").With("component", "session codec").Wrap(err)
	}

	links, err := auth.NewResetLinkBuilder(cfg.Reset.FrontendURL)
	if err != nil {
		return nil, oops.Code("SERVICE_INIT_FAILED").With("component", "reset links").Wrap(err)
	}

	opts := []auth.ServiceOption{
		auth.WithLogger(logger),
		auth.WithSessionTTL(cfg.Auth.SessionTTL),
		auth.WithEmailPolicy(auth.NewEmailPolicy(cfg.Auth.AllowedEmailDomains)),
		auth.WithMetrics(metrics),
	}

	svc, err := auth.NewService(auth.Dependencies{
		Credentials: postgres.NewCredentialRepository(db),
		Attempts:    tracker,
		Hasher:      auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Sessions:    codec,
		Notifier:    notifier,
		ResetLinks:  links,
	}, opts...)
	if err != nil {
		return nil, oops.Code("SERVICE_INIT_FAILED").With("component", "auth service").Wrap(err)
	}
	return svc, nil
}
