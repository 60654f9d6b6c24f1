// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/librarium/librarium/internal/auth"
	"github.com/librarium/librarium/internal/auth/postgres"
	"github.com/librarium/librarium/internal/config"
	"github.com/librarium/librarium/internal/notify"
	"github.com/librarium/librarium/internal/observability"
	"github.com/librarium/librarium/internal/store"
)

// Deps contains injectable dependencies for the commands.
// All fields with nil values will use their default implementations.
type Deps struct {
	// DatabaseFactory opens the connection pool.
	// Default: store.Connect
	DatabaseFactory func(ctx context.Context, cfg store.PoolConfig, logger *slog.Logger) (Database, error)

	// MigratorFactory creates a schema migrator.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (Migrator, error)

	// RedisFactory creates the client used by the Redis attempt tracker.
	// Default: goredis.NewClient
	RedisFactory func(cfg config.RedisConfig) goredis.UniversalClient

	// NotifierFactory creates the reset link notifier.
	// Default: notify.New
	NotifierFactory func(cfg notify.Config, logger *slog.Logger) (auth.Notifier, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, ready observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer

	// ListenerFactory creates the API listener.
	// Default: net.Listen
	ListenerFactory func(network, address string) (net.Listener, error)

	// LogOutput receives structured logs.
	// Default: os.Stderr
	LogOutput io.Writer
}

// Database is the pool surface used by the commands.
type Database interface {
	postgres.DB
	Ping(ctx context.Context) error
	Close()
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	AppliedMigrations() ([]uint, error)
	Close() error
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// withDefaults returns a copy of d with every nil factory filled in.
func (d *Deps) withDefaults() *Deps {
	out := Deps{}
	if d != nil {
		out = *d
	}

	if out.DatabaseFactory == nil {
		out.DatabaseFactory = func(ctx context.Context, cfg store.PoolConfig, logger *slog.Logger) (Database, error) {
			pool, err := store.Connect(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			return pool, nil
		}
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = func(databaseURL string) (Migrator, error) {
			m, err := store.NewMigrator(databaseURL)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	if out.RedisFactory == nil {
		out.RedisFactory = func(cfg config.RedisConfig) goredis.UniversalClient {
			return goredis.NewClient(&goredis.Options{
				Addr:     cfg.Addr,
				Password: cfg.Password,
				DB:       cfg.DB,
			})
		}
	}
	if out.NotifierFactory == nil {
		out.NotifierFactory = notify.New
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer {
			return observability.NewServer(addr, ready, observability.WithLogger(logger))
		}
	}
	if out.ListenerFactory == nil {
		out.ListenerFactory = net.Listen
	}
	if out.LogOutput == nil {
		out.LogOutput = os.Stderr
	}
	return &out
}
