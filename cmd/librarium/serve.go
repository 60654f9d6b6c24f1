// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/librarium/librarium/internal/auth"
	"github.com/librarium/librarium/internal/config"
	"github.com/librarium/librarium/internal/httpapi"
	"github.com/librarium/librarium/internal/observability"
)

const readHeaderTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the auth HTTP API",
		Long: `Start the HTTP API serving registration, login, session verification,
password change and password reset under /api/v1/auth, plus the metrics and
health endpoints when metrics.addr is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, deps)
		},
	}
}

// runServeWithDeps runs the API until ctx is canceled, a signal arrives or a
// server fails. If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *Deps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deps = deps.withDefaults()

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := setupLogging(cfg.Log, deps)
	if err != nil {
		return err
	}

	logger.Info("starting librarium",
		"http_addr", cfg.HTTP.Addr,
		"tracker", cfg.Reset.Tracker,
		"notify_provider", cfg.Notify.Provider,
	)

	db, err := openDatabase(ctx, cfg, deps, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		obsServer ObservabilityServer
		metrics   *observability.Metrics
	)
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, db.Ping, logger)
		metrics = obsServer.Metrics()
	}

	var recorder auth.MetricsRecorder
	var observer httpapi.RequestObserver
	if metrics != nil {
		recorder, observer = metrics, metrics
	}

	svc, release, err := buildService(ctx, cfg, db, deps, recorder, logger)
	if err != nil {
		return err
	}
	defer release()

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Service:   svc,
		Validator: httpapi.NewValidator(auth.NewEmailPolicy(cfg.Auth.AllowedEmailDomains)),
		Cookie:    httpapi.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
		Observer:  observer,
		Logger:    logger.With("component", "http"),
	})

	listener, err := deps.ListenerFactory("tcp", cfg.HTTP.Addr)
	if err != nil {
		return oops.Code("HTTP_LISTEN_FAILED").With("addr", cfg.HTTP.Addr).Wrap(err)
	}

	httpSrv := &http.Server{
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	httpErrCh := make(chan error, 1)
	go func() {
		defer close(httpErrCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			httpErrCh <- serveErr
		}
	}()
	logger.Info("http server listening", "addr", listener.Addr().String())

	if obsServer != nil {
		obsErrCh, err := obsServer.Start()
		if err != nil {
			shutdownHTTP(httpSrv, cfg.HTTP.ShutdownTimeout, logger)
			return oops.Code("OBSERVABILITY_START_FAILED").With("addr", cfg.Metrics.Addr).Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability", logger)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Librarium started")

	var runErr error
	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case serveErr := <-httpErrCh:
		if serveErr != nil {
			runErr = oops.Code("HTTP_SERVE_FAILED").Wrap(serveErr)
		}
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")
	shutdownHTTP(httpSrv, cfg.HTTP.ShutdownTimeout, logger)

	if obsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer shutdownCancel()
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return runErr
}

func shutdownHTTP(srv *http.Server, timeout time.Duration, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("error stopping http server", "error", err)
	}
}

// monitorServerErrors cancels ctx when a server reports an error. It exits
// when the channel closes or ctx is done.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string, logger *slog.Logger) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			logger.Error("server error, triggering shutdown", "server", serverName, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
