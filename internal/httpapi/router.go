// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

// Package httpapi exposes the auth orchestrator as a JSON REST API.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// BasePath prefixes every auth route.
const BasePath = "/api/v1/auth"

// RouterConfig holds the collaborators of the router.
type RouterConfig struct {
	Service   AuthService
	Validator *Validator
	Cookie    CookieConfig
	// Observer is optional.
	Observer RequestObserver
	Logger   *slog.Logger
}

// NewRouter builds the HTTP handler for the auth API.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := NewAuthHandler(cfg.Service, cfg.Validator, cfg.Cookie, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if cfg.Observer != nil {
		r.Use(observe(cfg.Observer))
	}
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorBody(w, http.StatusNotFound, CodeRouteNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorBody(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Route(BasePath, func(r chi.Router) {
		r.With(requireJSON).Post("/register", h.Register)
		r.With(requireJSON).Post("/login", h.Login)
		r.Post("/verify", h.Verify)
		r.Post("/refresh", h.Refresh)
		r.Get("/profile", h.Profile)
		r.With(requireJSON).Post("/change-password", h.ChangePassword)
		r.With(requireJSON).Post("/forgot-password", h.ForgotPassword)
		r.With(requireJSON).Post("/reset-password", h.ResetPassword)
	})

	return r
}
