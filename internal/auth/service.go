// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package auth

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
)

// Operation outcomes reported to a MetricsRecorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// MetricsRecorder receives one observation per orchestrator operation.
type MetricsRecorder interface {
	ObserveOperation(operation, outcome string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, string) {}

// AuthResult is returned by operations that issue a session token.
type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Dependencies are the collaborators required by Service.
type Dependencies struct {
	Credentials CredentialRepository
	Attempts    ResetAttemptTracker
	Hasher      PasswordHasher
	Sessions    SessionCodec
	Notifier    Notifier
	ResetLinks  ResetLinkBuilder
}

// Service orchestrates registration, authentication, session verification,
// password change and the forgot/reset password flow. It holds no credential
// state between calls.
type Service struct {
	creds    CredentialRepository
	attempts ResetAttemptTracker
	hasher   PasswordHasher
	sessions SessionCodec
	notifier Notifier
	links    ResetLinkBuilder

	emails     EmailPolicy
	sessionTTL time.Duration
	now        func() time.Time
	logger     *slog.Logger
	metrics    MetricsRecorder

	dummyOnce sync.Once
	dummyHash string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionTTL sets the lifetime of issued session tokens.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithEmailPolicy sets the registration email policy.
func WithEmailPolicy(p EmailPolicy) ServiceOption {
	return func(s *Service) {
		s.emails = p
	}
}

// WithMetrics sets the operation metrics recorder.
func WithMetrics(m MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService creates a Service. All dependencies are required.
func NewService(deps Dependencies, opts ...ServiceOption) (*Service, error) {
	switch {
	case deps.Credentials == nil:
		return nil, oops.Code("AUTH_MISSING_DEPENDENCY").With("dependency", "credentials").Errorf("credential repository is required")
	case deps.Attempts == nil:
		return nil, oops.Code("AUTH_MISSING_DEPENDENCY").With("dependency", "attempts").Errorf("reset attempt tracker is required")
	case deps.Hasher == nil:
		return nil, oops.Code("AUTH_MISSING_DEPENDENCY").With("dependency", "hasher").Errorf("password hasher is required")
	case deps.Sessions == nil:
		return nil, oops.Code("AUTH_MISSING_DEPENDENCY").With("dependency", "sessions").Errorf("session codec is required")
	case deps.Notifier == nil:
		return nil, oops.Code("AUTH_MISSING_DEPENDENCY").With("dependency", "notifier").Errorf("notifier is required")
	case deps.ResetLinks.base == "":
		return nil, oops.Code("AUTH_MISSING_DEPENDENCY").With("dependency", "reset_links").Errorf("reset link builder is required")
	}

	s := &Service{
		creds:      deps.Credentials,
		attempts:   deps.Attempts,
		hasher:     deps.Hasher,
		sessions:   deps.Sessions,
		notifier:   deps.Notifier,
		links:      deps.ResetLinks,
		emails:     NewEmailPolicy(nil),
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    noopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// observe reports the outcome of an operation. Taxonomy errors count as
// failures, everything else as errors.
func (s *Service) observe(operation string, err error) {
	switch {
	case err == nil:
		s.metrics.ObserveOperation(operation, OutcomeSuccess)
	case IsTaxonomyError(err):
		s.metrics.ObserveOperation(operation, OutcomeFailure)
	default:
		s.metrics.ObserveOperation(operation, OutcomeError)
	}
}

// issueSession signs a token for cred and wraps it in an AuthResult.
func (s *Service) issueSession(cred *Credential) (*AuthResult, error) {
	token, expiresAt, err := s.sessions.Sign(ClaimsFor(cred), s.sessionTTL)
	if err != nil {
		return nil, oops.Code("AUTH_SESSION_SIGN_FAILED").
			With("operation", "sign session").
			With("user_id", cred.ID.String()).
			Wrap(err)
	}
	return &AuthResult{User: cred.Sanitize(), Token: token, ExpiresAt: expiresAt}, nil
}

// dummy returns a hash at the configured cost used to equalize login timing
// for unknown emails.
func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("librarium-timing-equalizer")
		if err != nil {
			s.logger.Warn("dummy hash generation failed", "error", err)
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// validatePassword enforces the minimum length of new secrets.
func validatePassword(field, password string) error {
	if len(password) < MinPasswordLength {
		return errInvalidInput(field, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

// IsTaxonomyError reports whether err carries one of the codes surfaced to
// callers.
func IsTaxonomyError(err error) bool {
	switch ErrorCode(err) {
	case CodeConflict, CodeInvalidCredentials, CodeUnauthorized, CodeNotFound,
		CodeTooManyRequests, CodeInvalidOrExpiredToken, CodeInvalidInput:
		return true
	}
	return false
}
