// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

// Package authtest provides in-memory collaborators for exercising
// auth.Service without a database or mail provider.
package authtest

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/librarium/librarium/internal/auth"
)

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock set to start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// CredentialStore is an in-memory auth.CredentialRepository that also tracks
// reset attempts on its rows, mirroring the Postgres implementation.
type CredentialStore struct {
	mu    sync.Mutex
	rows  map[ulid.ULID]*auth.Credential
	clock func() time.Time
}

var (
	_ auth.CredentialRepository = (*CredentialStore)(nil)
	_ auth.ResetAttemptTracker  = (*CredentialStore)(nil)
)

// NewCredentialStore creates an empty store. A nil clock uses time.Now.
func NewCredentialStore(clock func() time.Time) *CredentialStore {
	if clock == nil {
		clock = time.Now
	}
	return &CredentialStore{rows: make(map[ulid.ULID]*auth.Credential), clock: clock}
}

func clone(c *auth.Credential) *auth.Credential {
	cp := *c
	if c.ResetTokenHash != nil {
		h := *c.ResetTokenHash
		cp.ResetTokenHash = &h
	}
	if c.ResetTokenExpiresAt != nil {
		t := *c.ResetTokenExpiresAt
		cp.ResetTokenExpiresAt = &t
	}
	if c.LastResetAttemptAt != nil {
		t := *c.LastResetAttemptAt
		cp.LastResetAttemptAt = &t
	}
	return &cp
}

func notFound(op string) error {
	return oops.Code("CREDENTIAL_NOT_FOUND").With("operation", op).Wrap(auth.ErrNotFound)
}

// activeByEmail must be called with mu held.
func (s *CredentialStore) activeByEmail(email string) *auth.Credential {
	for _, c := range s.rows {
		if c.IsActive && c.Email == email {
			return c
		}
	}
	return nil
}

// activeByID must be called with mu held.
func (s *CredentialStore) activeByID(id ulid.ULID) *auth.Credential {
	c, ok := s.rows[id]
	if !ok || !c.IsActive {
		return nil
	}
	return c
}

// Create implements auth.CredentialRepository.
func (s *CredentialStore) Create(_ context.Context, cred *auth.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeByEmail(auth.NormalizeEmail(cred.Email)) != nil {
		return oops.Code("CREDENTIAL_EMAIL_TAKEN").With("email", cred.Email).Wrap(auth.ErrEmailTaken)
	}
	s.rows[cred.ID] = clone(cred)
	return nil
}

// GetByID implements auth.CredentialRepository.
func (s *CredentialStore) GetByID(_ context.Context, id ulid.ULID) (*auth.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.activeByID(id); c != nil {
		return clone(c), nil
	}
	return nil, notFound("get credential by id")
}

// GetByEmail implements auth.CredentialRepository.
func (s *CredentialStore) GetByEmail(_ context.Context, email string) (*auth.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.activeByEmail(auth.NormalizeEmail(email)); c != nil {
		return clone(c), nil
	}
	return nil, notFound("get credential by email")
}

// GetByResetTokenHash implements auth.CredentialRepository.
func (s *CredentialStore) GetByResetTokenHash(_ context.Context, tokenHash string) (*auth.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if c.IsActive && c.ResetTokenHash != nil && *c.ResetTokenHash == tokenHash {
			return clone(c), nil
		}
	}
	return nil, notFound("get credential by reset token")
}

// Update implements auth.CredentialRepository.
func (s *CredentialStore) Update(_ context.Context, cred *auth.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeByID(cred.ID)
	if c == nil {
		return notFound("update credential")
	}
	c.Name = cred.Name
	c.Email = auth.NormalizeEmail(cred.Email)
	c.Role = cred.Role
	c.UpdatedAt = s.clock()
	return nil
}

// UpdatePassword implements auth.CredentialRepository.
func (s *CredentialStore) UpdatePassword(_ context.Context, id ulid.ULID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeByID(id)
	if c == nil {
		return notFound("update password")
	}
	c.PasswordHash = passwordHash
	c.UpdatedAt = s.clock()
	return nil
}

// SetResetToken implements auth.CredentialRepository.
func (s *CredentialStore) SetResetToken(_ context.Context, id ulid.ULID, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeByID(id)
	if c == nil {
		return notFound("set reset token")
	}
	c.ResetTokenHash = &tokenHash
	c.ResetTokenExpiresAt = &expiresAt
	c.UpdatedAt = s.clock()
	return nil
}

// RedeemResetToken implements auth.CredentialRepository.
func (s *CredentialStore) RedeemResetToken(_ context.Context, id ulid.ULID, tokenHash, passwordHash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeByID(id)
	if c == nil || c.ResetTokenHash == nil || *c.ResetTokenHash != tokenHash ||
		c.ResetTokenExpiresAt == nil || !now.Before(*c.ResetTokenExpiresAt) {
		return notFound("redeem reset token")
	}
	c.PasswordHash = passwordHash
	c.ResetTokenHash = nil
	c.ResetTokenExpiresAt = nil
	c.UpdatedAt = now
	return nil
}

// Deactivate implements auth.CredentialRepository.
func (s *CredentialStore) Deactivate(_ context.Context, id ulid.ULID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeByID(id)
	if c == nil {
		return notFound("deactivate credential")
	}
	c.IsActive = false
	c.UpdatedAt = s.clock()
	return nil
}

// CanRequest implements auth.ResetAttemptTracker.
func (s *CredentialStore) CanRequest(_ context.Context, email string) (auth.AttemptDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeByEmail(auth.NormalizeEmail(email))
	if c == nil {
		return auth.AttemptDecision{Allowed: true}, nil
	}
	d := auth.CheckResetWindow(c.ResetAttempts, c.LastResetAttemptAt, s.clock())
	if d.WindowElapsed {
		c.ResetAttempts = 0
	}
	return d, nil
}

// RecordAttempt implements auth.ResetAttemptTracker.
func (s *CredentialStore) RecordAttempt(_ context.Context, email string) (auth.AttemptDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeByEmail(auth.NormalizeEmail(email))
	if c == nil {
		return auth.AttemptDecision{Allowed: true}, nil
	}
	now := s.clock()
	d := auth.CheckResetWindow(c.ResetAttempts, c.LastResetAttemptAt, now)
	if !d.Allowed {
		return d, nil
	}
	c.ResetAttempts = d.Count + 1
	c.LastResetAttemptAt = &now
	return auth.AttemptDecision{Allowed: true, Count: c.ResetAttempts}, nil
}

// Raw returns a copy of the stored row for id regardless of its active flag.
func (s *CredentialStore) Raw(id ulid.ULID) (*auth.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, false
	}
	return clone(c), true
}

// Mutate applies fn to the stored row for id.
func (s *CredentialStore) Mutate(id ulid.ULID, fn func(*auth.Credential)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if ok {
		fn(c)
	}
	return ok
}

// CountResetTokens returns the number of rows holding a reset token.
func (s *CredentialStore) CountResetTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.rows {
		if c.ResetTokenHash != nil {
			n++
		}
	}
	return n
}

// SentLink is one notification captured by RecordingNotifier.
type SentLink struct {
	Email string
	Name  string
	Link  string
}

// RecordingNotifier captures reset links instead of delivering them.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []SentLink
	Err  error
}

var _ auth.Notifier = (*RecordingNotifier)(nil)

// SendResetLink implements auth.Notifier.
func (n *RecordingNotifier) SendResetLink(_ context.Context, email, name, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.sent = append(n.sent, SentLink{Email: email, Name: name, Link: link})
	return nil
}

// Sent returns the captured notifications in order.
func (n *RecordingNotifier) Sent() []SentLink {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SentLink(nil), n.sent...)
}

// Last returns the most recent notification.
func (n *RecordingNotifier) Last() (SentLink, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return SentLink{}, false
	}
	return n.sent[len(n.sent)-1], true
}
