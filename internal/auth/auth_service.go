// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an active USER credential and issues a session token.
// Returns a Conflict error when an active credential already uses the email.
func (s *Service) Register(ctx context.Context, in RegisterInput) (result *AuthResult, err error) {
	defer func() { s.observe("register", err) }()

	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if vErr := ValidateName(name); vErr != nil {
		return nil, errInvalidInput("name", vErr.Error())
	}
	if !s.emails.Allows(email) {
		return nil, errInvalidInput("email", "email must use an allowed domain")
	}
	if err := validatePassword("password", in.Password); err != nil {
		return nil, err
	}

	_, lookupErr := s.creds.GetByEmail(ctx, email)
	switch {
	case lookupErr == nil:
		return nil, errConflict()
	case !errors.Is(lookupErr, ErrNotFound):
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get credential by email").
			Wrap(lookupErr)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	cred, err := NewCredential(name, email, hash)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "new credential").
			Wrap(err)
	}
	now := s.now().UTC()
	cred.CreatedAt, cred.UpdatedAt = now, now

	if err := s.creds.Create(ctx, cred); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, errConflict()
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create credential").
			Wrap(err)
	}

	s.logger.Info("credential registered", "user_id", cred.ID.String())
	return s.issueSession(cred)
}

// Login authenticates an email and password pair and issues a session token.
// Unknown emails and wrong passwords fail identically, and both run a full
// hash comparison.
func (s *Service) Login(ctx context.Context, email, password string) (result *AuthResult, err error) {
	defer func() { s.observe("login", err) }()

	email = NormalizeEmail(email)
	cred, lookupErr := s.creds.GetByEmail(ctx, email)

	var targetHash string
	exists := false
	switch {
	case lookupErr == nil:
		targetHash = cred.PasswordHash
		exists = true
	case errors.Is(lookupErr, ErrNotFound):
		targetHash = s.dummy()
	default:
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get credential by email").
			Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !exists {
			return nil, errInvalidCredentials()
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			With("user_id", cred.ID.String()).
			Wrap(verifyErr)
	}
	if !exists || !valid {
		return nil, errInvalidCredentials()
	}

	if s.hasher.NeedsUpgrade(cred.PasswordHash) {
		if newHash, hashErr := s.hasher.Hash(password); hashErr == nil {
			if upErr := s.creds.UpdatePassword(ctx, cred.ID, newHash); upErr != nil {
				s.logger.Warn("password hash upgrade failed",
					"user_id", cred.ID.String(),
					"error", upErr)
			}
		}
	}

	return s.issueSession(cred)
}

// VerifySession resolves a session token to the current user. Malformed,
// forged or expired tokens and tokens whose subject is missing or inactive
// all fail with Unauthorized.
func (s *Service) VerifySession(ctx context.Context, token string) (user *User, err error) {
	defer func() { s.observe("verify_session", err) }()

	cred, err := s.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return cred.Sanitize(), nil
}

// GetProfile returns the user behind a session token.
func (s *Service) GetProfile(ctx context.Context, token string) (user *User, err error) {
	defer func() { s.observe("get_profile", err) }()

	cred, err := s.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return cred.Sanitize(), nil
}

// Refresh verifies a session token and issues a new one over the current
// credential state.
func (s *Service) Refresh(ctx context.Context, token string) (result *AuthResult, err error) {
	defer func() { s.observe("refresh", err) }()

	cred, err := s.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.issueSession(cred)
}

func (s *Service) resolveSession(ctx context.Context, token string) (*Credential, error) {
	if token == "" {
		return nil, errUnauthorized("missing token")
	}

	claims, err := s.sessions.Parse(token)
	if err != nil {
		reason := "invalid token"
		if ErrorCode(err) == "SESSION_EXPIRED" {
			reason = "expired token"
		}
		return nil, errUnauthorized(reason)
	}

	cred, err := s.creds.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errUnauthorized("subject not found")
		}
		return nil, oops.Code("AUTH_VERIFY_FAILED").
			With("operation", "get credential by id").
			With("user_id", claims.UserID.String()).
			Wrap(err)
	}
	if !cred.IsActive {
		return nil, errUnauthorized("subject inactive")
	}
	return cred, nil
}

// ChangePassword replaces the password of an authenticated user after
// verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, id ulid.ULID, currentPassword, newPassword string) (err error) {
	defer func() { s.observe("change_password", err) }()

	if err := validatePassword("newPassword", newPassword); err != nil {
		return err
	}

	cred, err := s.creds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errNotFound()
		}
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "get credential by id").
			With("user_id", id.String()).
			Wrap(err)
	}

	valid, err := s.hasher.Verify(currentPassword, cred.PasswordHash)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "verify password").
			With("user_id", id.String()).
			Wrap(err)
	}
	if !valid {
		return errInvalidCredentials()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}
	if err := s.creds.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errNotFound()
		}
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "update password").
			With("user_id", id.String()).
			Wrap(err)
	}

	s.logger.Info("password changed", "user_id", id.String())
	return nil
}

// Deactivate soft-deletes a credential. Outstanding session tokens stop
// verifying immediately.
func (s *Service) Deactivate(ctx context.Context, id ulid.ULID) (err error) {
	defer func() { s.observe("deactivate", err) }()

	if err := s.creds.Deactivate(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errNotFound()
		}
		return oops.Code("AUTH_DEACTIVATE_FAILED").
			With("operation", "deactivate credential").
			With("user_id", id.String()).
			Wrap(err)
	}

	s.logger.Info("credential deactivated", "user_id", id.String())
	return nil
}

// SetRole changes the role of an active credential.
func (s *Service) SetRole(ctx context.Context, id ulid.ULID, role Role) (user *User, err error) {
	defer func() { s.observe("set_role", err) }()

	if !role.Valid() {
		return nil, errInvalidInput("role", fmt.Sprintf("role must be %s or %s", RoleUser, RoleAdmin))
	}

	cred, err := s.creds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errNotFound()
		}
		return nil, oops.Code("AUTH_SET_ROLE_FAILED").
			With("operation", "get credential by id").
			With("user_id", id.String()).
			Wrap(err)
	}
	if cred.Role == role {
		return cred.Sanitize(), nil
	}

	cred.Role = role
	if err := s.creds.Update(ctx, cred); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errNotFound()
		}
		return nil, oops.Code("AUTH_SET_ROLE_FAILED").
			With("operation", "update credential").
			With("user_id", id.String()).
			Wrap(err)
	}

	s.logger.Info("credential role changed", "user_id", id.String(), "role", string(role))
	return cred.Sanitize(), nil
}
