// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// ForgotPasswordMessage is returned by ForgotPassword whether or not the
// email belongs to an account.
const ForgotPasswordMessage = "If an account with that email exists, a reset link has been sent"

// ForgotPassword issues a reset token for email and sends the reset link.
// The same message is returned for unknown emails. Exceeding the attempt
// limit fails with TooManyRequests carrying the retry hint.
func (s *Service) ForgotPassword(ctx context.Context, email string) (msg string, err error) {
	defer func() { s.observe("forgot_password", err) }()

	email = NormalizeEmail(email)

	decision, err := s.attempts.CanRequest(ctx, email)
	if err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "check reset attempts").
			Wrap(err)
	}
	if !decision.Allowed {
		return "", errTooManyRequests(decision.RetryAfter)
	}

	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ForgotPasswordMessage, nil
		}
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "get credential by email").
			Wrap(err)
	}

	rt, err := IssueResetToken(s.now().UTC())
	if err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "issue reset token").
			Wrap(err)
	}

	recorded, err := s.attempts.RecordAttempt(ctx, email)
	if err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "record reset attempt").
			With("user_id", cred.ID.String()).
			Wrap(err)
	}
	if !recorded.Allowed {
		return "", errTooManyRequests(recorded.RetryAfter)
	}

	if err := s.creds.SetResetToken(ctx, cred.ID, rt.Hash, rt.ExpiresAt); err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "store reset token").
			With("user_id", cred.ID.String()).
			Wrap(err)
	}

	if err := s.notifier.SendResetLink(ctx, cred.Email, cred.Name, s.links.Link(rt.Token)); err != nil {
		return "", oops.Code("RESET_NOTIFY_FAILED").
			With("operation", "send reset link").
			With("user_id", cred.ID.String()).
			Wrap(err)
	}

	s.logger.Info("password reset requested",
		"user_id", cred.ID.String(),
		"attempt", recorded.Count,
		"expires_at", rt.ExpiresAt)
	return ForgotPasswordMessage, nil
}

// ResetPassword redeems a reset token and sets a new password. Unknown,
// superseded, used and expired tokens all fail with InvalidOrExpiredToken.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	defer func() { s.observe("reset_password", err) }()

	if err := validatePassword("newPassword", newPassword); err != nil {
		return err
	}
	if token == "" {
		return errInvalidOrExpiredToken()
	}

	tokenHash := HashResetToken(token)
	cred, err := s.creds.GetByResetTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errInvalidOrExpiredToken()
		}
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "get credential by reset token").
			Wrap(err)
	}
	if !cred.HasOutstandingReset(s.now()) || !VerifyResetToken(token, *cred.ResetTokenHash) {
		return errInvalidOrExpiredToken()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	// Hashing is slow; the store re-checks expiry against the time of redemption.
	if err := s.creds.RedeemResetToken(ctx, cred.ID, tokenHash, hash, s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errInvalidOrExpiredToken()
		}
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "redeem reset token").
			With("user_id", cred.ID.String()).
			Wrap(err)
	}

	s.logger.Info("password reset", "user_id", cred.ID.String())
	return nil
}
