// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

// Package auth provides the credential and session lifecycle for Librarium.
//
// # Domain Types
//
// A Credential is the stored authentication record of a user. It is created
// with NewCredential, which validates the name, normalizes the email and
// requires a password hash produced by a PasswordHasher. Only the sanitized
// User view leaves this package through Service results.
//
// # Primitives
//
//   - BcryptHasher - adaptive password hashing (cost 12 by default)
//   - CheckResetWindow - the rolling reset-attempt rule (3 per hour)
//   - IssueResetToken - single-use reset tokens, stored as SHA-256 digests
//   - JWTCodec - signed, expiring session tokens over SessionClaims
//
// # Services
//
// Service coordinates registration, login, session verification and refresh,
// password change, and the forgot/reset password flow. Collaborators are
// supplied through Dependencies: a CredentialRepository, a
// ResetAttemptTracker, a Notifier and the primitives above.
//
// Failures surfaced to callers carry one of the Code* constants; any other
// code is an internal failure.
package auth
