// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// Reset token configuration.
const (
	ResetTokenBytes  = 32        // 32 bytes = 64 hex chars
	ResetTokenExpiry = time.Hour // 1 hour expiry
)

// ResetToken is a freshly issued password reset token. Token is sent to the
// user; only Hash is stored.
type ResetToken struct {
	Token     string
	Hash      string
	ExpiresAt time.Time
}

// IssueResetToken creates a random reset token expiring ResetTokenExpiry
// after now.
func IssueResetToken(now time.Time) (ResetToken, error) {
	tokenBytes := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return ResetToken{}, oops.Code("RESET_TOKEN_GENERATE_FAILED").Wrap(err)
	}

	token := hex.EncodeToString(tokenBytes)
	return ResetToken{
		Token:     token,
		Hash:      HashResetToken(token),
		ExpiresAt: now.Add(ResetTokenExpiry),
	}, nil
}

// HashResetToken computes the SHA-256 hex digest stored for a token.
func HashResetToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifyResetToken checks if the plaintext token matches the stored hash in
// constant time.
func VerifyResetToken(token, hash string) bool {
	if token == "" || hash == "" {
		return false
	}
	computed := HashResetToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// ResetTokenUsable reports whether a stored expiry still admits redemption at now.
func ResetTokenUsable(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && now.Before(*expiresAt)
}
