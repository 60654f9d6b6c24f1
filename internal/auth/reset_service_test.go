// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/librarium/librarium/internal/auth"
	"github.com/librarium/librarium/pkg/errutil"
)

func TestService_ForgotPassword(t *testing.T) {
	ctx := context.Background()
	allowed := auth.AttemptDecision{Allowed: true}

	t.Run("denied before lookup", func(t *testing.T) {
		svc, d := newMockService(t)
		d.attempts.EXPECT().CanRequest(ctx, "alice@gmail.com").
			Return(auth.AttemptDecision{Count: 3, RetryAfter: 10*time.Minute + time.Second}, nil)

		_, err := svc.ForgotPassword(ctx, "alice@gmail.com")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeTooManyRequests)
		errutil.AssertErrorContext(t, err, auth.ContextRetryAfter, 10*time.Minute+time.Second)
		assert.Contains(t, err.Error(), "please wait 11 minutes")
		d.creds.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("unknown email returns generic message without issuing", func(t *testing.T) {
		svc, d := newMockService(t)
		d.attempts.EXPECT().CanRequest(ctx, "nobody@gmail.com").Return(allowed, nil)
		d.creds.EXPECT().GetByEmail(ctx, "nobody@gmail.com").Return(nil, auth.ErrNotFound)

		msg, err := svc.ForgotPassword(ctx, "nobody@gmail.com")
		require.NoError(t, err)
		assert.Equal(t, auth.ForgotPasswordMessage, msg)
		d.attempts.AssertNotCalled(t, "RecordAttempt", mock.Anything, mock.Anything)
		d.creds.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stores hash and sends plaintext link", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		var storedHash string

		d.attempts.EXPECT().CanRequest(ctx, "alice@gmail.com").Return(allowed, nil)
		d.creds.EXPECT().GetByEmail(ctx, "alice@gmail.com").Return(cred, nil)
		d.attempts.EXPECT().RecordAttempt(ctx, "alice@gmail.com").Return(auth.AttemptDecision{Allowed: true, Count: 1}, nil)
		d.creds.EXPECT().SetResetToken(ctx, cred.ID, mock.AnythingOfType("string"), d.clock.now.Add(time.Hour)).
			Run(func(_ context.Context, _ ulid.ULID, tokenHash string, _ time.Time) {
				storedHash = tokenHash
			}).
			Return(nil)
		d.notifier.EXPECT().SendResetLink(ctx, "alice@gmail.com", "Alice", mock.AnythingOfType("string")).
			Run(func(_ context.Context, _, _, link string) {
				require.True(t, strings.HasPrefix(link, "https://librarium.example/reset-password?token="))
				token := strings.TrimPrefix(link, "https://librarium.example/reset-password?token=")
				assert.Len(t, token, 64)
				assert.Equal(t, auth.HashResetToken(token), storedHash)
			}).
			Return(nil)

		msg, err := svc.ForgotPassword(ctx, "alice@gmail.com")
		require.NoError(t, err)
		assert.Equal(t, auth.ForgotPasswordMessage, msg)
		assert.Equal(t, []string{"forgot_password:success"}, d.metrics.observed)
	})

	t.Run("losing the record race is rate limited", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		d.attempts.EXPECT().CanRequest(ctx, "alice@gmail.com").Return(auth.AttemptDecision{Allowed: true, Count: 2}, nil)
		d.creds.EXPECT().GetByEmail(ctx, "alice@gmail.com").Return(cred, nil)
		d.attempts.EXPECT().RecordAttempt(ctx, "alice@gmail.com").
			Return(auth.AttemptDecision{Count: 3, RetryAfter: time.Hour}, nil)

		_, err := svc.ForgotPassword(ctx, "alice@gmail.com")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeTooManyRequests)
		d.creds.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("notifier failure is surfaced", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		d.attempts.EXPECT().CanRequest(ctx, "alice@gmail.com").Return(allowed, nil)
		d.creds.EXPECT().GetByEmail(ctx, "alice@gmail.com").Return(cred, nil)
		d.attempts.EXPECT().RecordAttempt(ctx, "alice@gmail.com").Return(auth.AttemptDecision{Allowed: true, Count: 1}, nil)
		d.creds.EXPECT().SetResetToken(ctx, cred.ID, mock.Anything, mock.Anything).Return(nil)
		d.notifier.EXPECT().SendResetLink(ctx, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		_, err := svc.ForgotPassword(ctx, "alice@gmail.com")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "RESET_NOTIFY_FAILED")
		assert.Equal(t, []string{"forgot_password:error"}, d.metrics.observed)
	})

	t.Run("tracker failure is internal", func(t *testing.T) {
		svc, d := newMockService(t)
		d.attempts.EXPECT().CanRequest(ctx, "alice@gmail.com").Return(auth.AttemptDecision{}, assert.AnError)

		_, err := svc.ForgotPassword(ctx, "alice@gmail.com")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "RESET_REQUEST_FAILED")
	})
}

func TestService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("redeems with a single conditional update", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		token := strings.Repeat("ab", 32)
		hash := auth.HashResetToken(token)
		expires := d.clock.now.Add(30 * time.Minute)
		cred.ResetTokenHash = &hash
		cred.ResetTokenExpiresAt = &expires

		d.creds.EXPECT().GetByResetTokenHash(ctx, hash).Return(cred, nil)
		d.hasher.EXPECT().Hash("N3w!Password").Return("$2a$12$new", nil)
		d.creds.EXPECT().RedeemResetToken(ctx, cred.ID, hash, "$2a$12$new", d.clock.now).Return(nil)

		require.NoError(t, svc.ResetPassword(ctx, token, "N3w!Password"))
	})

	t.Run("concurrent redemption loser fails", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		token := strings.Repeat("cd", 32)
		hash := auth.HashResetToken(token)
		expires := d.clock.now.Add(30 * time.Minute)
		cred.ResetTokenHash = &hash
		cred.ResetTokenExpiresAt = &expires

		d.creds.EXPECT().GetByResetTokenHash(ctx, hash).Return(cred, nil)
		d.hasher.EXPECT().Hash("N3w!Password").Return("$2a$12$new", nil)
		d.creds.EXPECT().RedeemResetToken(ctx, cred.ID, hash, "$2a$12$new", d.clock.now).Return(auth.ErrNotFound)

		err := svc.ResetPassword(ctx, token, "N3w!Password")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeInvalidOrExpiredToken)
	})

	t.Run("expiry instant is already expired", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		token := strings.Repeat("ef", 32)
		hash := auth.HashResetToken(token)
		expires := d.clock.now
		cred.ResetTokenHash = &hash
		cred.ResetTokenExpiresAt = &expires

		d.creds.EXPECT().GetByResetTokenHash(ctx, hash).Return(cred, nil)

		err := svc.ResetPassword(ctx, token, "N3w!Password")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeInvalidOrExpiredToken)
		d.hasher.AssertNotCalled(t, "Hash", mock.Anything)
	})

	t.Run("stored hash must match the presented token", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		token := strings.Repeat("12", 32)
		other := auth.HashResetToken(strings.Repeat("34", 32))
		expires := d.clock.now.Add(30 * time.Minute)
		cred.ResetTokenHash = &other
		cred.ResetTokenExpiresAt = &expires

		d.creds.EXPECT().GetByResetTokenHash(ctx, auth.HashResetToken(token)).Return(cred, nil)

		err := svc.ResetPassword(ctx, token, "N3w!Password")
		errutil.AssertErrorCode(t, err, auth.CodeInvalidOrExpiredToken)
		d.hasher.AssertNotCalled(t, "Hash", mock.Anything)
	})

	t.Run("redeem is bounded by the time after hashing", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		token := strings.Repeat("56", 32)
		hash := auth.HashResetToken(token)
		expires := d.clock.now.Add(time.Second)
		cred.ResetTokenHash = &hash
		cred.ResetTokenExpiresAt = &expires
		afterHash := d.clock.now.Add(2 * time.Second)

		d.creds.EXPECT().GetByResetTokenHash(ctx, hash).Return(cred, nil)
		d.hasher.EXPECT().Hash("N3w!Password").
			Run(func(string) { d.clock.now = afterHash }).
			Return("$2a$12$new", nil)
		d.creds.EXPECT().RedeemResetToken(ctx, cred.ID, hash, "$2a$12$new", afterHash).Return(auth.ErrNotFound)

		err := svc.ResetPassword(ctx, token, "N3w!Password")
		errutil.AssertErrorCode(t, err, auth.CodeInvalidOrExpiredToken)
	})

	t.Run("empty token", func(t *testing.T) {
		svc, _ := newMockService(t)
		err := svc.ResetPassword(ctx, "", "N3w!Password")
		errutil.AssertErrorCode(t, err, auth.CodeInvalidOrExpiredToken)
	})

	t.Run("short password", func(t *testing.T) {
		svc, _ := newMockService(t)
		err := svc.ResetPassword(ctx, "token", "short")
		errutil.AssertErrorCode(t, err, auth.CodeInvalidInput)
	})

	t.Run("lookup failure is internal", func(t *testing.T) {
		svc, d := newMockService(t)
		d.creds.EXPECT().GetByResetTokenHash(ctx, mock.Anything).Return(nil, assert.AnError)

		err := svc.ResetPassword(ctx, "token", "N3w!Password")
		errutil.AssertErrorCode(t, err, "RESET_PASSWORD_FAILED")
	})
}
