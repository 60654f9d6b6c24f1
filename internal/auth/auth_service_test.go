// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/librarium/librarium/internal/auth"
	"github.com/librarium/librarium/internal/auth/mocks"
	"github.com/librarium/librarium/pkg/errutil"
)

type mockDeps struct {
	creds    *mocks.MockCredentialRepository
	attempts *mocks.MockResetAttemptTracker
	hasher   *mocks.MockPasswordHasher
	notifier *mocks.MockNotifier
	metrics  *recordingMetrics
	clock    *fixedClock
}

type recordingMetrics struct {
	observed []string
}

func (r *recordingMetrics) ObserveOperation(operation, outcome string) {
	r.observed = append(r.observed, operation+":"+outcome)
}

func newMockService(t *testing.T) (*auth.Service, *mockDeps) {
	t.Helper()
	d := &mockDeps{
		creds:    mocks.NewMockCredentialRepository(t),
		attempts: mocks.NewMockResetAttemptTracker(t),
		hasher:   mocks.NewMockPasswordHasher(t),
		notifier: mocks.NewMockNotifier(t),
		metrics:  &recordingMetrics{},
		clock:    &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	codec, err := auth.NewJWTCodec(testSecret, auth.WithCodecClock(d.clock.Now))
	require.NoError(t, err)
	links, err := auth.NewResetLinkBuilder("https://librarium.example/")
	require.NoError(t, err)

	svc, err := auth.NewService(auth.Dependencies{
		Credentials: d.creds,
		Attempts:    d.attempts,
		Hasher:      d.hasher,
		Sessions:    codec,
		Notifier:    d.notifier,
		ResetLinks:  links,
	}, auth.WithClock(d.clock.Now), auth.WithMetrics(d.metrics))
	require.NoError(t, err)
	return svc, d
}

func activeCredential(email string) *auth.Credential {
	return &auth.Credential{
		ID:           ulid.Make(),
		Name:         "Alice",
		Email:        email,
		PasswordHash: "$2a$12$stored",
		Role:         auth.RoleUser,
		IsActive:     true,
	}
}

func TestNewService_NilDependencies(t *testing.T) {
	links, err := auth.NewResetLinkBuilder("https://librarium.example")
	require.NoError(t, err)
	codec, err := auth.NewJWTCodec(testSecret)
	require.NoError(t, err)

	full := func() auth.Dependencies {
		return auth.Dependencies{
			Credentials: mocks.NewMockCredentialRepository(t),
			Attempts:    mocks.NewMockResetAttemptTracker(t),
			Hasher:      mocks.NewMockPasswordHasher(t),
			Sessions:    codec,
			Notifier:    mocks.NewMockNotifier(t),
			ResetLinks:  links,
		}
	}

	tests := []struct {
		name        string
		mutate      func(*auth.Dependencies)
		expectError string
	}{
		{"nil credential repository", func(d *auth.Dependencies) { d.Credentials = nil }, "credential repository is required"},
		{"nil attempt tracker", func(d *auth.Dependencies) { d.Attempts = nil }, "reset attempt tracker is required"},
		{"nil password hasher", func(d *auth.Dependencies) { d.Hasher = nil }, "password hasher is required"},
		{"nil session codec", func(d *auth.Dependencies) { d.Sessions = nil }, "session codec is required"},
		{"nil notifier", func(d *auth.Dependencies) { d.Notifier = nil }, "notifier is required"},
		{"zero reset links", func(d *auth.Dependencies) { d.ResetLinks = auth.ResetLinkBuilder{} }, "reset link builder is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := full()
			tt.mutate(&deps)
			svc, err := auth.NewService(deps)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
			errutil.AssertErrorCode(t, err, "AUTH_MISSING_DEPENDENCY")
		})
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects invalid input before touching storage", func(t *testing.T) {
		tests := []struct {
			name  string
			in    auth.RegisterInput
			field string
		}{
			{"short name", auth.RegisterInput{Name: "A", Email: "alice@gmail.com", Password: "Str0ng!Pass"}, "name"},
			{"disallowed domain", auth.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "Str0ng!Pass"}, "email"},
			{"malformed email", auth.RegisterInput{Name: "Alice", Email: "alice", Password: "Str0ng!Pass"}, "email"},
			{"short password", auth.RegisterInput{Name: "Alice", Email: "alice@gmail.com", Password: "short"}, "password"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, _ := newMockService(t)
				_, err := svc.Register(ctx, tt.in)
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, auth.CodeInvalidInput)
				errutil.AssertErrorContext(t, err, "field", tt.field)
			})
		}
	})

	t.Run("maps unique violation race to conflict", func(t *testing.T) {
		svc, d := newMockService(t)
		d.creds.EXPECT().GetByEmail(ctx, "alice@gmail.com").Return(nil, auth.ErrNotFound)
		d.hasher.EXPECT().Hash("Str0ng!Pass").Return("$2a$12$hash", nil)
		d.creds.EXPECT().Create(ctx, mock.AnythingOfType("*auth.Credential")).Return(auth.ErrEmailTaken)

		_, err := svc.Register(ctx, auth.RegisterInput{Name: "Alice", Email: "alice@gmail.com", Password: "Str0ng!Pass"})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeConflict)
		assert.Equal(t, []string{"register:failure"}, d.metrics.observed)
	})

	t.Run("stores hasher output and defaults", func(t *testing.T) {
		svc, d := newMockService(t)
		d.creds.EXPECT().GetByEmail(ctx, "alice@gmail.com").Return(nil, auth.ErrNotFound)
		d.hasher.EXPECT().Hash("Str0ng!Pass").Return("$2a$12$hash", nil)
		d.creds.EXPECT().Create(ctx, mock.MatchedBy(func(c *auth.Credential) bool {
			return c.PasswordHash == "$2a$12$hash" &&
				c.Role == auth.RoleUser &&
				c.IsActive &&
				c.CreatedAt.Equal(d.clock.now) &&
				c.ResetTokenHash == nil
		})).Return(nil)

		res, err := svc.Register(ctx, auth.RegisterInput{Name: " Alice ", Email: "alice@gmail.com", Password: "Str0ng!Pass"})
		require.NoError(t, err)
		assert.Equal(t, "Alice", res.User.Name)
		assert.Equal(t, []string{"register:success"}, d.metrics.observed)
	})

	t.Run("hash failure is internal", func(t *testing.T) {
		svc, d := newMockService(t)
		d.creds.EXPECT().GetByEmail(ctx, "alice@gmail.com").Return(nil, auth.ErrNotFound)
		d.hasher.EXPECT().Hash("Str0ng!Pass").Return("", assert.AnError)

		_, err := svc.Register(ctx, auth.RegisterInput{Name: "Alice", Email: "alice@gmail.com", Password: "Str0ng!Pass"})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_REGISTER_FAILED")
		assert.False(t, auth.IsTaxonomyError(err))
		assert.Equal(t, []string{"register:error"}, d.metrics.observed)
	})

	t.Run("lookup failure is internal", func(t *testing.T) {
		svc, d := newMockService(t)
		d.creds.EXPECT().GetByEmail(ctx, "alice@gmail.com").Return(nil, assert.AnError)

		_, err := svc.Register(ctx, auth.RegisterInput{Name: "Alice", Email: "alice@gmail.com", Password: "Str0ng!Pass"})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_REGISTER_FAILED")
		errutil.AssertErrorContext(t, err, "operation", "get credential by email")
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("upgrades weak hash on success", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		d.creds.EXPECT().GetByEmail(ctx, "alice@gmail.com").Return(cred, nil)
		d.hasher.EXPECT().Verify("Str0ng!Pass", cred.PasswordHash).Return(true, nil)
		d.hasher.EXPECT().NeedsUpgrade(cred.PasswordHash).Return(true)
		d.hasher.EXPECT().Hash("Str0ng!Pass").Return("$2a$12$upgraded", nil)
		d.creds.EXPECT().UpdatePassword(ctx, cred.ID, "$2a$12$upgraded").Return(nil)

		res, err := svc.Login(ctx, " Alice@Gmail.com", "Str0ng!Pass")
		require.NoError(t, err)
		assert.Equal(t, cred.ID, res.User.ID)
	})

	t.Run("upgrade failure does not fail login", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		d.creds.EXPECT().GetByEmail(ctx, "alice@gmail.com").Return(cred, nil)
		d.hasher.EXPECT().Verify("Str0ng!Pass", cred.PasswordHash).Return(true, nil)
		d.hasher.EXPECT().NeedsUpgrade(cred.PasswordHash).Return(true)
		d.hasher.EXPECT().Hash("Str0ng!Pass").Return("$2a$12$upgraded", nil)
		d.creds.EXPECT().UpdatePassword(ctx, cred.ID, "$2a$12$upgraded").Return(assert.AnError)

		_, err := svc.Login(ctx, "alice@gmail.com", "Str0ng!Pass")
		require.NoError(t, err)
	})

	t.Run("unknown email verifies against dummy hash", func(t *testing.T) {
		svc, d := newMockService(t)
		d.creds.EXPECT().GetByEmail(ctx, "nobody@gmail.com").Return(nil, auth.ErrNotFound)
		d.hasher.EXPECT().Hash(mock.AnythingOfType("string")).Return("$2a$12$dummy", nil).Once()
		d.hasher.EXPECT().Verify("whatever", "$2a$12$dummy").Return(false, nil)

		_, err := svc.Login(ctx, "nobody@gmail.com", "whatever")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeInvalidCredentials)
	})

	t.Run("malformed stored hash is internal", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		d.creds.EXPECT().GetByEmail(ctx, "alice@gmail.com").Return(cred, nil)
		d.hasher.EXPECT().Verify("Str0ng!Pass", cred.PasswordHash).Return(false, assert.AnError)

		_, err := svc.Login(ctx, "alice@gmail.com", "Str0ng!Pass")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_LOGIN_FAILED")
	})

	t.Run("repository failure is internal", func(t *testing.T) {
		svc, d := newMockService(t)
		d.creds.EXPECT().GetByEmail(ctx, "alice@gmail.com").Return(nil, assert.AnError)

		_, err := svc.Login(ctx, "alice@gmail.com", "Str0ng!Pass")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_LOGIN_FAILED")
		assert.Equal(t, []string{"login:error"}, d.metrics.observed)
	})
}

func TestService_VerifySession(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		svc, _ := newMockService(t)
		_, err := svc.VerifySession(ctx, "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeUnauthorized)
		errutil.AssertErrorContext(t, err, "reason", "missing token")
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _ := newMockService(t)
		_, err := svc.VerifySession(ctx, "abc.def.ghi")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeUnauthorized)
		errutil.AssertErrorContext(t, err, "reason", "invalid token")
	})

	t.Run("subject no longer exists", func(t *testing.T) {
		svc, d := newMockService(t)
		codec, err := auth.NewJWTCodec(testSecret, auth.WithCodecClock(d.clock.Now))
		require.NoError(t, err)
		cred := activeCredential("alice@gmail.com")
		token, _, err := codec.Sign(auth.ClaimsFor(cred), time.Hour)
		require.NoError(t, err)

		d.creds.EXPECT().GetByID(ctx, cred.ID).Return(nil, auth.ErrNotFound)

		_, err = svc.VerifySession(ctx, token)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeUnauthorized)
		errutil.AssertErrorContext(t, err, "reason", "subject not found")
	})

	t.Run("inactive subject", func(t *testing.T) {
		svc, d := newMockService(t)
		codec, err := auth.NewJWTCodec(testSecret, auth.WithCodecClock(d.clock.Now))
		require.NoError(t, err)
		cred := activeCredential("alice@gmail.com")
		token, _, err := codec.Sign(auth.ClaimsFor(cred), time.Hour)
		require.NoError(t, err)

		inactive := *cred
		inactive.IsActive = false
		d.creds.EXPECT().GetByID(ctx, cred.ID).Return(&inactive, nil)

		_, err = svc.VerifySession(ctx, token)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeUnauthorized)
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, d := newMockService(t)
		id := ulid.Make()
		d.creds.EXPECT().GetByID(ctx, id).Return(nil, auth.ErrNotFound)

		err := svc.ChangePassword(ctx, id, "Str0ng!Pass", "N3w!Password")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeNotFound)
	})

	t.Run("short new password rejected", func(t *testing.T) {
		svc, _ := newMockService(t)
		err := svc.ChangePassword(ctx, ulid.Make(), "Str0ng!Pass", "short")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, auth.CodeInvalidInput)
		errutil.AssertErrorContext(t, err, "field", "newPassword")
	})

	t.Run("hashes new password explicitly", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		d.creds.EXPECT().GetByID(ctx, cred.ID).Return(cred, nil)
		d.hasher.EXPECT().Verify("Str0ng!Pass", cred.PasswordHash).Return(true, nil)
		d.hasher.EXPECT().Hash("N3w!Password").Return("$2a$12$new", nil)
		d.creds.EXPECT().UpdatePassword(ctx, cred.ID, "$2a$12$new").Return(nil)

		require.NoError(t, svc.ChangePassword(ctx, cred.ID, "Str0ng!Pass", "N3w!Password"))
	})
}

func TestService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, d := newMockService(t)
		id := ulid.Make()
		d.creds.EXPECT().Deactivate(ctx, id).Return(auth.ErrNotFound)

		err := svc.Deactivate(ctx, id)
		errutil.AssertErrorCode(t, err, auth.CodeNotFound)
	})

	t.Run("storage failure is internal", func(t *testing.T) {
		svc, d := newMockService(t)
		id := ulid.Make()
		d.creds.EXPECT().Deactivate(ctx, id).Return(assert.AnError)

		err := svc.Deactivate(ctx, id)
		errutil.AssertErrorCode(t, err, "AUTH_DEACTIVATE_FAILED")
	})
}

func TestService_SetRole(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown role rejected before lookup", func(t *testing.T) {
		svc, _ := newMockService(t)
		_, err := svc.SetRole(ctx, ulid.Make(), auth.Role("ROOT"))
		errutil.AssertErrorCode(t, err, auth.CodeInvalidInput)
		errutil.AssertErrorContext(t, err, "field", "role")
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, d := newMockService(t)
		id := ulid.Make()
		d.creds.EXPECT().GetByID(ctx, id).Return(nil, auth.ErrNotFound)

		_, err := svc.SetRole(ctx, id, auth.RoleAdmin)
		errutil.AssertErrorCode(t, err, auth.CodeNotFound)
	})

	t.Run("persists the new role", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		d.creds.EXPECT().GetByID(ctx, cred.ID).Return(cred, nil)
		d.creds.EXPECT().Update(ctx, mock.MatchedBy(func(c *auth.Credential) bool {
			return c.ID == cred.ID && c.Role == auth.RoleAdmin
		})).Return(nil)

		user, err := svc.SetRole(ctx, cred.ID, auth.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, auth.RoleAdmin, user.Role)
		assert.Equal(t, []string{"set_role:success"}, d.metrics.observed)
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		d.creds.EXPECT().GetByID(ctx, cred.ID).Return(cred, nil)

		user, err := svc.SetRole(ctx, cred.ID, auth.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, auth.RoleUser, user.Role)
	})

	t.Run("storage failure is internal", func(t *testing.T) {
		svc, d := newMockService(t)
		cred := activeCredential("alice@gmail.com")
		d.creds.EXPECT().GetByID(ctx, cred.ID).Return(cred, nil)
		d.creds.EXPECT().Update(ctx, mock.Anything).Return(assert.AnError)

		_, err := svc.SetRole(ctx, cred.ID, auth.RoleAdmin)
		errutil.AssertErrorCode(t, err, "AUTH_SET_ROLE_FAILED")
	})
}
