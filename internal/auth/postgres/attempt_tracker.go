// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/librarium/librarium/internal/auth"
)

// AttemptTracker implements auth.ResetAttemptTracker with counter columns on
// the credential row.
type AttemptTracker struct {
	db  DB
	now func() time.Time
}

// NewAttemptTracker creates an AttemptTracker. A nil clock uses time.Now.
func NewAttemptTracker(db DB, now func() time.Time) *AttemptTracker {
	if now == nil {
		now = time.Now
	}
	return &AttemptTracker{db: db, now: now}
}

// CanRequest evaluates the reset window for email and clears a stale counter.
func (t *AttemptTracker) CanRequest(ctx context.Context, email string) (auth.AttemptDecision, error) {
	email = auth.NormalizeEmail(email)
	now := t.now().UTC()

	count, last, found, err := t.load(ctx, email)
	if err != nil {
		return auth.AttemptDecision{}, err
	}
	if !found {
		return auth.AttemptDecision{Allowed: true}, nil
	}

	decision := auth.CheckResetWindow(count, last, now)
	if decision.WindowElapsed {
		_, err := t.db.Exec(ctx, `
			UPDATE credentials SET reset_attempts = 0
			WHERE LOWER(email) = $1 AND is_active AND last_reset_attempt_at <= $2
		`, email, now.Add(-auth.ResetAttemptWindow))
		if err != nil {
			return auth.AttemptDecision{}, oops.Code("CREDENTIAL_RESET_ATTEMPTS_FAILED").
				With("operation", "clear reset attempts").
				Wrap(err)
		}
	}
	return decision, nil
}

// RecordAttempt increments the counter in a single conditional statement.
// The increment only happens while the window still allows it, so concurrent
// callers cannot push the count past the limit.
func (t *AttemptTracker) RecordAttempt(ctx context.Context, email string) (auth.AttemptDecision, error) {
	email = auth.NormalizeEmail(email)
	now := t.now().UTC()
	windowStart := now.Add(-auth.ResetAttemptWindow)

	var count int
	err := t.db.QueryRow(ctx, `
		UPDATE credentials SET
			reset_attempts = CASE
				WHEN last_reset_attempt_at IS NULL OR last_reset_attempt_at <= $2 THEN 1
				ELSE reset_attempts + 1
			END,
			last_reset_attempt_at = $3
		WHERE LOWER(email) = $1 AND is_active
		  AND (last_reset_attempt_at IS NULL OR last_reset_attempt_at <= $2 OR reset_attempts < $4)
		RETURNING reset_attempts
	`, email, windowStart, now, auth.ResetAttemptLimit).Scan(&count)
	if err == nil {
		return auth.AttemptDecision{Allowed: true, Count: count}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return auth.AttemptDecision{}, oops.Code("CREDENTIAL_RESET_ATTEMPTS_FAILED").
			With("operation", "record reset attempt").
			Wrap(err)
	}

	// Nothing updated: either the email is unknown or the limit is reached.
	count, last, found, err := t.load(ctx, email)
	if err != nil {
		return auth.AttemptDecision{}, err
	}
	if !found {
		return auth.AttemptDecision{Allowed: true}, nil
	}
	decision := auth.CheckResetWindow(count, last, now)
	decision.Allowed = false
	return decision, nil
}

func (t *AttemptTracker) load(ctx context.Context, email string) (count int, last *time.Time, found bool, err error) {
	err = t.db.QueryRow(ctx, `
		SELECT reset_attempts, last_reset_attempt_at
		FROM credentials
		WHERE LOWER(email) = $1 AND is_active
	`, email).Scan(&count, &last)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil, false, nil
	}
	if err != nil {
		return 0, nil, false, oops.Code("CREDENTIAL_RESET_ATTEMPTS_FAILED").
			With("operation", "load reset attempts").
			Wrap(err)
	}
	return count, last, true, nil
}

// Compile-time interface check.
var _ auth.ResetAttemptTracker = (*AttemptTracker)(nil)
