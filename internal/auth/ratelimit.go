// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package auth

import (
	"context"
	"time"
)

// Reset rate limiting configuration.
const (
	// ResetAttemptLimit is the number of reset requests allowed per window.
	ResetAttemptLimit = 3

	// ResetAttemptWindow is the rolling window, anchored at the last
	// recorded attempt.
	ResetAttemptWindow = time.Hour
)

// AttemptDecision is the outcome of evaluating the reset window.
type AttemptDecision struct {
	// Allowed indicates another reset request may proceed.
	Allowed bool

	// Count is the effective number of attempts in the current window.
	// It is 0 when the window has elapsed.
	Count int

	// WindowElapsed indicates the stored counter is stale and should be reset.
	WindowElapsed bool

	// RetryAfter is the time until the window reopens. Zero when allowed.
	RetryAfter time.Duration
}

// RetryAfterMinutes reports RetryAfter in whole minutes, rounded up.
func (d AttemptDecision) RetryAfterMinutes() int {
	return RetryAfterMinutes(d.RetryAfter)
}

// CheckResetWindow evaluates the reset rate limit for a stored count and
// last attempt time.
func CheckResetWindow(count int, last *time.Time, now time.Time) AttemptDecision {
	if last == nil || !now.Before(last.Add(ResetAttemptWindow)) {
		return AttemptDecision{Allowed: true, WindowElapsed: last != nil && count > 0}
	}

	if count < ResetAttemptLimit {
		return AttemptDecision{Allowed: true, Count: count}
	}

	return AttemptDecision{
		Count:      count,
		RetryAfter: last.Add(ResetAttemptWindow).Sub(now),
	}
}

// ResetAttemptTracker counts password reset requests per email. Implementations
// must be safe across service instances.
type ResetAttemptTracker interface {
	// CanRequest evaluates the window for email. When the window has elapsed
	// the stored counter is reset to zero. Unknown emails are allowed.
	CanRequest(ctx context.Context, email string) (AttemptDecision, error)

	// RecordAttempt atomically increments the counter if the window still
	// allows it, and returns a denied decision otherwise.
	RecordAttempt(ctx context.Context, email string) (AttemptDecision, error)
}
