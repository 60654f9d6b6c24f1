// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package auth

import (
	"errors"
	"math"
	"time"

	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is wrapped by repositories when an active credential already
// uses the email.
var ErrEmailTaken = errors.New("email already registered")

// Error codes surfaced at the service boundary. Any other code is internal.
const (
	CodeConflict              = "AUTH_CONFLICT"
	CodeInvalidCredentials    = "AUTH_INVALID_CREDENTIALS"
	CodeUnauthorized          = "AUTH_UNAUTHORIZED"
	CodeNotFound              = "AUTH_NOT_FOUND"
	CodeTooManyRequests       = "AUTH_TOO_MANY_REQUESTS"
	CodeInvalidOrExpiredToken = "RESET_TOKEN_INVALID"
	CodeInvalidInput          = "AUTH_INVALID_INPUT"
)

// ContextRetryAfter is the oops context key holding the retry hint of a
// rate-limited request.
const ContextRetryAfter = "retry_after"

func errConflict() error {
	return oops.Code(CodeConflict).Errorf("a user with this email already exists")
}

func errInvalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf("invalid email or password")
}

func errUnauthorized(reason string) error {
	return oops.Code(CodeUnauthorized).
		With("reason", reason).
		Errorf("unauthorized")
}

func errNotFound() error {
	return oops.Code(CodeNotFound).Errorf("user not found")
}

func errInvalidOrExpiredToken() error {
	return oops.Code(CodeInvalidOrExpiredToken).Errorf("invalid or expired token")
}

func errInvalidInput(field, msg string) error {
	return oops.Code(CodeInvalidInput).
		With("field", field).
		Errorf("%s", msg)
}

func errTooManyRequests(retryAfter time.Duration) error {
	return oops.Code(CodeTooManyRequests).
		With(ContextRetryAfter, retryAfter).
		Errorf("you have exceeded the attempt limit, please wait %d minutes", RetryAfterMinutes(retryAfter))
}

// RetryAfterMinutes rounds a retry hint up to whole minutes.
func RetryAfterMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Minutes()))
}

// ErrorCode returns the oops code of err, or "" when err carries none.
func ErrorCode(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := oopsErr.Code().(string)
	return code
}

// RetryAfter extracts the retry hint from a rate-limited error.
func RetryAfter(err error) (time.Duration, bool) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return 0, false
	}
	d, ok := oopsErr.Context()[ContextRetryAfter].(time.Duration)
	return d, ok
}
