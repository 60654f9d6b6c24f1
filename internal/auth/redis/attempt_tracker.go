// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

// Package redis keeps password reset attempt counters in Redis so several
// service instances share one window per account.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/librarium/librarium/internal/auth"
)

// DefaultKeyPrefix namespaces tracker keys.
const DefaultKeyPrefix = "librarium:reset-attempts:"

// recordScript increments the counter only while the window allows it.
// It returns {allowed, count, last_ms}.
var recordScript = goredis.NewScript(`
local count = tonumber(redis.call('HGET', KEYS[1], 'count') or '0')
local last = tonumber(redis.call('HGET', KEYS[1], 'last') or '0')
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

if last == 0 or now - last >= window then
  count = 0
end
if count >= limit then
  return {0, count, last}
end

count = count + 1
redis.call('HSET', KEYS[1], 'count', count, 'last', ARGV[1])
redis.call('PEXPIRE', KEYS[1], window)
return {1, count, now}
`)

// AttemptTracker implements auth.ResetAttemptTracker on a Redis hash per
// account. Keys hold a digest of the normalized email, never the address.
type AttemptTracker struct {
	client goredis.UniversalClient
	prefix string
	now    func() time.Time
}

// Option configures an AttemptTracker.
type Option func(*AttemptTracker)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(t *AttemptTracker) { t.prefix = prefix }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(t *AttemptTracker) { t.now = now }
}

// NewAttemptTracker creates a tracker on client.
func NewAttemptTracker(client goredis.UniversalClient, opts ...Option) *AttemptTracker {
	t := &AttemptTracker{client: client, prefix: DefaultKeyPrefix, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *AttemptTracker) key(email string) string {
	sum := sha256.Sum256([]byte(auth.NormalizeEmail(email)))
	return t.prefix + hex.EncodeToString(sum[:])
}

// CanRequest evaluates the window without counting. An elapsed window
// deletes the key.
func (t *AttemptTracker) CanRequest(ctx context.Context, email string) (auth.AttemptDecision, error) {
	key := t.key(email)
	now := t.now()

	vals, err := t.client.HMGet(ctx, key, "count", "last").Result()
	if err != nil {
		return auth.AttemptDecision{}, oops.Code("RESET_ATTEMPTS_STORE_FAILED").
			With("operation", "load reset attempts").
			Wrap(err)
	}
	count, last, err := parseState(vals)
	if err != nil {
		return auth.AttemptDecision{}, err
	}

	decision := auth.CheckResetWindow(count, last, now)
	if decision.WindowElapsed {
		if err := t.client.Del(ctx, key).Err(); err != nil {
			return auth.AttemptDecision{}, oops.Code("RESET_ATTEMPTS_STORE_FAILED").
				With("operation", "clear reset attempts").
				Wrap(err)
		}
	}
	return decision, nil
}

// RecordAttempt runs the guarded increment as one script.
func (t *AttemptTracker) RecordAttempt(ctx context.Context, email string) (auth.AttemptDecision, error) {
	now := t.now()
	res, err := recordScript.Run(ctx, t.client, []string{t.key(email)},
		now.UnixMilli(),
		auth.ResetAttemptWindow.Milliseconds(),
		auth.ResetAttemptLimit,
	).Int64Slice()
	if err != nil {
		return auth.AttemptDecision{}, oops.Code("RESET_ATTEMPTS_STORE_FAILED").
			With("operation", "record reset attempt").
			Wrap(err)
	}
	if len(res) != 3 {
		return auth.AttemptDecision{}, oops.Code("RESET_ATTEMPTS_STORE_FAILED").
			With("operation", "record reset attempt").
			Errorf("unexpected script reply of length %d", len(res))
	}

	count := int(res[1])
	if res[0] == 1 {
		return auth.AttemptDecision{Allowed: true, Count: count}, nil
	}
	last := time.UnixMilli(res[2])
	decision := auth.CheckResetWindow(count, &last, now)
	decision.Allowed = false
	return decision, nil
}

func parseState(vals []any) (int, *time.Time, error) {
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return 0, nil, nil
	}
	count, errCount := toInt64(vals[0])
	lastMs, errLast := toInt64(vals[1])
	if err := errors.Join(errCount, errLast); err != nil {
		return 0, nil, oops.Code("RESET_ATTEMPTS_STORE_FAILED").
			With("operation", "parse reset attempts").
			Wrap(err)
	}
	last := time.UnixMilli(lastMs)
	return int(count), &last, nil
}

func toInt64(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, oops.Errorf("unexpected value type %T", v)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, oops.Wrapf(err, "malformed counter %q", s)
	}
	return n, nil
}

var _ auth.ResetAttemptTracker = (*AttemptTracker)(nil)
