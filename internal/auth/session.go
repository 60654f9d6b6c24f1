// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session token configuration.
const (
	SessionClaimsVersion  = 1
	DefaultSessionTTL     = 24 * time.Hour
	DefaultSessionIssuer  = "librarium"
	MinSessionSecretBytes = 32
)

// Session token errors.
var (
	ErrSessionExpired = oops.Code("SESSION_EXPIRED").Errorf("session token expired")
	ErrSessionInvalid = oops.Code("SESSION_INVALID").Errorf("session token invalid")
)

// SessionClaims is the signed content of a session token. Fields are added
// here explicitly; nothing else from the credential is ever embedded.
type SessionClaims struct {
	Version int       `json:"ver"`
	UserID  ulid.ULID `json:"uid"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Role    Role      `json:"role"`
	jwt.RegisteredClaims
}

// ClaimsFor builds session claims for a credential.
func ClaimsFor(c *Credential) SessionClaims {
	return SessionClaims{
		Version: SessionClaimsVersion,
		UserID:  c.ID,
		Email:   c.Email,
		Name:    c.Name,
		Role:    c.Role,
	}
}

// SessionCodec signs and parses session tokens.
type SessionCodec interface {
	// Sign issues a token for claims, valid for ttl from now.
	Sign(claims SessionClaims, ttl time.Duration) (token string, expiresAt time.Time, err error)

	// Parse verifies structure, signature and expiry. Returns an error
	// wrapping ErrSessionExpired or ErrSessionInvalid.
	Parse(token string) (*SessionClaims, error)
}

// JWTCodec implements SessionCodec with HS256 JSON Web Tokens.
type JWTCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// JWTOption configures a JWTCodec.
type JWTOption func(*JWTCodec)

// WithIssuer overrides the token issuer.
func WithIssuer(issuer string) JWTOption {
	return func(c *JWTCodec) {
		c.issuer = issuer
	}
}

// WithCodecClock sets the time source used for issuing and validating tokens.
func WithCodecClock(now func() time.Time) JWTOption {
	return func(c *JWTCodec) {
		c.now = now
	}
}

// NewJWTCodec creates a JWTCodec. The secret must be at least
// MinSessionSecretBytes long.
func NewJWTCodec(secret []byte, opts ...JWTOption) (*JWTCodec, error) {
	if len(secret) < MinSessionSecretBytes {
		return nil, oops.Code("SESSION_SECRET_TOO_SHORT").
			With("min_bytes", MinSessionSecretBytes).
			Errorf("session secret must be at least %d bytes", MinSessionSecretBytes)
	}
	c := &JWTCodec{
		secret: secret,
		issuer: DefaultSessionIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Sign implements SessionCodec.
func (c *JWTCodec) Sign(claims SessionClaims, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := c.now().UTC()
	expiresAt := now.Add(ttl)

	claims.Version = SessionClaimsVersion
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID.String(),
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, oops.Code("SESSION_SIGN_FAILED").Wrap(err)
	}
	return signed, expiresAt, nil
}

// Parse implements SessionCodec.
func (c *JWTCodec) Parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, oops.With("cause", err.Error()).Wrap(ErrSessionExpired)
		}
		return nil, oops.With("cause", err.Error()).Wrap(ErrSessionInvalid)
	}
	if !parsed.Valid || claims.Version != SessionClaimsVersion {
		return nil, oops.With("version", claims.Version).Wrap(ErrSessionInvalid)
	}
	if claims.Subject != claims.UserID.String() {
		return nil, oops.With("reason", "subject mismatch").Wrap(ErrSessionInvalid)
	}
	return claims, nil
}
