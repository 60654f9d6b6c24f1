// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Role is the authorization role carried by a credential.
type Role string

// Known roles.
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Name validation constraints.
const (
	MinNameLength = 2
	MaxNameLength = 100
)

// MinPasswordLength is the shortest plaintext password accepted for new
// secrets.
const MinPasswordLength = 8

// Credential is the stored authentication record of a user.
type Credential struct {
	ID                  ulid.ULID
	Name                string
	Email               string
	PasswordHash        string
	Role                Role
	ResetTokenHash      *string
	ResetTokenExpiresAt *time.Time
	ResetAttempts       int
	LastResetAttemptAt  *time.Time
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// User is the sanitized view of a credential. It never carries the password
// hash or any reset state.
type User struct {
	ID        ulid.ULID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sanitize projects the credential onto its public view.
func (c *Credential) Sanitize() *User {
	return &User{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Role:      c.Role,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// HasOutstandingReset reports whether a reset token is stored and unexpired at now.
func (c *Credential) HasOutstandingReset(now time.Time) bool {
	return c.ResetTokenHash != nil && ResetTokenUsable(c.ResetTokenExpiresAt, now)
}

// NewCredential creates an active USER credential with a fresh ID.
// The email is normalized; passwordHash must come from a PasswordHasher.
func NewCredential(name, email, passwordHash string) (*Credential, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	if email == "" {
		return nil, oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, oops.Code("AUTH_INVALID_PASSWORD").Errorf("password hash cannot be empty")
	}

	now := time.Now().UTC()
	return &Credential{
		ID:           ulid.Make(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidateName checks the display-name length bounds.
func ValidateName(name string) error {
	n := len([]rune(name))
	if n < MinNameLength {
		return oops.Code("AUTH_INVALID_NAME").
			With("min", MinNameLength).
			Errorf("name must be at least %d characters", MinNameLength)
	}
	if n > MaxNameLength {
		return oops.Code("AUTH_INVALID_NAME").
			With("max", MaxNameLength).
			Errorf("name must be at most %d characters", MaxNameLength)
	}
	return nil
}

// NormalizeEmail trims and lowercases an email address. Every lookup and
// write goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DefaultAllowedEmailDomains lists the mail providers accepted at
// registration.
var DefaultAllowedEmailDomains = []string{
	"gmail.com",
	"outlook.com",
	"hotmail.com",
	"live.com",
	"yahoo.com",
	"yahoo.es",
	"icloud.com",
	"me.com",
	"mac.com",
	"aol.com",
	"protonmail.com",
	"zoho.com",
	"yandex.com",
	"yandex.ru",
	"gmx.com",
	"gmx.de",
	"fastmail.com",
	"mail.com",
	"tutanota.com",
}

// EmailPolicy decides which email addresses may register.
type EmailPolicy struct {
	domains map[string]struct{}
}

// NewEmailPolicy builds a policy over the given domains. An empty list
// selects DefaultAllowedEmailDomains.
func NewEmailPolicy(domains []string) EmailPolicy {
	if len(domains) == 0 {
		domains = DefaultAllowedEmailDomains
	}
	p := EmailPolicy{domains: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			p.domains[d] = struct{}{}
		}
	}
	return p
}

// Allows reports whether email is well formed and its domain is allow-listed.
func (p EmailPolicy) Allows(email string) bool {
	email = NormalizeEmail(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	_, ok := p.domains[email[at+1:]]
	return ok
}

// CredentialRepository manages credential persistence. Lookups only see
// active credentials and return ErrNotFound otherwise.
type CredentialRepository interface {
	// Create stores a new credential. Returns an error wrapping ErrEmailTaken
	// when an active credential already uses the email.
	Create(ctx context.Context, cred *Credential) error

	// GetByID retrieves an active credential by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Credential, error)

	// GetByEmail retrieves an active credential by normalized email.
	GetByEmail(ctx context.Context, email string) (*Credential, error)

	// GetByResetTokenHash retrieves the active credential holding the reset
	// token hash.
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*Credential, error)

	// Update updates name, email and role of an existing credential.
	Update(ctx context.Context, cred *Credential) error

	// UpdatePassword replaces only the password hash.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error

	// SetResetToken stores a reset token hash and expiry, replacing any
	// outstanding token.
	SetResetToken(ctx context.Context, id ulid.ULID, tokenHash string, expiresAt time.Time) error

	// RedeemResetToken sets the password hash and clears the reset token in a
	// single statement, conditional on tokenHash still being stored and
	// expiring after now. Returns ErrNotFound when the token is no longer
	// outstanding.
	RedeemResetToken(ctx context.Context, id ulid.ULID, tokenHash, passwordHash string, now time.Time) error

	// Deactivate soft-deletes a credential.
	Deactivate(ctx context.Context, id ulid.ULID) error
}
