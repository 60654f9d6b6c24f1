// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/librarium/librarium/internal/auth"
)

// DB is the subset of *pgxpool.Pool used by the repositories.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const credentialColumns = `id, name, email, password_hash, role,
		       reset_token_hash, reset_token_expires_at,
		       reset_attempts, last_reset_attempt_at,
		       is_active, created_at, updated_at`

// CredentialRepository implements auth.CredentialRepository using PostgreSQL.
type CredentialRepository struct {
	db  DB
	now func() time.Time
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(db DB) *CredentialRepository {
	return &CredentialRepository{db: db, now: time.Now}
}

// Create stores a new credential.
func (r *CredentialRepository) Create(ctx context.Context, cred *auth.Credential) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO credentials (
			id, name, email, password_hash, role,
			reset_token_hash, reset_token_expires_at,
			reset_attempts, last_reset_attempt_at,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		cred.ID.String(),
		cred.Name,
		auth.NormalizeEmail(cred.Email),
		cred.PasswordHash,
		string(cred.Role),
		cred.ResetTokenHash,
		cred.ResetTokenExpiresAt,
		cred.ResetAttempts,
		cred.LastResetAttemptAt,
		cred.IsActive,
		cred.CreatedAt,
		cred.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("CREDENTIAL_EMAIL_TAKEN").
				With("constraint", pgErr.ConstraintName).
				Wrap(auth.ErrEmailTaken)
		}
		return oops.Code("CREDENTIAL_CREATE_FAILED").
			With("operation", "insert credential").
			With("id", cred.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves an active credential by ID.
func (r *CredentialRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.Credential, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+credentialColumns+`
		FROM credentials
		WHERE id = $1 AND is_active
	`, id.String())

	cred, err := scanCredential(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CREDENTIAL_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_GET_BY_ID_FAILED").
			With("operation", "get credential by id").
			With("id", id.String()).
			Wrap(err)
	}
	return cred, nil
}

// GetByEmail retrieves an active credential by email (case-insensitive).
func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*auth.Credential, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+credentialColumns+`
		FROM credentials
		WHERE LOWER(email) = $1 AND is_active
	`, auth.NormalizeEmail(email))

	cred, err := scanCredential(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CREDENTIAL_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_GET_BY_EMAIL_FAILED").
			With("operation", "get credential by email").
			Wrap(err)
	}
	return cred, nil
}

// GetByResetTokenHash retrieves the active credential holding a reset token hash.
func (r *CredentialRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*auth.Credential, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+credentialColumns+`
		FROM credentials
		WHERE reset_token_hash = $1 AND is_active
	`, tokenHash)

	cred, err := scanCredential(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CREDENTIAL_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_GET_BY_RESET_TOKEN_FAILED").
			With("operation", "get credential by reset token").
			Wrap(err)
	}
	return cred, nil
}

// Update updates the name, email and role of an active credential.
func (r *CredentialRepository) Update(ctx context.Context, cred *auth.Credential) error {
	result, err := r.db.Exec(ctx, `
		UPDATE credentials SET
			name = $2,
			email = $3,
			role = $4,
			updated_at = $5
		WHERE id = $1 AND is_active
	`,
		cred.ID.String(),
		cred.Name,
		auth.NormalizeEmail(cred.Email),
		string(cred.Role),
		r.now(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("CREDENTIAL_EMAIL_TAKEN").Wrap(auth.ErrEmailTaken)
		}
		return oops.Code("CREDENTIAL_UPDATE_FAILED").
			With("operation", "update credential").
			With("id", cred.ID.String()).
			Wrap(err)
	}
	return requireRow(result, "update credential", cred.ID)
}

// UpdatePassword replaces only the password hash.
func (r *CredentialRepository) UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE credentials SET password_hash = $2, updated_at = $3
		WHERE id = $1 AND is_active
	`, id.String(), passwordHash, r.now())
	if err != nil {
		return oops.Code("CREDENTIAL_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("id", id.String()).
			Wrap(err)
	}
	return requireRow(result, "update password", id)
}

// SetResetToken stores a reset token hash and expiry, overwriting any
// outstanding token.
func (r *CredentialRepository) SetResetToken(ctx context.Context, id ulid.ULID, tokenHash string, expiresAt time.Time) error {
	result, err := r.db.Exec(ctx, `
		UPDATE credentials SET
			reset_token_hash = $2,
			reset_token_expires_at = $3,
			updated_at = $4
		WHERE id = $1 AND is_active
	`, id.String(), tokenHash, expiresAt, r.now())
	if err != nil {
		return oops.Code("CREDENTIAL_SET_RESET_TOKEN_FAILED").
			With("operation", "set reset token").
			With("id", id.String()).
			Wrap(err)
	}
	return requireRow(result, "set reset token", id)
}

// RedeemResetToken sets the password hash and clears the reset token in one
// statement. The WHERE clause on the token hash makes concurrent redemptions
// of the same token mutually exclusive; the expiry guard rejects a token that
// lapsed after it was looked up.
func (r *CredentialRepository) RedeemResetToken(ctx context.Context, id ulid.ULID, tokenHash, passwordHash string, now time.Time) error {
	result, err := r.db.Exec(ctx, `
		UPDATE credentials SET
			password_hash = $3,
			reset_token_hash = NULL,
			reset_token_expires_at = NULL,
			updated_at = $4
		WHERE id = $1 AND reset_token_hash = $2 AND reset_token_expires_at > $4 AND is_active
	`, id.String(), tokenHash, passwordHash, now)
	if err != nil {
		return oops.Code("CREDENTIAL_REDEEM_RESET_TOKEN_FAILED").
			With("operation", "redeem reset token").
			With("id", id.String()).
			Wrap(err)
	}
	return requireRow(result, "redeem reset token", id)
}

// Deactivate soft-deletes a credential.
func (r *CredentialRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		UPDATE credentials SET
			is_active = FALSE,
			reset_token_hash = NULL,
			reset_token_expires_at = NULL,
			updated_at = $2
		WHERE id = $1 AND is_active
	`, id.String(), r.now())
	if err != nil {
		return oops.Code("CREDENTIAL_DEACTIVATE_FAILED").
			With("operation", "deactivate credential").
			With("id", id.String()).
			Wrap(err)
	}
	return requireRow(result, "deactivate credential", id)
}

func requireRow(result pgconn.CommandTag, operation string, id ulid.ULID) error {
	if result.RowsAffected() == 0 {
		return oops.Code("CREDENTIAL_NOT_FOUND").
			With("operation", operation).
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// scanCredential scans a single row into a Credential.
// Callers are responsible for handling pgx.ErrNoRows.
func scanCredential(row pgx.Row) (*auth.Credential, error) {
	var (
		idStr string
		role  string
		cred  auth.Credential
	)

	err := row.Scan(
		&idStr,
		&cred.Name,
		&cred.Email,
		&cred.PasswordHash,
		&role,
		&cred.ResetTokenHash,
		&cred.ResetTokenExpiresAt,
		&cred.ResetAttempts,
		&cred.LastResetAttemptAt,
		&cred.IsActive,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("CREDENTIAL_SCAN_FAILED").
			With("operation", "scan credential").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("CREDENTIAL_INVALID_ID").
			With("operation", "parse credential id").
			With("id", idStr).
			Wrap(err)
	}
	cred.ID = id
	cred.Role = auth.Role(role)
	if !cred.Role.Valid() {
		return nil, oops.Code("CREDENTIAL_INVALID_ROLE").
			With("id", idStr).
			With("role", role).
			Errorf("unknown role %q", role)
	}
	return &cred, nil
}

// Compile-time interface check.
var _ auth.CredentialRepository = (*CredentialRepository)(nil)
