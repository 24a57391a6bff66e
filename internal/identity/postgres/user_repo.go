// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

// Package postgres implements identity.UserRepository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/credentry/credentry/internal/identity"
)

// poolIface abstracts pgxpool.Pool for tests; pgxmock implements it.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements identity.UserRepository using PostgreSQL. The
// users_email_key unique index makes the INSERT in Save the arbiter of email
// uniqueness; the advisory check upstream only short-circuits the obvious
// case.
type Repository struct {
	pool poolIface
}

// NewRepository creates a new Repository.
func NewRepository(pool poolIface) *Repository {
	return &Repository{pool: pool}
}

// Save inserts the user. A unique-violation on the email index is surfaced
// as identity.ErrEmailTaken; the row is never partially written.
func (r *Repository) Save(ctx context.Context, user *identity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`,
		user.ID.String(),
		user.Email.String(),
		user.Password.String(),
		time.Now().UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("IDENTITY_EMAIL_TAKEN").
				With("constraint", pgErr.ConstraintName).
				Wrap(identity.ErrEmailTaken)
		}
		return oops.Code("USER_SAVE_FAILED").
			With("operation", "insert user").
			With("id", user.ID.String()).
			Wrap(err)
	}
	return nil
}

// FindByEmail retrieves a user by exact email match. The comparison is
// case-sensitive on purpose: email identity is exact-string.
func (r *Repository) FindByEmail(ctx context.Context, email identity.Email) (*identity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash FROM users
		WHERE email = $1
	`, email.String())

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("email", email.String()).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_BY_EMAIL_FAILED").
			With("operation", "find user by email").
			Wrap(err)
	}
	return user, nil
}

// GetByID retrieves a user by account id.
func (r *Repository) GetByID(ctx context.Context, id identity.AccountID) (*identity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash FROM users
		WHERE id = $1
	`, id.String())

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("operation", "get user by id").
			With("id", id.String()).
			Wrap(err)
	}
	return user, nil
}

// DeleteAll removes every user. Test reset hook only; it is not part of the
// identity.UserRepository contract.
func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users`)
	if err != nil {
		return oops.Code("USER_DELETE_ALL_FAILED").
			With("operation", "delete all users").
			Wrap(err)
	}
	return nil
}

// scanUser scans a single row into a User via the domain rehydration path.
// Callers are responsible for handling pgx.ErrNoRows.
func scanUser(row pgx.Row) (*identity.User, error) {
	var id, email, passwordHash string
	if err := row.Scan(&id, &email, &passwordHash); err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").
			With("operation", "scan user").
			Wrap(err)
	}
	return identity.RehydrateUser(id, email, passwordHash)
}

// Compile-time interface check.
var _ identity.UserRepository = (*Repository)(nil)
