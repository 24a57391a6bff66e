// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity

import (
	"context"

	"github.com/samber/oops"
)

// User is the aggregate produced by a successful signup: a validated
// identifier, a validated email and a hashed password. It is created exactly
// once and never updated; no update or delete path exists in this domain.
type User struct {
	ID       AccountID
	Email    Email
	Password HashedPassword
}

// NewUser constructs a User from already-validated parts. Every field is
// re-validated anyway: the constructor is the last line of defense, so a User
// cannot exist with an invalid email or a non-hashed password even if a
// caller bypassed the validation pipeline.
func NewUser(id AccountID, email Email, password HashedPassword) (*User, error) {
	if id.IsZero() {
		return nil, oops.Code("IDENTITY_INVALID_USER").Errorf("account id is required")
	}
	// Failures here are reported as invariant bugs, never as validation
	// errors: the inputs were already validated, so a ValidationError must
	// not leak out of construction.
	if _, err := ParseEmail(email.String()); err != nil {
		return nil, oops.Code("IDENTITY_INVALID_USER").With("field", FieldEmail).Errorf("email failed re-validation")
	}
	if _, err := ParseHashedPassword(password.String()); err != nil {
		return nil, oops.Code("IDENTITY_INVALID_USER").With("field", FieldPassword).Errorf("password is not a hash")
	}
	return &User{ID: id, Email: email, Password: password}, nil
}

// RehydrateUser rebuilds a User from stored fields. A failure here means the
// stored record is corrupt, which is an infrastructure fault rather than bad
// caller input, so errors carry an oops code and never a ValidationError.
func RehydrateUser(id, email, passwordHash string) (*User, error) {
	accountID, err := ParseAccountID(id)
	if err != nil {
		return nil, oops.Code("IDENTITY_CORRUPT_USER").With("field", FieldID).Errorf("stored account id is malformed")
	}
	addr, err := ParseEmail(email)
	if err != nil {
		return nil, oops.Code("IDENTITY_CORRUPT_USER").With("field", FieldEmail).Errorf("stored email is malformed")
	}
	hash, err := ParseHashedPassword(passwordHash)
	if err != nil {
		return nil, oops.Code("IDENTITY_CORRUPT_USER").With("field", FieldPassword).Wrap(err)
	}
	return &User{ID: accountID, Email: addr, Password: hash}, nil
}

// UserRepository persists users behind an email uniqueness constraint.
type UserRepository interface {
	// Save inserts the user. The insert itself is the arbiter of email
	// uniqueness: of N concurrent Save calls carrying the same Email,
	// exactly one succeeds and the rest fail with ErrEmailTaken, with no
	// partial write and no observable state holding two matching rows.
	Save(ctx context.Context, user *User) error

	// FindByEmail retrieves a user by exact email match.
	// Returns ErrNotFound if no user holds the address.
	FindByEmail(ctx context.Context, email Email) (*User, error)

	// GetByID retrieves a user by account id.
	// Returns ErrNotFound if the account does not exist.
	GetByID(ctx context.Context, id AccountID) (*User, error)
}
