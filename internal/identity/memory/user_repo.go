// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

// Package memory provides an in-memory identity.UserRepository for tests and
// the single-process development backend.
package memory

import (
	"context"
	"sync"

	"github.com/samber/oops"

	"github.com/credentry/credentry/internal/identity"
)

// Repository implements identity.UserRepository with maps guarded by one
// mutex. The check-and-insert in Save runs under the lock, which gives it
// the same atomic uniqueness semantics the postgres implementation gets from
// its unique index.
type Repository struct {
	mu      sync.Mutex
	byID    map[string]identity.User
	byEmail map[string]string // email -> account id, exact-string keys
}

// NewRepository creates an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		byID:    make(map[string]identity.User),
		byEmail: make(map[string]string),
	}
}

// Save inserts the user, failing with identity.ErrEmailTaken if the email is
// already held. The write is all-or-nothing.
func (r *Repository) Save(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email.String()]; taken {
		return oops.Code("IDENTITY_EMAIL_TAKEN").
			With("email", user.Email.String()).
			Wrap(identity.ErrEmailTaken)
	}
	if _, exists := r.byID[user.ID.String()]; exists {
		return oops.Code("USER_SAVE_FAILED").
			With("id", user.ID.String()).
			Errorf("duplicate account id")
	}

	r.byID[user.ID.String()] = *user
	r.byEmail[user.Email.String()] = user.ID.String()
	return nil
}

// FindByEmail retrieves a user by exact email match.
func (r *Repository) FindByEmail(_ context.Context, email identity.Email) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email.String()]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").
			With("email", email.String()).
			Wrap(identity.ErrNotFound)
	}
	user := r.byID[id]
	return &user, nil
}

// GetByID retrieves a user by account id.
func (r *Repository) GetByID(_ context.Context, id identity.AccountID) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id.String()]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(identity.ErrNotFound)
	}
	return &user, nil
}

// Count returns the number of stored users.
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// DeleteAll clears the repository. Test and dev reset hook only; it is not
// part of the identity.UserRepository contract.
func (r *Repository) DeleteAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[string]identity.User)
	r.byEmail = make(map[string]string)
}

// Compile-time interface check.
var _ identity.UserRepository = (*Repository)(nil)
