// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity

import (
	"context"
	"errors"
	"runtime"

	"github.com/samber/oops"
	"golang.org/x/sync/semaphore"
)

// Service provides the domain-level signup policies: the advisory email
// uniqueness check and password hashing. It holds no state of its own; all
// state lives behind the UserRepository.
type Service struct {
	users   UserRepository
	hasher  PasswordHasher
	hashSem *semaphore.Weighted
}

// NewService creates a new Service.
func NewService(users UserRepository, hasher PasswordHasher) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &Service{
		users:   users,
		hasher:  hasher,
		hashSem: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}, nil
}

// AssertEmailUnicity fails with ErrEmailTaken if a user already holds the
// address. The check is advisory: two racing signups can both pass it before
// either has persisted, and UserRepository.Save remains the arbiter. It is
// performed once per command and never retried here.
func (s *Service) AssertEmailUnicity(ctx context.Context, email Email) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return oops.Code("IDENTITY_EMAIL_TAKEN").
			With("email", email.String()).
			Wrap(ErrEmailTaken)
	}
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return oops.Code("IDENTITY_UNICITY_CHECK_FAILED").
		With("operation", "find user by email").
		Wrap(err)
}

// HashPlainPassword derives a salted hash of the password. The derivation is
// expensive by design and holds 64 MiB per call with the default parameters,
// so concurrent derivations are bounded by a semaphore sized to GOMAXPROCS.
// Waiting for a slot respects ctx; unrelated requests run on their own
// goroutines and are never blocked by a hash in flight, and no lock is held
// while deriving.
func (s *Service) HashPlainPassword(ctx context.Context, password PlainPassword) (HashedPassword, error) {
	if err := s.hashSem.Acquire(ctx, 1); err != nil {
		return HashedPassword{}, oops.Code("IDENTITY_HASH_FAILED").
			With("operation", "acquire hash slot").
			Wrap(err)
	}
	defer s.hashSem.Release(1)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return HashedPassword{}, oops.Code("IDENTITY_HASH_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}
	return hash, nil
}
