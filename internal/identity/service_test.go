// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credentry/credentry/internal/identity"
	"github.com/credentry/credentry/internal/identity/memory"
)

// stubRepo lets individual tests script repository behavior without a
// storage backend.
type stubRepo struct {
	saveErr    error
	findUser   *identity.User
	findErr    error
	savePanics bool
}

func (s *stubRepo) Save(context.Context, *identity.User) error {
	if s.savePanics {
		panic("repository exploded")
	}
	return s.saveErr
}

func (s *stubRepo) FindByEmail(context.Context, identity.Email) (*identity.User, error) {
	return s.findUser, s.findErr
}

func (s *stubRepo) GetByID(context.Context, identity.AccountID) (*identity.User, error) {
	return nil, identity.ErrNotFound
}

// stubHasher returns canned results without deriving anything.
type stubHasher struct {
	hash identity.HashedPassword
	err  error
}

func (s *stubHasher) Hash(identity.PlainPassword) (identity.HashedPassword, error) {
	return s.hash, s.err
}

func (s *stubHasher) Verify(identity.PlainPassword, identity.HashedPassword) (bool, error) {
	return false, nil
}

func TestNewService_NilDependencies(t *testing.T) {
	tests := []struct {
		name        string
		users       identity.UserRepository
		hasher      identity.PasswordHasher
		expectError string
	}{
		{
			name:        "nil repository",
			users:       nil,
			hasher:      identity.NewArgon2idHasher(fastArgon2Params()),
			expectError: "user repository is required",
		},
		{
			name:        "nil hasher",
			users:       memory.NewRepository(),
			hasher:      nil,
			expectError: "password hasher is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := identity.NewService(tt.users, tt.hasher)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestService_AssertEmailUnicity(t *testing.T) {
	ctx := context.Background()
	email, err := identity.ParseEmail("myemail@gmail.com")
	require.NoError(t, err)

	t.Run("passes when no user holds the address", func(t *testing.T) {
		svc, err := identity.NewService(&stubRepo{findErr: identity.ErrNotFound}, &stubHasher{})
		require.NoError(t, err)
		assert.NoError(t, svc.AssertEmailUnicity(ctx, email))
	})

	t.Run("fails with ErrEmailTaken when a user exists", func(t *testing.T) {
		svc, err := identity.NewService(&stubRepo{findUser: &identity.User{}}, &stubHasher{})
		require.NoError(t, err)
		err = svc.AssertEmailUnicity(ctx, email)
		require.Error(t, err)
		assert.ErrorIs(t, err, identity.ErrEmailTaken)
	})

	t.Run("propagates repository failures as infrastructure", func(t *testing.T) {
		svc, err := identity.NewService(&stubRepo{findErr: errors.New("connection refused")}, &stubHasher{})
		require.NoError(t, err)
		err = svc.AssertEmailUnicity(ctx, email)
		require.Error(t, err)
		assert.NotErrorIs(t, err, identity.ErrEmailTaken)
		assert.NotErrorIs(t, err, identity.ErrNotFound)
	})
}

func TestService_HashPlainPassword(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepo{findErr: identity.ErrNotFound}

	t.Run("returns the derived hash", func(t *testing.T) {
		svc, err := identity.NewService(repo, identity.NewArgon2idHasher(fastArgon2Params()))
		require.NoError(t, err)

		hash, err := svc.HashPlainPassword(ctx, mustPassword(t, "Passw0rd!"))
		require.NoError(t, err)
		assert.False(t, hash.IsZero())
	})

	t.Run("wraps hasher failures", func(t *testing.T) {
		svc, err := identity.NewService(repo, &stubHasher{err: errors.New("entropy exhausted")})
		require.NoError(t, err)

		_, err = svc.HashPlainPassword(ctx, mustPassword(t, "Passw0rd!"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entropy exhausted")
	})

	t.Run("respects context while waiting for a slot", func(t *testing.T) {
		svc, err := identity.NewService(repo, identity.NewArgon2idHasher(fastArgon2Params()))
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = svc.HashPlainPassword(cancelled, mustPassword(t, "Passw0rd!"))
		require.Error(t, err)
	})
}
