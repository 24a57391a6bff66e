// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// HashedPassword is the opaque PHC-encoded output of the password hasher.
// Two hashes of the identical plaintext differ because every Hash call draws
// a fresh random salt.
type HashedPassword struct {
	encoded string
}

// ParseHashedPassword checks the PHC shape of a stored hash without
// recomputing it. It is the rehydration path for repositories and part of
// NewUser's construction-time re-validation.
func ParseHashedPassword(raw string) (HashedPassword, error) {
	if !strings.HasPrefix(raw, "$argon2id$") {
		return HashedPassword{}, oops.Code("IDENTITY_INVALID_HASH").Errorf("not an argon2id hash")
	}
	if len(strings.Split(raw, "$")) != 6 {
		return HashedPassword{}, oops.Code("IDENTITY_INVALID_HASH").Errorf("malformed PHC string")
	}
	return HashedPassword{encoded: raw}, nil
}

// String returns the PHC encoding. The encoding carries no plaintext.
func (h HashedPassword) String() string {
	return h.encoded
}

// IsZero reports whether the HashedPassword is the zero value.
func (h HashedPassword) IsZero() bool {
	return h.encoded == ""
}

// PasswordHasher produces and verifies salted one-way password hashes.
type PasswordHasher interface {
	// Hash derives a HashedPassword with a fresh random salt.
	Hash(password PlainPassword) (HashedPassword, error)

	// Verify checks the password against a stored hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or an error
	// for an undecodable hash.
	Verify(password PlainPassword, hash HashedPassword) (bool, error)
}

// Argon2Params tune the argon2id key derivation.
type Argon2Params struct {
	Time    uint32 // iterations
	Memory  uint32 // KiB
	Threads uint8
	SaltLen uint32 // bytes
	KeyLen  uint32 // bytes
}

// DefaultArgon2Params follow the OWASP recommendation for argon2id.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		SaltLen: 16,
		KeyLen:  32,
	}
}

// Argon2idHasher implements PasswordHasher using argon2id.
type Argon2idHasher struct {
	params Argon2Params
}

// NewArgon2idHasher creates a hasher with the given parameters. Zero params
// fall back to DefaultArgon2Params.
func NewArgon2idHasher(params Argon2Params) *Argon2idHasher {
	if params == (Argon2Params{}) {
		params = DefaultArgon2Params()
	}
	return &Argon2idHasher{params: params}
}

// Hash derives an argon2id hash of the password, PHC-encoded as
// $argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<key>.
func (h *Argon2idHasher) Hash(password PlainPassword) (HashedPassword, error) {
	if password.IsZero() {
		return HashedPassword{}, oops.Code("IDENTITY_EMPTY_PASSWORD").Errorf("password cannot be empty")
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return HashedPassword{}, oops.Code("IDENTITY_SALT_FAILED").Wrap(err)
	}

	key := argon2.IDKey([]byte(password.Reveal()), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return HashedPassword{encoded: encoded}, nil
}

// Verify recomputes the hash with the parameters encoded in the stored PHC
// string and compares in constant time.
func (h *Argon2idHasher) Verify(password PlainPassword, hash HashedPassword) (bool, error) {
	parts := strings.Split(hash.String(), "$")
	if len(parts) != 6 {
		return false, oops.Code("IDENTITY_INVALID_HASH").Errorf("malformed PHC string")
	}
	if parts[1] != "argon2id" {
		return false, oops.Code("IDENTITY_INVALID_HASH").Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, oops.Code("IDENTITY_INVALID_HASH").Wrap(err)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, oops.Code("IDENTITY_INVALID_HASH").Wrap(err)
	}
	if threads > 255 {
		return false, oops.Code("IDENTITY_INVALID_HASH").Errorf("threads value %d exceeds uint8 max", threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, oops.Code("IDENTITY_INVALID_HASH").Wrap(err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, oops.Code("IDENTITY_INVALID_HASH").Wrap(err)
	}
	keyLen := len(expected)
	if keyLen <= 0 || keyLen > 1<<30 {
		return false, oops.Code("IDENTITY_INVALID_HASH").Errorf("invalid hash key length: %d", keyLen)
	}

	computed := argon2.IDKey([]byte(password.Reveal()), salt, time, memory, uint8(threads), uint32(keyLen))

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

// Compile-time interface check.
var _ PasswordHasher = (*Argon2idHasher)(nil)
