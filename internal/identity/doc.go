// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

// Package identity implements the account-registration domain.
//
// # Value Objects
//
// Raw caller input only enters the domain through validating constructors:
//   - ParseAccountID - validates a pre-generated account identifier
//   - ParseEmail - validates an address against a conservative grammar
//   - ParsePlainPassword - enforces the password complexity policy
//   - ParseHashedPassword - checks the shape of a stored password hash
//
// Direct struct initialization is impossible from outside the package, so an
// invalid Email, PlainPassword or HashedPassword cannot exist. NewUser
// re-validates every field at construction time; a User holds only values
// that passed their constructors.
//
// # Services
//
// Service carries the domain-level signup policies: the advisory email
// uniqueness check and password hashing. SignUpHandler composes value-object
// validation, Service and a UserRepository into the end-to-end signup
// pipeline. Both are created with New* constructors that reject nil
// dependencies.
//
// The uniqueness guarantee itself belongs to UserRepository.Save: of N
// concurrent saves carrying the same email, exactly one succeeds and the
// rest fail with ErrEmailTaken.
package identity
