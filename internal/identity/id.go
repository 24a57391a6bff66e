// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity

import (
	"github.com/oklog/ulid/v2"
)

// AccountID uniquely identifies a user account. IDs are generated before
// validation so they pass through the same validation step as the other
// signup fields, and are immutable once assigned.
type AccountID struct {
	id ulid.ULID
}

// NewAccountID generates a fresh AccountID.
func NewAccountID() AccountID {
	return AccountID{id: ulid.Make()}
}

// ParseAccountID validates a pre-generated identifier token. Generation is
// assumed correct; this rejects empty or malformed tokens defensively.
func ParseAccountID(raw string) (AccountID, error) {
	id, err := ulid.Parse(raw)
	if err != nil {
		return AccountID{}, &ValidationError{Field: FieldID, Rule: RuleFormat}
	}
	if id.Compare(ulid.ULID{}) == 0 {
		return AccountID{}, &ValidationError{Field: FieldID, Rule: RuleFormat}
	}
	return AccountID{id: id}, nil
}

// String returns the canonical ULID encoding.
func (a AccountID) String() string {
	return a.id.String()
}

// IsZero reports whether the AccountID is the zero value.
func (a AccountID) IsZero() bool {
	return a.id.Compare(ulid.ULID{}) == 0
}
