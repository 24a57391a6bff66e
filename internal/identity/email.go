// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity

import (
	"regexp"
)

// emailRegex matches a conservative address shape: a local part, '@', and a
// domain containing at least one dot. It deliberately rejects exotic but
// technically legal addresses (quoted local parts, dotless domains).
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email is a validated email address. Identity is exact-string: no case
// folding or Unicode normalization is applied, so two addresses differing
// only in case are distinct accounts.
type Email struct {
	addr string
}

// ParseEmail is the sole path from an unverified caller-supplied string to
// an Email.
func ParseEmail(raw string) (Email, error) {
	if !emailRegex.MatchString(raw) {
		return Email{}, &ValidationError{Field: FieldEmail, Rule: RuleFormat}
	}
	return Email{addr: raw}, nil
}

// String returns the address exactly as it was submitted.
func (e Email) String() string {
	return e.addr
}

// Equal reports exact-string equality with other.
func (e Email) Equal(other Email) bool {
	return e.addr == other.addr
}

// IsZero reports whether the Email is the zero value.
func (e Email) IsZero() bool {
	return e.addr == ""
}
