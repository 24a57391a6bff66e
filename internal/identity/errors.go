// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when an email address is already registered.
// Repositories wrap it on a storage-level uniqueness conflict; the advisory
// check in Service wraps it when the address is visibly taken.
var ErrEmailTaken = errors.New("email already registered")

// Field names reported in validation failures and log events.
const (
	FieldID       = "id"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Validation rule identifiers. Password rules name the specific policy that
// failed so callers can build precise user-facing messages.
const (
	RuleFormat    = "format"
	RuleMinLength = "min_length"
	RuleUppercase = "uppercase"
	RuleLowercase = "lowercase"
	RuleDigit     = "digit"
	RuleSymbol    = "symbol"
)

// ValidationError reports a single failed rule for a named field. It never
// carries the offending value, so a rejected password cannot leak through
// error messages or logs.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Rule)
}

// AsValidation unwraps the ValidationError in err's chain, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
