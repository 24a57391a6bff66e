// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity

import (
	"log/slog"
	"unicode"
)

// MinPasswordLength is the minimum accepted password length in bytes.
const MinPasswordLength = 8

// redactedPassword replaces the plaintext anywhere a PlainPassword is
// formatted or logged.
const redactedPassword = "[REDACTED]"

// PlainPassword is a caller-supplied password that satisfied the complexity
// policy: at least MinPasswordLength bytes with one uppercase letter, one
// lowercase letter, one digit and one symbol. It is never persisted, and its
// String and LogValue methods redact the plaintext.
type PlainPassword struct {
	secret string
}

// ParsePlainPassword validates raw against the complexity policy. The
// returned error names the first rule that failed and never echoes the
// submitted value.
func ParsePlainPassword(raw string) (PlainPassword, error) {
	if len(raw) < MinPasswordLength {
		return PlainPassword{}, &ValidationError{Field: FieldPassword, Rule: RuleMinLength}
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return PlainPassword{}, &ValidationError{Field: FieldPassword, Rule: RuleUppercase}
	case !hasLower:
		return PlainPassword{}, &ValidationError{Field: FieldPassword, Rule: RuleLowercase}
	case !hasDigit:
		return PlainPassword{}, &ValidationError{Field: FieldPassword, Rule: RuleDigit}
	case !hasSymbol:
		return PlainPassword{}, &ValidationError{Field: FieldPassword, Rule: RuleSymbol}
	}

	return PlainPassword{secret: raw}, nil
}

// Reveal returns the plaintext for hashing. Callers must not persist or log
// the returned value.
func (p PlainPassword) Reveal() string {
	return p.secret
}

// String implements fmt.Stringer with a redacted placeholder.
func (p PlainPassword) String() string {
	return redactedPassword
}

// LogValue implements slog.LogValuer so log records carry the placeholder
// even when a PlainPassword is passed as an attribute by mistake.
func (p PlainPassword) LogValue() slog.Value {
	return slog.StringValue(redactedPassword)
}

// IsZero reports whether the PlainPassword is the zero value.
func (p PlainPassword) IsZero() bool {
	return p.secret == ""
}
