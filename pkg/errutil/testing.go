// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package errutil

import (
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
)

// AssertAs fails the test unless err carries a T in its chain, and returns
// the match so callers can assert on its fields.
func AssertAs[T error](t testing.TB, err error) T {
	t.Helper()
	var target T
	if !errors.As(err, &target) {
		t.Fatalf("expected %T in error chain, got: %v", target, err)
	}
	return target
}

// AssertErrorCode asserts that err is a coded error with the given code.
func AssertErrorCode(t testing.TB, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		t.Fatalf("expected coded error, got %T: %v", err, err)
	}
	assert.Equal(t, code, oopsErr.Code(), "error code")
}

// AssertErrorContext asserts that err is a coded error carrying the given
// context key/value pair.
func AssertErrorContext(t testing.TB, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		t.Fatalf("expected coded error, got %T: %v", err, err)
	}
	ctx := oopsErr.Context()
	got, present := ctx[key]
	if !present {
		t.Fatalf("error context missing key %q, have: %v", key, ctx)
	}
	assert.Equal(t, value, got, "context value for %q", key)
}
