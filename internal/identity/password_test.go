// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credentry/credentry/internal/identity"
)

func TestParsePlainPassword(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantRule string
	}{
		{name: "valid", raw: "Passw0rd!", wantRule: ""},
		{name: "valid with unicode symbol", raw: "Passw0rd€", wantRule: ""},
		{name: "empty", raw: "", wantRule: identity.RuleMinLength},
		{name: "too short", raw: "Pw0!", wantRule: identity.RuleMinLength},
		{name: "no uppercase", raw: "passw0rd!", wantRule: identity.RuleUppercase},
		{name: "no lowercase", raw: "PASSW0RD!", wantRule: identity.RuleLowercase},
		{name: "no digit", raw: "Password!", wantRule: identity.RuleDigit},
		{name: "no symbol", raw: "Passw0rdX", wantRule: identity.RuleSymbol},
		{name: "all lowercase letters", raw: "toosimple", wantRule: identity.RuleUppercase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			password, err := identity.ParsePlainPassword(tt.raw)
			if tt.wantRule == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.raw, password.Reveal())
				return
			}
			require.Error(t, err)
			ve, ok := identity.AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, identity.FieldPassword, ve.Field)
			assert.Equal(t, tt.wantRule, ve.Rule)
			// The failure must never echo the submitted plaintext.
			assert.NotContains(t, err.Error(), tt.raw)
		})
	}
}

func TestPlainPassword_Redaction(t *testing.T) {
	password, err := identity.ParsePlainPassword("Passw0rd!")
	require.NoError(t, err)

	t.Run("Stringer redacts", func(t *testing.T) {
		assert.NotContains(t, fmt.Sprintf("%v %s", password, password), "Passw0rd!")
	})

	t.Run("slog attribute redacts", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		logger.Info("signup attempt", "password", password)

		assert.NotContains(t, buf.String(), "Passw0rd!")
		assert.Contains(t, buf.String(), "[REDACTED]")
	})
}
