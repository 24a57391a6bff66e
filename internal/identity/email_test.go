// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credentry/credentry/internal/identity"
)

func TestParseEmail(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "plain address", raw: "myemail@gmail.com", wantErr: false},
		{name: "subdomain", raw: "a@mail.example.org", wantErr: false},
		{name: "plus tag", raw: "user+tag@example.com", wantErr: false},
		{name: "empty", raw: "", wantErr: true},
		{name: "no at sign", raw: "myemail", wantErr: true},
		{name: "no domain dot", raw: "myemail@gmail", wantErr: true},
		{name: "missing local part", raw: "@example.com", wantErr: true},
		{name: "missing domain", raw: "user@", wantErr: true},
		{name: "embedded space", raw: "my email@example.com", wantErr: true},
		{name: "two at signs", raw: "a@b@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := identity.ParseEmail(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				ve, ok := identity.AsValidation(err)
				require.True(t, ok)
				assert.Equal(t, identity.FieldEmail, ve.Field)
				assert.Equal(t, identity.RuleFormat, ve.Rule)
				assert.True(t, email.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, email.String())
		})
	}
}

func TestEmail_ExactStringIdentity(t *testing.T) {
	lower, err := identity.ParseEmail("myemail@gmail.com")
	require.NoError(t, err)
	mixed, err := identity.ParseEmail("MyEmail@gmail.com")
	require.NoError(t, err)

	// No case folding or normalization: the two addresses are distinct.
	assert.False(t, lower.Equal(mixed))
	assert.Equal(t, "MyEmail@gmail.com", mixed.String())
}
