// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package errutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func TestLogError(t *testing.T) {
	t.Run("plain error logs the message", func(t *testing.T) {
		logger, buf := captureLogger()

		LogError(logger, "operation failed", errors.New("boom"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "operation failed", record["msg"])
		assert.Equal(t, "ERROR", record["level"])
		assert.Equal(t, "boom", record["error"])
		assert.NotContains(t, record, "code")
	})

	t.Run("oops error logs code and context", func(t *testing.T) {
		logger, buf := captureLogger()

		err := oops.Code("USER_SAVE_FAILED").
			With("id", "abc").
			Wrap(errors.New("boom"))
		LogError(logger, "operation failed", err)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "USER_SAVE_FAILED", record["code"])
		ctx, ok := record["context"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "abc", ctx["id"])
	})
}

func TestLogWarn(t *testing.T) {
	logger, buf := captureLogger()

	LogWarn(logger, "rejected", oops.Code("IDENTITY_EMAIL_TAKEN").Errorf("taken"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "IDENTITY_EMAIL_TAKEN", record["code"])
}

func TestAssertHelpers(t *testing.T) {
	err := oops.Code("STORE_CONNECT_FAILED").With("addr", "localhost").Wrap(errors.New("refused"))

	AssertErrorCode(t, err, "STORE_CONNECT_FAILED")
	AssertErrorContext(t, err, "addr", "localhost")
}

type timeoutError struct{ op string }

func (e *timeoutError) Error() string { return e.op + " timed out" }

func TestAssertAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &timeoutError{op: "dial"})

	te := AssertAs[*timeoutError](t, wrapped)
	assert.Equal(t, "dial", te.op)
}
