// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/credentry/credentry/pkg/errutil"
)

// SignUp is the command carried by an untrusted signup submission.
type SignUp struct {
	Email    string
	Password string
}

// Pipeline stages, reported in log events and carried by infrastructure
// errors. A command moves through them strictly in order; the first failure
// is final and no later stage runs.
const (
	StageValidate           = "validate"
	StageAssertEmailUnicity = "assert_email_unicity"
	StageHashPassword       = "hash_password"
	StageConstructUser      = "construct_user"
	StageSaveUser           = "save_user"
)

// SignUpHandler drives a SignUp command through validation, the advisory
// uniqueness check, hashing, entity construction and persistence. Success
// persists exactly one User; failure at any stage leaves the user set
// untouched and is reported as a typed error, logged once with the stage
// that produced it.
type SignUpHandler struct {
	auth   *Service
	users  UserRepository
	logger *slog.Logger
	newID  func() string
}

// NewSignUpHandler creates a new SignUpHandler. A nil logger falls back to
// slog.Default.
func NewSignUpHandler(auth *Service, users UserRepository, logger *slog.Logger) (*SignUpHandler, error) {
	if auth == nil {
		return nil, oops.Errorf("authentication service is required")
	}
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SignUpHandler{
		auth:   auth,
		users:  users,
		logger: logger.With("command", "sign_up"),
		newID:  func() string { return ulid.Make().String() },
	}, nil
}

// Execute runs the signup pipeline for one command.
func (h *SignUpHandler) Execute(ctx context.Context, cmd SignUp) error {
	logger := h.logger.With("correlation_id", h.newID())

	// The identifier is generated up front so it is validated alongside the
	// caller-supplied fields.
	rawID := h.newID()

	var (
		id       AccountID
		email    Email
		password PlainPassword
	)
	err := RunValidations(
		Validation{Field: FieldID, Run: func() error {
			var err error
			id, err = ParseAccountID(rawID)
			return err
		}},
		Validation{Field: FieldEmail, Run: func() error {
			var err error
			email, err = ParseEmail(cmd.Email)
			return err
		}},
		Validation{Field: FieldPassword, Run: func() error {
			var err error
			password, err = ParsePlainPassword(cmd.Password)
			return err
		}},
	)
	if err != nil {
		if ve, ok := AsValidation(err); ok {
			logger.WarnContext(ctx, "sign up rejected",
				"stage", StageValidate,
				"field", ve.Field,
				"rule", ve.Rule,
			)
		}
		return err
	}

	if err := h.perform(ctx, logger, StageAssertEmailUnicity, func(ctx context.Context) error {
		return h.auth.AssertEmailUnicity(ctx, email)
	}); err != nil {
		return err
	}

	var hashed HashedPassword
	if err := h.perform(ctx, logger, StageHashPassword, func(ctx context.Context) error {
		var err error
		hashed, err = h.auth.HashPlainPassword(ctx, password)
		return err
	}); err != nil {
		return err
	}

	var user *User
	if err := h.perform(ctx, logger, StageConstructUser, func(context.Context) error {
		// Inputs were validated above, so a constructor failure here is an
		// internal invariant bug, not bad input.
		var err error
		user, err = NewUser(id, email, hashed)
		return err
	}); err != nil {
		return err
	}

	if err := h.perform(ctx, logger, StageSaveUser, func(ctx context.Context) error {
		return h.users.Save(ctx, user)
	}); err != nil {
		return err
	}

	logger.InfoContext(ctx, "sign up succeeded", "account_id", user.ID.String())
	return nil
}

// perform is the boundary adapter around repository and service calls. It
// converts panics and unrecognized errors into coded infrastructure errors
// carrying the originating stage, and emits exactly one log event per
// failure. Conflicts pass through typed so callers can map them.
func (h *SignUpHandler) perform(ctx context.Context, logger *slog.Logger, stage string, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = oops.Code("IDENTITY_INFRASTRUCTURE").
				With("stage", stage).
				Errorf("panic recovered: %v", r)
			errutil.LogError(logger, "sign up failed", err)
		}
	}()

	err = fn(ctx)
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrEmailTaken) {
		errutil.LogWarn(logger.With("stage", stage), "sign up conflict", err)
		return err
	}

	err = oops.Code("IDENTITY_INFRASTRUCTURE").
		With("stage", stage).
		Wrap(err)
	errutil.LogError(logger, "sign up failed", err)
	return err
}
