// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package identity

// A Validation binds a field name to a fallible check. Checks are
// independent: no field's validation reads another field's value, so the
// only ordering that matters is the order in which failures are reported.
type Validation struct {
	Field string
	Run   func() error
}

// RunValidations executes validations in argument order and stops at the
// first failure, which keeps the reported error deterministic when several
// fields are invalid at once. The signup pipeline passes id, email, password
// in that fixed order.
func RunValidations(validations ...Validation) error {
	for _, v := range validations {
		if err := v.Run(); err != nil {
			if ve, ok := AsValidation(err); ok {
				return ve
			}
			return &ValidationError{Field: v.Field, Rule: RuleFormat}
		}
	}
	return nil
}
