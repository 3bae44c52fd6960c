package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError describes one failed rule.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects every failed rule of one Apply call.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the failed field names in first-seen order.
func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

// Rule is a single deferred check.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply runs every rule and returns ValidationErrors when any fails.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ExtractValidationErrors unwraps ValidationErrors from err, or returns nil.
func ExtractValidationErrors(err error) ValidationErrors {
	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}

func IsValidationError(err error) bool {
	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}
