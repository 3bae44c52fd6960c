package validator

import "errors"

// ErrValidationFailed is a generic validation failure for callers without field detail.
var ErrValidationFailed = errors.New("validation failed")
